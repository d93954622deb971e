package sim

import "time"

// Sale is one committed transaction. Immutable once created; its items are
// appended right after creation and never modified.
type Sale struct {
	ID          int64
	SaleDate    time.Time // virtual clock time, not wall time
	TotalAmount int64
}

// SaleItem is one line of a sale. UnitPrice is denormalized so the line
// survives any future catalog repricing.
type SaleItem struct {
	ID         int64
	SaleID     int64
	ProductID  int64
	Quantity   int
	UnitPrice  int64
	TotalPrice int64
}

// WaitingOrderStatus is the lifecycle state of a backlogged order.
type WaitingOrderStatus string

const (
	OrderWaiting   WaitingOrderStatus = "waiting"
	OrderProcessed WaitingOrderStatus = "processed"
)

// WaitingOrder is a promise of a future sale, created when a customer
// request could not be satisfied from store stock. A waiting order carries
// no price; pricing happens when the backlog is replayed.
type WaitingOrder struct {
	ID              int64
	ProductID       int64
	Quantity        int
	RequestDate     time.Time // virtual clock time; FIFO replay order
	Status          WaitingOrderStatus
	ProcessedDate   *time.Time
	ProcessedSaleID *int64
}
