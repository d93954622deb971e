package sim

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by repository lookups for ids that do not exist.
var ErrNotFound = errors.New("not found")

// Repository is the persistence capability the engine calls into. Each
// operation is atomic in isolation; the engine does NOT assume
// multi-statement transactions and keeps its invariants by ordering its
// read-modify-write sequences itself.
//
// Implementations: memstore (in-memory, default and test double) and
// pgstore (PostgreSQL over pgx).
type Repository interface {
	// ListProducts returns the full catalog in stable order by id.
	ListProducts(ctx context.Context) ([]Product, error)
	// GetProduct returns ErrNotFound for unknown ids.
	GetProduct(ctx context.Context, id int64) (Product, error)
	// UpdateInventory overwrites both counters atomically for one product.
	UpdateInventory(ctx context.Context, id int64, storeQty, warehouseQty int) error
	// SeedProducts replaces the catalog. Used at bootstrap only.
	SeedProducts(ctx context.Context, products []Product) error

	// CreateSale allocates a sale id. The sale is empty until items are
	// appended. The timestamp is the virtual clock time of the sale.
	CreateSale(ctx context.Context, totalAmount int64, at time.Time) (int64, error)
	AppendSaleItem(ctx context.Context, item SaleItem) error
	ListSaleItems(ctx context.Context, saleID int64) ([]SaleItem, error)
	ListSales(ctx context.Context) ([]Sale, error)

	// CreateWaitingOrder registers a backlogged request with status
	// "waiting" and the given virtual request timestamp.
	CreateWaitingOrder(ctx context.Context, productID int64, qty int, at time.Time) (int64, error)
	// ListWaitingOrders returns orders still in "waiting" state, ordered
	// by request timestamp ascending (id as tie-break).
	ListWaitingOrders(ctx context.Context) ([]WaitingOrder, error)
	// MarkWaitingOrderProcessed transitions an order to "processed",
	// recording the satisfying sale and timestamp. It is idempotent:
	// marking an already-processed order is a no-op, not an error.
	// Unknown ids return ErrNotFound.
	MarkWaitingOrderProcessed(ctx context.Context, orderID, saleID int64, at time.Time) error

	// Bulk truncation, used only at simulation startup.
	ClearWaitingOrders(ctx context.Context) error
	ClearSales(ctx context.Context) error
	ClearSaleItems(ctx context.Context) error
}
