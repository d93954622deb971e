package sim

// Product is one catalog entry with its two inventory tiers. The store tier
// is the only tier ordinary customer sales may draw from; the warehouse tier
// is the back-of-house buffer filled by headquarters deliveries.
type Product struct {
	ID           int64
	Name         string
	Manufacturer string
	Price        int64 // unit price in minor currency units
	StoreQty     int
	WarehouseQty int
}

// StockState classifies a product for dashboard consumers based on its
// two counters. The thresholds are the same ones the hourly replenishment
// works against.
type StockState string

const (
	StockSellable      StockState = "sellable"
	StockLow           StockState = "low"
	StockNeedsTransfer StockState = "needs-transfer"
	StockOut           StockState = "out-of-stock"
)

// State returns the display classification for the product.
func (p Product) State() StockState {
	switch {
	case p.StoreQty > StoreTarget:
		return StockSellable
	case p.StoreQty > 0:
		return StockLow
	case p.WarehouseQty > 0:
		return StockNeedsTransfer
	default:
		return StockOut
	}
}
