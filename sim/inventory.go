package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrInsufficientStock means the requested quantity exceeds what the
// operation is allowed to draw. For ordinary sales that is the store tier
// alone; for backlog replay it is both tiers combined.
var ErrInsufficientStock = errors.New("insufficient stock")

// BacklogReplayer is the capability the inventory engine invokes
// synchronously after a headquarters delivery lands. The sales engine
// implements it; the driver wires the two together so neither depends on
// the other's concrete type.
type BacklogReplayer interface {
	ReplayBacklog(ctx context.Context) (int, error)
}

// InventoryEngine applies the scheduled stock movements and the
// sale-driven decrement. It owns the warehouse tier: nothing outside this
// engine writes inventory counters.
type InventoryEngine struct {
	repo     Repository
	hub      *Hub
	replayer BacklogReplayer
}

// NewInventoryEngine creates an inventory engine over the given repository.
// The backlog replayer is injected later via SetBacklogReplayer.
func NewInventoryEngine(repo Repository, hub *Hub) *InventoryEngine {
	return &InventoryEngine{repo: repo, hub: hub}
}

// SetBacklogReplayer wires the sales engine's replay capability in.
func (e *InventoryEngine) SetBacklogReplayer(r BacklogReplayer) {
	e.replayer = r
}

// Products returns the full catalog.
func (e *InventoryEngine) Products(ctx context.Context) ([]Product, error) {
	return e.repo.ListProducts(ctx)
}

// Product returns one catalog entry.
func (e *InventoryEngine) Product(ctx context.Context, id int64) (Product, error) {
	return e.repo.GetProduct(ctx, id)
}

// ReplenishStore tops the store tier of every product up towards
// StoreTarget from its warehouse tier. Products already at target or with
// an empty warehouse are skipped. One stock-transferred event fires per
// product that moved, then a single inventory-changed snapshot if anything
// moved at all.
func (e *InventoryEngine) ReplenishStore(ctx context.Context) error {
	products, err := e.repo.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	moved := false
	for _, p := range products {
		if p.StoreQty >= StoreTarget || p.WarehouseQty == 0 {
			continue
		}
		transfer := min(StoreTarget-p.StoreQty, p.WarehouseQty)
		newStore := p.StoreQty + transfer
		newWarehouse := p.WarehouseQty - transfer
		if err := e.repo.UpdateInventory(ctx, p.ID, newStore, newWarehouse); err != nil {
			logrus.Errorf("replenish product %d: %v", p.ID, err)
			continue
		}
		e.hub.EmitStockTransferred(p.ID, transfer, newStore)
		moved = true
	}

	if moved {
		e.emitInventoryChanged(ctx)
	}
	return nil
}

// ReceiveHQDelivery credits every product's warehouse with the base
// delivery plus the summed quantity of its waiting orders. The store tier
// is untouched. The supplement guarantees one delivery cycle is enough to
// clear the backlog, so it cannot grow without bound. After the update the
// injected BacklogReplayer runs synchronously; the count of orders it
// processed is returned.
func (e *InventoryEngine) ReceiveHQDelivery(ctx context.Context) (int, error) {
	products, err := e.repo.ListProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	demand := make(map[int64]int)
	waiting, err := e.repo.ListWaitingOrders(ctx)
	if err != nil {
		// Deliver the base amounts anyway; the next cycle picks the
		// supplement up.
		logrus.Errorf("list waiting orders for delivery supplement: %v", err)
	} else {
		for _, w := range waiting {
			demand[w.ProductID] += w.Quantity
		}
	}

	for _, p := range products {
		add := HQBaseDelivery + demand[p.ID]
		if err := e.repo.UpdateInventory(ctx, p.ID, p.StoreQty, p.WarehouseQty+add); err != nil {
			logrus.Errorf("deliver to product %d: %v", p.ID, err)
		}
	}

	e.emitInventoryChanged(ctx)

	if e.replayer == nil {
		return 0, nil
	}
	return e.replayer.ReplayBacklog(ctx)
}

// DeductForSale decrements the store tier for an ordinary customer sale.
// The warehouse must never satisfy a walk-in sale; it stays a buffer for
// the next scheduled transfer. On insufficient store stock the call fails
// with ErrInsufficientStock and no side effects.
func (e *InventoryEngine) DeductForSale(ctx context.Context, productID int64, qty int) error {
	p, err := e.repo.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product %d: %w", productID, err)
	}
	if p.StoreQty < qty {
		return ErrInsufficientStock
	}

	newStore := p.StoreQty - qty
	if err := e.repo.UpdateInventory(ctx, productID, newStore, p.WarehouseQty); err != nil {
		return fmt.Errorf("update inventory %d: %w", productID, err)
	}

	e.emitInventoryChanged(ctx)
	if newStore < LowStockThreshold {
		p.StoreQty = newStore
		e.hub.EmitLowStock(p)
	}
	return nil
}

// DrainForBacklog satisfies a backlogged order from the store tier first
// and the warehouse for the remainder. Replay is the only moment the
// warehouse may directly back a sale. Fails with ErrInsufficientStock and
// no side effects when both tiers combined fall short.
func (e *InventoryEngine) DrainForBacklog(ctx context.Context, productID int64, qty int) error {
	p, err := e.repo.GetProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product %d: %w", productID, err)
	}
	if p.StoreQty+p.WarehouseQty < qty {
		return ErrInsufficientStock
	}

	fromStore := min(p.StoreQty, qty)
	newStore := p.StoreQty - fromStore
	newWarehouse := p.WarehouseQty - (qty - fromStore)
	if err := e.repo.UpdateInventory(ctx, productID, newStore, newWarehouse); err != nil {
		return fmt.Errorf("update inventory %d: %w", productID, err)
	}

	e.emitInventoryChanged(ctx)
	return nil
}

// emitInventoryChanged fires one snapshot event with the current catalog.
func (e *InventoryEngine) emitInventoryChanged(ctx context.Context) {
	products, err := e.repo.ListProducts(ctx)
	if err != nil {
		logrus.Errorf("snapshot products for inventory-changed: %v", err)
		return
	}
	e.hub.EmitInventoryChanged(products)
}
