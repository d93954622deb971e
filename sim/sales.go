package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Failure reasons carried by sale-failed events.
const (
	ReasonUnknownProduct = "unknown-product"
	ReasonBacklogged     = "backlogged"
	ReasonRepository     = "repository-error"
)

// ErrUnknownProduct means a purchase referenced a product not in the
// catalog. Never retried.
var ErrUnknownProduct = errors.New("unknown product")

// ErrBacklogged means the request could not be satisfied from store stock
// and was registered as a waiting order. Expected, not exceptional.
var ErrBacklogged = errors.New("registered as waiting order")

// SalesEngine classifies purchase requests as sale-now versus
// waiting-order and replays the backlog against new stock. It satisfies
// the BacklogReplayer capability the inventory engine depends on.
type SalesEngine struct {
	repo      Repository
	inventory *InventoryEngine
	hub       *Hub
	now       func() time.Time // virtual clock source
}

var _ BacklogReplayer = (*SalesEngine)(nil)

// NewSalesEngine creates a sales engine. now supplies the virtual clock
// time used for sale and waiting-order timestamps (typically Clock.Now).
func NewSalesEngine(repo Repository, inventory *InventoryEngine, hub *Hub, now func() time.Time) *SalesEngine {
	return &SalesEngine{repo: repo, inventory: inventory, hub: hub, now: now}
}

// ProcessSale attempts to sell qty units of a product from store stock.
// On success it returns the new sale id. An unknown product returns
// ErrUnknownProduct; insufficient store stock registers a waiting order
// and returns ErrBacklogged. The waiting order carries only product and
// quantity; pricing happens at replay time.
func (s *SalesEngine) ProcessSale(ctx context.Context, productID int64, qty int) (int64, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.hub.EmitSaleFailed(productID, qty, ReasonUnknownProduct)
			return 0, ErrUnknownProduct
		}
		s.hub.EmitSaleFailed(productID, qty, ReasonRepository)
		return 0, fmt.Errorf("get product %d: %w", productID, err)
	}

	if err := s.inventory.DeductForSale(ctx, productID, qty); err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			return 0, s.registerWaitingOrder(ctx, productID, qty)
		}
		s.hub.EmitSaleFailed(productID, qty, ReasonRepository)
		return 0, err
	}

	return s.completeSale(ctx, productID, qty, p.Price)
}

// ReplayBacklog scans waiting orders in request-timestamp order and
// attempts to satisfy each from current stock. Store stock alone is
// preferred; when it falls short the warehouse covers the remainder in one
// combined drain. Orders that cannot be satisfied stay in waiting state.
// Strict FIFO: an older order may consume the stock a younger order for
// the same product needed on the same scan. Returns the count of orders
// processed.
func (s *SalesEngine) ReplayBacklog(ctx context.Context) (int, error) {
	orders, err := s.repo.ListWaitingOrders(ctx)
	if err != nil {
		return 0, fmt.Errorf("list waiting orders: %w", err)
	}

	processed := 0
	for _, order := range orders {
		p, err := s.repo.GetProduct(ctx, order.ProductID)
		if err != nil {
			logrus.Errorf("replay order %d: get product %d: %v", order.ID, order.ProductID, err)
			continue
		}

		switch {
		case p.StoreQty >= order.Quantity:
			err = s.inventory.DeductForSale(ctx, order.ProductID, order.Quantity)
		case p.StoreQty+p.WarehouseQty >= order.Quantity:
			err = s.inventory.DrainForBacklog(ctx, order.ProductID, order.Quantity)
		default:
			s.hub.EmitWaitingOrderProcessed(order.ProductID, order.Quantity, false)
			continue
		}
		if err != nil {
			logrus.Errorf("replay order %d: %v", order.ID, err)
			continue
		}

		// Priced at the current catalog price, not the price at request
		// time; waiting orders store no price.
		saleID, err := s.completeSale(ctx, order.ProductID, order.Quantity, p.Price)
		if err != nil {
			continue
		}
		if err := s.repo.MarkWaitingOrderProcessed(ctx, order.ID, saleID, s.now()); err != nil {
			logrus.Errorf("mark order %d processed: %v", order.ID, err)
		}
		s.hub.EmitWaitingOrderProcessed(order.ProductID, order.Quantity, true)
		processed++
	}

	return processed, nil
}

// WaitingOrders returns the current backlog in replay order.
func (s *SalesEngine) WaitingOrders(ctx context.Context) ([]WaitingOrder, error) {
	return s.repo.ListWaitingOrders(ctx)
}

// SaleItems returns the line items of one sale.
func (s *SalesEngine) SaleItems(ctx context.Context, saleID int64) ([]SaleItem, error) {
	return s.repo.ListSaleItems(ctx, saleID)
}

// ResetTransactions truncates the waiting-order and sales tables. Called
// once at simulation startup; the product catalog is left alone.
func (s *SalesEngine) ResetTransactions(ctx context.Context) error {
	if err := s.repo.ClearWaitingOrders(ctx); err != nil {
		return fmt.Errorf("clear waiting orders: %w", err)
	}
	if err := s.repo.ClearSaleItems(ctx); err != nil {
		return fmt.Errorf("clear sale items: %w", err)
	}
	if err := s.repo.ClearSales(ctx); err != nil {
		return fmt.Errorf("clear sales: %w", err)
	}
	return nil
}

// completeSale writes the sale row and its single line item, then emits
// sale-completed. If the item append fails after the sale row was created,
// the orphan sale is tolerated; there is no compensating delete.
func (s *SalesEngine) completeSale(ctx context.Context, productID int64, qty int, unitPrice int64) (int64, error) {
	total := int64(qty) * unitPrice
	saleID, err := s.repo.CreateSale(ctx, total, s.now())
	if err != nil {
		s.hub.EmitSaleFailed(productID, qty, ReasonRepository)
		return 0, fmt.Errorf("create sale: %w", err)
	}

	item := SaleItem{
		SaleID:     saleID,
		ProductID:  productID,
		Quantity:   qty,
		UnitPrice:  unitPrice,
		TotalPrice: total,
	}
	if err := s.repo.AppendSaleItem(ctx, item); err != nil {
		s.hub.EmitSaleFailed(productID, qty, ReasonRepository)
		return 0, fmt.Errorf("append sale item: %w", err)
	}

	s.hub.EmitSaleCompleted(saleID, total)
	return saleID, nil
}

// registerWaitingOrder records the failed request as a promise of a future
// sale and reports the failure as backlogged.
func (s *SalesEngine) registerWaitingOrder(ctx context.Context, productID int64, qty int) error {
	if _, err := s.repo.CreateWaitingOrder(ctx, productID, qty, s.now()); err != nil {
		s.hub.EmitSaleFailed(productID, qty, ReasonRepository)
		return fmt.Errorf("create waiting order: %w", err)
	}
	s.hub.EmitSaleFailed(productID, qty, ReasonBacklogged)
	return ErrBacklogged
}
