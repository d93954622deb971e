// Package memstore implements the engine's Repository contract in memory.
// It is the default backend and the test double for the engines.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/retail-sim/retail-sim/sim"
)

var _ sim.Repository = (*Store)(nil)

// Store holds all simulation state in process memory. Ids are allocated
// sequentially per table, mirroring the auto-increment keys of the
// relational schema.
//
// Not safe for concurrent use; the engine is single-threaded.
type Store struct {
	products  map[int64]*sim.Product
	sales     map[int64]*sim.Sale
	saleItems []sim.SaleItem
	orders    []*sim.WaitingOrder

	nextSaleID  int64
	nextItemID  int64
	nextOrderID int64
}

// New creates an empty store.
func New() *Store {
	return &Store{
		products:    make(map[int64]*sim.Product),
		sales:       make(map[int64]*sim.Sale),
		nextSaleID:  1,
		nextItemID:  1,
		nextOrderID: 1,
	}
}

// SeedProducts replaces the catalog.
func (s *Store) SeedProducts(_ context.Context, products []sim.Product) error {
	s.products = make(map[int64]*sim.Product, len(products))
	for _, p := range products {
		cp := p
		s.products[p.ID] = &cp
	}
	return nil
}

// ListProducts returns the catalog ordered by id.
func (s *Store) ListProducts(context.Context) ([]sim.Product, error) {
	out := make([]sim.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (sim.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return sim.Product{}, fmt.Errorf("product %d: %w", id, sim.ErrNotFound)
	}
	return *p, nil
}

func (s *Store) UpdateInventory(_ context.Context, id int64, storeQty, warehouseQty int) error {
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, sim.ErrNotFound)
	}
	p.StoreQty = storeQty
	p.WarehouseQty = warehouseQty
	return nil
}

func (s *Store) CreateSale(_ context.Context, totalAmount int64, at time.Time) (int64, error) {
	id := s.nextSaleID
	s.nextSaleID++
	s.sales[id] = &sim.Sale{ID: id, SaleDate: at, TotalAmount: totalAmount}
	return id, nil
}

func (s *Store) AppendSaleItem(_ context.Context, item sim.SaleItem) error {
	if _, ok := s.sales[item.SaleID]; !ok {
		return fmt.Errorf("sale %d: %w", item.SaleID, sim.ErrNotFound)
	}
	item.ID = s.nextItemID
	s.nextItemID++
	s.saleItems = append(s.saleItems, item)
	return nil
}

func (s *Store) ListSaleItems(_ context.Context, saleID int64) ([]sim.SaleItem, error) {
	var out []sim.SaleItem
	for _, item := range s.saleItems {
		if item.SaleID == saleID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *Store) ListSales(context.Context) ([]sim.Sale, error) {
	out := make([]sim.Sale, 0, len(s.sales))
	for _, sale := range s.sales {
		out = append(out, *sale)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) CreateWaitingOrder(_ context.Context, productID int64, qty int, at time.Time) (int64, error) {
	id := s.nextOrderID
	s.nextOrderID++
	s.orders = append(s.orders, &sim.WaitingOrder{
		ID:          id,
		ProductID:   productID,
		Quantity:    qty,
		RequestDate: at,
		Status:      sim.OrderWaiting,
	})
	return id, nil
}

// ListWaitingOrders returns waiting-state orders by request timestamp
// ascending, id as tie-break for orders created on the same minute.
func (s *Store) ListWaitingOrders(context.Context) ([]sim.WaitingOrder, error) {
	var out []sim.WaitingOrder
	for _, o := range s.orders {
		if o.Status == sim.OrderWaiting {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestDate.Equal(out[j].RequestDate) {
			return out[i].RequestDate.Before(out[j].RequestDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *Store) MarkWaitingOrderProcessed(_ context.Context, orderID, saleID int64, at time.Time) error {
	for _, o := range s.orders {
		if o.ID != orderID {
			continue
		}
		if o.Status == sim.OrderProcessed {
			return nil
		}
		o.Status = sim.OrderProcessed
		processedAt := at
		o.ProcessedDate = &processedAt
		processedSale := saleID
		o.ProcessedSaleID = &processedSale
		return nil
	}
	return fmt.Errorf("waiting order %d: %w", orderID, sim.ErrNotFound)
}

func (s *Store) ClearWaitingOrders(context.Context) error {
	s.orders = nil
	s.nextOrderID = 1
	return nil
}

func (s *Store) ClearSales(context.Context) error {
	s.sales = make(map[int64]*sim.Sale)
	s.nextSaleID = 1
	return nil
}

func (s *Store) ClearSaleItems(context.Context) error {
	s.saleItems = nil
	s.nextItemID = 1
	return nil
}
