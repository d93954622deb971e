package memstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail-sim/retail-sim/sim"
)

var ctx = context.Background()

func seeded(t *testing.T) *Store {
	t.Helper()
	s := New()
	require.NoError(t, s.SeedProducts(ctx, []sim.Product{
		{ID: 2, Name: "B", Price: 200, StoreQty: 5, WarehouseQty: 10},
		{ID: 1, Name: "A", Price: 100, StoreQty: 3, WarehouseQty: 7},
	}))
	return s
}

func TestSeedProducts_ReplacesCatalog(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.SeedProducts(ctx, []sim.Product{
		{ID: 9, Name: "C", Price: 50, StoreQty: 1, WarehouseQty: 1},
	}))

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, int64(9), products[0].ID)
}

func TestListProducts_OrderedByID(t *testing.T) {
	s := seeded(t)
	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(2), products[1].ID)
}

func TestGetProduct_NotFound(t *testing.T) {
	s := seeded(t)
	_, err := s.GetProduct(ctx, 999)
	assert.ErrorIs(t, err, sim.ErrNotFound)
}

func TestUpdateInventory(t *testing.T) {
	s := seeded(t)
	require.NoError(t, s.UpdateInventory(ctx, 1, 0, 12))

	p, err := s.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, p.StoreQty)
	assert.Equal(t, 12, p.WarehouseQty)

	assert.ErrorIs(t, s.UpdateInventory(ctx, 999, 1, 1), sim.ErrNotFound)
}

func TestSaleItems_RequireExistingSale(t *testing.T) {
	s := New()
	err := s.AppendSaleItem(ctx, sim.SaleItem{SaleID: 1, ProductID: 1, Quantity: 1})
	assert.ErrorIs(t, err, sim.ErrNotFound)

	saleID, err := s.CreateSale(ctx, 300, time.Now())
	require.NoError(t, err)
	require.NoError(t, s.AppendSaleItem(ctx, sim.SaleItem{SaleID: saleID, ProductID: 1, Quantity: 3, UnitPrice: 100, TotalPrice: 300}))

	items, err := s.ListSaleItems(ctx, saleID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0].ID)
}

func TestListWaitingOrders_FIFOWithIDTieBreak(t *testing.T) {
	s := New()
	earlier := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	later := earlier.Add(5 * time.Minute)

	// inserted out of chronological order on purpose
	_, err := s.CreateWaitingOrder(ctx, 1, 1, later)
	require.NoError(t, err)
	_, err = s.CreateWaitingOrder(ctx, 2, 1, earlier)
	require.NoError(t, err)
	_, err = s.CreateWaitingOrder(ctx, 3, 1, earlier)
	require.NoError(t, err)

	orders, err := s.ListWaitingOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(2), orders[0].ProductID, "earliest timestamp first")
	assert.Equal(t, int64(3), orders[1].ProductID, "same timestamp breaks ties by id")
	assert.Equal(t, int64(1), orders[2].ProductID)
}

func TestMarkWaitingOrderProcessed(t *testing.T) {
	s := New()
	at := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	orderID, err := s.CreateWaitingOrder(ctx, 1, 2, at)
	require.NoError(t, err)

	processedAt := at.Add(time.Hour)
	require.NoError(t, s.MarkWaitingOrderProcessed(ctx, orderID, 7, processedAt))

	// processed orders drop out of the waiting list
	orders, err := s.ListWaitingOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	// marking again is a no-op, marking a missing order is an error
	assert.NoError(t, s.MarkWaitingOrderProcessed(ctx, orderID, 8, processedAt))
	assert.ErrorIs(t, s.MarkWaitingOrderProcessed(ctx, 999, 7, processedAt), sim.ErrNotFound)
}

func TestClears_ResetIDCounters(t *testing.T) {
	s := New()
	at := time.Now()

	saleID, err := s.CreateSale(ctx, 100, at)
	require.NoError(t, err)
	require.NoError(t, s.AppendSaleItem(ctx, sim.SaleItem{SaleID: saleID, ProductID: 1, Quantity: 1}))
	_, err = s.CreateWaitingOrder(ctx, 1, 1, at)
	require.NoError(t, err)

	require.NoError(t, s.ClearWaitingOrders(ctx))
	require.NoError(t, s.ClearSaleItems(ctx))
	require.NoError(t, s.ClearSales(ctx))

	saleID, err = s.CreateSale(ctx, 100, at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), saleID, "id allocation restarts after a clear")

	orderID, err := s.CreateWaitingOrder(ctx, 1, 1, at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), orderID)

	sales, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}
