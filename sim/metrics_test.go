package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsFromEvents(t *testing.T) {
	hub := NewHub()
	m := NewMetrics(hub)

	// two walk-in sales, one backlogged failure, one replay pair
	hub.EmitSaleCompleted(1, 1200)
	hub.EmitSaleCompleted(2, 800)
	hub.EmitSaleFailed(1, 3, ReasonBacklogged)
	hub.EmitWaitingOrderProcessed(1, 3, true)
	hub.EmitSaleCompleted(3, 3600)
	hub.EmitWaitingOrderProcessed(2, 1, false)
	hub.EmitLowStock(Product{ID: 1})
	hub.EmitStockTransferred(1, 4, 5)

	assert.Equal(t, 3, m.CompletedSales)
	assert.Equal(t, int64(5600), m.Revenue)
	assert.Equal(t, 1, m.FailedSales)
	assert.Equal(t, 1, m.BackloggedOrders)
	assert.Equal(t, 1, m.ReplayedOrders)
	assert.Equal(t, 1, m.LowStockAlerts)
	assert.Equal(t, 1, m.StockTransfers)

	// a replayed sale is not a fresh arrival: 3 completed + 1 failed - 1 replayed
	assert.Equal(t, 3, m.Arrivals())
}

func TestMetrics_NonBackloggedFailure(t *testing.T) {
	hub := NewHub()
	m := NewMetrics(hub)

	hub.EmitSaleFailed(9, 1, ReasonUnknownProduct)

	assert.Equal(t, 1, m.FailedSales)
	assert.Zero(t, m.BackloggedOrders)
}
