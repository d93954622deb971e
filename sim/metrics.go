// Tracks run-wide counters about the simulated store for final reporting.

package sim

import "fmt"

// Metrics aggregates statistics about one simulation run. It feeds off the
// hub's event surface rather than the engines directly, so it doubles as a
// consumer exercising every sale-related event type.
type Metrics struct {
	CompletedSales   int   // sales committed (walk-in and replayed)
	Revenue          int64 // sum of sale totals, minor currency units
	FailedSales      int   // sale-failed events of any reason
	BackloggedOrders int   // failures that became waiting orders
	ReplayedOrders   int   // waiting orders satisfied by a replay
	LowStockAlerts   int   // low-stock events
	StockTransfers   int   // warehouse-to-store movements
}

// NewMetrics creates a Metrics collector subscribed to the hub.
func NewMetrics(hub *Hub) *Metrics {
	m := &Metrics{}
	hub.OnSaleCompleted(func(_, totalAmount int64) {
		m.CompletedSales++
		m.Revenue += totalAmount
	})
	hub.OnSaleFailed(func(_ int64, _ int, reason string) {
		m.FailedSales++
		if reason == ReasonBacklogged {
			m.BackloggedOrders++
		}
	})
	hub.OnWaitingOrderProcessed(func(_ int64, _ int, success bool) {
		if success {
			m.ReplayedOrders++
		}
	})
	hub.OnLowStock(func(Product) { m.LowStockAlerts++ })
	hub.OnStockTransferred(func(int64, int, int) { m.StockTransfers++ })
	return m
}

// Arrivals is the total number of customer purchase attempts.
func (m *Metrics) Arrivals() int {
	return m.CompletedSales + m.FailedSales - m.ReplayedOrders
}

// Print displays aggregated metrics at the end of the simulation.
func (m *Metrics) Print() {
	fmt.Println("=== Simulation Metrics ===")
	fmt.Printf("Customer Arrivals    : %d\n", m.Arrivals())
	fmt.Printf("Completed Sales      : %d\n", m.CompletedSales)
	fmt.Printf("Revenue              : %d\n", m.Revenue)
	fmt.Printf("Backlogged Orders    : %d\n", m.BackloggedOrders)
	fmt.Printf("Replayed Orders      : %d\n", m.ReplayedOrders)
	fmt.Printf("Low Stock Alerts     : %d\n", m.LowStockAlerts)
	fmt.Printf("Stock Transfers      : %d\n", m.StockTransfers)
}
