package sim

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Hub is the event fan-out registry. Each event type keeps its own list of
// plain func callbacks; there is no observer hierarchy. Listeners are
// invoked synchronously in subscription order, and a panic in one listener
// is recovered and logged so the remaining listeners still run.
//
// Not safe for concurrent use. The engine is single-threaded: all emits
// happen inside one Clock.Advance call.
type Hub struct {
	timeChanged           []func(now time.Time)
	hourChanged           []func(hour int)
	dayChanged            []func(date time.Time)
	inventoryChanged      []func(products []Product)
	stockTransferred      []func(productID int64, transferredQty, newStoreQty int)
	lowStock              []func(p Product)
	saleCompleted         []func(saleID, totalAmount int64)
	saleFailed            []func(productID int64, requestedQty int, reason string)
	waitingOrderProcessed []func(productID int64, qty int, success bool)
	started               []func()
	stopped               []func()
	logs                  []func(msg string)
}

// NewHub creates an empty event registry.
func NewHub() *Hub {
	return &Hub{}
}

// notify runs one listener callback, containing any panic it raises.
func notify(event string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("listener panic during %s event: %v", event, r)
		}
	}()
	fn()
}

func (h *Hub) OnTimeChanged(fn func(now time.Time)) { h.timeChanged = append(h.timeChanged, fn) }
func (h *Hub) OnHourChanged(fn func(hour int))      { h.hourChanged = append(h.hourChanged, fn) }
func (h *Hub) OnDayChanged(fn func(date time.Time)) { h.dayChanged = append(h.dayChanged, fn) }

func (h *Hub) OnInventoryChanged(fn func(products []Product)) {
	h.inventoryChanged = append(h.inventoryChanged, fn)
}

func (h *Hub) OnStockTransferred(fn func(productID int64, transferredQty, newStoreQty int)) {
	h.stockTransferred = append(h.stockTransferred, fn)
}

func (h *Hub) OnLowStock(fn func(p Product)) { h.lowStock = append(h.lowStock, fn) }

func (h *Hub) OnSaleCompleted(fn func(saleID, totalAmount int64)) {
	h.saleCompleted = append(h.saleCompleted, fn)
}

func (h *Hub) OnSaleFailed(fn func(productID int64, requestedQty int, reason string)) {
	h.saleFailed = append(h.saleFailed, fn)
}

func (h *Hub) OnWaitingOrderProcessed(fn func(productID int64, qty int, success bool)) {
	h.waitingOrderProcessed = append(h.waitingOrderProcessed, fn)
}

func (h *Hub) OnSimulationStarted(fn func()) { h.started = append(h.started, fn) }
func (h *Hub) OnSimulationStopped(fn func()) { h.stopped = append(h.stopped, fn) }
func (h *Hub) OnLog(fn func(msg string))     { h.logs = append(h.logs, fn) }

func (h *Hub) EmitTimeChanged(now time.Time) {
	for _, fn := range h.timeChanged {
		notify("time-changed", func() { fn(now) })
	}
}

func (h *Hub) EmitHourChanged(hour int) {
	for _, fn := range h.hourChanged {
		notify("hour-changed", func() { fn(hour) })
	}
}

func (h *Hub) EmitDayChanged(date time.Time) {
	for _, fn := range h.dayChanged {
		notify("day-changed", func() { fn(date) })
	}
}

// EmitInventoryChanged hands every listener its own copy of the snapshot.
func (h *Hub) EmitInventoryChanged(products []Product) {
	for _, fn := range h.inventoryChanged {
		snapshot := make([]Product, len(products))
		copy(snapshot, products)
		notify("inventory-changed", func() { fn(snapshot) })
	}
}

func (h *Hub) EmitStockTransferred(productID int64, transferredQty, newStoreQty int) {
	for _, fn := range h.stockTransferred {
		notify("stock-transferred", func() { fn(productID, transferredQty, newStoreQty) })
	}
}

func (h *Hub) EmitLowStock(p Product) {
	for _, fn := range h.lowStock {
		notify("low-stock", func() { fn(p) })
	}
}

func (h *Hub) EmitSaleCompleted(saleID, totalAmount int64) {
	for _, fn := range h.saleCompleted {
		notify("sale-completed", func() { fn(saleID, totalAmount) })
	}
}

func (h *Hub) EmitSaleFailed(productID int64, requestedQty int, reason string) {
	for _, fn := range h.saleFailed {
		notify("sale-failed", func() { fn(productID, requestedQty, reason) })
	}
}

func (h *Hub) EmitWaitingOrderProcessed(productID int64, qty int, success bool) {
	for _, fn := range h.waitingOrderProcessed {
		notify("waiting-order-processed", func() { fn(productID, qty, success) })
	}
}

func (h *Hub) EmitSimulationStarted() {
	for _, fn := range h.started {
		notify("simulation-started", fn)
	}
}

func (h *Hub) EmitSimulationStopped() {
	for _, fn := range h.stopped {
		notify("simulation-stopped", fn)
	}
}

func (h *Hub) EmitLog(msg string) {
	for _, fn := range h.logs {
		notify("log", func() { fn(msg) })
	}
}
