package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Driver subscribes to the clock and turns its ticks into simulation work:
// stochastic customer arrivals on business-hour minutes, stock movements on
// the scheduled hours, and backlog replays. It owns the running flag; an
// in-flight tick handler sees a cleared flag and short-circuits.
type Driver struct {
	clock     *Clock
	inventory *InventoryEngine
	sales     *SalesEngine
	hub       *Hub
	rng       *PartitionedRNG
	cfg       DriverConfig

	running bool
	ctx     context.Context
}

// NewDriver wires a driver into the hub's clock events. The RNG is
// injected so tests can pin a seed; the driver draws from its arrival,
// basket and customer subsystems and never touches ambient randomness.
func NewDriver(clock *Clock, inventory *InventoryEngine, sales *SalesEngine, hub *Hub, rng *PartitionedRNG, cfg DriverConfig) *Driver {
	d := &Driver{
		clock:     clock,
		inventory: inventory,
		sales:     sales,
		hub:       hub,
		rng:       rng,
		cfg:       cfg,
	}
	hub.OnTimeChanged(func(time.Time) { d.onMinute() })
	hub.OnHourChanged(d.onHour)
	hub.OnDayChanged(func(time.Time) { d.onDay() })
	return d
}

// Start truncates the transactional tables, raises the running flag and
// emits simulation-started. Starting an already-running driver is a no-op.
// The context is held for the repository calls made from tick handlers.
func (d *Driver) Start(ctx context.Context) error {
	if d.running {
		return nil
	}
	if err := d.sales.ResetTransactions(ctx); err != nil {
		return fmt.Errorf("reset transactions: %w", err)
	}
	d.ctx = ctx
	d.running = true
	d.hub.EmitSimulationStarted()
	return nil
}

// Stop clears the running flag cooperatively and emits simulation-stopped.
// An in-progress Advance completes; its remaining handlers see the flag.
func (d *Driver) Stop() {
	if !d.running {
		return
	}
	d.running = false
	d.hub.EmitSimulationStopped()
}

// Running reports whether the simulation is active.
func (d *Driver) Running() bool { return d.running }

// onMinute fires on every minute tick. During business hours a customer
// arrives with the configured probability.
func (d *Driver) onMinute() {
	if !d.running || !d.clock.IsBusinessHour() {
		return
	}
	if d.rng.ForSubsystem(SubsystemArrivals).Float64() >= d.cfg.ArrivalProbability {
		return
	}
	d.arrive()
}

// arrive synthesizes one customer: uniform product from the catalog,
// quantity uniform on {1..MaxBasketQty}, and routes the purchase through
// the sales engine.
func (d *Driver) arrive() {
	customerID := d.rng.ForSubsystem(SubsystemCustomer).Intn(CustomerIDRange) + 1

	products, err := d.inventory.Products(d.ctx)
	if err != nil {
		d.logf("customer %d turned away, catalog unavailable: %v", customerID, err)
		return
	}
	if len(products) == 0 {
		return
	}

	basket := d.rng.ForSubsystem(SubsystemBasket)
	product := products[basket.Intn(len(products))]
	qty := basket.Intn(d.cfg.MaxBasketQty) + 1

	saleID, err := d.sales.ProcessSale(d.ctx, product.ID, qty)
	switch {
	case err == nil:
		d.logf("customer %d bought %dx %s (sale %d)", customerID, qty, product.Name, saleID)
	case errors.Is(err, ErrBacklogged):
		d.logf("customer %d backlogged %dx %s, store stock exhausted", customerID, qty, product.Name)
	default:
		d.logf("customer %d purchase of %dx %s failed: %v", customerID, qty, product.Name, err)
	}
}

// onHour dispatches the scheduled actions of the hour transition.
func (d *Driver) onHour(hour int) {
	if !d.running {
		return
	}
	switch {
	case hour == BusinessOpenHour:
		d.logf("%02d:00 business open", hour)
		if err := d.inventory.ReplenishStore(d.ctx); err != nil {
			logrus.Errorf("opening replenishment: %v", err)
		}
		d.replay("opening")
	case hour > BusinessOpenHour && hour <= BusinessCloseHour:
		if err := d.inventory.ReplenishStore(d.ctx); err != nil {
			logrus.Errorf("hourly replenishment: %v", err)
		}
	case hour == HQDeliveryHour:
		d.logf("%02d:00 HQ delivery arrived", hour)
		processed, err := d.inventory.ReceiveHQDelivery(d.ctx)
		if err != nil {
			logrus.Errorf("HQ delivery: %v", err)
			return
		}
		if processed > 0 {
			d.logf("%d waiting orders processed after HQ delivery", processed)
		}
	}
}

// onDay replays the backlog on date rollover. Defensive: the 09:00 hour
// tick replays as well, so this only matters when the clock jumps past the
// opening hour.
func (d *Driver) onDay() {
	if !d.running {
		return
	}
	d.replay("day-start")
}

func (d *Driver) replay(trigger string) {
	processed, err := d.sales.ReplayBacklog(d.ctx)
	if err != nil {
		logrus.Errorf("%s backlog replay: %v", trigger, err)
		return
	}
	if processed > 0 {
		d.logf("%d waiting orders processed at %s", processed, trigger)
	}
}

// logf records a simulation narrative line both on the logger and as a
// log event for UI subscribers.
func (d *Driver) logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logrus.Infof("[%s %s] %s", d.clock.FormattedDate(), d.clock.FormattedTime(), msg)
	d.hub.EmitLog(msg)
}
