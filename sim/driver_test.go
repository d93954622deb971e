package sim_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retail-sim/retail-sim/sim"
	"github.com/retail-sim/retail-sim/sim/memstore"
)

// driverStack wires a full simulation over memstore with an injected seed,
// arrival probability, and start instant.
type driverStack struct {
	repo    *memstore.Store
	hub     *sim.Hub
	clock   *sim.Clock
	sales   *sim.SalesEngine
	driver  *sim.Driver
	metrics *sim.Metrics
}

func newDriverStack(t *testing.T, start time.Time, seed int64, arrivalProb float64, products ...sim.Product) *driverStack {
	t.Helper()
	repo := memstore.New()
	require.NoError(t, repo.SeedProducts(context.Background(), products))

	hub := sim.NewHub()
	clock := sim.NewClock(hub, start)
	inventory := sim.NewInventoryEngine(repo, hub)
	sales := sim.NewSalesEngine(repo, inventory, hub, clock.Now)
	inventory.SetBacklogReplayer(sales)

	cfg := sim.NewDriverConfig()
	cfg.ArrivalProbability = arrivalProb
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
	driver := sim.NewDriver(clock, inventory, sales, hub, rng, cfg)
	metrics := sim.NewMetrics(hub)

	return &driverStack{
		repo:    repo,
		hub:     hub,
		clock:   clock,
		sales:   sales,
		driver:  driver,
		metrics: metrics,
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2025, time.March, 3, hour, minute, 0, 0, time.UTC)
}

func TestDriver_BusinessHoursGating(t *testing.T) {
	// Scenario S6: arrival probability forced to 1.0, ticking one minute
	// at a time from 08:50 to 09:10
	s := newDriverStack(t, at(8, 50), 42, 1.0,
		sim.Product{ID: 1, Name: "A", Price: 100, StoreQty: 100, WarehouseQty: 0})

	var arrivalTimes []string
	s.hub.OnSaleCompleted(func(int64, int64) {
		arrivalTimes = append(arrivalTimes, s.clock.FormattedTime())
	})
	s.hub.OnSaleFailed(func(int64, int, string) {
		arrivalTimes = append(arrivalTimes, s.clock.FormattedTime())
	})

	require.NoError(t, s.driver.Start(context.Background()))
	for i := 0; i < 20; i++ {
		s.clock.Advance(1)
	}

	// THEN zero arrivals before 09:00 and one every minute from 09:00 on
	require.Len(t, arrivalTimes, 11)
	assert.Equal(t, "09:00", arrivalTimes[0])
	assert.Equal(t, "09:10", arrivalTimes[len(arrivalTimes)-1])
}

func TestDriver_HourlyReplenishment(t *testing.T) {
	// GIVEN a running simulation just before a business hour transition
	s := newDriverStack(t, at(9, 59), 42, 0,
		sim.Product{ID: 1, Name: "A", Price: 100, StoreQty: 1, WarehouseQty: 8})
	require.NoError(t, s.driver.Start(context.Background()))

	// WHEN the hour flips to 10
	s.clock.Advance(1)

	// THEN the store was topped up from the warehouse (scenario S3)
	p, err := s.repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, p.StoreQty)
	assert.Equal(t, 4, p.WarehouseQty)
	assert.Equal(t, 1, s.metrics.StockTransfers)
}

func TestDriver_HQDeliveryHour(t *testing.T) {
	// GIVEN an exhausted product and a waiting order just before 01:00
	s := newDriverStack(t, at(0, 59), 42, 0,
		sim.Product{ID: 1, Name: "A", Price: 100, StoreQty: 0, WarehouseQty: 0})
	require.NoError(t, s.driver.Start(context.Background()))
	_, err := s.repo.CreateWaitingOrder(context.Background(), 1, 7, s.clock.Now())
	require.NoError(t, err)

	// WHEN the overnight delivery hour arrives
	s.clock.Advance(1)

	// THEN the warehouse got base + supplement and the backlog cleared
	p, err := s.repo.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0, p.StoreQty)
	assert.Equal(t, 5, p.WarehouseQty)
	assert.Equal(t, 1, s.metrics.ReplayedOrders)

	orders, err := s.repo.ListWaitingOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestDriver_DayTickReplaysBacklog(t *testing.T) {
	// GIVEN stock that can satisfy the backlog and a pending order at 23:59
	s := newDriverStack(t, at(23, 59), 42, 0,
		sim.Product{ID: 1, Name: "A", Price: 100, StoreQty: 5, WarehouseQty: 0})
	require.NoError(t, s.driver.Start(context.Background()))
	_, err := s.repo.CreateWaitingOrder(context.Background(), 1, 2, s.clock.Now())
	require.NoError(t, err)

	// WHEN the date rolls over (hour 0 has no scheduled action)
	s.clock.Advance(1)

	// THEN the day tick replayed the backlog
	assert.Equal(t, 1, s.metrics.ReplayedOrders)
}

func TestDriver_StopShortCircuitsTicks(t *testing.T) {
	// GIVEN a stopped simulation in the middle of business hours
	s := newDriverStack(t, at(10, 0), 42, 1.0,
		sim.Product{ID: 1, Name: "A", Price: 100, StoreQty: 100, WarehouseQty: 50})
	require.NoError(t, s.driver.Start(context.Background()))

	stopped := false
	s.hub.OnSimulationStopped(func() { stopped = true })
	s.driver.Stop()

	// WHEN time keeps ticking
	for i := 0; i < 120; i++ {
		s.clock.Advance(1)
	}

	// THEN no arrivals and no scheduled actions happened
	assert.True(t, stopped)
	assert.False(t, s.driver.Running())
	assert.Zero(t, s.metrics.CompletedSales)
	assert.Zero(t, s.metrics.StockTransfers)
}

func TestDriver_StartTruncatesTransactions(t *testing.T) {
	// GIVEN stale waiting orders from a previous run
	s := newDriverStack(t, at(9, 0), 42, 0,
		sim.Product{ID: 1, Name: "A", Price: 100, StoreQty: 5, WarehouseQty: 0})
	_, err := s.repo.CreateWaitingOrder(context.Background(), 1, 3, s.clock.Now())
	require.NoError(t, err)

	started := false
	s.hub.OnSimulationStarted(func() { started = true })

	// WHEN the simulation starts
	require.NoError(t, s.driver.Start(context.Background()))

	// THEN the backlog was truncated and the started event fired
	assert.True(t, started)
	orders, err := s.repo.ListWaitingOrders(context.Background())
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestDriver_SameSeedSameOutcome(t *testing.T) {
	// Two runs with the same seed and catalog produce identical counters
	run := func() *sim.Metrics {
		s := newDriverStack(t, at(8, 0), 1234, sim.DefaultArrivalProbability,
			sim.Product{ID: 1, Name: "A", Price: 100, StoreQty: 10, WarehouseQty: 20},
			sim.Product{ID: 2, Name: "B", Price: 250, StoreQty: 5, WarehouseQty: 10})
		require.NoError(t, s.driver.Start(context.Background()))
		for i := 0; i < 24*60; i++ {
			s.clock.Advance(1)
		}
		s.driver.Stop()
		return s.metrics
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
}

func TestDriver_BacklogMonotonicAcrossDeliveryCycle(t *testing.T) {
	// Invariant: with no new failed sales in between, a delivery cycle
	// never grows the waiting-order count
	s := newDriverStack(t, at(0, 0), 42, 0,
		sim.Product{ID: 1, Name: "A", Price: 100, StoreQty: 0, WarehouseQty: 0})
	require.NoError(t, s.driver.Start(context.Background()))
	for i := 0; i < 3; i++ {
		_, err := s.repo.CreateWaitingOrder(context.Background(), 1, 4, s.clock.Now())
		require.NoError(t, err)
	}

	before, err := s.repo.ListWaitingOrders(context.Background())
	require.NoError(t, err)

	// WHEN ticking through the HQ delivery hour
	for i := 0; i < 120; i++ {
		s.clock.Advance(1)
	}

	after, err := s.repo.ListWaitingOrders(context.Background())
	require.NoError(t, err)
	assert.Less(t, len(after), len(before))
	assert.Empty(t, after, "the supplement clears the whole backlog in one cycle")
}
