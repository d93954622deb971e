package sim_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/retail-sim/retail-sim/sim"
	"github.com/retail-sim/retail-sim/sim/memstore"
)

// env bundles a wired engine stack over an in-memory repository. The clock
// starts at 2025-03-03 09:00.
type env struct {
	repo      *memstore.Store
	hub       *sim.Hub
	clock     *sim.Clock
	inventory *sim.InventoryEngine
	sales     *sim.SalesEngine
}

func newEnv(t *testing.T, products ...sim.Product) *env {
	t.Helper()
	repo := memstore.New()
	require.NoError(t, repo.SeedProducts(context.Background(), products))

	hub := sim.NewHub()
	start := time.Date(2025, time.March, 3, 9, 0, 0, 0, time.UTC)
	clock := sim.NewClock(hub, start)
	inventory := sim.NewInventoryEngine(repo, hub)
	sales := sim.NewSalesEngine(repo, inventory, hub, clock.Now)
	inventory.SetBacklogReplayer(sales)

	return &env{
		repo:      repo,
		hub:       hub,
		clock:     clock,
		inventory: inventory,
		sales:     sales,
	}
}

func (e *env) product(t *testing.T, id int64) sim.Product {
	t.Helper()
	p, err := e.repo.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (e *env) waitingOrders(t *testing.T) []sim.WaitingOrder {
	t.Helper()
	orders, err := e.repo.ListWaitingOrders(context.Background())
	require.NoError(t, err)
	return orders
}
