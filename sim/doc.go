// Package sim provides the discrete-event simulation engine for a small
// two-tier retail store.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - clock.go: the virtual clock and its minute/hour/day tick fan-out
//   - inventory.go: the scheduled stock movements and the sale decrement
//   - sales.go: sale-now vs waiting-order classification and backlog replay
//
// # Architecture
//
// The engine is single-threaded and cooperative: Clock.Advance is the only
// entry point that schedules work, and every subscriber callback completes
// before Advance returns. The Driver subscribes to the clock, synthesizes
// stochastic customer arrivals during business hours, and invokes the
// engines on the scheduled hours.
//
// Persistence sits behind the Repository interface; implementations live
// in sub-packages:
//   - sim/memstore: in-memory store (default, and the test double)
//   - sim/pgstore: PostgreSQL store over pgx
//
// # Key Interfaces
//
// The extension points are small interfaces and plain callbacks:
//   - Repository: the persistence capability boundary
//   - BacklogReplayer: breaks the inventory/sales cycle; the inventory
//     engine calls it after a headquarters delivery, the sales engine
//     implements it
//   - Hub: one callback list per event type; any UI subscribes there
package sim
