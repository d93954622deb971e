package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/retail-sim/retail-sim/sim"
	"github.com/retail-sim/retail-sim/sim/memstore"
	"github.com/retail-sim/retail-sim/sim/pgstore"
)

var (
	seed         int64   // Seed for arrival / basket randomness
	days         int     // Simulated horizon in days
	logLevel     string  // Log verbosity level
	storeBackend string  // Repository backend: memory or postgres
	catalogPath  string  // YAML catalog seed file (built-in catalog if empty)
	realtime     bool    // Drive the clock from a wall-clock ticker
	tickMillis   int     // Wall-clock milliseconds per simulated minute in realtime mode
	arrivalProb  float64 // Per-minute customer arrival probability
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "retail-sim",
	Short: "Discrete-event simulator for a two-tier retail store",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the store simulation",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		// .env is optional; absence is not an error.
		_ = godotenv.Load()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		repo := openRepository(ctx)

		catalog := DefaultCatalog()
		if catalogPath != "" {
			catalog, err = LoadCatalog(catalogPath)
			if err != nil {
				logrus.Fatalf("Loading catalog: %v", err)
			}
		}
		if err := repo.SeedProducts(ctx, catalog); err != nil {
			logrus.Fatalf("Seeding products: %v", err)
		}

		hub := sim.NewHub()
		clock := sim.NewClock(hub, openingToday())
		inventory := sim.NewInventoryEngine(repo, hub)
		sales := sim.NewSalesEngine(repo, inventory, hub, clock.Now)
		inventory.SetBacklogReplayer(sales)

		cfg := sim.NewDriverConfig()
		cfg.ArrivalProbability = arrivalProb
		rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
		driver := sim.NewDriver(clock, inventory, sales, hub, rng, cfg)
		metrics := sim.NewMetrics(hub)

		logrus.Infof("Starting simulation: %d products, %d day(s), seed=%d, backend=%s",
			len(catalog), days, seed, storeBackend)

		if err := driver.Start(ctx); err != nil {
			logrus.Fatalf("Starting simulation: %v", err)
		}

		horizon := days * 24 * 60
		if realtime {
			runRealtime(ctx, clock, horizon)
		} else {
			for i := 0; i < horizon && ctx.Err() == nil; i++ {
				clock.Advance(1)
			}
		}

		driver.Stop()
		metrics.Print()
	},
}

// openRepository selects the persistence backend from the --store flag.
func openRepository(ctx context.Context) sim.Repository {
	switch storeBackend {
	case "memory":
		return memstore.New()
	case "postgres":
		cfg, err := pgstore.LoadConfig()
		if err != nil {
			logrus.Fatalf("Loading database config: %v", err)
		}
		pool, err := pgstore.Connect(ctx, cfg)
		if err != nil {
			logrus.Fatalf("Connecting to database: %v", err)
		}
		store := pgstore.New(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			logrus.Fatalf("Preparing schema: %v", err)
		}
		return store
	default:
		logrus.Fatalf("Unknown store backend %q (want memory or postgres)", storeBackend)
		return nil
	}
}

// openingToday is the simulation start instant: today at 09:00.
func openingToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), sim.BusinessOpenHour, 0, 0, 0, now.Location())
}

// runRealtime advances one simulated minute per wall-clock tick until the
// horizon is reached or the context is cancelled.
func runRealtime(ctx context.Context, clock *sim.Clock, horizon int) {
	ticker := time.NewTicker(time.Duration(tickMillis) * time.Millisecond)
	defer ticker.Stop()
	for elapsed := 0; elapsed < horizon; elapsed++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			clock.Advance(1)
		}
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for random customer arrivals")
	runCmd.Flags().IntVar(&days, "days", 7, "Simulated horizon in days")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&storeBackend, "store", "memory", "Repository backend (memory, postgres)")
	runCmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML catalog seed file (built-in catalog if empty)")
	runCmd.Flags().BoolVar(&realtime, "realtime", false, "Drive the clock from a wall-clock ticker")
	runCmd.Flags().IntVar(&tickMillis, "tick-ms", 1000, "Wall-clock milliseconds per simulated minute in realtime mode")
	runCmd.Flags().Float64Var(&arrivalProb, "arrival-prob", sim.DefaultArrivalProbability, "Per-minute customer arrival probability")

	rootCmd.AddCommand(runCmd)
}
