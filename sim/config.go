package sim

// Named constants of the retail pipeline. None of these are tunable from
// the CLI except the arrival probability, which tests pin to force or
// suppress arrivals.
const (
	// Business hours are [BusinessOpenHour, BusinessCloseHour). Customer
	// arrivals are synthesized only inside this window.
	BusinessOpenHour  = 9
	BusinessCloseHour = 18

	// StoreTarget is the upper bound the hourly warehouse-to-store top-up
	// replenishes towards.
	StoreTarget = 5

	// LowStockThreshold triggers a low-stock event when a sale leaves the
	// store counter below it.
	LowStockThreshold = 3

	// HQBaseDelivery is the per-product unit count of every headquarters
	// delivery, before the waiting-order supplement.
	HQBaseDelivery = 5

	// HQDeliveryHour is 01:00. Deliveries land overnight, after the wall
	// clock has wrapped past midnight, so the warehouse is stocked before
	// the store opens.
	HQDeliveryHour = 1

	// DefaultArrivalProbability is the per-minute chance of a customer
	// arrival during business hours.
	DefaultArrivalProbability = 0.10

	// MaxBasketQty bounds the per-arrival purchase quantity; quantities
	// are uniform on {1..MaxBasketQty}.
	MaxBasketQty = 3

	// CustomerIDRange bounds the synthesized customer ids {1..CustomerIDRange}
	// used in log lines.
	CustomerIDRange = 10
)

// DriverConfig groups the stochastic arrival parameters of the simulation
// driver.
type DriverConfig struct {
	ArrivalProbability float64 // per-minute arrival chance in [0, 1]
	MaxBasketQty       int     // purchase quantity upper bound (inclusive)
}

// NewDriverConfig returns the baseline driver configuration.
func NewDriverConfig() DriverConfig {
	return DriverConfig{
		ArrivalProbability: DefaultArrivalProbability,
		MaxBasketQty:       MaxBasketQty,
	}
}
