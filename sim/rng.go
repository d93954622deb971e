package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey uniquely identifies a reproducible simulation run.
// Two runs with the same SimulationKey and identical configuration MUST
// produce bit-for-bit identical event sequences.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemArrivals is the RNG stream deciding whether a customer
	// arrives on a given minute tick. Uses the master seed directly.
	SubsystemArrivals = "arrivals"

	// SubsystemBasket is the RNG stream picking the product and quantity
	// of an arrival.
	SubsystemBasket = "basket"

	// SubsystemCustomer is the RNG stream synthesizing customer ids for
	// log lines.
	SubsystemCustomer = "customer"
)

// PartitionedRNG provides deterministic, isolated RNG streams per
// subsystem, so that drawing from one stream never perturbs another.
//
// Derivation: SubsystemArrivals uses the master seed directly; every other
// subsystem uses masterSeed XOR fnv1a64(subsystemName).
//
// Not safe for concurrent use; the engine is single-threaded.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the deterministically-seeded RNG for the named
// subsystem. The same name always returns the same cached *rand.Rand.
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemArrivals {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
