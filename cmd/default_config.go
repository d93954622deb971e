package cmd

import "github.com/retail-sim/retail-sim/sim"

// DefaultCatalog is the built-in product seed used when no catalog file is
// given. Prices are in minor currency units.
func DefaultCatalog() []sim.Product {
	return []sim.Product{
		{ID: 1, Name: "Instant Noodles", Manufacturer: "Nongshim", Price: 1200, StoreQty: 10, WarehouseQty: 20},
		{ID: 2, Name: "Canned Coffee", Manufacturer: "Lotte", Price: 900, StoreQty: 8, WarehouseQty: 15},
		{ID: 3, Name: "Potato Chips", Manufacturer: "Orion", Price: 1500, StoreQty: 6, WarehouseQty: 12},
		{ID: 4, Name: "Chocolate Bar", Manufacturer: "Haitai", Price: 800, StoreQty: 12, WarehouseQty: 10},
		{ID: 5, Name: "Bottled Water", Manufacturer: "Jeju", Price: 600, StoreQty: 15, WarehouseQty: 30},
		{ID: 6, Name: "Rice Crackers", Manufacturer: "Crown", Price: 1100, StoreQty: 5, WarehouseQty: 8},
	}
}
