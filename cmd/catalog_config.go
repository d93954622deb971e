package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/retail-sim/retail-sim/sim"
)

// CatalogConfig is the YAML shape of a catalog seed file.
type CatalogConfig struct {
	Products []CatalogProduct `yaml:"products"`
}

type CatalogProduct struct {
	ID           int64  `yaml:"id"`
	Name         string `yaml:"name"`
	Manufacturer string `yaml:"manufacturer"`
	Price        int64  `yaml:"price"`
	StoreQty     int    `yaml:"store_quantity"`
	WarehouseQty int    `yaml:"warehouse_quantity"`
}

// LoadCatalog reads and validates a catalog seed file.
func LoadCatalog(path string) ([]sim.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var cfg CatalogConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	return cfg.Validate()
}

// Validate checks the parsed catalog and converts it to engine products.
func (c CatalogConfig) Validate() ([]sim.Product, error) {
	if len(c.Products) == 0 {
		return nil, fmt.Errorf("catalog has no products")
	}

	seen := make(map[int64]bool, len(c.Products))
	out := make([]sim.Product, 0, len(c.Products))
	for _, p := range c.Products {
		switch {
		case p.ID <= 0:
			return nil, fmt.Errorf("product %q: id must be positive", p.Name)
		case seen[p.ID]:
			return nil, fmt.Errorf("product id %d appears twice", p.ID)
		case p.Price <= 0:
			return nil, fmt.Errorf("product %d: price must be positive", p.ID)
		case p.StoreQty < 0 || p.WarehouseQty < 0:
			return nil, fmt.Errorf("product %d: quantities must be non-negative", p.ID)
		}
		seen[p.ID] = true
		out = append(out, sim.Product{
			ID:           p.ID,
			Name:         p.Name,
			Manufacturer: p.Manufacturer,
			Price:        p.Price,
			StoreQty:     p.StoreQty,
			WarehouseQty: p.WarehouseQty,
		})
	}
	return out, nil
}
