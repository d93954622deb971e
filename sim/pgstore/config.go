package pgstore

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every environment variable the store reads.
const EnvPrefix = "RETAILSIM"

// Config carries the PostgreSQL connection settings, read from the
// environment (a .env file loaded by the CLI counts).
type Config struct {
	DSN      string `envconfig:"DB_DSN" required:"true"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"8"`
	MinConns int32  `envconfig:"DB_MIN_CONNS" default:"1"`
}

// LoadConfig reads the store configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing pgstore config: %w", err)
	}
	return cfg, nil
}
