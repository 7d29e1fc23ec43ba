// Package config reads the backend configuration from the environment.
package config

import (
	"github.com/caarlos0/env/v11"
)

// Config is the complete backend configuration.
type Config struct {
	// Path of the sqlite database file
	DBPath string `env:"DB_PATH" envDefault:"data/gorm.db"`

	// Space separated list of origins that are allowed to use the API
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:" "`

	// Registers the pprof routes when set
	EnablePprof bool `env:"ENABLE_PPROF"`
}

// Load parses the configuration from the environment.
func Load() (Config, error) {
	return env.ParseAs[Config]()
}
