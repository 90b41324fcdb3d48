// Package config loads server settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr          string `env:"BIZPULSE_ADDR" envDefault:":8080"`
	DBPath        string `env:"BIZPULSE_DB" envDefault:"bizpulse.db"`
	JWTSecret     string `env:"BIZPULSE_JWT_SECRET" envDefault:"bizpulse-dev-secret"`
	AdminName     string `env:"BIZPULSE_ADMIN_NAME" envDefault:"Administrator"`
	AdminEmail    string `env:"BIZPULSE_ADMIN_EMAIL" envDefault:"admin@bizpulse.local"`
	AdminPassword string `env:"BIZPULSE_ADMIN_PASSWORD" envDefault:"admin123"`
	MigrationsDir string `env:"BIZPULSE_MIGRATIONS_DIR"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
