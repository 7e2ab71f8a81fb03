package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Config concentra la configuracion del cliente leida desde el entorno.
type Config struct {
	BaseURL        string `env:"ESTIMAPP_API_URL" envDefault:"http://localhost:8080/api/estimaApp"`
	TimeoutSeconds int    `env:"ESTIMAPP_TIMEOUT_SECONDS" envDefault:"15"`
	SessionFile    string `env:"ESTIMAPP_SESSION_FILE" envDefault:".estimapp-session.json"`
}

// LoadConfig parsea la configuracion del cliente desde variables de entorno.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse client config: %w", err)
	}
	return cfg, nil
}
