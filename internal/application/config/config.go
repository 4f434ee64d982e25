package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Debug      bool   `env:"DEBUG" envDefault:"false"`
	Port       string `env:"PORT" envDefault:"3000"`
	MetricPort string `env:"METRIC_PORT" envDefault:"9090"`
	Domain     string `env:"DOMAIN" envDefault:"http://localhost:3000"`

	// MaxMessageLength bounds chat message bodies; longer bodies are truncated.
	MaxMessageLength int `env:"MAX_MESSAGE_LENGTH" envDefault:"500"`

	// StaticDir is the frontend bundle served at the root path.
	StaticDir string `env:"STATIC_DIR" envDefault:"build"`
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &c, nil
}
