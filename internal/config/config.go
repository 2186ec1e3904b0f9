package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries everything the binary reads from the environment.
// Role, room code and display name come from flags instead; they are
// per-invocation, not per-machine.
type Config struct {
	Brokers     []string `env:"SOULARENA_BROKERS" envSeparator:"," envDefault:"tcp://broker.emqx.io:1883,tcp://broker.hivemq.com:1883,tcp://test.mosquitto.org:1883"`
	HTTPAddr    string   `env:"SOULARENA_HTTP_ADDR" envDefault:":8080"`
	MaxRounds   int      `env:"SOULARENA_MAX_ROUNDS" envDefault:"3"`
	DatabaseURL string   `env:"DATABASE_URL"`
	Debug       bool     `env:"SOULARENA_DEBUG"`
}

// Load reads .env if present, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}
