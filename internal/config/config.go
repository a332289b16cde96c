package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application's configuration, read from the environment
// once at startup. DATABASE_URL and JWT_SECRET are mandatory; startup aborts
// without them.
type Config struct {
	Host        string        `env:"HOST" envDefault:"127.0.0.1"`
	Port        string        `env:"PORT" envDefault:"8080"`
	DatabaseURL string        `env:"DATABASE_URL,required"`
	JWTSecret   string        `env:"JWT_SECRET,required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Addr returns the host:port pair the HTTP server binds to.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}
