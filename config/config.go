package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port            int           `env:"PORT"                 envDefault:"5000"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS,required,notEmpty" envSeparator:","`
	MaxPlayers      int           `env:"MAX_PLAYERS_PER_ROOM" envDefault:"6"`
	MaxRooms        int           `env:"MAX_ROOMS"            envDefault:"100"`
	MapsDir         string        `env:"MAPS_DIR"`
	PostgresURL     string        `env:"POSTGRES_URL"`
	LogLevel        string        `env:"LOG_LEVEL"            envDefault:"info"`
	LogPretty       bool          `env:"LOG_PRETTY"           envDefault:"false"`
	MessageRate     float64       `env:"MESSAGE_RATE"         envDefault:"5"`
	MessageBurst    int           `env:"MESSAGE_BURST"        envDefault:"10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"     envDefault:"30s"`
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// ArchiveEnabled reports whether finished games are stored in Postgres.
func (c Config) ArchiveEnabled() bool {
	return c.PostgresURL != ""
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case c.Port < 1 || c.Port > 65535:
		return errors.New("PORT out of range")
	case c.MaxPlayers < 2:
		return errors.New("MAX_PLAYERS_PER_ROOM must be at least 2")
	case c.MaxRooms < 1:
		return errors.New("MAX_ROOMS must be positive")
	case c.MessageRate <= 0:
		return errors.New("MESSAGE_RATE must be positive")
	case c.MessageBurst < 1:
		return errors.New("MESSAGE_BURST must be positive")
	case c.ShutdownTimeout <= 0:
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}
