package config

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
)

func (c *Config) Validate() error {
	if c.Artifact.Path == "" {
		return errors.New("artifact.path is required")
	}

	if c.Training.MaxIter <= 0 {
		return errors.New("training.max_iter must be a positive integer")
	}
	if c.Training.C <= 0 {
		return errors.New("training.c must be positive")
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}

	switch c.History.Driver {
	case "":
	case "sqlite3", "postgres":
		if c.History.DSN == "" {
			return fmt.Errorf("history.dsn is required when history.driver is %q", c.History.Driver)
		}
	default:
		return fmt.Errorf("history.driver must be \"sqlite3\", \"postgres\" or empty, got %q", c.History.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Cache.Size < 0 {
		return errors.New("cache.size must not be negative")
	}

	return nil
}

// ListenAddress joins server.addr and server.port.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Addr, c.Server.Port)
}
