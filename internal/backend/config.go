package backend

import (
	"errors"
	"fmt"
	"time"

	"budgetbuddy/internal/config"
)

// Config holds what the factory needs from the application configuration.
type Config struct {
	Type BackendType

	DataFile     string
	SQLiteDBPath string
	SeedFile     string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	SummaryCacheTTL time.Duration
}

func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	cfg := Config{
		Type:            BackendType(appConfig.DataBackend),
		DataFile:        appConfig.DataFile,
		SQLiteDBPath:    appConfig.SQLiteDBPath,
		SeedFile:        appConfig.SeedFile,
		AMQPURL:         appConfig.AMQPURL,
		AMQPExchange:    appConfig.AMQPExchange,
		AMQPQueue:       appConfig.AMQPQueue,
		SummaryCacheTTL: appConfig.SummaryCacheTTL,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %q", c.Type)
	}
	switch c.Type {
	case FileBackend:
		if c.DataFile == "" {
			return errors.New("data file path is required for file backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return errors.New("SQLite database path is required for sqlite backend")
		}
	}
	return nil
}
