// Package state persists the spot price forecast between planner runs.
package state

import (
	"context"
	"fmt"

	"github.com/watthuis/spotplan/core/model"
)

// Store reads and writes the spot prices state. ReadState returns nil
// without error when no state has been stored yet, so callers can tell
// "nothing fetched" apart from a broken backend.
type Store interface {
	ReadState(ctx context.Context) (*model.SpotPricesState, error)
	StoreState(ctx context.Context, s model.SpotPricesState) error
}

// Config selects and configures the state backend.
type Config struct {
	// Backend is "file" or "redis".
	Backend string `json:"backend"`

	FilePath string `json:"file_path"`

	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`
	RedisKey      string `json:"redis_key"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "file"
	}
	if c.FilePath == "" {
		c.FilePath = "state/spot-prices.yaml"
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
	if c.RedisKey == "" {
		c.RedisKey = "spotplan:spot-prices-state"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Backend != "file" && c.Backend != "redis" {
		return fmt.Errorf("unknown state backend %s", c.Backend)
	}
	return nil
}

// NewStore builds the configured backend.
func NewStore(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.FilePath), nil
	case "redis":
		return NewRedisStore(cfg), nil
	default:
		return nil, fmt.Errorf("unknown state backend %s", cfg.Backend)
	}
}
