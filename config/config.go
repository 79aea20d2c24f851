package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/watthuis/spotplan/core/metrics"
	"github.com/watthuis/spotplan/infra/mqtt"
	"github.com/watthuis/spotplan/infra/nats"
	"github.com/watthuis/spotplan/infra/state"
	"github.com/watthuis/spotplan/internal/forecast"
)

type Config struct {
	// Location names the household in exported measurements.
	Location string          `json:"location"`
	Planner  PlannerConfig   `json:"planner"`
	Forecast forecast.Config `json:"forecast"`
	State    state.Config    `json:"state"`
	NATS     nats.Config     `json:"nats"`
	MQTT     mqtt.Config     `json:"mqtt"`
	Metrics  metrics.Config  `json:"metrics"`
}

// Load reads the configuration file (yaml or json, by extension) and applies
// SP_-prefixed environment overrides, e.g. SP_NATS__URL.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Load(env.Provider("SP_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Planner.SetDefaults()
	cfg.Forecast.SetDefaults()
	cfg.State.SetDefaults()
	cfg.NATS.SetDefaults()
	cfg.MQTT.SetDefaults()
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.State.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
