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

	"github.com/kilianp07/teamday/core/metrics"
	"github.com/kilianp07/teamday/core/scheduler"
	"github.com/kilianp07/teamday/infra/monitoring"
	"github.com/kilianp07/teamday/infra/mqtt"
)

type Config struct {
	Scheduler scheduler.Config  `json:"scheduler"`
	Logging   LoggingConfig     `json:"logging"`
	Metrics   metrics.Config    `json:"metrics"`
	HTTP      HTTPConfig        `json:"http"`
	MQTT      mqtt.Config       `json:"mqtt"`
	Sentry    monitoring.Config `json:"sentry"`
}

// HTTPConfig configures the planning API listener.
type HTTPConfig struct {
	Addr string `json:"addr"`
}

// DefaultSearchTimeoutMS bounds each search run by the service unless
// scheduler.timeout_ms is set. An explicit 0 lifts the bound.
const DefaultSearchTimeoutMS = 2000

func defaultScheduler() scheduler.Config {
	sc := scheduler.DefaultConfig()
	sc.TimeoutMS = DefaultSearchTimeoutMS
	return sc
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{Scheduler: defaultScheduler()}
	cfg.Logging.SetDefaults()
	cfg.HTTP.SetDefaults()
	return cfg
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Load reads a yaml or json file and applies K_ prefixed environment
// overrides, e.g. K_SCHEDULER__MAX_ITERATIONS=100000.
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
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}

	cfg := Config{Scheduler: defaultScheduler()}
	// Slices are merged element-wise on unmarshal, so a configured list must
	// start empty.
	if k.Exists("scheduler.durations_minutes") {
		cfg.Scheduler.DurationsMinutes = nil
	}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Scheduler.SetDefaults()
	cfg.Logging.SetDefaults()
	cfg.HTTP.SetDefaults()
	if err := cfg.Scheduler.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	if err := cfg.Logging.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
