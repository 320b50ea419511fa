package scheduler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config defines the timeline and search parameters.
type Config struct {
	// BaseHour is the wall clock hour of unit 0.
	BaseHour int `json:"base_hour" yaml:"base_hour"`
	// SlotMinutes is the length of one unit.
	SlotMinutes int `json:"slot_minutes" yaml:"slot_minutes"`
	// SoftHorizonUnits only triggers a warning when a plan ends after it.
	SoftHorizonUnits int `json:"soft_horizon_units" yaml:"soft_horizon_units"`
	// HardHorizonUnits bounds the search; nothing is placed at or after it.
	HardHorizonUnits int `json:"hard_horizon_units" yaml:"hard_horizon_units"`
	// DurationsMinutes lists the meeting lengths a wish may ask for.
	DurationsMinutes []int `json:"durations_minutes" yaml:"durations_minutes"`
	// MaxIterations caps the number of candidate placements tried. 0 disables the cap.
	// Inputs where one participant needs more units than the hard horizon are
	// rejected as infeasible before searching, so they report 0 iterations and
	// never hit this cap.
	MaxIterations int `json:"max_iterations" yaml:"max_iterations"`
	// TimeoutMS aborts a search running longer than this. 0 disables the timeout.
	TimeoutMS int `json:"timeout_ms" yaml:"timeout_ms"`
	// Locale drives the ordering of names in the overview.
	Locale string `json:"locale" yaml:"locale"`
}

// DefaultConfig plans 11:00 to 13:00 in 5 minute units and warns past 12:00.
func DefaultConfig() Config {
	return Config{
		BaseHour:         11,
		SlotMinutes:      5,
		SoftHorizonUnits: 12,
		HardHorizonUnits: 24,
		DurationsMinutes: []int{5, 10},
		Locale:           "en",
	}
}

// SetDefaults fills zero valued fields. BaseHour is left alone since 0 is a
// valid start hour.
func (c *Config) SetDefaults() {
	d := DefaultConfig()
	if c.SlotMinutes == 0 {
		c.SlotMinutes = d.SlotMinutes
	}
	if c.SoftHorizonUnits == 0 {
		c.SoftHorizonUnits = d.SoftHorizonUnits
	}
	if c.HardHorizonUnits == 0 {
		c.HardHorizonUnits = d.HardHorizonUnits
	}
	if len(c.DurationsMinutes) == 0 {
		c.DurationsMinutes = d.DurationsMinutes
	}
	if c.Locale == "" {
		c.Locale = d.Locale
	}
}

// Validate checks that the timeline fits into a single day and that every
// allowed duration is a whole number of units.
func (c Config) Validate() error {
	if c.SlotMinutes <= 0 || 60%c.SlotMinutes != 0 {
		return fmt.Errorf("slot_minutes must divide 60, got %d", c.SlotMinutes)
	}
	if c.BaseHour < 0 || c.BaseHour > 23 {
		return fmt.Errorf("base_hour must be within 0..23, got %d", c.BaseHour)
	}
	if c.HardHorizonUnits <= 0 {
		return errors.New("hard_horizon_units must be positive")
	}
	if c.SoftHorizonUnits <= 0 || c.SoftHorizonUnits > c.HardHorizonUnits {
		return fmt.Errorf("soft_horizon_units must be within 1..%d", c.HardHorizonUnits)
	}
	if c.BaseHour*60+c.HardHorizonUnits*c.SlotMinutes > 24*60 {
		return errors.New("hard horizon crosses midnight")
	}
	if len(c.DurationsMinutes) == 0 {
		return errors.New("durations_minutes must not be empty")
	}
	for _, d := range c.DurationsMinutes {
		if d <= 0 || d%c.SlotMinutes != 0 {
			return fmt.Errorf("duration %d is not a multiple of %d minutes", d, c.SlotMinutes)
		}
	}
	if c.MaxIterations < 0 || c.TimeoutMS < 0 {
		return errors.New("search budget must not be negative")
	}
	return nil
}

// Clock returns the unit/time conversion for this configuration.
func (c Config) Clock() Clock {
	return Clock{BaseHour: c.BaseHour, SlotMinutes: c.SlotMinutes}
}

func (c Config) allowsDuration(minutes int) bool {
	for _, d := range c.DurationsMinutes {
		if d == minutes {
			return true
		}
	}
	return false
}

// LoadConfig loads a Config from a JSON or YAML file. Keys missing from the
// file keep their DefaultConfig value.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer func() { _ = f.Close() }()
	return DecodeConfig(f, strings.TrimPrefix(filepath.Ext(path), "."))
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	cfg := DefaultConfig()
	if err := decode(r, format, &cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decode(r io.Reader, format string, out any) error {
	switch strings.ToLower(format) {
	case "yaml", "yml":
		return yaml.NewDecoder(r).Decode(out)
	case "json":
		return json.NewDecoder(r).Decode(out)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
