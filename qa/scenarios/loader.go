package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/teamday/core/events"
	"github.com/kilianp07/teamday/core/model"
	"github.com/kilianp07/teamday/core/scheduler"
)

type Expected struct {
	// Outcome is the solve outcome label; empty means ok.
	Outcome  string              `yaml:"outcome,omitempty"`
	Row      int                 `yaml:"row,omitempty"`
	Lines    []string            `yaml:"lines,omitempty"`
	Warnings []string            `yaml:"warnings,omitempty"`
	Agenda   map[string][]string `yaml:"agenda,omitempty"`
	EndTime  string              `yaml:"end_time,omitempty"`
}

type Scenario struct {
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Scheduler   scheduler.Config `yaml:"scheduler,omitempty"`
	Wishes      []model.Wish     `yaml:"wishes"`
	Expected    Expected         `yaml:"expected"`
}

// Load reads a scenario file. Scheduler settings not given in the file keep
// their defaults.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := Scenario{Scheduler: scheduler.DefaultConfig()}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}

// outcome returns the expected outcome, defaulting to ok.
func (e Expected) outcome() events.Outcome {
	if e.Outcome == "" {
		return events.OutcomeOK
	}
	return events.Outcome(e.Outcome)
}
