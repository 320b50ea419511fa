package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "config.yaml", `scheduler:
  base_hour: 9
  soft_horizon_units: 18
  hard_horizon_units: 36
  durations_minutes: [15]
  max_iterations: 500000
  locale: de
logging:
  level: debug
  file: /var/log/teamday/teamday.log
  max_backups: 3
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "nop"
http:
  addr: ":9000"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "teamday"
  topic: "office/plans"
  qos: 1
sentry:
  environment: staging
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"base_hour", cfg.Scheduler.BaseHour, 9},
		{"slot_minutes", cfg.Scheduler.SlotMinutes, 5},
		{"soft_horizon_units", cfg.Scheduler.SoftHorizonUnits, 18},
		{"hard_horizon_units", cfg.Scheduler.HardHorizonUnits, 36},
		{"max_iterations", cfg.Scheduler.MaxIterations, 500000},
		{"locale", cfg.Scheduler.Locale, "de"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.file", cfg.Logging.File, "/var/log/teamday/teamday.log"},
		{"logging.max_size_mb", cfg.Logging.MaxSizeMB, 50},
		{"logging.max_backups", cfg.Logging.MaxBackups, 3},
		{"prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"http.addr", cfg.HTTP.Addr, ":9000"},
		{"mqtt.enabled", cfg.MQTT.Enabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.topic", cfg.MQTT.Topic, "office/plans"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"sentry.environment", cfg.Sentry.Environment, "staging"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
	assert.Equal(t, []int{15}, cfg.Scheduler.DurationsMinutes)
	require.Len(t, cfg.Metrics.Sinks, 1)
	assert.Equal(t, "nop", cfg.Metrics.Sinks[0].Type)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.json", `{}`))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 11, cfg.Scheduler.BaseHour)
	assert.Equal(t, []int{5, 10}, cfg.Scheduler.DurationsMinutes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, DefaultSearchTimeoutMS, cfg.Scheduler.TimeoutMS)
}

func TestLoadUnboundedSearch(t *testing.T) {
	cfg, err := Load(writeFile(t, "config.yaml", "scheduler:\n  timeout_ms: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Scheduler.TimeoutMS)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("K_SCHEDULER__MAX_ITERATIONS", "1000")
	t.Setenv("K_LOGGING__LEVEL", "warn")
	cfg, err := Load(writeFile(t, "config.yaml", "logging:\n  level: debug\n"))
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Scheduler.MaxIterations)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "config.toml", ""))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "config.yaml", "scheduler:\n  slot_minutes: 7\n"))
	assert.ErrorContains(t, err, "slot_minutes")

	_, err = Load(writeFile(t, "config.yaml", "logging:\n  level: loud\n"))
	assert.ErrorContains(t, err, "unknown log level")
}
