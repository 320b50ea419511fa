package monitoring

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremon "github.com/kilianp07/teamday/core/monitoring"
)

// capturingMonitor returns a monitor whose events are collected by
// BeforeSend and never leave the process.
func capturingMonitor(t *testing.T) (*sentryMonitor, func() []*sentry.Event) {
	t.Helper()
	var (
		mu     sync.Mutex
		events []*sentry.Event
	)
	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn: "https://key@example.com/1",
		BeforeSend: func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			mu.Lock()
			events = append(events, e)
			mu.Unlock()
			return nil
		},
	})
	require.NoError(t, err)
	mon := &sentryMonitor{hub: sentry.NewHub(client, sentry.NewScope())}
	return mon, func() []*sentry.Event {
		mu.Lock()
		defer mu.Unlock()
		return append([]*sentry.Event(nil), events...)
	}
}

func TestNewSentryMonitorDisabled(t *testing.T) {
	mon, err := NewSentryMonitor(Config{})
	require.NoError(t, err)
	assert.IsType(t, coremon.NopMonitor{}, mon)
}

func TestSentryMonitorCapture(t *testing.T) {
	mon, events := capturingMonitor(t)

	mon.CaptureException(errors.New("publish failed"), map[string]string{"module": "mqtt", "plan_id": "p1"})
	mon.CaptureException(nil, nil)
	mon.Flush(time.Second)

	got := events()
	require.Len(t, got, 1)
	assert.Equal(t, "mqtt", got[0].Tags["module"])
	assert.Equal(t, "p1", got[0].Tags["plan_id"])
}

func TestSentryMonitorRecoverRepanics(t *testing.T) {
	mon, events := capturingMonitor(t)

	assert.PanicsWithValue(t, "boom", func() {
		defer mon.Recover()
		panic("boom")
	})
	assert.Len(t, events(), 1)
}
