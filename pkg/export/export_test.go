package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/teamday/core/model"
)

func samplePlan() *model.Plan {
	return &model.Plan{
		ID: "p1",
		Entries: []model.ScheduleEntry{
			{StartTime: "11:00", EndTime: "11:05", Participants: []string{"Anna", "Ben"}},
			{StartTime: "11:05", EndTime: "11:15", Participants: []string{"Anna", "Cleo"}},
		},
		Overview: []model.PersonAgenda{
			{Name: "Anna", Lines: []string{"11:00–11:05: Ben", "11:05–11:15: Cleo"}},
			{Name: "Ben", Lines: []string{"11:00–11:05: Anna"}},
			{Name: "Cleo", Lines: []string{"11:05–11:15: Anna"}},
		},
		Warnings: []string{},
		EndUnit:  3,
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, samplePlan()))
	want := "11:00–11:05: Anna, Ben\n" +
		"11:05–11:15: Anna, Cleo\n" +
		"\nAnna\n  • 11:00–11:05: Ben\n  • 11:05–11:15: Cleo\n" +
		"\nBen\n  • 11:00–11:05: Anna\n" +
		"\nCleo\n  • 11:05–11:15: Anna\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTextWarnings(t *testing.T) {
	p := samplePlan()
	p.Overview = nil
	p.Warnings = []string{"plan extends past 12:00 (ends at 12:10)"}
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, p))
	assert.Contains(t, buf.String(), "\nwarning: plan extends past 12:00 (ends at 12:10)\n")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, samplePlan()))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "p1", out["id"])
	assert.Len(t, out["entries"], 2)
	assert.Equal(t, []any{}, out["warnings"])
	assert.NotContains(t, out, "Assignments")
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTextError(t *testing.T) {
	assert.EqualError(t, WriteText(failWriter{}, samplePlan()), "disk full")
}
