package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentOverlaps(t *testing.T) {
	a := Assignment{Group: []string{"A", "B"}, StartUnit: 0, EndUnit: 2}
	cases := []struct {
		name string
		b    Assignment
		want bool
	}{
		{"shared and intersecting", Assignment{Group: []string{"A", "C"}, StartUnit: 1, EndUnit: 2}, true},
		{"shared but adjacent", Assignment{Group: []string{"A", "C"}, StartUnit: 2, EndUnit: 3}, false},
		{"disjoint groups", Assignment{Group: []string{"C", "D"}, StartUnit: 0, EndUnit: 2}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, a.Overlaps(c.b))
			assert.Equal(t, c.want, c.b.Overlaps(a))
		})
	}
}

func TestPlanLinesAndAgenda(t *testing.T) {
	p := &Plan{
		Entries: []ScheduleEntry{{StartTime: "11:00", EndTime: "11:05", Participants: []string{"A", "B"}}},
		Overview: []PersonAgenda{
			{Name: "A", Lines: []string{"11:00–11:05: B"}},
			{Name: "B", Lines: []string{"11:00–11:05: A"}},
		},
	}
	assert.Equal(t, []string{"11:00–11:05: A, B"}, p.Lines())
	lines, ok := p.Agenda("B")
	assert.True(t, ok)
	assert.Equal(t, []string{"11:00–11:05: A"}, lines)
	_, ok = p.Agenda("Z")
	assert.False(t, ok)
}

func TestRequestContains(t *testing.T) {
	r := Request{Group: []string{"A", "B"}, DurationUnits: 1}
	assert.True(t, r.Contains("B"))
	assert.False(t, r.Contains("C"))
}
