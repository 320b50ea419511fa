package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kilianp07/teamday/core/model"
)

// Projection turns a solved assignment list into display data.
type Projection struct {
	Clock       Clock
	SoftHorizon int
	Locale      language.Tag
}

// SortAssignments orders assignments by start unit. Ties keep search order.
func SortAssignments(as []model.Assignment) []model.Assignment {
	out := append([]model.Assignment(nil), as...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartUnit < out[j].StartUnit })
	return out
}

// Entries converts sorted assignments into schedule entries.
func (p Projection) Entries(sorted []model.Assignment) []model.ScheduleEntry {
	out := make([]model.ScheduleEntry, len(sorted))
	for i, a := range sorted {
		out[i] = model.ScheduleEntry{
			StartTime:    p.Clock.UnitToTime(a.StartUnit),
			EndTime:      p.Clock.UnitToTime(a.EndUnit),
			Participants: append([]string(nil), a.Group...),
		}
	}
	return out
}

// EndUnit returns the largest end unit, or 0 for an empty list.
func EndUnit(as []model.Assignment) int {
	end := 0
	for _, a := range as {
		if a.EndUnit > end {
			end = a.EndUnit
		}
	}
	return end
}

// Warnings reports a plan ending after the soft horizon.
func (p Projection) Warnings(endUnit int) []string {
	if endUnit <= p.SoftHorizon {
		return []string{}
	}
	return []string{fmt.Sprintf("plan extends past %s (ends at %s)",
		p.Clock.UnitToTime(p.SoftHorizon), p.Clock.UnitToTime(endUnit))}
}

// Overview groups the schedule per participant. Lines follow schedule order
// and names are ordered by the collation rules of p.Locale.
func (p Projection) Overview(entries []model.ScheduleEntry) []model.PersonAgenda {
	lines := make(map[string][]string)
	for _, e := range entries {
		for _, name := range e.Participants {
			others := make([]string, 0, len(e.Participants)-1)
			for _, o := range e.Participants {
				if o != name {
					others = append(others, o)
				}
			}
			lines[name] = append(lines[name], e.StartTime+"–"+e.EndTime+": "+strings.Join(others, ", "))
		}
	}
	names := make([]string, 0, len(lines))
	for name := range lines {
		names = append(names, name)
	}
	col := collate.New(p.Locale)
	sort.Slice(names, func(i, j int) bool {
		if c := col.CompareString(names[i], names[j]); c != 0 {
			return c < 0
		}
		return names[i] < names[j]
	})
	out := make([]model.PersonAgenda, len(names))
	for i, name := range names {
		out[i] = model.PersonAgenda{Name: name, Lines: lines[name]}
	}
	return out
}
