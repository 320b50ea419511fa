package model

import "strings"

// Assignment places a request group on the half-open unit range
// [StartUnit, EndUnit).
type Assignment struct {
	Group     []string `json:"group"`
	StartUnit int      `json:"start_unit"`
	EndUnit   int      `json:"end_unit"`
}

// Overlaps reports whether both assignments share a participant and their
// unit ranges intersect.
func (a Assignment) Overlaps(b Assignment) bool {
	if a.StartUnit >= b.EndUnit || b.StartUnit >= a.EndUnit {
		return false
	}
	for _, x := range a.Group {
		for _, y := range b.Group {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ScheduleEntry is the human readable projection of an Assignment.
type ScheduleEntry struct {
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Participants []string `json:"participants"`
}

// String renders the entry as "HH:MM–HH:MM: A, B".
func (e ScheduleEntry) String() string {
	return e.StartTime + "–" + e.EndTime + ": " + strings.Join(e.Participants, ", ")
}

// PersonAgenda lists the meetings of one participant in chronological order.
type PersonAgenda struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

// Plan is the result of a successful compute call.
type Plan struct {
	ID          string          `json:"id"`
	Entries     []ScheduleEntry `json:"entries"`
	Overview    []PersonAgenda  `json:"overview"`
	Warnings    []string        `json:"warnings"`
	EndUnit     int             `json:"end_unit"`
	Iterations  int             `json:"iterations"`
	Assignments []Assignment    `json:"-"`
}

// Lines renders every schedule entry.
func (p *Plan) Lines() []string {
	out := make([]string, len(p.Entries))
	for i, e := range p.Entries {
		out[i] = e.String()
	}
	return out
}

// Agenda returns the overview lines of the named participant.
func (p *Plan) Agenda(name string) ([]string, bool) {
	for _, a := range p.Overview {
		if a.Name == name {
			return a.Lines, true
		}
	}
	return nil, false
}
