package model

// Wish is one raw row entered by a user. Partners is the comma separated
// partner list exactly as typed.
type Wish struct {
	Requester       string `json:"requester" yaml:"requester"`
	Partners        string `json:"partners" yaml:"partners"`
	DurationMinutes int    `json:"duration_minutes" yaml:"duration_minutes"`
}

// Request is a normalized wish. Group is sorted and holds the requester and
// every distinct partner.
type Request struct {
	Group         []string
	DurationUnits int
}

// Contains reports whether name is part of the request group.
func (r Request) Contains(name string) bool {
	for _, n := range r.Group {
		if n == name {
			return true
		}
	}
	return false
}
