package scheduler

import (
	"sort"
	"strings"

	"github.com/kilianp07/teamday/core/model"
)

// maxRawPartners is the row pre-check limit, applied before requester checks.
const maxRawPartners = 3

// Normalize validates wishes and turns them into requests in row order.
// Rows with an empty requester are skipped. The first malformed row aborts
// normalization with a *ValidationError.
func Normalize(wishes []model.Wish, cfg Config) ([]model.Request, error) {
	for i, w := range wishes {
		if len(splitPartners(w.Partners)) > maxRawPartners {
			return nil, &ValidationError{Row: i + 1, Requester: strings.TrimSpace(w.Requester), Reason: ErrTooManyPartners}
		}
	}

	var reqs []model.Request
	for i, w := range wishes {
		requester := strings.TrimSpace(w.Requester)
		if requester == "" {
			continue
		}
		partners := splitPartners(w.Partners)
		for _, p := range partners {
			if p == requester {
				return nil, &ValidationError{Row: i + 1, Requester: requester, Reason: ErrRequesterIsPartner}
			}
		}
		if len(partners) == 0 || len(partners) > 2 {
			return nil, &ValidationError{Row: i + 1, Requester: requester, Reason: ErrPartnerCount}
		}
		if !cfg.allowsDuration(w.DurationMinutes) {
			return nil, &ValidationError{Row: i + 1, Requester: requester, Reason: ErrDuration}
		}
		reqs = append(reqs, model.Request{
			Group:         groupOf(requester, partners),
			DurationUnits: w.DurationMinutes / cfg.SlotMinutes,
		})
	}
	if len(reqs) == 0 {
		return nil, ErrEmptyInput
	}
	return reqs, nil
}

func splitPartners(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// groupOf returns the sorted set of the requester and partners. A partner
// listed twice collapses into one member.
func groupOf(requester string, partners []string) []string {
	seen := map[string]bool{requester: true}
	group := []string{requester}
	for _, p := range partners {
		if !seen[p] {
			seen[p] = true
			group = append(group, p)
		}
	}
	sort.Strings(group)
	return group
}
