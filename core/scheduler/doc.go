// Package scheduler assigns meeting requests to time slots of a short,
// discrete timeline. Wishes are normalized into requests, placed by an
// exhaustive first-fit backtracking search and projected into schedule
// entries and a per-person overview.
package scheduler
