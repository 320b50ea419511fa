package scheduler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnalignedTime is returned for times that do not start a unit.
var ErrUnalignedTime = errors.New("time is not aligned to the slot grid")

// Clock converts between unit indexes and "HH:MM" wall clock strings.
type Clock struct {
	BaseHour    int
	SlotMinutes int
}

// UnitToTime returns the wall clock time at which unit starts.
func (c Clock) UnitToTime(unit int) string {
	minutes := unit * c.SlotMinutes
	return fmt.Sprintf("%02d:%02d", c.BaseHour+minutes/60, minutes%60)
}

// TimeToUnit is the inverse of UnitToTime.
func (c Clock) TimeToUnit(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	offset := (h-c.BaseHour)*60 + m
	if offset < 0 {
		return 0, fmt.Errorf("%s is before %02d:00", s, c.BaseHour)
	}
	if offset%c.SlotMinutes != 0 {
		return 0, fmt.Errorf("%s: %w", s, ErrUnalignedTime)
	}
	return offset / c.SlotMinutes, nil
}
