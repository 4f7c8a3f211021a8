package scheduler

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultUpdateTimes is the refresh schedule used when none is configured.
const DefaultUpdateTimes = "06:00;18:00"

// ClockTime is a time of day in local time.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// ParseUpdateTimes parses a semicolon separated list of HH:MM times, the
// format gocron's At accepts. The result is sorted and deduplicated.
func ParseUpdateTimes(value string) ([]ClockTime, error) {
	var times []ClockTime
	seen := make(map[ClockTime]bool)

	for _, part := range strings.Split(value, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		t, err := time.Parse("15:04", part)
		if err != nil {
			return nil, fmt.Errorf("invalid update time %q, expected HH:MM", part)
		}
		ct := ClockTime{Hour: t.Hour(), Minute: t.Minute()}
		if !seen[ct] {
			seen[ct] = true
			times = append(times, ct)
		}
	}

	if len(times) == 0 {
		return nil, fmt.Errorf("no update times in %q", value)
	}

	slices.SortFunc(times, func(a, b ClockTime) int {
		return minutes(a) - minutes(b)
	})
	return times, nil
}

func minutes(c ClockTime) int {
	return c.Hour*60 + c.Minute
}

// formatAt renders times for gocron's At.
func formatAt(times []ClockTime) string {
	parts := make([]string, len(times))
	for i, t := range times {
		parts[i] = t.String()
	}
	return strings.Join(parts, ";")
}

// NextRun returns the first scheduled time strictly after now. times must
// be sorted, as returned by ParseUpdateTimes.
func NextRun(now time.Time, times []ClockTime) time.Time {
	if len(times) == 0 {
		times, _ = ParseUpdateTimes(DefaultUpdateTimes)
	}

	for _, t := range times {
		candidate := time.Date(now.Year(), now.Month(), now.Day(), t.Hour, t.Minute, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
	}

	tomorrow := now.AddDate(0, 0, 1)
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), times[0].Hour, times[0].Minute, 0, 0, now.Location())
}
