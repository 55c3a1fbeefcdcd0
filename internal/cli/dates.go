// Package cli parses human-friendly command-line values.
package cli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Matches: "30m", "2h", "1d", "2w", "1mo", each optionally followed by "ago".
var relativeRegex = regexp.MustCompile(`^(\d+)(mo|w|d|h|m)(\s*ago)?$`)

// ParseAge turns an age expression into a duration measured back from now.
//
// Accepted forms: Go durations ("90m", "1h30m"), counts with a unit
// ("2d", "1w", "3d ago"), "today", "yesterday", weekday names (the most
// recent one), dates ("2026-01-02") and RFC3339 timestamps.
func ParseAge(s string, now time.Time) (time.Duration, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("empty age expression")
	}
	input := strings.ToLower(raw)

	if d, err := time.ParseDuration(input); err == nil {
		if d < 0 {
			return 0, fmt.Errorf("invalid age %q: must not be negative", raw)
		}
		return d, nil
	}

	if m := relativeRegex.FindStringSubmatch(input); m != nil {
		value, err := strconv.Atoi(m[1])
		if err != nil || value < 1 {
			return 0, fmt.Errorf("invalid age %q", raw)
		}
		return now.Sub(subtract(now, value, m[2])), nil
	}

	t, ok := parseMoment(raw, input, now)
	if !ok {
		return 0, fmt.Errorf("invalid age %q: use a duration like 2h or 3d, a weekday, or a date", raw)
	}
	if t.After(now) {
		return 0, fmt.Errorf("invalid age %q: must not be in the future", raw)
	}
	return now.Sub(t), nil
}

func parseMoment(raw, input string, now time.Time) (time.Time, bool) {
	switch input {
	case "today":
		return startOfDay(now), true
	case "yesterday":
		return startOfDay(now).AddDate(0, 0, -1), true
	}
	if wd, ok := weekdays[strings.TrimPrefix(input, "last ")]; ok {
		base := startOfDay(now)
		delta := (int(base.Weekday()) - int(wd) + 7) % 7
		return base.AddDate(0, 0, -delta), true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, now.Location()); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "weds": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func subtract(now time.Time, value int, unit string) time.Time {
	switch unit {
	case "mo":
		return now.AddDate(0, -value, 0)
	case "w":
		return now.AddDate(0, 0, -7*value)
	case "d":
		return now.AddDate(0, 0, -value)
	case "h":
		return now.Add(-time.Duration(value) * time.Hour)
	default: // "m"
		return now.Add(-time.Duration(value) * time.Minute)
	}
}
