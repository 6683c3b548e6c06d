package habit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DaysPerWeek is the length of every completion vector.
const DaysPerWeek = 7

// WeekKeyLayout is the time layout of a WeekKey.
const WeekKeyLayout = "2006-01-02"

// DayNames are the short weekday labels in vector order.
var DayNames = [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Week is the completion vector of one habit for one week, index 0 = Monday.
type Week [DaysPerWeek]bool

// Done returns the number of completed days.
func (w Week) Done() int {
	n := 0
	for _, d := range w {
		if d {
			n++
		}
	}
	return n
}

// WeekKey is the canonical YYYY-MM-DD date of a week's Monday.
type WeekKey string

// StartOfWeek returns midnight of the Monday on or before t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	offset := (int(t.Weekday()) + 6) % 7
	return time.Date(y, m, d-offset, 0, 0, 0, 0, t.Location())
}

// WeekOf returns the key of the Monday-start week containing t.
func WeekOf(t time.Time) WeekKey {
	return WeekKey(StartOfWeek(t).Format(WeekKeyLayout))
}

// ParseWeekKey validates s as a week key. The date must parse and fall on
// a Monday.
func ParseWeekKey(s string) (WeekKey, error) {
	t, err := time.Parse(WeekKeyLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid week key %q: %w", s, err)
	}
	if t.Weekday() != time.Monday {
		return "", fmt.Errorf("invalid week key %q: %s is not a Monday", s, t.Weekday())
	}
	return WeekKey(s), nil
}

// Start returns the Monday of the week at midnight in loc.
func (k WeekKey) Start(loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(WeekKeyLayout, string(k), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid week key %q: %w", k, err)
	}
	return t, nil
}

// Days returns the seven calendar dates of the week starting at monday.
func Days(monday time.Time) [DaysPerWeek]time.Time {
	var out [DaysPerWeek]time.Time
	for i := range out {
		out[i] = monday.AddDate(0, 0, i)
	}
	return out
}

// FormatRange renders a week as e.g. "Oct 19 – Oct 25, 2026", or
// "Dec 28, 2026 – Jan 3, 2027" when the week spans two years.
func FormatRange(monday time.Time) string {
	sunday := monday.AddDate(0, 0, DaysPerWeek-1)
	if monday.Year() != sunday.Year() {
		return monday.Format("Jan 2, 2006") + " – " + sunday.Format("Jan 2, 2006")
	}
	return monday.Format("Jan 2") + " – " + sunday.Format("Jan 2, 2006")
}

// ParseDay accepts a day index (0-6) or a weekday name ("wed",
// "Wednesday") and returns the vector index.
func ParseDay(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n >= DaysPerWeek {
			return 0, fmt.Errorf("day %d outside [0,%d]", n, DaysPerWeek-1)
		}
		return n, nil
	}
	lower := strings.ToLower(s)
	if len(lower) >= 2 {
		for i, name := range DayNames {
			full := strings.ToLower(time.Weekday((i + 1) % 7).String())
			if strings.HasPrefix(full, lower) || lower == strings.ToLower(name) {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}
