package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/habits/internal/habit"
)

// evaluate checks one assertion against the final state.
func (h *Harness) evaluate(a Assertion, r *Result) error {
	switch a.Type {
	case AssertHabitCount:
		if len(r.Habits) != a.Count {
			return fmt.Errorf("expected %d habits, got %d", a.Count, len(r.Habits))
		}

	case AssertNames:
		got := make([]string, 0, len(r.Habits))
		for _, hb := range r.Habits {
			got = append(got, hb.Name)
		}
		if !slices.Equal(got, a.Names) {
			return fmt.Errorf("expected names %q, got %q", a.Names, got)
		}

	case AssertWeek:
		if r.Week != a.Week {
			return fmt.Errorf("expected week %s, got %s", a.Week, r.Week)
		}

	case AssertCompletion:
		hb, ok := h.tracker.Habit(a.Habit)
		if !ok {
			return fmt.Errorf("no habit at index %d", a.Habit)
		}
		var got habit.Week
		if a.Week != "" {
			got = h.tracker.CompletionData(hb, a.Week)
		} else {
			got = h.tracker.CompletionData(hb)
		}
		var want habit.Week
		copy(want[:], a.Days)
		if got != want {
			return fmt.Errorf("habit %d (%s): expected %v, got %v", a.Habit, hb.Name, want, got)
		}

	case AssertStored:
		if r.Present != *a.Present {
			return fmt.Errorf("expected stored present=%t, got %t", *a.Present, r.Present)
		}

	case AssertSaveError:
		err := h.tracker.LastSaveError()
		switch {
		case a.Error == "" && err != nil:
			return fmt.Errorf("expected last save to succeed, got %v", err)
		case a.Error != "" && err == nil:
			return fmt.Errorf("expected last save to fail with %q, got success", a.Error)
		case err != nil && !strings.Contains(err.Error(), a.Error):
			return fmt.Errorf("expected last save error containing %q, got %v", a.Error, err)
		}

	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
