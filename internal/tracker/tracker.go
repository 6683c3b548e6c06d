// Package tracker holds the authoritative habit collection and the
// currently viewed week.
//
// Every mutating call saves the full collection through the persistence
// adapter before returning. A failed save is logged and remembered (see
// LastSaveError) but never undoes the mutation: in-memory state stays
// authoritative.
//
// Thread-safety: a Tracker is owned by a single caller (one CLI command or
// one TUI program) and is not safe for concurrent use.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/habits/internal/habit"
)

var (
	// ErrHabitIndex is returned for a habit position outside the collection.
	ErrHabitIndex = errors.New("habit index out of range")

	// ErrDayIndex is returned for a day outside [0,6].
	ErrDayIndex = errors.New("day index out of range")
)

// Persister is the subset of persist.Adapter the tracker needs.
type Persister interface {
	Save(ctx context.Context, habits []habit.Habit) error
	Load(ctx context.Context) []habit.Habit
	Clear(ctx context.Context) error
}

// Tracker is the habit store.
type Tracker struct {
	persist Persister
	ids     habit.IDGenerator
	now     func() time.Time
	logger  *slog.Logger

	habits  []habit.Habit
	viewed  time.Time
	lastErr error
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the time source used for the initial viewed week and
// ResetToToday.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIDGenerator sets the id source for new habits.
func WithIDGenerator(g habit.IDGenerator) Option {
	return func(t *Tracker) {
		if g != nil {
			t.ids = g
		}
	}
}

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// New loads the stored collection once and returns a Tracker viewing the
// current week.
func New(ctx context.Context, p Persister, opts ...Option) *Tracker {
	t := &Tracker{
		persist: p,
		ids:     habit.UUIDv7Generator{},
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.habits = p.Load(ctx)
	if t.habits == nil {
		t.habits = []habit.Habit{}
	}
	t.viewed = t.now()
	t.logger.Debug("tracker ready", "habits", len(t.habits), "week", t.CurrentWeekKey())
	return t
}

// AddHabit appends a habit named name (trimmed) and saves. It does nothing
// and returns false when the trimmed name is empty. Duplicate names are
// allowed.
func (t *Tracker) AddHabit(ctx context.Context, name string) (habit.Habit, bool) {
	normalized, ok := habit.NormalizeName(name)
	if !ok {
		t.logger.Debug("ignoring empty habit name")
		return habit.Habit{}, false
	}

	h := habit.New(t.ids.Generate(), normalized)
	t.habits = append(t.habits, h)
	t.logger.Debug("habit added", "id", h.ID.String(), "name", h.Name)
	t.save(ctx)
	return h.Clone(), true
}

// RemoveHabit deletes the habit at index and saves. Out-of-range indexes
// are ignored and return false.
func (t *Tracker) RemoveHabit(ctx context.Context, index int) bool {
	if index < 0 || index >= len(t.habits) {
		t.logger.Debug("ignoring remove", "index", index, "len", len(t.habits))
		return false
	}

	removed := t.habits[index]
	t.habits = append(t.habits[:index:index], t.habits[index+1:]...)
	t.logger.Debug("habit removed", "id", removed.ID.String(), "name", removed.Name)
	t.save(ctx)
	return true
}

// ToggleDay flips dayIndex of the viewed week for the habit at habitIndex
// and saves. The week's vector is created on first toggle. Invalid indexes
// change nothing and return ErrHabitIndex or ErrDayIndex.
func (t *Tracker) ToggleDay(ctx context.Context, habitIndex, dayIndex int) error {
	if habitIndex < 0 || habitIndex >= len(t.habits) {
		return fmt.Errorf("%w: %d (have %d)", ErrHabitIndex, habitIndex, len(t.habits))
	}
	if dayIndex < 0 || dayIndex >= habit.DaysPerWeek {
		return fmt.Errorf("%w: %d", ErrDayIndex, dayIndex)
	}

	key := t.CurrentWeekKey()
	done, err := t.habits[habitIndex].Toggle(key, dayIndex)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDayIndex, err)
	}
	t.logger.Debug("day toggled", "habit", habitIndex, "week", key, "day", dayIndex, "done", done)
	t.save(ctx)
	return nil
}

// CompletionData returns h's vector for weekKey, or for the viewed week
// when weekKey is omitted. Unset weeks read as all-false.
func (t *Tracker) CompletionData(h habit.Habit, weekKey ...habit.WeekKey) habit.Week {
	key := t.CurrentWeekKey()
	if len(weekKey) > 0 {
		key = weekKey[0]
	}
	return h.Week(key)
}

// NextWeek moves the viewed week forward by seven days.
func (t *Tracker) NextWeek() {
	t.viewed = t.viewed.AddDate(0, 0, habit.DaysPerWeek)
}

// PreviousWeek moves the viewed week back by seven days.
func (t *Tracker) PreviousWeek() {
	t.viewed = t.viewed.AddDate(0, 0, -habit.DaysPerWeek)
}

// ShiftWeeks moves the viewed week by n weeks; negative n goes back.
func (t *Tracker) ShiftWeeks(n int) {
	t.viewed = t.viewed.AddDate(0, 0, n*habit.DaysPerWeek)
}

// SetViewedDate views the week containing d.
func (t *Tracker) SetViewedDate(d time.Time) {
	t.viewed = d
}

// ResetToToday views the week containing the clock's current time.
func (t *Tracker) ResetToToday() {
	t.viewed = t.now()
}

// ViewedDate returns the reference date of the viewed week.
func (t *Tracker) ViewedDate() time.Time {
	return t.viewed
}

// CurrentWeekKey returns the Monday-start key of the viewed week.
func (t *Tracker) CurrentWeekKey() habit.WeekKey {
	return habit.WeekOf(t.viewed)
}

// WeekDays returns the seven dates of the viewed week, Monday first.
func (t *Tracker) WeekDays() [habit.DaysPerWeek]time.Time {
	return habit.Days(habit.StartOfWeek(t.viewed))
}

// WeekRange returns the viewed week as human-readable text.
func (t *Tracker) WeekRange() string {
	return habit.FormatRange(habit.StartOfWeek(t.viewed))
}

// IsCurrentWeek reports whether the viewed week contains today.
func (t *Tracker) IsCurrentWeek() bool {
	return habit.WeekOf(t.now()) == t.CurrentWeekKey()
}

// TodayIndex returns today's position in the viewed week, or false when
// the viewed week is not the current one.
func (t *Tracker) TodayIndex() (int, bool) {
	now := t.now()
	if habit.WeekOf(now) != habit.WeekOf(t.viewed.In(now.Location())) {
		return 0, false
	}
	return (int(now.Weekday()) + 6) % 7, true
}

// Habits returns a deep copy of the collection in display order.
func (t *Tracker) Habits() []habit.Habit {
	return habit.CloneAll(t.habits)
}

// Habit returns a copy of the habit at index.
func (t *Tracker) Habit(index int) (habit.Habit, bool) {
	if index < 0 || index >= len(t.habits) {
		return habit.Habit{}, false
	}
	return t.habits[index].Clone(), true
}

// Len returns the number of habits.
func (t *Tracker) Len() int {
	return len(t.habits)
}

// Clear drops every habit and removes the stored slot.
func (t *Tracker) Clear(ctx context.Context) error {
	t.habits = []habit.Habit{}
	if err := t.persist.Clear(ctx); err != nil {
		t.lastErr = err
		t.logger.Warn("storage clear failed; continuing in memory", "error", err)
		return err
	}
	t.lastErr = nil
	return nil
}

// LastSaveError returns the error from the most recent save or clear, or
// nil if it succeeded.
func (t *Tracker) LastSaveError() error {
	return t.lastErr
}

func (t *Tracker) save(ctx context.Context) {
	t.lastErr = t.persist.Save(ctx, t.habits)
	if t.lastErr != nil {
		t.logger.Warn("save failed; continuing in memory", "error", t.lastErr)
	}
}
