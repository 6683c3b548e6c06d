package tracker

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/habits/internal/habit"
	"github.com/roach88/habits/internal/kv"
	"github.com/roach88/habits/internal/persist"
	"github.com/roach88/habits/internal/testutil"
)

// wednesday is 2026-10-21; its week key is 2026-10-19.
var wednesday = time.Date(2026, time.October, 21, 9, 0, 0, 0, time.UTC)

type fixture struct {
	tracker *Tracker
	port    *kv.Memory
	adapter *persist.Adapter
	clock   *testutil.Clock
	logs    *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithPort(t, kv.NewMemory())
}

func newFixtureWithPort(t *testing.T, port *kv.Memory) *fixture {
	t.Helper()
	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	clock := testutil.NewClock(wednesday)
	adapter := persist.New(port, persist.WithLogger(logger))
	tr := New(context.Background(), adapter,
		WithClock(clock.Now),
		WithIDGenerator(testutil.NewSequentialIDs("h")),
		WithLogger(logger),
	)
	return &fixture{tracker: tr, port: port, adapter: adapter, clock: clock, logs: logs}
}

// stored reloads what is currently persisted.
func (f *fixture) stored() []habit.Habit {
	return f.adapter.Load(context.Background())
}

func TestNew_EmptyStorage(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, 0, f.tracker.Len())
	assert.NotNil(t, f.tracker.Habits())
	assert.Equal(t, habit.WeekKey("2026-10-19"), f.tracker.CurrentWeekKey())
}

func TestNew_SeedsFromStorage(t *testing.T) {
	port := kv.NewMemory()
	raw := `[{"id":1718000000000,"name":"Read","completionData":{"2026-10-19":[true,false,false,false,false,false,false]}}]`
	require.NoError(t, port.Set(context.Background(), persist.Key, raw))

	f := newFixtureWithPort(t, port)
	require.Equal(t, 1, f.tracker.Len())
	h, ok := f.tracker.Habit(0)
	require.True(t, ok)
	assert.Equal(t, "Read", h.Name)
	assert.Equal(t, habit.Week{true}, f.tracker.CompletionData(h))
}

func TestNew_CorruptStorageStartsEmpty(t *testing.T) {
	port := kv.NewMemory()
	require.NoError(t, port.Set(context.Background(), persist.Key, `{not json`))

	f := newFixtureWithPort(t, port)
	assert.Equal(t, 0, f.tracker.Len())
	assert.Contains(t, f.logs.String(), "discarding stored habits")
}

func TestAddHabit(t *testing.T) {
	ctx := context.Background()
	names := []string{"Read", "  Run  ", "\tMeditate\n", "a", "Read"}

	f := newFixture(t)
	for i, name := range names {
		before := f.tracker.Len()
		h, ok := f.tracker.AddHabit(ctx, name)
		require.True(t, ok, "name %q", name)
		assert.Equal(t, before+1, f.tracker.Len())

		want, _ := habit.NormalizeName(name)
		assert.Equal(t, want, h.Name)
		assert.Empty(t, h.CompletionData)

		last, _ := f.tracker.Habit(i)
		assert.Equal(t, h.ID, last.ID, "appended at the end")
	}

	habits := f.tracker.Habits()
	assert.Equal(t, "Read", habits[0].Name)
	assert.Equal(t, "Read", habits[4].Name, "duplicate names are allowed")
	assert.NotEqual(t, habits[0].ID, habits[4].ID)
	assert.Len(t, f.stored(), len(names), "every add is saved")
}

func TestAddHabit_EmptyNameIsNoOp(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, ok := f.tracker.AddHabit(ctx, name)
		assert.False(t, ok, "name %q", name)
	}
	assert.Equal(t, 0, f.tracker.Len())
	assert.Equal(t, 0, f.port.Len(), "no-op must not save")
}

func TestRemoveHabit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.AddHabit(ctx, "Read")
	f.tracker.AddHabit(ctx, "Run")

	assert.True(t, f.tracker.RemoveHabit(ctx, 0))

	habits := f.tracker.Habits()
	require.Len(t, habits, 1)
	assert.Equal(t, "Run", habits[0].Name)

	stored := f.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, "Run", stored[0].Name)
}

func TestRemoveHabit_OutOfRange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.AddHabit(ctx, "Read")

	for _, idx := range []int{-1, 1, 99} {
		assert.False(t, f.tracker.RemoveHabit(ctx, idx), "index %d", idx)
	}
	assert.Equal(t, 1, f.tracker.Len())
}

func TestToggleDay_Scenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	f.tracker.AddHabit(ctx, "Read")
	require.NoError(t, f.tracker.ToggleDay(ctx, 0, 2))

	h, _ := f.tracker.Habit(0)
	assert.Equal(t, habit.Week{false, false, true, false, false, false, false}, f.tracker.CompletionData(h))

	stored := f.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, habit.Week{false, false, true}, stored[0].CompletionData["2026-10-19"])
}

func TestToggleDay_TwiceRestores(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.AddHabit(ctx, "Read")

	for day := 0; day < habit.DaysPerWeek; day++ {
		h, _ := f.tracker.Habit(0)
		before := f.tracker.CompletionData(h)

		require.NoError(t, f.tracker.ToggleDay(ctx, 0, day))
		require.NoError(t, f.tracker.ToggleDay(ctx, 0, day))

		h, _ = f.tracker.Habit(0)
		assert.Equal(t, before, f.tracker.CompletionData(h), "day %d", day)
	}
}

func TestToggleDay_TouchesOnlyOneDayOfOneWeek(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.AddHabit(ctx, "Read")
	f.tracker.AddHabit(ctx, "Run")

	f.tracker.PreviousWeek()
	require.NoError(t, f.tracker.ToggleDay(ctx, 0, 0))
	require.NoError(t, f.tracker.ToggleDay(ctx, 0, 6))
	prevKey := f.tracker.CurrentWeekKey()
	f.tracker.NextWeek()

	require.NoError(t, f.tracker.ToggleDay(ctx, 0, 3))

	read, _ := f.tracker.Habit(0)
	run, _ := f.tracker.Habit(1)
	assert.Equal(t, habit.Week{false, false, false, true}, f.tracker.CompletionData(read))
	assert.Equal(t, habit.Week{true, false, false, false, false, false, true}, f.tracker.CompletionData(read, prevKey))
	assert.Empty(t, run.CompletionData, "other habits untouched")
}

func TestToggleDay_InvalidIndexes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.AddHabit(ctx, "Read")
	savedBefore, _, _ := f.port.Get(ctx, persist.Key)

	err := f.tracker.ToggleDay(ctx, 1, 0)
	assert.ErrorIs(t, err, ErrHabitIndex)
	err = f.tracker.ToggleDay(ctx, -1, 0)
	assert.ErrorIs(t, err, ErrHabitIndex)
	err = f.tracker.ToggleDay(ctx, 0, 7)
	assert.ErrorIs(t, err, ErrDayIndex)
	err = f.tracker.ToggleDay(ctx, 0, -1)
	assert.ErrorIs(t, err, ErrDayIndex)

	h, _ := f.tracker.Habit(0)
	assert.Empty(t, h.CompletionData, "no week allocated")
	savedAfter, _, _ := f.port.Get(ctx, persist.Key)
	assert.Equal(t, savedBefore, savedAfter)
}

func TestCompletionData_DoesNotMutate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.AddHabit(ctx, "Read")

	h, _ := f.tracker.Habit(0)
	assert.Equal(t, habit.Week{}, f.tracker.CompletionData(h))
	assert.Equal(t, habit.Week{}, f.tracker.CompletionData(h, "2020-01-06"))

	h, _ = f.tracker.Habit(0)
	assert.Empty(t, h.CompletionData)
}

func TestHabits_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.AddHabit(ctx, "Read")

	habits := f.tracker.Habits()
	habits[0].Name = "Mutated"
	_, _ = habits[0].Toggle("2026-10-19", 0)

	h, _ := f.tracker.Habit(0)
	assert.Equal(t, "Read", h.Name)
	assert.Empty(t, h.CompletionData)
}

func TestWeekNavigation_RoundTrip(t *testing.T) {
	f := newFixture(t)
	start := f.tracker.ViewedDate()
	startKey := f.tracker.CurrentWeekKey()

	f.tracker.NextWeek()
	assert.Equal(t, habit.WeekKey("2026-10-26"), f.tracker.CurrentWeekKey())
	f.tracker.PreviousWeek()
	assert.Equal(t, start, f.tracker.ViewedDate())
	assert.Equal(t, startKey, f.tracker.CurrentWeekKey())

	f.tracker.PreviousWeek()
	assert.Equal(t, habit.WeekKey("2026-10-12"), f.tracker.CurrentWeekKey())
	assert.Equal(t, time.Wednesday, f.tracker.ViewedDate().Weekday(), "day-of-week preserved")
	f.tracker.NextWeek()
	assert.Equal(t, start, f.tracker.ViewedDate())
}

func TestWeekNavigation_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	f := newFixture(t)
	// DST ends on 2026-10-25 in Berlin.
	start := time.Date(2026, time.October, 21, 0, 30, 0, 0, loc)
	f.tracker.SetViewedDate(start)

	f.tracker.NextWeek()
	assert.Equal(t, habit.WeekKey("2026-10-26"), f.tracker.CurrentWeekKey())
	f.tracker.PreviousWeek()
	assert.Equal(t, start, f.tracker.ViewedDate())
}

func TestShiftWeeksAndToday(t *testing.T) {
	f := newFixture(t)

	f.tracker.ShiftWeeks(-3)
	assert.Equal(t, habit.WeekKey("2026-09-28"), f.tracker.CurrentWeekKey())
	assert.False(t, f.tracker.IsCurrentWeek())

	f.tracker.ResetToToday()
	assert.Equal(t, habit.WeekKey("2026-10-19"), f.tracker.CurrentWeekKey())
	assert.True(t, f.tracker.IsCurrentWeek())

	f.clock.Advance(7 * 24 * time.Hour)
	assert.False(t, f.tracker.IsCurrentWeek())
	f.tracker.ResetToToday()
	assert.Equal(t, habit.WeekKey("2026-10-26"), f.tracker.CurrentWeekKey())
}

func TestCurrentWeekKey_Wednesday(t *testing.T) {
	f := newFixture(t)
	f.tracker.SetViewedDate(time.Date(2027, time.March, 3, 18, 0, 0, 0, time.UTC))
	assert.Equal(t, habit.WeekKey("2027-03-01"), f.tracker.CurrentWeekKey())
}

func TestWeekDaysAndRange(t *testing.T) {
	f := newFixture(t)

	days := f.tracker.WeekDays()
	assert.Equal(t, time.Monday, days[0].Weekday())
	assert.Equal(t, 19, days[0].Day())
	assert.Equal(t, 25, days[6].Day())
	assert.Equal(t, "Oct 19 – Oct 25, 2026", f.tracker.WeekRange())
}

func TestSaveFailure_StateStaysAuthoritative(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	quota := errors.New("quota exceeded")
	f.port.FailSet = quota

	h, ok := f.tracker.AddHabit(ctx, "Read")
	require.True(t, ok)
	assert.ErrorIs(t, f.tracker.LastSaveError(), quota)
	require.NoError(t, f.tracker.ToggleDay(ctx, 0, 1))

	got, _ := f.tracker.Habit(0)
	assert.Equal(t, h.ID, got.ID)
	assert.Equal(t, habit.Week{false, true}, f.tracker.CompletionData(got))
	assert.Contains(t, f.logs.String(), "save failed; continuing in memory")

	f.port.FailSet = nil
	require.NoError(t, f.tracker.ToggleDay(ctx, 0, 2))
	assert.NoError(t, f.tracker.LastSaveError())
	assert.Len(t, f.stored(), 1, "next successful save persists everything")
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.tracker.AddHabit(ctx, "Read")

	require.NoError(t, f.tracker.Clear(ctx))
	assert.Equal(t, 0, f.tracker.Len())
	assert.Equal(t, 0, f.port.Len())

	f.port.FailDelete = errors.New("read-only")
	f.tracker.AddHabit(ctx, "Run")
	assert.Error(t, f.tracker.Clear(ctx))
	assert.Equal(t, 0, f.tracker.Len(), "memory cleared even when storage is not")
}

func TestPersistenceAcrossSessions(t *testing.T) {
	ctx := context.Background()
	port := kv.NewMemory()

	first := newFixtureWithPort(t, port)
	first.tracker.AddHabit(ctx, "Read")
	first.tracker.AddHabit(ctx, "Run")
	require.NoError(t, first.tracker.ToggleDay(ctx, 1, 4))

	second := newFixtureWithPort(t, port)
	assert.Equal(t, first.tracker.Habits(), second.tracker.Habits())
}

func TestTodayIndex(t *testing.T) {
	f := newFixture(t)

	day, ok := f.tracker.TodayIndex()
	require.True(t, ok)
	assert.Equal(t, 2, day, "2026-10-21 is a Wednesday")

	f.tracker.NextWeek()
	_, ok = f.tracker.TodayIndex()
	assert.False(t, ok)
}
