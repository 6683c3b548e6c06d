package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/habits/internal/habit"
	"github.com/roach88/habits/internal/kv"
	"github.com/roach88/habits/internal/persist"
	"github.com/roach88/habits/internal/testutil"
	"github.com/roach88/habits/internal/tracker"
)

// Result is the outcome of one scenario run.
type Result struct {
	// Pass is true when every step behaved as expected and every assertion
	// held.
	Pass bool

	// Errors lists step and assertion failures in order.
	Errors []string

	// Week is the viewed week after the flow.
	Week habit.WeekKey

	// Habits is the final in-memory collection.
	Habits []habit.Habit

	// Stored is the raw slot value after the flow, if Present.
	Stored  string
	Present bool
}

func (r *Result) fail(format string, args ...any) {
	r.Pass = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// Harness holds the collaborators of one run. A restart step replaces the
// tracker but keeps the port, clock and id sequence.
type Harness struct {
	port    *kv.Memory
	adapter *persist.Adapter
	clock   *testutil.Clock
	ids     *testutil.SequentialIDs
	logger  *slog.Logger
	tracker *tracker.Tracker
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory port. Ids are "h-1",
// "h-2", ... in creation order.
func Run(scenario *Scenario) (*Result, error) {
	today, err := parseDate(scenario.Today)
	if err != nil {
		return nil, fmt.Errorf("today: %w", err)
	}

	ctx := context.Background()
	port := kv.NewMemory()
	if scenario.Stored != nil {
		if err := port.Set(ctx, persist.Key, *scenario.Stored); err != nil {
			return nil, fmt.Errorf("seed stored data: %w", err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := &Harness{
		port:    port,
		adapter: persist.New(port, persist.WithLogger(logger)),
		clock:   testutil.NewClock(today),
		ids:     testutil.NewSequentialIDs("h"),
		logger:  logger,
	}
	h.start(ctx)

	result := &Result{Pass: true}
	for i, step := range scenario.Flow {
		if err := h.executeStep(ctx, step); err != nil {
			result.fail("flow[%d] %s: %v", i, step.Op, err)
		}
	}

	result.Week = h.tracker.CurrentWeekKey()
	result.Habits = h.tracker.Habits()
	result.Stored, result.Present, err = port.Get(ctx, persist.Key)
	if err != nil {
		return nil, fmt.Errorf("read stored data: %w", err)
	}

	for i, a := range scenario.Assertions {
		if err := h.evaluate(a, result); err != nil {
			result.fail("assertions[%d] %s: %v", i, a.Type, err)
		}
	}
	return result, nil
}

// start builds a tracker over the shared port, as a fresh process would.
func (h *Harness) start(ctx context.Context) {
	h.tracker = tracker.New(ctx, h.adapter,
		tracker.WithClock(h.clock.Now),
		tracker.WithIDGenerator(h.ids),
		tracker.WithLogger(h.logger),
	)
}

// executeStep applies one step. The returned error describes a mismatch
// between what happened and what the step expected.
func (h *Harness) executeStep(ctx context.Context, step Step) error {
	tr := h.tracker
	switch step.Op {
	case OpAdd:
		_, added := tr.AddHabit(ctx, step.Name)
		return checkIgnored(step, added)

	case OpRemove:
		return checkIgnored(step, tr.RemoveHabit(ctx, step.Habit))

	case OpToggle:
		err := tr.ToggleDay(ctx, step.Habit, step.Day)
		switch {
		case step.ExpectError == "" && err != nil:
			return fmt.Errorf("unexpected error: %w", err)
		case step.ExpectError != "" && err == nil:
			return fmt.Errorf("expected error containing %q, got none", step.ExpectError)
		case err != nil && !strings.Contains(err.Error(), step.ExpectError):
			return fmt.Errorf("expected error containing %q, got %q", step.ExpectError, err)
		}

	case OpNextWeek:
		tr.NextWeek()
	case OpPreviousWeek:
		tr.PreviousWeek()
	case OpShiftWeeks:
		tr.ShiftWeeks(step.Weeks)
	case OpToday:
		tr.ResetToToday()

	case OpViewDate:
		d, err := parseDate(step.Date)
		if err != nil {
			return err
		}
		tr.SetViewedDate(d)

	case OpSetClock:
		d, err := parseDate(step.Date)
		if err != nil {
			return err
		}
		h.clock.Set(d)

	case OpRestart:
		h.start(ctx)

	case OpClear:
		// A clear failure is recorded in LastSaveError.
		_ = tr.Clear(ctx)

	case OpFailWrites:
		failure := errors.New(step.Error)
		h.port.FailSet = failure
		h.port.FailDelete = failure
	case OpHealWrites:
		h.port.FailSet = nil
		h.port.FailDelete = nil

	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	return nil
}

func checkIgnored(step Step, applied bool) error {
	if applied == step.ExpectIgnored {
		if step.ExpectIgnored {
			return fmt.Errorf("expected the step to be ignored, but it changed the collection")
		}
		return fmt.Errorf("step was ignored")
	}
	return nil
}
