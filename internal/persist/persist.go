// Package persist saves and loads the habit collection through a kv.Port.
//
// The whole collection lives in one slot, Key, as a JSON array of habit
// records in display order. Every save replaces the slot; there is no
// partial update.
//
// Load never fails from the caller's point of view: an absent slot is an
// empty collection, and so is a corrupt one (unparseable JSON, a top level
// that is not an array, or records that violate the embedded CUE schema).
// Corruption is logged, not returned.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/habits/internal/habit"
	"github.com/roach88/habits/internal/kv"
)

// Key is the slot the collection is stored under.
const Key = "habit-tracker-data"

var (
	// ErrCorrupt marks a stored document that cannot be used.
	ErrCorrupt = errors.New("corrupt habit data")

	// ErrInvalidCollection marks a collection that must not be saved.
	ErrInvalidCollection = errors.New("invalid habit collection")
)

// Adapter persists habit collections.
type Adapter struct {
	port   kv.Port
	logger *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the diagnostic logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) {
		if l != nil {
			a.logger = l
		}
	}
}

// New returns an Adapter writing through port.
func New(port kv.Port, opts ...Option) *Adapter {
	a := &Adapter{
		port:   port,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Save validates habits and writes them to the slot. A nil collection is
// saved as an empty array. Errors are logged and returned; the caller's
// in-memory state is untouched either way.
func (a *Adapter) Save(ctx context.Context, habits []habit.Habit) error {
	data, err := Encode(habits)
	if err != nil {
		a.logger.Error("refusing to save habits", "error", err)
		return err
	}
	if err := a.port.Set(ctx, Key, string(data)); err != nil {
		err = fmt.Errorf("write %s: %w", Key, err)
		a.logger.Error("failed to save habits", "error", err)
		return err
	}
	a.logger.Debug("saved habits", "count", len(habits), "bytes", len(data))
	return nil
}

// Load reads the collection. It returns an empty, non-nil slice when the
// slot is absent, unreadable or corrupt.
func (a *Adapter) Load(ctx context.Context) []habit.Habit {
	raw, ok, err := a.port.Get(ctx, Key)
	if err != nil {
		a.logger.Error("failed to read habits", "key", Key, "error", err)
		return []habit.Habit{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		a.logger.Debug("no stored habits", "key", Key)
		return []habit.Habit{}
	}

	habits, err := Decode([]byte(raw))
	if err != nil {
		a.logger.Error("discarding stored habits", "key", Key, "error", err)
		return []habit.Habit{}
	}
	a.logger.Debug("loaded habits", "count", len(habits))
	return habits
}

// Clear removes the slot.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.port.Delete(ctx, Key); err != nil {
		err = fmt.Errorf("clear %s: %w", Key, err)
		a.logger.Error("failed to clear habits", "error", err)
		return err
	}
	a.logger.Debug("storage cleared", "key", Key)
	return nil
}

// Report describes the raw state of the slot.
type Report struct {
	Present bool   `json:"present"`
	Bytes   int    `json:"bytes"`
	Habits  int    `json:"habits"`
	Weeks   int    `json:"weeks"`
	Problem string `json:"problem,omitempty"`
	Raw     string `json:"-"`
}

// Healthy reports whether the slot is absent or holds a usable document.
func (r Report) Healthy() bool {
	return r.Problem == ""
}

// Inspect reads the slot without logging and reports what Load would make
// of it. Only port read failures are returned as errors.
func (a *Adapter) Inspect(ctx context.Context) (Report, error) {
	raw, ok, err := a.port.Get(ctx, Key)
	if err != nil {
		return Report{}, fmt.Errorf("read %s: %w", Key, err)
	}
	r := Report{Present: ok, Bytes: len(raw), Raw: raw}
	if !ok || strings.TrimSpace(raw) == "" {
		return r, nil
	}

	habits, err := Decode([]byte(raw))
	if err != nil {
		r.Problem = err.Error()
		return r, nil
	}
	r.Habits = len(habits)
	for _, h := range habits {
		r.Weeks += len(h.CompletionData)
	}
	return r, nil
}

// Encode validates habits and returns their persisted form. Identical
// collections always encode to identical bytes.
func Encode(habits []habit.Habit) ([]byte, error) {
	if habits == nil {
		habits = []habit.Habit{}
	}
	if err := checkCollection(habits); err != nil {
		return nil, err
	}

	out := make([]habit.Habit, len(habits))
	for i, h := range habits {
		out[i] = h
		if out[i].CompletionData == nil {
			out[i].CompletionData = map[habit.WeekKey]habit.Week{}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encode habits: %w", err)
	}
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	v, err := sharedValidator()
	if err != nil {
		return nil, err
	}
	if err := v.validate(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	return data, nil
}

// Decode parses a persisted document. Every failure wraps ErrCorrupt.
func Decode(data []byte) ([]habit.Habit, error) {
	var top any
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: unparseable: %v", ErrCorrupt, err)
	}
	if _, ok := top.([]any); !ok {
		return nil, fmt.Errorf("%w: top level is %s, want array", ErrCorrupt, jsonKind(top))
	}

	v, err := sharedValidator()
	if err != nil {
		return nil, err
	}
	if err := v.validate(data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var habits []habit.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := checkIDs(habits); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	return habits, nil
}

func checkCollection(habits []habit.Habit) error {
	for i, h := range habits {
		if strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("%w: habit %d has an empty name", ErrInvalidCollection, i)
		}
	}
	if err := checkIDs(habits); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCollection, err)
	}
	return nil
}

func checkIDs(habits []habit.Habit) error {
	seen := make(map[habit.ID]int, len(habits))
	for i, h := range habits {
		if h.ID.IsZero() {
			return fmt.Errorf("habit %d has no id", i)
		}
		if prev, dup := seen[h.ID]; dup {
			return fmt.Errorf("habits %d and %d share id %q", prev, i, h.ID)
		}
		seen[h.ID] = i
	}
	return nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}
