package habit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Habit is one tracked activity and its per-week completion history.
type Habit struct {
	ID             ID               `json:"id"`
	Name           string           `json:"name"`
	CompletionData map[WeekKey]Week `json:"completionData"`
}

// New returns a habit with the given id and name and no completion data.
// The name is stored as given; callers normalize it first.
func New(id ID, name string) Habit {
	return Habit{
		ID:             id,
		Name:           name,
		CompletionData: map[WeekKey]Week{},
	}
}

// Week returns the completion vector for key, or an all-false Week if the
// week was never toggled. It never allocates a map entry.
func (h Habit) Week(key WeekKey) Week {
	if w, ok := h.CompletionData[key]; ok {
		return w
	}
	return Week{}
}

// Toggle flips day of the given week, creating the week's vector first if
// it does not exist yet. It returns the new value.
func (h *Habit) Toggle(key WeekKey, day int) (bool, error) {
	if day < 0 || day >= DaysPerWeek {
		return false, fmt.Errorf("day %d outside [0,%d]", day, DaysPerWeek-1)
	}
	if h.CompletionData == nil {
		h.CompletionData = map[WeekKey]Week{}
	}
	w := h.CompletionData[key]
	w[day] = !w[day]
	h.CompletionData[key] = w
	return w[day], nil
}

// Clone returns a deep copy of h.
func (h Habit) Clone() Habit {
	out := Habit{ID: h.ID, Name: h.Name, CompletionData: make(map[WeekKey]Week, len(h.CompletionData))}
	for k, w := range h.CompletionData {
		out.CompletionData[k] = w
	}
	return out
}

// CloneAll deep-copies a collection, preserving order.
func CloneAll(habits []Habit) []Habit {
	out := make([]Habit, len(habits))
	for i, h := range habits {
		out[i] = h.Clone()
	}
	return out
}

// ID identifies a habit. It is either a string token or a JSON number;
// the zero ID is invalid.
type ID struct {
	value   string
	numeric bool
}

// StringID returns a string-typed id.
func StringID(s string) ID {
	return ID{value: s}
}

// NumericID returns a number-typed id, as written by timestamp-based
// generators.
func NumericID(n int64) ID {
	return ID{value: strconv.FormatInt(n, 10), numeric: true}
}

// String returns the id's textual form.
func (id ID) String() string {
	return id.value
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id.value == ""
}

// Numeric reports whether the id is encoded as a JSON number.
func (id ID) Numeric() bool {
	return id.numeric
}

// MarshalJSON encodes numeric ids as numbers and everything else as strings.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts either a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode id: %w", err)
	}

	switch v := raw.(type) {
	case string:
		*id = ID{value: v}
	case json.Number:
		*id = ID{value: v.String(), numeric: true}
	default:
		return fmt.Errorf("id must be a string or number, got %T", raw)
	}
	return nil
}
