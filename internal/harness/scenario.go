package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/habits/internal/habit"
)

// DefaultToday is the frozen date used when a scenario sets none. It is a
// Wednesday.
const DefaultToday = "2026-10-21"

// Scenario is one tracker scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Today is the frozen clock date, YYYY-MM-DD. Defaults to DefaultToday.
	Today string `yaml:"today,omitempty"`

	// Stored is the raw slot value present before the tracker starts.
	Stored *string `yaml:"stored,omitempty"`

	// Flow is the ordered list of steps.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one operation in a scenario flow. Which fields apply depends on Op.
type Step struct {
	Op    string `yaml:"op"`
	Name  string `yaml:"name,omitempty"`
	Habit int    `yaml:"habit,omitempty"`
	Day   int    `yaml:"day,omitempty"`
	Weeks int    `yaml:"weeks,omitempty"`
	Date  string `yaml:"date,omitempty"`
	Error string `yaml:"error,omitempty"`

	// ExpectError is a substring of the error the step must return. Only
	// toggle returns errors.
	ExpectError string `yaml:"expect_error,omitempty"`

	// ExpectIgnored marks an add or remove that must change nothing.
	ExpectIgnored bool `yaml:"expect_ignored,omitempty"`
}

// Step operations. add takes name; remove takes habit; toggle takes habit
// and day; shift_weeks takes weeks; view_date and set_clock take date;
// fail_writes takes error.
const (
	OpAdd          = "add"
	OpRemove       = "remove"
	OpToggle       = "toggle"
	OpNextWeek     = "next_week"
	OpPreviousWeek = "previous_week"
	OpShiftWeeks   = "shift_weeks"
	OpViewDate     = "view_date"
	OpToday        = "today"
	OpSetClock     = "set_clock"
	OpRestart      = "restart"
	OpClear        = "clear"
	OpFailWrites   = "fail_writes"
	OpHealWrites   = "heal_writes"
)

// Assertion validates final state.
type Assertion struct {
	Type    string        `yaml:"type"`
	Count   int           `yaml:"count,omitempty"`
	Names   []string      `yaml:"names,omitempty"`
	Week    habit.WeekKey `yaml:"week,omitempty"`
	Habit   int           `yaml:"habit,omitempty"`
	Days    []bool        `yaml:"days,omitempty"`
	Present *bool         `yaml:"present,omitempty"`
	Error   string        `yaml:"error,omitempty"`
}

// Assertion type constants.
const (
	AssertHabitCount = "habit_count"
	AssertNames      = "names"
	AssertWeek       = "week"
	AssertCompletion = "completion"
	AssertStored     = "stored"
	AssertSaveError  = "save_error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Today == "" {
		scenario.Today = DefaultToday
	}
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := parseDate(s.Today); err != nil {
		return fmt.Errorf("today: %w", err)
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("flow[%d]: %w", i, err)
		}
	}
	for i, a := range s.Assertions {
		if err := validateAssertion(a); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch step.Op {
	case OpAdd, OpRemove, OpNextWeek, OpPreviousWeek, OpShiftWeeks,
		OpToday, OpRestart, OpClear, OpHealWrites:
	case OpToggle:
		if step.ExpectIgnored {
			return fmt.Errorf("toggle reports failures with expect_error")
		}
	case OpViewDate, OpSetClock:
		if _, err := parseDate(step.Date); err != nil {
			return fmt.Errorf("%s: %w", step.Op, err)
		}
	case OpFailWrites:
		if step.Error == "" {
			return fmt.Errorf("fail_writes: error is required")
		}
	case "":
		return fmt.Errorf("op is required")
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
	if step.ExpectError != "" && step.Op != OpToggle {
		return fmt.Errorf("expect_error only applies to toggle")
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("type is required")
	case AssertHabitCount, AssertSaveError:
	case AssertNames:
		if a.Names == nil {
			return fmt.Errorf("names is required for names (use [] for none)")
		}
	case AssertWeek:
		if _, err := habit.ParseWeekKey(string(a.Week)); err != nil {
			return fmt.Errorf("week: %w", err)
		}
	case AssertCompletion:
		if len(a.Days) != habit.DaysPerWeek {
			return fmt.Errorf("completion needs exactly %d days, got %d", habit.DaysPerWeek, len(a.Days))
		}
		if a.Week != "" {
			if _, err := habit.ParseWeekKey(string(a.Week)); err != nil {
				return fmt.Errorf("week: %w", err)
			}
		}
	case AssertStored:
		if a.Present == nil {
			return fmt.Errorf("present is required for stored")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

// parseDate parses YYYY-MM-DD as midday UTC, away from any day boundary.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(habit.WeekKeyLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(12 * time.Hour), nil
}
