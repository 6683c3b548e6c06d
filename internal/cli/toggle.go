package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/habits/internal/habit"
)

// NewToggleCommand creates the toggle command.
func NewToggleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <index> <day>",
		Short: "Flip a day of the viewed week for a habit",
		Long: `Flip one day of the viewed week between done and not done.

The day is an index 0-6 (Monday = 0) or a weekday name such as "wed".
Use --date or --week to toggle a day in another week.

Example:
  habits toggle 0 wed
  habits toggle 1 6 --week -1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return toggleDay(rootOpts, args[0], args[1], cmd)
		},
	}
}

// ToggleResult is the JSON shape of the toggle command.
type ToggleResult struct {
	HabitRow
	Week habit.WeekKey `json:"week"`
	Day  int           `json:"day"`
	Date string        `json:"date"`
}

func toggleDay(opts *RootOptions, indexArg, dayArg string, cmd *cobra.Command) error {
	index, err := strconv.Atoi(indexArg)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid index", err)
	}
	day, err := habit.ParseDay(dayArg)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid day", err)
	}

	out := newFormatter(cmd, opts)
	sess, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer sess.closeSession()

	tr := sess.tracker
	if err := tr.ToggleDay(commandContext(cmd), index, day); err != nil {
		return WrapExitError(ExitFailure, "cannot toggle", err)
	}
	sess.warnIfUnsaved(out)

	h, _ := tr.Habit(index)
	days := tr.CompletionData(h)
	date := tr.WeekDays()[day]
	state := "not done"
	if days[day] {
		state = "done"
	}

	return out.Result(
		ToggleResult{
			HabitRow: HabitRow{Index: index, ID: h.ID, Name: h.Name, Days: days, Done: days.Done()},
			Week:     tr.CurrentWeekKey(),
			Day:      day,
			Date:     date.Format(habit.WeekKeyLayout),
		},
		fmt.Sprintf("%s: %s %s is %s (%d/%d this week)\n",
			h.Name, habit.DayNames[day], date.Format("Jan 2"), state, days.Done(), habit.DaysPerWeek),
	)
}
