package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// NewRemoveCommand creates the rm command.
func NewRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <index>",
		Aliases: []string{"remove"},
		Short:   "Remove a habit by its list position",
		Long: `Remove the habit at the given position (as shown by "habits show").
Its whole completion history is deleted with it.

Example:
  habits rm 0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return removeHabit(rootOpts, args[0], cmd)
		},
	}
}

func removeHabit(opts *RootOptions, arg string, cmd *cobra.Command) error {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return WrapExitError(ExitFailure, "invalid index", err)
	}

	out := newFormatter(cmd, opts)
	sess, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer sess.closeSession()

	h, ok := sess.tracker.Habit(index)
	if !ok || !sess.tracker.RemoveHabit(commandContext(cmd), index) {
		return NewExitError(ExitFailure, fmt.Sprintf("no habit at index %d", index))
	}
	sess.warnIfUnsaved(out)

	return out.Result(
		HabitRow{Index: index, ID: h.ID, Name: h.Name},
		fmt.Sprintf("Removed %q\n", h.Name),
	)
}
