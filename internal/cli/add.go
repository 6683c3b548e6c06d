package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a habit",
		Long: `Add a habit to the end of the list.

All arguments are joined with spaces to form the name, which is trimmed.
Names do not have to be unique.

Example:
  habits add Read 20 pages`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return addHabit(rootOpts, strings.Join(args, " "), cmd)
		},
	}
}

func addHabit(opts *RootOptions, name string, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts)
	sess, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer sess.closeSession()

	h, ok := sess.tracker.AddHabit(commandContext(cmd), name)
	if !ok {
		return NewExitError(ExitFailure, "habit name is empty")
	}
	sess.warnIfUnsaved(out)

	index := sess.tracker.Len() - 1
	return out.Result(
		HabitRow{Index: index, ID: h.ID, Name: h.Name},
		fmt.Sprintf("Added %q as #%d\n", h.Name, index),
	)
}
