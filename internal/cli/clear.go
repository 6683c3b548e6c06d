package cli

import (
	"github.com/spf13/cobra"
)

// ClearOptions holds flags for the clear command.
type ClearOptions struct {
	*RootOptions
	Yes bool
}

// NewClearCommand creates the clear command.
func NewClearCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClearOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all habits and their history",
		Long: `Delete every habit and remove the stored data.

This cannot be undone, so --yes is required.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHabits(opts, cmd)
		},
	}

	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "confirm deletion")

	return cmd
}

func clearHabits(opts *ClearOptions, cmd *cobra.Command) error {
	if !opts.Yes {
		return NewExitError(ExitFailure, "refusing to clear without --yes")
	}

	out := newFormatter(cmd, opts.RootOptions)
	sess, err := openSession(cmd, opts.RootOptions)
	if err != nil {
		return err
	}
	defer sess.closeSession()

	removed := sess.tracker.Len()
	if err := sess.tracker.Clear(commandContext(cmd)); err != nil {
		return WrapExitError(ExitCommandError, "failed to clear storage", err)
	}

	return out.Result(
		map[string]int{"removed": removed},
		"Storage cleared\n",
	)
}
