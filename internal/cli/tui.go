package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/habits/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive week grid",
		Long: `Open an interactive grid of habits for the viewed week.

Keys:
  ←/→ h/l  previous/next week     ↑/↓ k/j  select habit
  1-7      toggle Mon..Sun        space    toggle today
  a        add a habit            d        remove selected habit
  t        jump to this week      q        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(rootOpts, cmd)
		},
	}
}

func runTUI(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer sess.closeSession()

	ctx := commandContext(cmd)
	if err := tui.Run(ctx, sess.tracker, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
		return WrapExitError(ExitFailure, "tui error", err)
	}
	return nil
}
