package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/habits/internal/config"
	"github.com/roach88/habits/internal/habit"
	"github.com/roach88/habits/internal/persist"
	"github.com/roach88/habits/internal/tracker"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Backend    string
	DataDir    string
	Date       string // YYYY-MM-DD reference date for the viewed week
	Week       int    // week offset from the reference date

	// Now and IDs override the wall clock and id generator (for testing).
	Now func() time.Time
	IDs habit.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the habits CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "habits - weekly habit tracker",
		Long:  "Track daily completion of habits on a Monday-to-Sunday week grid, stored locally.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Backend != "" && !slices.Contains(config.ValidBackends, opts.Backend) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, config.ValidBackends)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultPath(), "path to config file")
	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "storage backend (file|sqlite|memory), overrides config")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", "", "data directory, overrides config")
	cmd.PersistentFlags().StringVar(&opts.Date, "date", "", "reference date YYYY-MM-DD (default today)")
	cmd.PersistentFlags().IntVar(&opts.Week, "week", 0, "week offset from the reference date (-1 = previous week)")

	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewToggleCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewClearCommand(opts))
	cmd.AddCommand(NewDoctorCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewTUICommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// Execute runs the CLI with args and returns the process exit code. Errors
// are reported on stderr, or on stdout as a JSON error response when
// --format json is in effect.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return execute(ctx, &RootOptions{}, args, stdin, stdout, stderr)
}

func execute(ctx context.Context, opts *RootOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCommand(opts)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}

	out := &OutputFormatter{Format: opts.Format, Writer: stderr, Verbose: opts.Verbose}
	if opts.Format == "json" {
		out.Writer = stdout
	}
	_ = out.Error(errorCode(err), err.Error(), nil)
	return GetExitCode(err)
}

// errorCode maps an error to its JSON error code.
func errorCode(err error) string {
	switch {
	case errors.Is(err, persist.ErrCorrupt):
		return ErrCodeCorrupt
	case errors.Is(err, tracker.ErrHabitIndex), errors.Is(err, tracker.ErrDayIndex):
		return ErrCodeInvalidInput
	case GetExitCode(err) == ExitCommandError:
		return ErrCodeStorage
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == ExitFailure {
		return ErrCodeInvalidInput
	}
	return ErrCodeGeneric
}
