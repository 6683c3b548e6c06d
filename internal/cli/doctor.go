package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/habits/internal/persist"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the stored habit data",
		Long: `Report where habit data is stored and whether it can be loaded.

Corrupt data is ignored on startup (the tracker starts empty), so this is
the place to find out why habits went missing. With --verbose the raw
stored text is printed too. Exits 1 when the data is unusable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(rootOpts, cmd)
		},
	}
}

// DoctorReport is the JSON shape of the doctor command.
type DoctorReport struct {
	Backend  string `json:"backend"`
	Location string `json:"location"`
	Key      string `json:"key"`
	persist.Report
}

func runDoctor(opts *RootOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts)
	sess, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer sess.closeSession()

	report, err := sess.adapter.Inspect(commandContext(cmd))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read storage", err)
	}
	full := DoctorReport{
		Backend:  sess.cfg.Backend,
		Location: sess.location,
		Key:      persist.Key,
		Report:   report,
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "backend:  %s\n", full.Backend)
	fmt.Fprintf(&sb, "location: %s\n", full.Location)
	fmt.Fprintf(&sb, "key:      %s\n", full.Key)
	switch {
	case !report.Present:
		sb.WriteString("status:   empty (nothing saved yet)\n")
	case report.Healthy():
		fmt.Fprintf(&sb, "status:   ok (%d habits, %d tracked weeks, %d bytes)\n", report.Habits, report.Weeks, report.Bytes)
	default:
		fmt.Fprintf(&sb, "status:   corrupt (%d bytes)\nproblem:  %s\n", report.Bytes, report.Problem)
	}
	if opts.Verbose && report.Present {
		fmt.Fprintf(&sb, "raw:\n%s\n", report.Raw)
	}

	if err := out.Result(full, sb.String()); err != nil {
		return err
	}
	if !report.Healthy() {
		return WrapExitError(ExitFailure, "stored data is unusable", persist.ErrCorrupt)
	}
	return nil
}
