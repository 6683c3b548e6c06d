package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the week grid",
		Long: `Show every habit with its completion for the viewed week.

Example:
  habits show
  habits show --week -1
  habits show --date 2026-01-14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showWeek(rootOpts, cmd)
		},
	}
}

func showWeek(opts *RootOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts)
	sess, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer sess.closeSession()

	return out.Result(buildWeekView(sess.tracker), renderWeek(sess.tracker))
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List habits with their ids",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHabits(rootOpts, cmd)
		},
	}
}

// ListEntry is one habit in the list command's JSON output.
type ListEntry struct {
	Index     int    `json:"index"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Weeks     int    `json:"weeks_tracked"`
	TotalDone int    `json:"total_done"`
}

func listHabits(opts *RootOptions, cmd *cobra.Command) error {
	out := newFormatter(cmd, opts)
	sess, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer sess.closeSession()

	entries := []ListEntry{}
	var sb strings.Builder
	for i, h := range sess.tracker.Habits() {
		e := ListEntry{Index: i, ID: h.ID.String(), Name: h.Name, Weeks: len(h.CompletionData)}
		for _, w := range h.CompletionData {
			e.TotalDone += w.Done()
		}
		entries = append(entries, e)
		fmt.Fprintf(&sb, "%d  %s  (%s, %d days done)\n", e.Index, e.Name, e.ID, e.TotalDone)
	}
	if len(entries) == 0 {
		sb.WriteString("No habits yet.\n")
	}
	return out.Result(entries, sb.String())
}
