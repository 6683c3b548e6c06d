package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/habits/internal/config"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Force bool
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long: `Write a commented default configuration to the --config path.

An existing file is left alone unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing config file")

	return cmd
}

func initConfig(opts *InitOptions, cmd *cobra.Command) error {
	path := opts.ConfigPath
	if path == "" {
		return NewExitError(ExitCommandError, "no config path: pass --config")
	}

	_, err := os.Stat(path)
	switch {
	case err == nil && !opts.Force:
		return NewExitError(ExitFailure, fmt.Sprintf("config already exists at %s (use --force to overwrite)", path))
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return WrapExitError(ExitCommandError, "cannot access config path", err)
	}

	if err := config.WriteDefault(path); err != nil {
		return WrapExitError(ExitCommandError, "failed to write config", err)
	}

	out := newFormatter(cmd, opts.RootOptions)
	return out.Result(map[string]string{"path": path}, fmt.Sprintf("Wrote %s\n", path))
}
