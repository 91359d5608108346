// Package cli wires configuration, logging and the lookup service behind the
// gamelookup command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kitbuilder587/gamelookup/internal/config"
	"github.com/kitbuilder587/gamelookup/internal/output"
)

var version = "dev"

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

type options struct {
	debug       bool
	noColor     bool
	jsonOutput  bool
	strict      bool
	metricsFile string
}

// NewRootCmd builds a fresh command tree, so tests can run it repeatedly.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gamelookup [game name]",
		Short: "Fetch game information from the RAWG API",
		Long: `gamelookup searches the RAWG video game database by name and prints the
best match: title, release date, rating, description and cover image.

Without a game name it prompts for one on standard input.

Environment:
  RAWG_API_KEY        API key (required)
  REQUEST_TIMEOUT     request timeout in seconds, 1-300 (default 10)
  DEVELOPER_MODE      true/1/t enables debug output for every run

Example usage:
  gamelookup "The Witcher 3"
  gamelookup Portal 2 --json
  gamelookup --debug Hades`,
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, opts)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &output.CLIError{Summary: err.Error(), ExitCode: output.ExitUsageError}
	})

	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug output for this run")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "print the summary as JSON")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when the lookup finds nothing or fails")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics for this run to a textfile")

	return cmd
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return exitCode(cmd.ErrOrStderr(), err)
}

// exitCode reports errors that were not already printed and maps them to
// exit codes.
func exitCode(stderr io.Writer, err error) int {
	if err == nil {
		return output.ExitSuccess
	}

	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		fmt.Fprintf(stderr, "Error: %s\n", cliErr.Summary)
		if cliErr.ExitCode == output.ExitUsageError {
			fmt.Fprintln(stderr, "Run 'gamelookup --help' for usage.")
		}
		return cliErr.ExitCode
	}

	if errors.Is(err, context.Canceled) {
		return output.ExitInterrupted
	}

	fmt.Fprintf(stderr, "Error: %s\n", err)
	return output.ExitGeneral
}

func configError(err error) *output.CLIError {
	if errors.Is(err, config.ErrMissingAPIKey) {
		return &output.CLIError{
			Summary:    err.Error() + ".",
			Suggestion: "To set your API key, run: export RAWG_API_KEY='your-api-key-here'",
			ExitCode:   output.ExitConfigError,
		}
	}
	return &output.CLIError{
		Summary:  "Configuration error",
		Detail:   strings.TrimPrefix(err.Error(), config.ErrInvalidConfig.Error()+": "),
		ExitCode: output.ExitConfigError,
	}
}
