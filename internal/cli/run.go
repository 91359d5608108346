package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kitbuilder587/gamelookup/internal/config"
	"github.com/kitbuilder587/gamelookup/internal/domain"
	"github.com/kitbuilder587/gamelookup/internal/metrics"
	"github.com/kitbuilder587/gamelookup/internal/output"
	"github.com/kitbuilder587/gamelookup/internal/search"
	"github.com/kitbuilder587/gamelookup/internal/search/rawg"
	"github.com/kitbuilder587/gamelookup/internal/service"
)

const prompt = "Enter the name of the game: "

var errInputClosed = errors.New("input closed")

func run(cmd *cobra.Command, args []string, opts *options) error {
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	printer := output.NewPrinter(stdout, stderr, output.ResolveColors(opts.noColor))

	cfg, err := config.Load()
	if err != nil {
		cliErr := configError(err)
		printer.FormatError(cliErr)
		return &output.ExitError{Code: cliErr.ExitCode}
	}

	verbose := cfg.Verbose(opts.debug)
	logCfg := cfg.Log
	if verbose {
		logCfg.Level = "debug"
	}
	logger, err := config.NewLogger(logCfg, stderr)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	if opts.debug && !cfg.DeveloperMode {
		logger.Debug("Debug mode enabled for this run")
	}

	m := metrics.New()
	if opts.metricsFile != "" {
		defer func() {
			if err := m.WriteTextfile(opts.metricsFile); err != nil {
				printer.Warning("could not write metrics file: %v", err)
			}
		}()
	}

	svc := service.NewLookupService(service.LookupServiceDeps{
		Fetcher: rawg.New(rawg.Config{
			APIKey:           cfg.RAWG.APIKey,
			BaseURL:          cfg.RAWG.BaseURL,
			Timeout:          cfg.RAWG.Timeout,
			MaxResponseBytes: cfg.RAWG.MaxResponseBytes,
			Verbose:          verbose,
		}, logger),
		Logger:  logger,
		Metrics: m,
	})

	name := strings.Join(args, " ")
	if len(args) == 0 {
		name, err = readGameName(ctx, cmd.InOrStdin(), stdout)
		if err != nil {
			return reportPromptError(printer, logger, err)
		}
	}

	res, err := svc.Lookup(ctx, name)
	if err != nil {
		return reportFailure(printer, err, name, opts, verbose)
	}

	if opts.jsonOutput {
		return printer.PrintJSON(res.Summary)
	}
	printer.PrintSummary(res.Summary)
	return nil
}

type readResult struct {
	line string
	err  error
}

// readGameName prompts on out and reads one line from in. The read runs in
// its own goroutine so an interrupt can end the wait.
func readGameName(ctx context.Context, in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, prompt)

	lines := make(chan readResult, 1)
	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		lines <- readResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-lines:
		if r.err == nil {
			return r.line, nil
		}
		if errors.Is(r.err, io.EOF) {
			if r.line != "" {
				return r.line, nil
			}
			return "", errInputClosed
		}
		return "", r.err
	}
}

func reportPromptError(printer *output.Printer, logger *zap.Logger, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		printer.Info("\nOperation cancelled by user.")
		return &output.ExitError{Code: output.ExitInterrupted}
	case errors.Is(err, errInputClosed):
		printer.Info("\nOperation cancelled by user.")
		return nil
	default:
		logger.Error(fmt.Sprintf("Error reading input: %v", err))
		return &output.ExitError{Code: output.ExitGeneral}
	}
}

// reportFailure turns a lookup error into user-facing text. Lookup failures
// only fail the process under --strict.
func reportFailure(printer *output.Printer, err error, rawName string, opts *options, verbose bool) error {
	var (
		invalid  *domain.InvalidInputError
		fetchErr *search.FetchError
	)

	switch {
	case errors.Is(err, context.Canceled):
		printer.Info("\nOperation cancelled by user.")
		return &output.ExitError{Code: output.ExitInterrupted}

	case errors.As(err, &invalid):
		printer.FormatError(&output.CLIError{Summary: invalid.Message})
		if invalid.Rule == domain.RuleCharset || invalid.Rule == domain.RuleTooLong {
			printer.PrintSuggestions(domain.SearchSuggestions(domain.CollapseWhitespace(rawName)))
		}

	case errors.As(err, &fetchErr):
		if fetchErr.Kind == search.FailureZeroResults {
			printer.PrintNotFound(fetchErr.Query, domain.SearchSuggestions(fetchErr.Query))
			break
		}
		printer.FormatError(&output.CLIError{
			Summary:    fmt.Sprintf("Could not look up '%s'.", fetchErr.Query),
			Suggestion: fetchSuggestion(fetchErr, verbose),
		})

	default:
		cliErr := &output.CLIError{Summary: fmt.Sprintf("An error occurred: %v", err)}
		if !verbose {
			cliErr.Suggestion = "Run with --debug flag for more information"
		}
		printer.FormatError(cliErr)
	}

	if opts.strict {
		return &output.ExitError{Code: output.ExitGeneral}
	}
	return nil
}

func fetchSuggestion(fe *search.FetchError, verbose bool) string {
	switch fe.Kind {
	case search.FailureTimeout:
		return fmt.Sprintf("Try again later or raise REQUEST_TIMEOUT (%d-%d seconds)", config.MinTimeoutSec, config.MaxTimeoutSec)
	case search.FailureConnection:
		return "Check your internet connection"
	case search.FailureRateLimited:
		return fmt.Sprintf("Wait %d seconds before searching again", int(fe.RetryAfter/time.Second))
	case search.FailureHTTPStatus:
		if fe.StatusCode == 401 || fe.StatusCode == 403 {
			return "Check that RAWG_API_KEY is valid and has access to the API"
		}
		return "The service may be unavailable, try again later"
	}
	if verbose {
		return "The API returned an unexpected response, try again later"
	}
	return "The API returned an unexpected response, run with --debug for details"
}
