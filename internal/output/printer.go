// Package output renders lookup results and errors for the terminal.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/kitbuilder587/gamelookup/internal/domain"
	"github.com/kitbuilder587/gamelookup/internal/htmltext"
)

// MaxDisplayDescription bounds the description shown in the text summary.
// GameSummary itself keeps the full stripped text.
const MaxDisplayDescription = 300

const bannerWidth = 50

// Printer handles formatted output to the terminal
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

// NewPrinter creates a printer writing results to out and errors to errOut.
func NewPrinter(out, errOut io.Writer, useColors bool) *Printer {
	return &Printer{
		out:       out,
		err:       errOut,
		useColors: useColors,
	}
}

// ResolveColors turns colors off for --no-color, NO_COLOR, dumb terminals
// and non-TTY stdout.
func ResolveColors(noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return !color.NoColor
}

// Info prints an informational message
func (p *Printer) Info(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Warning prints a warning message
func (p *Printer) Warning(format string, args ...interface{}) {
	if p.useColors {
		color.New(color.FgYellow).Fprintf(p.err, "! "+format+"\n", args...)
	} else {
		fmt.Fprintf(p.err, "[WARN] "+format+"\n", args...)
	}
}

// PrintSummary renders the five summary fields.
func (p *Printer) PrintSummary(s domain.GameSummary) {
	banner := strings.Repeat("=", bannerWidth)

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, banner)
	if p.useColors {
		color.New(color.FgGreen, color.Bold).Fprintf(p.out, "Game: %s\n", s.DisplayName())
	} else {
		fmt.Fprintf(p.out, "Game: %s\n", s.DisplayName())
	}
	fmt.Fprintln(p.out, banner)

	if s.Released != nil && *s.Released != "" {
		fmt.Fprintf(p.out, "Released: %s\n", *s.Released)
	} else {
		fmt.Fprintln(p.out, "Released: Unknown")
	}

	if s.Rating != nil && *s.Rating != 0 {
		fmt.Fprintf(p.out, "Rating: %s/5\n", strconv.FormatFloat(*s.Rating, 'f', -1, 64))
	} else {
		fmt.Fprintln(p.out, "Rating: Not rated")
	}

	if s.Description != nil && *s.Description != "" {
		fmt.Fprintln(p.out, "\nDescription:")
		fmt.Fprintln(p.out, TruncateDescription(*s.Description, MaxDisplayDescription))
	}

	if s.BackgroundImage != nil && *s.BackgroundImage != "" {
		fmt.Fprintf(p.out, "\nBackground Image: %s\n", *s.BackgroundImage)
	}
}

// PrintJSON writes v as indented JSON.
func (p *Printer) PrintJSON(v any) error {
	enc := json.NewEncoder(p.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// PrintNotFound reports a lookup without a match and lists suggestions.
func (p *Printer) PrintNotFound(name string, suggestions []string) {
	fmt.Fprintf(p.out, "\nNo game found matching '%s'.\n", name)
	p.PrintSuggestions(suggestions)
}

func (p *Printer) PrintSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}
	fmt.Fprintln(p.out, "\nSuggestions:")
	for _, s := range suggestions {
		fmt.Fprintf(p.out, "- %s\n", s)
	}
}

// TruncateDescription cuts s to n runes and marks the cut with "...".
func TruncateDescription(s string, n int) string {
	cut := htmltext.TruncateRunes(s, n)
	if cut == s {
		return s
	}
	return cut + "..."
}
