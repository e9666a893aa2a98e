package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"igprofile/pkg/extract"
	"igprofile/pkg/profiler"
)

// Logo is printed at the top of interactive runs
const Logo = `
  ╔═══════════════════════════════════════╗
  ║  igprofile · public profile extractor ║
  ╚═══════════════════════════════════════╝
`

const rule = "=================================================="

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// Printer writes human readable reports
type Printer struct {
	out   io.Writer
	color bool
	quiet bool
}

// NewPrinter creates a Printer. Color is only used when out is a terminal and
// noColor is false. A quiet printer only writes the summary and errors.
func NewPrinter(out io.Writer, noColor, quiet bool) *Printer {
	return &Printer{
		out:   out,
		color: !noColor && isTerminal(out),
		quiet: quiet,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (p *Printer) paint(fn func(string) string, s string) string {
	if !p.color {
		return s
	}
	return fn(s)
}

// PrintLogo prints the logo
func (p *Printer) PrintLogo() {
	if p.quiet {
		return
	}
	fmt.Fprint(p.out, p.paint(Cyan, Logo))
}

// PrintHeader announces the username about to be looked up
func (p *Printer) PrintHeader(username string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "\n%s\n", p.paint(Magenta, fmt.Sprintf("=== Looking up: %s ===", username)))
}

// PrintReport prints one report: the profile's key fields on success or the
// error otherwise
func (p *Printer) PrintReport(r profiler.Report) {
	if p.quiet {
		return
	}

	fmt.Fprintf(p.out, "\n%s %s\n", p.paint(Cyan, "Method:"), r.Method)
	fmt.Fprintf(p.out, "Success: %t\n", r.Success())

	if !r.Success() || r.Result.Data == nil {
		fmt.Fprintf(p.out, "%s %s\n", p.paint(Red, "Error:"), orDefault(r.Result.Error, "Unknown error"))
		return
	}

	data := r.Result.Data
	p.field("Extracted by", r.MethodLabel())
	p.field("Username", orDefault(extract.StringValue(data.Username), "N/A"))
	if data.FullName != nil {
		p.field("Full name", *data.FullName)
	}
	p.field("Followers", fmt.Sprintf("%d", data.Followers))
	p.field("Following", fmt.Sprintf("%d", data.Following))
	p.field("Posts", fmt.Sprintf("%d", data.Posts))
	p.field("Verified", fmt.Sprintf("%t", data.IsVerified))
	if data.IsPrivate {
		p.field("Private", "true")
	}
}

func (p *Printer) field(label, value string) {
	fmt.Fprintf(p.out, "%s: %s\n", label, p.paint(Yellow, value))
}

// PrintSummary prints one status line per report followed by the totals
func (p *Printer) PrintSummary(reports []profiler.Report) {
	fmt.Fprintf(p.out, "\n%s\nSUMMARY\n%s\n", rule, rule)

	for _, r := range reports {
		status := p.paint(Green, "✓ SUCCESS")
		if !r.Success() {
			status = p.paint(Red, "✗ FAILED")
		}
		fmt.Fprintf(p.out, "%s (%s): %s\n", r.Username, r.MethodLabel(), status)
	}

	s := profiler.Summarize(reports)
	fmt.Fprintln(p.out, p.paint(Dim, fmt.Sprintf("%d succeeded, %d failed", s.Succeeded, s.Failed)))
}

// PrintError prints an error message in red
func (p *Printer) PrintError(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	fmt.Fprintln(p.out, p.paint(Red, msg))
}

// PrintSuccess prints a success message in green
func (p *Printer) PrintSuccess(msg string) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.paint(Green, msg))
}

// PrintInfo prints a label and value
func (p *Printer) PrintInfo(label, value string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "%s: %s\n", p.paint(Cyan, label), p.paint(Yellow, value))
}

// PrintWarning prints a warning message in yellow
func (p *Printer) PrintWarning(msg string) {
	fmt.Fprintln(p.out, p.paint(Yellow, msg))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
