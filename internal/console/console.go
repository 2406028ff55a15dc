// Package console renders runner events for the terminal.
package console

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/vyachin/schemathesis/pkg/codegen"
	"github.com/vyachin/schemathesis/pkg/engine"
	"github.com/vyachin/schemathesis/pkg/execute"
	"github.com/vyachin/schemathesis/pkg/runner"
)

// Printer writes a human-readable rendering of the event stream.
type Printer struct {
	out         io.Writer
	verbose     bool
	baseURL     string
	sampleStyle codegen.Style

	passed  lipgloss.Style
	failed  lipgloss.Style
	skipped lipgloss.Style
	dim     lipgloss.Style
	header  lipgloss.Style
}

// Option configures a Printer.
type Option func(*Printer)

// WithVerbose also prints captured engine output for every item.
func WithVerbose() Option {
	return func(p *Printer) {
		p.verbose = true
	}
}

// WithColor forces colored output regardless of terminal detection.
func WithColor(enabled bool) Option {
	return func(p *Printer) {
		p.applyStyles(enabled)
	}
}

// WithSampleStyle sets the language of failure reproduction samples.
func WithSampleStyle(style codegen.Style) Option {
	return func(p *Printer) {
		p.sampleStyle = style
	}
}

// NewPrinter creates a printer writing to out. Color is enabled only when
// out is a terminal.
func NewPrinter(out io.Writer, opts ...Option) *Printer {
	p := &Printer{out: out, sampleStyle: codegen.StyleCurl}
	p.applyStyles(isTerminal(out))
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Printer) applyStyles(color bool) {
	if color {
		p.passed = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		p.failed = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
		p.skipped = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
		p.dim = lipgloss.NewStyle().Faint(true)
		p.header = lipgloss.NewStyle().Bold(true)
	} else {
		plain := lipgloss.NewStyle()
		p.passed, p.failed, p.skipped, p.dim, p.header = plain, plain, plain, plain, plain
	}
}

// Handle renders one event.
func (p *Printer) Handle(event runner.Event) {
	switch e := event.(type) {
	case runner.Initialized:
		p.baseURL = e.BaseURL
		fmt.Fprintln(p.out, p.header.Render(fmt.Sprintf("Collected %d operations from %s", e.OperationCount, location(e))))
	case runner.AfterExecution:
		p.afterExecution(e)
	case runner.Interrupted:
		fmt.Fprintln(p.out, p.failed.Render("Interrupted"))
	case runner.InternalError:
		fmt.Fprintln(p.out, p.failed.Render(fmt.Sprintf("Internal error: %s: %v", e.Message, e.Err)))
	case runner.Finished:
		p.summary(e)
	}
}

func (p *Printer) afterExecution(e runner.AfterExecution) {
	label := fmt.Sprintf("%s %s [%s_input]", e.Method, e.Path, e.InputType)
	switch e.Status {
	case execute.Passed:
		fmt.Fprintf(p.out, "%s %s\n", p.passed.Render("PASSED "), label)
	case execute.Skipped:
		fmt.Fprintf(p.out, "%s %s %s\n", p.skipped.Render("SKIPPED"), label, p.dim.Render("("+e.Reason+")"))
	case execute.Failed:
		fmt.Fprintf(p.out, "%s %s: %v\n", p.failed.Render("FAILED "), label, e.Err)
	}
	if p.verbose || e.Status == execute.Failed {
		for _, line := range e.Output {
			fmt.Fprintln(p.out, p.dim.Render("  "+line))
		}
	}
	if e.Status == execute.Failed {
		p.reproduction(e)
	}
}

// reproduction prints a code sample for the falsifying example, when one is
// available on the failure.
func (p *Printer) reproduction(e runner.AfterExecution) {
	var falsified *engine.FalsifiedError
	if !errors.As(e.Err, &falsified) {
		return
	}
	sample, err := codegen.Sample(p.sampleStyle, p.baseURL, falsified.Case, codegen.Options{MaskSecrets: true})
	if err != nil {
		return
	}
	fmt.Fprintln(p.out, p.dim.Render("  Reproduce with:"))
	for _, line := range strings.Split(sample, "\n") {
		fmt.Fprintln(p.out, "    "+line)
	}
}

func (p *Printer) summary(e runner.Finished) {
	results := e.Results
	line := fmt.Sprintf("%d passed, %d failed, %d skipped in %s",
		results.PassedCount(), results.FailedCount(), results.SkippedCount(), e.RunningTime.Round(time.Millisecond))
	if results.HasFailures() {
		fmt.Fprintln(p.out, p.failed.Render(line))
	} else {
		fmt.Fprintln(p.out, p.passed.Render(line))
	}
}

func location(e runner.Initialized) string {
	if e.Location != "" {
		return e.Location
	}
	return e.BaseURL
}

func isTerminal(out io.Writer) bool {
	f, ok := out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
