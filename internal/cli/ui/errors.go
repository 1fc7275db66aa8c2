package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a report
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ReportOptions configures the failure report formatting
type ReportOptions struct {
	Level       ErrorLevel
	Step        string
	Problem     string
	Suggestions []string
	NoColor     bool
}

// FormatReport creates a standardized session failure report naming the
// scripted step that failed
//
// Example output:
//
//	❌ STEP FAILED: textDocument/completion
//	   read response: wire: framing error: body truncated
//
//	   → Check that the server speaks Content-Length framed JSON-RPC on stdout
//	   → Re-run with --verbose to log every frame
func FormatReport(opts ReportOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelError:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	}

	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Step != "" {
		headerColor.Fprintf(&b, "%s STEP FAILED: %s\n", symbol, opts.Step)
		bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, s := range opts.Suggestions {
			cyan.Fprintf(&b, "   → %s\n", s)
		}
	}

	return b.String()
}

// WriteReport writes a formatted failure report to the writer
func WriteReport(w io.Writer, opts ReportOptions) {
	fmt.Fprint(w, FormatReport(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}
