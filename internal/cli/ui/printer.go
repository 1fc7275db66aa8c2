// Package ui renders decoded server responses for the console.
package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/tidwall/gjson"

	"github.com/conduit-lang/lspdrive/internal/wire"
)

// Printer writes decoded responses in a human-readable form.
type Printer struct {
	out io.Writer
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Response prints the response for a scripted step: a colored heading, the
// indented result (or the error), and for completion results a one-line
// summary of the returned labels.
func (p *Printer) Response(step string, msg *wire.Message) {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(p.out, "%s result:\n", step)

	if msg.Error != nil {
		errColor := color.New(color.FgRed)
		errColor.Fprintf(p.out, "  %s\n", msg.Error.Error())
		return
	}

	if len(msg.Result) == 0 {
		fmt.Fprintln(p.out, "  null")
		return
	}

	pretty, err := json.MarshalIndent(json.RawMessage(msg.Result), "", "  ")
	if err != nil {
		fmt.Fprintf(p.out, "  %s\n", msg.Result)
		return
	}
	fmt.Fprintf(p.out, "%s\n", pretty)

	if labels := completionLabels(msg.Result); len(labels) > 0 {
		summary := color.New(color.FgGreen)
		summary.Fprintf(p.out, "%d completion item(s): ", len(labels))
		for i, l := range labels {
			if i > 0 {
				fmt.Fprint(p.out, ", ")
			}
			fmt.Fprint(p.out, l)
		}
		fmt.Fprintln(p.out)
	}
}

// completionLabels extracts item labels from a completion result, which may
// be a CompletionList or a bare CompletionItem array.
func completionLabels(result json.RawMessage) []string {
	if len(result) == 0 {
		return nil
	}

	items := gjson.GetBytes(result, "items.#.label")
	if !items.Exists() {
		items = gjson.GetBytes(result, "#.label")
	}
	if !items.IsArray() {
		return nil
	}

	var labels []string
	for _, label := range items.Array() {
		labels = append(labels, label.String())
	}
	return labels
}
