// Package report renders pipeline results for people.
package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/ewasm/wasm-chisel/pass"
	"github.com/ewasm/wasm-chisel/passes"
	"github.com/ewasm/wasm-chisel/pipeline"
)

// Status messages, one per pass status.
const (
	msgValid         = "OK"
	msgInvalid       = "Malformed"
	msgTranslated    = "Translated"
	msgNotTranslated = "Already OK; not translated"
)

type styles struct {
	title   lipgloss.Style
	pass    lipgloss.Style
	ok      lipgloss.Style
	changed lipgloss.Style
	failed  lipgloss.Style
	muted   lipgloss.Style
}

func plainStyles() styles {
	s := lipgloss.NewStyle()
	return styles{title: s, pass: s, ok: s, changed: s, failed: s, muted: s}
}

func colorStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		changed: lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD479")),
		failed:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

// Renderer formats ruleset reports and pass listings.
type Renderer struct {
	styles styles
}

// NewRenderer returns a renderer. With color false the output is plain text.
func NewRenderer(color bool) *Renderer {
	if color {
		return &Renderer{styles: colorStyles()}
	}
	return &Renderer{styles: plainStyles()}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Status returns the message for one outcome.
func (r *Renderer) Status(o pipeline.Outcome) string {
	switch o.Status {
	case pass.StatusValidatedTrue:
		return r.styles.ok.Render(msgValid)
	case pass.StatusValidatedFalse:
		return r.styles.failed.Render(msgInvalid)
	case pass.StatusTranslated:
		return r.styles.changed.Render(msgTranslated)
	case pass.StatusNotTranslated:
		return r.styles.ok.Render(msgNotTranslated)
	}
	if o.Err != nil {
		return r.styles.failed.Render(o.Err.Error())
	}
	return r.styles.failed.Render(o.Status.String())
}

// Ruleset renders one ruleset report.
func (r *Renderer) Ruleset(rr pipeline.RulesetReport) string {
	var b strings.Builder
	b.WriteString(r.styles.title.Render("Ruleset " + rr.Name + ":"))
	b.WriteByte('\n')
	for _, o := range rr.Report.Outcomes {
		fmt.Fprintf(&b, "  %s: %s\n", r.styles.pass.Render(o.Pass), r.Status(o))
	}
	if rr.Written {
		b.WriteString(r.styles.muted.Render("  Writing to file: " + rr.Path))
		b.WriteByte('\n')
	}
	return b.String()
}

// Summary renders the closing line of a run.
func (r *Renderer) Summary(total, failures int) string {
	if failures == 0 {
		return r.styles.ok.Render(fmt.Sprintf("%d ruleset(s) passed", total))
	}
	return r.styles.failed.Render(fmt.Sprintf("%d of %d ruleset(s) failed", failures, total))
}

// Render writes every report followed by the summary.
func (r *Renderer) Render(w io.Writer, reports []pipeline.RulesetReport, failures int) error {
	for _, rr := range reports {
		if _, err := io.WriteString(w, r.Ruleset(rr)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, r.Summary(len(reports), failures))
	return err
}

// Passes renders the registry listing.
func (r *Renderer) Passes(descs []passes.Descriptor) string {
	width := 0
	for _, d := range descs {
		width = max(width, len(d.Name))
	}
	var b strings.Builder
	for _, d := range descs {
		name := d.Name + strings.Repeat(" ", width-len(d.Name))
		fmt.Fprintf(&b, "%s  %-10s  %s", r.styles.pass.Render(name), d.Kind, d.Summary)
		if len(d.Presets) > 0 {
			b.WriteString(r.styles.muted.Render(" [" + strings.Join(d.Presets, ", ") + "]"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
