// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/portfolio/internal/layout"
	"github.com/jonathan/portfolio/internal/schemas"
	"github.com/jonathan/portfolio/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// shorten cuts s to at most n runes, marking the cut with "...".
func shorten(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, shorten(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintTranscript writes every message of a conversation in full. Assistant
// answers are not boxed since they are usually long.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintTranscript(messages []types.ChatMessage) {
	for i, m := range messages {
		if i > 0 {
			fmt.Fprintln(p.out)
		}
		label := "You"
		if m.Role == types.RoleAssistant {
			label = "Assistant"
		}
		fmt.Fprintf(p.out, "%s:\n%s\n", label, m.Content)
	}
}

// PrintJobFit outputs the scores and highlights of a job-fit analysis.
func (p *Printer) PrintJobFit(a *types.JobFitAnalysis) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall:     %d/100\n", a.OverallScore))
	sb.WriteString(fmt.Sprintf("Skills:      %d\n", a.CategoryScores.Skills))
	sb.WriteString(fmt.Sprintf("Experience:  %d\n", a.CategoryScores.Experience))
	sb.WriteString(fmt.Sprintf("Education:   %d\n", a.CategoryScores.Education))

	writeList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("\n" + title + ":\n")
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
	}
	writeList("Strengths", a.Strengths)
	writeList("Gaps", a.Gaps)
	writeList("Talking points", a.TalkingPoints)

	if a.Summary != "" {
		sb.WriteString("\n" + a.Summary + "\n")
	}

	p.printBox("JOB FIT", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintLayout outputs the text drawn on each page of a dry-run render, one
// line per draw call with its baseline.
func (p *Printer) PrintLayout(rec *layout.Recorder) {
	if rec == nil || rec.Pages() == 0 {
		return
	}

	for page := 1; page <= rec.Pages(); page++ {
		var sb strings.Builder
		for _, op := range rec.Ops {
			if op.Page != page {
				continue
			}
			switch op.Kind {
			case layout.OpText:
				sb.WriteString(fmt.Sprintf("%6.1f %s\n", op.Y, op.Text))
			case layout.OpLine:
				sb.WriteString(fmt.Sprintf("%6.1f ----\n", op.Y))
			}
		}
		p.printBox(fmt.Sprintf("PAGE %d OF %d", page, rec.Pages()), strings.TrimSuffix(sb.String(), "\n"))
	}
}

// PrintRadar outputs the skills radar values by category.
func (p *Printer) PrintRadar(points []types.RadarDataPoint) {
	if len(points) == 0 {
		return
	}

	var sb strings.Builder
	for i, pt := range points {
		sb.WriteString(fmt.Sprintf("%-16s %5.1f / %d", shorten(pt.Category, 16), pt.Value, pt.FullMark))
		sb.WriteString(fmt.Sprintf("  (%d skills)", pt.SkillCount))
		if i < len(points)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SKILLS RADAR", sb.String())
}

// PrintValidation outputs the result of a schema check.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintValidation(verr *schemas.ValidationError) {
	if verr == nil || len(verr.Errors) == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ RESUME IS VALID")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d errors:\n\n", len(verr.Errors)))

	for i, fe := range verr.Errors {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", fe.Field))
		sb.WriteString(fmt.Sprintf("  %s", fe.Message))
		if i < len(verr.Errors)-1 {
			sb.WriteString("\n\n")
		}
	}

	p.printBox("SCHEMA VIOLATIONS", sb.String())
}
