// Package observability provides logging setup and formatted run output for the CLI.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/cert-packager/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the end of a run
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len([]rune(line)) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRunSummary outputs folder and identifier totals for a finished run.
func (p *Printer) PrintRunSummary(report *types.RunReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Output:   %s\n", report.Output))
	sb.WriteString(fmt.Sprintf("Duration: %s\n", report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)))
	sb.WriteString("\n")

	processed := report.CountFolders(types.FolderProcessed)
	sb.WriteString(fmt.Sprintf("Folders:  %d processed, %d skipped\n", processed, len(report.Folders)-processed))

	total := 0
	for _, f := range report.Folders {
		total += len(f.Identifiers)
	}
	sb.WriteString(fmt.Sprintf("Identifiers: %d\n", total))
	for _, o := range []types.Outcome{
		types.OutcomePackaged,
		types.OutcomeExcerptNotFound,
		types.OutcomeExcerptFailed,
		types.OutcomeDocumentNotFound,
		types.OutcomeSearchFailed,
		types.OutcomeCopyFailed,
	} {
		if n := report.CountOutcome(o); n > 0 {
			sb.WriteString(fmt.Sprintf("  • %-18s %d\n", o, n))
		}
	}
	sb.WriteString("\n")

	c := report.Cache
	sb.WriteString(fmt.Sprintf("Text cache: %d extracted, %d reused, %d failed", c.Misses, c.Hits, c.Failures))

	p.printBox("RUN SUMMARY", sb.String())
}

// PrintSkippedFolders lists folders that were not processed and why.
func (p *Printer) PrintSkippedFolders(report *types.RunReport) {
	if report == nil {
		return
	}

	var skipped []types.FolderResult
	for _, f := range report.Folders {
		if f.Status != types.FolderProcessed {
			skipped = append(skipped, f)
		}
	}
	if len(skipped) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(skipped), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", skipped[i].Name))
		sb.WriteString(fmt.Sprintf("  %s\n", skipped[i].Status))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}
	if len(skipped) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more folders", len(skipped)-maxItemsToShow))
	}

	p.printBox("SKIPPED FOLDERS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintUnresolved lists identifiers that did not end up packaged.
func (p *Printer) PrintUnresolved(report *types.RunReport) {
	if report == nil {
		return
	}

	var unresolved []types.IdentifierResult
	for _, f := range report.Folders {
		for _, id := range f.Identifiers {
			if id.Outcome != types.OutcomePackaged {
				unresolved = append(unresolved, id)
			}
		}
	}
	if len(unresolved) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d identifiers need attention:\n\n", len(unresolved)))

	count := min(len(unresolved), maxItemsToShow)
	for i := 0; i < count; i++ {
		id := unresolved[i]
		sb.WriteString(fmt.Sprintf("• %s (heat %s)\n", id.Serial, id.Heat))
		sb.WriteString(fmt.Sprintf("  %s", id.Outcome))
		if id.ExcerptXLSX != "" {
			sb.WriteString(fmt.Sprintf(", excerpt %s", filepath.Base(id.ExcerptXLSX)))
		}
		sb.WriteString("\n")
	}
	if len(unresolved) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more identifiers", len(unresolved)-maxItemsToShow))
	}

	p.printBox("UNRESOLVED IDENTIFIERS", strings.TrimSuffix(sb.String(), "\n"))
}
