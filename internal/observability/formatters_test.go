package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jonathan/cert-packager/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleReport() *types.RunReport {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return &types.RunReport{
		RunID:      "run-1",
		Root:       "/data",
		Output:     "/data/Output",
		StartedAt:  start,
		FinishedAt: start.Add(2500 * time.Millisecond),
		Folders: []types.FolderResult{
			{
				Name:   "PO-4471",
				Status: types.FolderProcessed,
				Identifiers: []types.IdentifierResult{
					{Serial: "SN-001", Heat: "67890", Outcome: types.OutcomePackaged},
					{Serial: "SN-004", Heat: "22222", Outcome: types.OutcomeDocumentNotFound, ExcerptXLSX: "/data/Output/SN-004 -CoC.xlsx"},
				},
			},
			{Name: "Docs", Status: types.FolderArchiveNotFound},
		},
		Cache: types.CacheStats{Hits: 4, Misses: 4, Failures: 1},
	}
}

func TestPrintRunSummary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "RUN SUMMARY")
	assert.Contains(t, output, "run-1")
	assert.Contains(t, output, "2.5s")
	assert.Contains(t, output, "1 processed, 1 skipped")
	assert.Contains(t, output, "Identifiers: 2")
	assert.Contains(t, output, "packaged")
	assert.Contains(t, output, "document_not_found")
	assert.NotContains(t, output, "copy_failed")
	assert.Contains(t, output, "4 extracted, 4 reused, 1 failed")
}

func TestPrintRunSummary_Nil(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintRunSummary(nil)
	p.PrintSkippedFolders(nil)
	p.PrintUnresolved(nil)

	assert.Empty(t, buf.String())
}

func TestPrintSkippedFolders(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSkippedFolders(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "SKIPPED FOLDERS")
	assert.Contains(t, output, "Docs")
	assert.Contains(t, output, "archive_not_found")
	assert.NotContains(t, output, "PO-4471")
}

func TestPrintSkippedFolders_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := &types.RunReport{}
	for i := 0; i < 8; i++ {
		report.Folders = append(report.Folders, types.FolderResult{Name: "F", Status: types.FolderWorkbookNotFound})
	}
	p.PrintSkippedFolders(report)

	assert.Contains(t, buf.String(), "... and 3 more folders")
}

func TestPrintUnresolved(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintUnresolved(sampleReport())
	output := buf.String()

	assert.Contains(t, output, "1 identifiers need attention")
	assert.Contains(t, output, "SN-004")
	assert.Contains(t, output, "SN-004 -CoC.xlsx")
	assert.NotContains(t, output, "SN-001")
}

func TestPrintUnresolved_AllPackaged(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	report := sampleReport()
	report.Folders[0].Identifiers = report.Folders[0].Identifiers[:1]
	p.PrintUnresolved(report)

	assert.Empty(t, buf.String())
}

func TestPrintBox_TruncatesLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("x", 100))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 5)
	assert.Contains(t, lines[3], "...")
}
