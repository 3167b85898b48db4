package rendering

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/types"
)

const (
	// HighlightColor is the fill applied to the matching row
	HighlightColor = "C6EFCE"
	// DefaultMarker is appended to the serial in excerpt file names
	DefaultMarker = "CoC"
)

// Artifacts lists the files written for one excerpt
type Artifacts struct {
	XLSX  string
	PDF   string
	Sheet string
	Row   int // 1-based spreadsheet row of the highlighted record
}

// Exporter writes the highlighted excerpt of a CoC workbook
type Exporter struct {
	renderer Renderer
	marker   string
	logger   *zap.Logger
}

// NewExporter creates an Exporter. A nil renderer skips the PDF artifact.
func NewExporter(renderer Renderer, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{renderer: renderer, marker: DefaultMarker, logger: logger}
}

// FileName returns "<serial> -<marker><ext>" with path separators replaced.
func (e *Exporter) FileName(serial, ext string) string {
	return fmt.Sprintf("%s -%s%s", types.SanitizeFileName(serial), e.marker, ext)
}

// Export finds serial in the workbook and writes the excerpt into outDir.
// It wraps ErrIdentifierNotFound when no sheet holds the serial; nothing is written then.
// When only the PDF fails, the returned Artifacts still name the workbook.
func (e *Exporter) Export(ctx context.Context, workbookPath, serial, outDir string) (*Artifacts, error) {
	src, err := excelize.OpenFile(workbookPath)
	if err != nil {
		return nil, &RenderError{Message: "failed to open workbook " + workbookPath, Cause: err}
	}
	defer func() { _ = src.Close() }()

	table, err := FindRow(src, serial)
	if err != nil {
		if errors.Is(err, ErrIdentifierNotFound) {
			return nil, fmt.Errorf("%w: %q in %s", ErrIdentifierNotFound, serial, filepath.Base(workbookPath))
		}
		return nil, err
	}
	table.Title = fmt.Sprintf("%s - %s", filepath.Base(workbookPath), serial)

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, &RenderError{Message: "failed to create output directory", Cause: err}
	}

	artifacts := &Artifacts{Sheet: table.Sheet, Row: table.Highlight + 1}
	artifacts.XLSX = filepath.Join(outDir, e.FileName(serial, ".xlsx"))
	if err := WriteWorkbook(src, table, artifacts.XLSX); err != nil {
		return nil, err
	}
	e.logger.Debug("Excerpt workbook written", zap.String("path", artifacts.XLSX), zap.String("sheet", table.Sheet))

	if e.renderer == nil {
		return artifacts, nil
	}
	pdfPath := filepath.Join(outDir, e.FileName(serial, ".pdf"))
	if err := e.renderer.RenderPDF(ctx, table, pdfPath); err != nil {
		return artifacts, &RenderError{Message: "failed to render excerpt PDF", Cause: err}
	}
	artifacts.PDF = pdfPath
	return artifacts, nil
}

// WriteWorkbook saves the table as a single-sheet workbook with the highlighted row filled.
// Numeric source cells stay numeric when their displayed text round-trips exactly.
func WriteWorkbook(src *excelize.File, table *Table, outPath string) error {
	out := excelize.NewFile()
	defer func() { _ = out.Close() }()

	sheet := table.Sheet
	if err := out.SetSheetName("Sheet1", sheet); err != nil {
		return &RenderError{Message: "failed to name excerpt sheet", Cause: err}
	}

	for r, row := range table.Rows {
		if len(row) == 0 {
			continue
		}
		values := make([]any, len(row))
		for c, text := range row {
			values[c] = cellValue(src, sheet, c, r, text)
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return &RenderError{Message: "invalid cell coordinates", Cause: err}
		}
		if err := out.SetSheetRow(sheet, cell, &values); err != nil {
			return &RenderError{Message: fmt.Sprintf("failed to write row %d", r+1), Cause: err}
		}
	}

	style, err := out.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{HighlightColor}, Pattern: 1},
	})
	if err != nil {
		return &RenderError{Message: "failed to create highlight style", Cause: err}
	}
	first, _ := excelize.CoordinatesToCellName(1, table.Highlight+1)
	last, _ := excelize.CoordinatesToCellName(max(table.Width, 1), table.Highlight+1)
	if err := out.SetCellStyle(sheet, first, last, style); err != nil {
		return &RenderError{Message: "failed to highlight row", Cause: err}
	}

	if err := out.SaveAs(outPath); err != nil {
		return &RenderError{Message: "failed to save excerpt workbook", Cause: err}
	}
	return nil
}

// cellValue keeps a number as a number only when nothing is lost
func cellValue(src *excelize.File, sheet string, col, row int, text string) any {
	if text == "" {
		return nil
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return text
	}
	kind, err := src.GetCellType(sheet, name)
	if err != nil || (kind != excelize.CellTypeNumber && kind != excelize.CellTypeUnset) {
		return text
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || strconv.FormatFloat(f, 'f', -1, 64) != text {
		return text
	}
	return f
}
