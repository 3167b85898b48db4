package rendering

import (
	"context"

	"github.com/xuri/excelize/v2"
)

// Table is one sheet of the source workbook with a highlighted row
type Table struct {
	Title     string
	Sheet     string
	Rows      [][]string
	Highlight int // index into Rows
	Width     int // widest row
}

// Renderer produces a fixed-layout PDF of a table
type Renderer interface {
	RenderPDF(ctx context.Context, table *Table, outPath string) error
}

// FindRow returns the first sheet and row holding a cell equal to value.
func FindRow(f *excelize.File, value string) (*Table, error) {
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, &RenderError{Message: "failed to read sheet " + sheet, Cause: err}
		}
		for i, row := range rows {
			if containsValue(row, value) {
				return &Table{
					Sheet:     sheet,
					Rows:      rows,
					Highlight: i,
					Width:     maxWidth(rows),
				}, nil
			}
		}
	}
	return nil, ErrIdentifierNotFound
}

// Cell returns the value at (row, col), empty past the end of a short row.
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Padded returns every row extended to Width cells
func (t *Table) Padded() [][]string {
	out := make([][]string, len(t.Rows))
	for i := range t.Rows {
		row := make([]string, t.Width)
		copy(row, t.Rows[i])
		out[i] = row
	}
	return out
}

func containsValue(row []string, value string) bool {
	for _, cell := range row {
		if cell == value {
			return true
		}
	}
	return false
}

func maxWidth(rows [][]string) int {
	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}
	return width
}
