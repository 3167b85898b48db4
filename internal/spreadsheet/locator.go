package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/types"
)

// Locator finds the identifier table in every sheet of a workbook
type Locator struct {
	logger *zap.Logger
}

// NewLocator creates a Locator. A nil logger discards output.
func NewLocator(logger *zap.Logger) *Locator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Locator{logger: logger}
}

// Extract opens the workbook at path and returns its identifier records.
// It wraps ErrTableNotFound when no sheet contains both headers.
func (l *Locator) Extract(path, serialHeader, heatHeader string) ([]types.IdentifierRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &Error{Path: path, Message: "failed to open workbook", Cause: err}
	}
	defer func() { _ = f.Close() }()

	records, err := l.ExtractFromFile(f, serialHeader, heatHeader)
	if err != nil {
		return nil, &Error{Path: path, Message: "no usable table", Cause: err}
	}
	return records, nil
}

// ExtractFromFile scans every sheet of an open workbook.
// Records from all sheets are merged by serial; a later row replaces the heat
// number of an earlier one but keeps its position.
func (l *Locator) ExtractFromFile(f *excelize.File, serialHeader, heatHeader string) ([]types.IdentifierRecord, error) {
	set := newRecordSet()
	found := false

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			l.logger.Warn("Failed to read sheet", zap.String("sheet", sheet), zap.Error(err))
			continue
		}

		frame, ok := LocateFrame(rows, serialHeader, heatHeader)
		if !ok {
			l.logger.Debug("No header row in sheet", zap.String("sheet", sheet))
			continue
		}
		frame.Sheet = sheet
		found = true

		before := set.len()
		for _, rec := range RecordsFromRows(rows, frame, serialHeader, heatHeader) {
			set.put(rec)
		}
		l.logger.Debug("Sheet table located",
			zap.String("sheet", sheet),
			zap.Int("header_row", frame.HeaderRowIndex),
			zap.Int("new_serials", set.len()-before))
	}

	if !found {
		return nil, fmt.Errorf("%w: headers %q and %q", ErrTableNotFound, serialHeader, heatHeader)
	}
	return set.records(), nil
}

// LocateFrame returns the first row containing both header labels as whole cell values.
func LocateFrame(rows [][]string, serialHeader, heatHeader string) (types.TableFrame, bool) {
	for i, row := range rows {
		if !containsCell(row, serialHeader) || !containsCell(row, heatHeader) {
			continue
		}
		columns := make(map[string]int, len(row))
		for j, label := range row {
			if _, seen := columns[label]; !seen {
				columns[label] = j
			}
		}
		return types.TableFrame{HeaderRowIndex: i, Columns: columns}, true
	}
	return types.TableFrame{}, false
}

// RecordsFromRows converts the rows below the frame's header into records.
// Rows missing either value are dropped. Duplicates are returned as found.
func RecordsFromRows(rows [][]string, frame types.TableFrame, serialHeader, heatHeader string) []types.IdentifierRecord {
	serialCol, ok1 := frame.Columns[serialHeader]
	heatCol, ok2 := frame.Columns[heatHeader]
	if !ok1 || !ok2 {
		return nil
	}

	var records []types.IdentifierRecord
	for i := frame.HeaderRowIndex + 1; i < len(rows); i++ {
		serial := cellAt(rows[i], serialCol)
		heat := cellAt(rows[i], heatCol)
		if strings.TrimSpace(serial) == "" || strings.TrimSpace(heat) == "" {
			continue
		}
		records = append(records, types.IdentifierRecord{
			Serial: serial,
			Heat:   types.NewHeatNumber(heat),
		})
	}
	return records
}

func containsCell(row []string, value string) bool {
	for _, cell := range row {
		if cell == value {
			return true
		}
	}
	return false
}

// cellAt tolerates rows shortened by trailing empty cells
func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// recordSet keeps first-seen order with last-seen values
type recordSet struct {
	index map[string]int
	items []types.IdentifierRecord
}

func newRecordSet() *recordSet {
	return &recordSet{index: make(map[string]int)}
}

func (s *recordSet) put(rec types.IdentifierRecord) {
	if i, ok := s.index[rec.Serial]; ok {
		s.items[i] = rec
		return
	}
	s.index[rec.Serial] = len(s.items)
	s.items = append(s.items, rec)
}

func (s *recordSet) len() int {
	return len(s.items)
}

func (s *recordSet) records() []types.IdentifierRecord {
	out := make([]types.IdentifierRecord, len(s.items))
	copy(out, s.items)
	return out
}
