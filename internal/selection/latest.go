package selection

import (
	"errors"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/cert-packager/internal/documents"
	"github.com/jonathan/cert-packager/internal/types"
)

// DateReader returns the raw Info date string of a document
type DateReader interface {
	RawDate(path string) (string, error)
}

// Rejection is an MTC candidate that could not take part in the comparison
type Rejection struct {
	Path string
	Err  error
}

// Result is the outcome of one selection
type Result struct {
	Selected *types.SelectedDocument
	Eligible int
	Rejected []Rejection
}

// Selector picks the latest MTC among matched documents
type Selector struct {
	reader     DateReader
	mtcKeyword string
	logger     *zap.Logger
}

// NewSelector creates a Selector. Only documents whose file name contains mtcKeyword are eligible.
func NewSelector(reader DateReader, mtcKeyword string, logger *zap.Logger) *Selector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selector{reader: reader, mtcKeyword: mtcKeyword, logger: logger}
}

// Timestamp reads and parses a document date, classifying failures.
func (s *Selector) Timestamp(path string) (types.Timestamp, error) {
	raw, err := s.reader.RawDate(path)
	if err != nil {
		if errors.Is(err, documents.ErrNoMetadata) {
			return types.Timestamp{}, &TimestampError{Path: path, Kind: ErrNoMetadata}
		}
		return types.Timestamp{}, &TimestampError{Path: path, Kind: ErrUnreadable, Cause: err}
	}

	ts, err := ParsePDFDate(raw)
	if err != nil {
		return ts, &TimestampError{Path: path, Kind: ErrMalformedDate, Cause: err}
	}
	return ts, nil
}

// SelectLatest returns the eligible match with the greatest timestamp.
// Ties keep the first match. Documents without a timestamp are never selected.
func (s *Selector) SelectLatest(matches []types.DocumentMatch) Result {
	var result Result
	zones := make(map[string]bool)

	for _, m := range matches {
		if !strings.Contains(filepath.Base(m.Path), s.mtcKeyword) {
			continue
		}
		result.Eligible++

		ts, err := s.Timestamp(m.Path)
		if err != nil {
			s.logger.Warn("Document has no usable timestamp", zap.String("path", m.Path), zap.Error(err))
			result.Rejected = append(result.Rejected, Rejection{Path: m.Path, Err: err})
			continue
		}
		zones[ts.ZoneKey()] = true

		if result.Selected == nil || ts.Local.After(result.Selected.Timestamp.Local) {
			result.Selected = &types.SelectedDocument{Path: m.Path, Timestamp: ts}
		}
	}

	if len(zones) > 1 {
		s.logger.Warn("Candidates carry different timezone designators; offsets are not applied",
			zap.Int("zones", len(zones)))
	}
	return result
}
