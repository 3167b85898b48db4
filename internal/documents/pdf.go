package documents

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// TextExtractor returns the full text of a document
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// PDFExtractor reads text and Info metadata using github.com/ledongthuc/pdf.
// Parser panics on malformed files are reported as extraction errors.
type PDFExtractor struct{}

// NewPDFExtractor creates a PDFExtractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText returns the plain text of every page.
func (e *PDFExtractor) ExtractText(path string) (text string, err error) {
	defer recoverInto(path, &err)

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to open PDF", Cause: err}
	}
	defer func() { _ = f.Close() }()

	plain, err := r.GetPlainText()
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to extract text", Cause: err}
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to read extracted text", Cause: err}
	}
	return buf.String(), nil
}

// RawDate returns the Info ModDate, or CreationDate when ModDate is absent, as stored.
func (e *PDFExtractor) RawDate(path string) (raw string, err error) {
	defer recoverInto(path, &err)

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", &ExtractionError{Path: path, Message: "failed to open PDF", Cause: err}
	}
	defer func() { _ = f.Close() }()

	info := r.Trailer().Key("Info")
	if info.Kind() != pdf.Dict {
		return "", fmt.Errorf("%s: %w", path, ErrNoMetadata)
	}
	for _, key := range []string{"ModDate", "CreationDate"} {
		if v := info.Key(key); v.Kind() == pdf.String && v.Text() != "" {
			return v.Text(), nil
		}
	}
	return "", fmt.Errorf("%s: %w", path, ErrNoMetadata)
}

func recoverInto(path string, err *error) {
	if r := recover(); r != nil {
		*err = &ExtractionError{Path: path, Message: "malformed PDF", Cause: fmt.Errorf("%v", r)}
	}
}
