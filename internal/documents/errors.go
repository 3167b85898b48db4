// Package documents extracts text and metadata from supporting PDFs and searches them.
package documents

import (
	"errors"
	"fmt"
)

// ErrNoMetadata is returned when a document carries no usable date in its Info dictionary.
var ErrNoMetadata = errors.New("no date metadata")

// ExtractionError represents a failure reading one document
type ExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s: %s", e.Path, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
