// Package pipeline drives the per-folder, per-identifier correlation run.
package pipeline

import (
	"errors"
	"fmt"
)

// Per-folder conditions that skip the folder
var (
	ErrArchiveNotFound     = errors.New("archive not found")
	ErrWorkbookNotFound    = errors.New("CoC workbook not found")
	ErrUnsupportedWorkbook = errors.New("CoC workbook format not supported")
)

// CopyError represents a failure persisting the selected document
type CopyError struct {
	Source string
	Target string
	Cause  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy error: %s -> %s: %v", e.Source, e.Target, e.Cause)
}

func (e *CopyError) Unwrap() error {
	return e.Cause
}
