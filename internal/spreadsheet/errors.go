// Package spreadsheet locates the serial/heat table inside free-form CoC workbooks.
package spreadsheet

import (
	"errors"
	"fmt"
)

// ErrTableNotFound is returned when no sheet has a row carrying both header labels.
var ErrTableNotFound = errors.New("identifier table not found")

// Error represents a failure reading a workbook
type Error struct {
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("spreadsheet error: %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("spreadsheet error: %s: %s", e.Path, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
