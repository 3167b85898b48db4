// Package selection picks the most recently dated material test certificate among matched documents.
package selection

import (
	"errors"
	"fmt"
)

// Failure kinds for timestamp extraction. A TimestampError matches exactly one of them with errors.Is.
var (
	ErrNoMetadata    = errors.New("document has no date metadata")
	ErrMalformedDate = errors.New("malformed document date")
	ErrUnreadable    = errors.New("document unreadable")
)

// TimestampError explains why a document has no usable timestamp
type TimestampError struct {
	Path  string
	Kind  error
	Cause error
}

func (e *TimestampError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Kind)
}

func (e *TimestampError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Cause}
}
