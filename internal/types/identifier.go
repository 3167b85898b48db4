// Package types provides type definitions for structured data used throughout the cert-packager system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strconv"
	"strings"
)

// HeatNumber is the heat/lot number read from a CoC workbook.
// Raw keeps the cell text as read; Int is set when the text parses as an integer.
type HeatNumber struct {
	Raw string `json:"raw"`
	Int *int64 `json:"int,omitempty"`
}

// NewHeatNumber normalizes a heat cell value, coercing it to an integer when possible.
func NewHeatNumber(raw string) HeatNumber {
	h := HeatNumber{Raw: raw}
	if n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		h.Int = &n
	}
	return h
}

// IsNumeric reports whether the heat number has an integer interpretation.
func (h HeatNumber) IsNumeric() bool {
	return h.Int != nil
}

// String returns the normalized form: the integer when numeric (leading zeros dropped),
// otherwise the original text.
func (h HeatNumber) String() string {
	if h.Int != nil {
		return strconv.FormatInt(*h.Int, 10)
	}
	return h.Raw
}

// SearchString returns the string used to search document text.
// With preserveText the original cell text is used so zero-padded numbers keep their padding.
func (h HeatNumber) SearchString(preserveText bool) string {
	if preserveText {
		return strings.TrimSpace(h.Raw)
	}
	return h.String()
}

// IdentifierRecord is one (serial, heat/lot) pair extracted from the CoC table
type IdentifierRecord struct {
	Serial string     `json:"serial"`
	Heat   HeatNumber `json:"heat"`
}

// TableFrame locates the identifier table inside one sheet
type TableFrame struct {
	Sheet          string         `json:"sheet"`
	HeaderRowIndex int            `json:"header_row_index"`
	Columns        map[string]int `json:"columns"`
}

// SanitizeFileName replaces path separators so a serial number can be used as a file name.
func SanitizeFileName(serial string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(serial)
}
