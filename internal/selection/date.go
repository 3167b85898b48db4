package selection

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/cert-packager/internal/types"
)

// pdfDateLayout is the digit block of a PDF date string (D:YYYYMMDDHHmmSS)
const pdfDateLayout = "20060102150405"

// ParsePDFDate parses a PDF Info date such as D:20230601120000+02'00'.
// Only the wall-clock digits are compared between documents; the zone
// designator is kept on the result but never applied.
func ParsePDFDate(raw string) (types.Timestamp, error) {
	ts := types.Timestamp{Raw: raw}

	s := strings.Trim(strings.TrimSpace(raw), "D:")
	digits, zone := s, ""
	if i := strings.IndexAny(s, "Z+-"); i >= 0 {
		digits, zone = s[:i], s[i:]
	}

	if len(digits) != len(pdfDateLayout) || !isDigits(digits) {
		return ts, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}
	local, err := time.Parse(pdfDateLayout, digits)
	if err != nil {
		return ts, fmt.Errorf("%w: %q: %v", ErrMalformedDate, raw, err)
	}
	ts.Local = local

	switch {
	case strings.HasPrefix(zone, "Z"):
		ts.UTCMarker = true
	case zone != "":
		if offset, ok := parseOffset(zone); ok {
			ts.Offset = &offset
		}
	}
	return ts, nil
}

// parseOffset reads +HH'mm', +HH'mm or +HH
func parseOffset(zone string) (time.Duration, bool) {
	sign := time.Duration(1)
	if zone[0] == '-' {
		sign = -1
	}
	parts := strings.Split(strings.TrimSuffix(zone[1:], "'"), "'")
	if len(parts) == 0 || len(parts) > 2 {
		return 0, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || len(parts[0]) != 2 || hours > 23 {
		return 0, false
	}
	minutes := 0
	if len(parts) == 2 && parts[1] != "" {
		minutes, err = strconv.Atoi(parts[1])
		if err != nil || len(parts[1]) != 2 || minutes > 59 {
			return 0, false
		}
	}
	return sign * (time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute), true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
