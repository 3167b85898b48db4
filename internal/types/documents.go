//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// DocumentMatch is a supporting document whose text contains the search string
type DocumentMatch struct {
	Path string `json:"path"`
	Text string `json:"-"`
}

// Timestamp is a document date parsed from PDF metadata.
// Local holds the wall-clock digits in UTC location; Offset is the designator that followed them, if any.
type Timestamp struct {
	Local     time.Time      `json:"local"`
	Offset    *time.Duration `json:"offset,omitempty"`
	UTCMarker bool           `json:"utc_marker,omitempty"`
	Raw       string         `json:"raw"`
}

// HasZone reports whether the raw value carried any timezone designator.
func (t Timestamp) HasZone() bool {
	return t.UTCMarker || t.Offset != nil
}

// ZoneKey returns a comparable description of the timezone designator.
func (t Timestamp) ZoneKey() string {
	switch {
	case t.Offset != nil:
		return t.Offset.String()
	case t.UTCMarker:
		return "Z"
	default:
		return ""
	}
}

// SelectedDocument is the most recent eligible document for one identifier
type SelectedDocument struct {
	Path      string    `json:"path"`
	Timestamp Timestamp `json:"timestamp"`
}
