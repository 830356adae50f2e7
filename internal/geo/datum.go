// Package geo handles geographic data structures and coordinate conversions.
package geo

import (
	"errors"
	"fmt"
	"strings"
)

// Datum names the reference frame a coordinate is expressed in.
type Datum string

const (
	// WGS84 is the GPS reference frame.
	WGS84 Datum = "wgs84"
	// GCJ02 is the offset frame required for public maps in mainland China.
	GCJ02 Datum = "gcj02"
)

// ErrUnknownDatum is returned by ParseDatum for unrecognized names.
var ErrUnknownDatum = errors.New("unknown datum")

// ParseDatum resolves a datum name. Common aliases ("gps", "mars",
// hyphenated forms) are accepted case-insensitively.
func ParseDatum(s string) (Datum, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wgs84", "wgs-84", "gps":
		return WGS84, nil
	case "gcj02", "gcj-02", "mars":
		return GCJ02, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDatum, s)
}

func (d Datum) String() string {
	return string(d)
}

// Convert moves a point from one datum to another.
// Equal datums return the input as is.
func Convert(from, to Datum, lng, lat float64) (float64, float64) {
	switch {
	case from == to:
		return lng, lat
	case from == GCJ02 && to == WGS84:
		return GCJToWGS(lng, lat)
	case from == WGS84 && to == GCJ02:
		return WGSToGCJ(lng, lat)
	}
	return lng, lat
}
