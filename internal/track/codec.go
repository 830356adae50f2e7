package track

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/woozymasta/marsconv/internal/geo"

	"github.com/paulmach/orb"
)

// ErrInvalidCoordinate is returned when a line holds no usable coordinate pair.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// ParsePath reads a plain path file: one "lng lat" pair per line separated
// by whitespace. Blank lines are skipped and extra columns are ignored.
func ParsePath(r io.Reader, datum geo.Datum) (*Track, error) {
	return parse(r, datum, func(fields []string) (orb.Point, error) {
		return parsePair(fields, 0, 1)
	})
}

// ParsePrescan reads the indexed "index lat lng z" format written by WritePrescan.
func ParsePrescan(r io.Reader, datum geo.Datum) (*Track, error) {
	return parse(r, datum, func(fields []string) (orb.Point, error) {
		if len(fields) < 3 {
			return orb.Point{}, fmt.Errorf("%w: expected index lat lng", ErrInvalidCoordinate)
		}
		return parsePair(fields, 2, 1)
	})
}

func parse(r io.Reader, datum geo.Datum, decode func([]string) (orb.Point, error)) (*Track, error) {
	t := New(datum)
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		p, err := decode(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		t.Add(p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read track: %w", err)
	}

	return t, nil
}

func parsePair(fields []string, lngIdx, latIdx int) (orb.Point, error) {
	if len(fields) <= lngIdx || len(fields) <= latIdx {
		return orb.Point{}, fmt.Errorf("%w: expected lng and lat", ErrInvalidCoordinate)
	}

	lng, err := ParseDegrees(fields[lngIdx])
	if err != nil {
		return orb.Point{}, fmt.Errorf("lng: %w", err)
	}
	lat, err := ParseDegrees(fields[latIdx])
	if err != nil {
		return orb.Point{}, fmt.Errorf("lat: %w", err)
	}

	return orb.Point{lng, lat}, nil
}

// ParseDegrees parses a decimal degree value. NaN and infinities are rejected.
func ParseDegrees(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return v, nil
}

// WritePath writes one "lng lat" line per point at full precision.
func WritePath(w io.Writer, pts orb.LineString) error {
	bw := bufio.NewWriter(w)
	for _, p := range pts {
		if _, err := fmt.Fprintf(bw, "%s %s\n", formatDeg(p.Lon()), formatDeg(p.Lat())); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WritePrescan writes one "index lat lng 0" line per point.
func WritePrescan(w io.Writer, pts orb.LineString) error {
	bw := bufio.NewWriter(w)
	for i, p := range pts {
		if _, err := fmt.Fprintf(bw, "%d %s %s 0\n", i, formatDeg(p.Lat()), formatDeg(p.Lon())); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatPoint renders a point as "lng,lat" rounded to six decimals for display.
func FormatPoint(p orb.Point) string {
	return strconv.FormatFloat(p.Lon(), 'f', 6, 64) + "," + strconv.FormatFloat(p.Lat(), 'f', 6, 64)
}

func formatDeg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
