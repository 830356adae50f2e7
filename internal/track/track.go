// Package track reads, writes and converts recorded paths.
package track

import (
	"github.com/woozymasta/marsconv/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Track is an ordered list of points tagged with the datum they are in.
type Track struct {
	Datum  geo.Datum
	Points orb.LineString
}

// New creates an empty track in the given datum.
func New(datum geo.Datum) *Track {
	return &Track{Datum: datum, Points: orb.LineString{}}
}

// Add appends a point expressed in the track datum.
func (t *Track) Add(p orb.Point) {
	t.Points = append(t.Points, p)
}

// Len returns the number of points.
func (t *Track) Len() int {
	return len(t.Points)
}

// To returns a copy of the track converted to datum.
func (t *Track) To(datum geo.Datum) *Track {
	pts := t.Points.Clone()
	if pts == nil {
		pts = orb.LineString{}
	}
	pts = geo.ProjectGeometry(pts, t.Datum, datum).(orb.LineString)

	return &Track{Datum: datum, Points: pts}
}

// FeatureCollection wraps the track in a single LineString feature.
// Single point tracks become a Point feature.
func (t *Track) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(t.Points) == 0 {
		return fc
	}

	var g orb.Geometry = t.Points.Clone()
	if len(t.Points) == 1 {
		g = t.Points[0]
	}

	f := geojson.NewFeature(g)
	f.Properties["datum"] = t.Datum.String()
	f.Properties["points"] = len(t.Points)
	fc.Append(f)

	return fc
}
