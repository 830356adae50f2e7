package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/project"
)

// Projection returns an orb projection converting points between datums.
func Projection(from, to Datum) orb.Projection {
	return func(p orb.Point) orb.Point {
		lng, lat := Convert(from, to, p.Lon(), p.Lat())
		return orb.Point{lng, lat}
	}
}

// ProjectGeometry converts every point of g in place and returns it.
func ProjectGeometry(g orb.Geometry, from, to Datum) orb.Geometry {
	if g == nil || from == to {
		return g
	}
	return project.Geometry(g, Projection(from, to))
}

// ProjectFeatureCollection converts the geometry of every feature in place.
// Bounding boxes are recomputed for features that carried one.
func ProjectFeatureCollection(fc *geojson.FeatureCollection, from, to Datum) *geojson.FeatureCollection {
	if fc == nil || from == to {
		return fc
	}

	for _, f := range fc.Features {
		f.Geometry = ProjectGeometry(f.Geometry, from, to)
		if f.BBox != nil && f.Geometry != nil {
			f.BBox = geojson.NewBBox(f.Geometry.Bound())
		}
	}
	if fc.BBox != nil {
		var (
			bound orb.Bound
			seen  bool
		)
		for _, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			if !seen {
				bound, seen = f.Geometry.Bound(), true
				continue
			}
			bound = bound.Union(f.Geometry.Bound())
		}
		fc.BBox = geojson.NewBBox(bound)
	}

	return fc
}
