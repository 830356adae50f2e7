package track

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/marsconv/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackTo(t *testing.T) {
	gcj := New(geo.GCJ02)
	gcj.Add(orb.Point{113.264435, 23.129163})
	gcj.Add(orb.Point{0, 0})

	wgs := gcj.To(geo.WGS84)
	require.Equal(t, 2, wgs.Len())
	assert.Equal(t, geo.WGS84, wgs.Datum)

	lng, lat := geo.GCJToWGS(113.264435, 23.129163)
	assert.Equal(t, orb.Point{lng, lat}, wgs.Points[0])
	assert.Equal(t, orb.Point{0, 0}, wgs.Points[1])

	// source is untouched
	assert.Equal(t, orb.Point{113.264435, 23.129163}, gcj.Points[0])
}

func TestTrackFeatureCollection(t *testing.T) {
	tr := New(geo.WGS84)
	assert.Empty(t, tr.FeatureCollection().Features)

	tr.Add(orb.Point{113.25, 23.13})
	fc := tr.FeatureCollection()
	require.Len(t, fc.Features, 1)
	assert.Equal(t, orb.Point{113.25, 23.13}, fc.Features[0].Geometry)

	tr.Add(orb.Point{113.26, 23.14})
	fc = tr.FeatureCollection()
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "wgs84", fc.Features[0].Properties["datum"])
	assert.Equal(t, tr.Points, fc.Features[0].Geometry)
}

func TestDirExporter(t *testing.T) {
	dir := t.TempDir()

	tr := New(geo.GCJ02)
	tr.Add(orb.Point{113.264435, 23.129163})
	tr.Add(orb.Point{113.27, 23.13})

	exp := DirExporter{Dir: dir, GeoJSON: true}
	require.NoError(t, exp.Export(tr))

	f, err := os.Open(filepath.Join(dir, PathFile))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	got, err := ParsePath(f, geo.WGS84)
	require.NoError(t, err)
	assert.Equal(t, tr.To(geo.WGS84).Points, got.Points)

	prescan, err := os.ReadFile(filepath.Join(dir, PrescanFile))
	require.NoError(t, err)
	assert.Contains(t, string(prescan), "1 ")

	data, err := os.ReadFile(filepath.Join(dir, GeoJSONFile))
	require.NoError(t, err)
	fc, err := geojson.UnmarshalFeatureCollection(data)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "wgs84", fc.Features[0].Properties.MustString("datum"))
}

func TestDirExporterKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, PathFile)
	require.NoError(t, os.WriteFile(path, []byte("keep\n"), 0644))

	tr := New(geo.WGS84)
	tr.Add(orb.Point{1, 2})

	require.NoError(t, DirExporter{Dir: dir}.Export(tr))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "keep\n", string(data))

	require.NoError(t, DirExporter{Dir: dir, Force: true}.Export(tr))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1 2\n", string(data))
}

func TestDirExporterEmpty(t *testing.T) {
	assert.Error(t, DirExporter{Dir: t.TempDir()}.Export(New(geo.WGS84)))
}
