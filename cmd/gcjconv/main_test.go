package main

import (
	"strings"
	"testing"

	"github.com/woozymasta/marsconv/internal/geo"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConvertTrackFormats(t *testing.T) {
	in := []byte("0 0\n1.5 2.5\n")

	out, err := convertTrack(in, Options{Format: "path"}, geo.GCJ02, geo.WGS84)
	require.NoError(t, err)
	assert.Equal(t, "0 0\n1.5 2.5\n", string(out))

	out, err = convertTrack(in, Options{Format: "prescan"}, geo.GCJ02, geo.WGS84)
	require.NoError(t, err)
	assert.Equal(t, "0 0 0 0\n1 2.5 1.5 0\n", string(out))

	out, err = convertTrack(in, Options{Format: "yaml"}, geo.GCJ02, geo.WGS84)
	require.NoError(t, err)
	var doc yamlTrack
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "wgs84", doc.Datum)
	assert.Equal(t, []yamlPoint{{Lng: 0, Lat: 0}, {Lng: 1.5, Lat: 2.5}}, doc.Points)

	out, err = convertTrack([]byte("0 23.13 113.25 0\n"), Options{Format: "path", Prescan: true}, geo.WGS84, geo.WGS84)
	require.NoError(t, err)
	assert.Equal(t, "113.25 23.13\n", string(out))
}

func TestPointRequested(t *testing.T) {
	cases := map[string]struct {
		args []string
		want bool
	}{
		"zero point": {[]string{"--lng", "0", "--lat", "0"}, true},
		"lat only":   {[]string{"--lat", "23.1"}, true},
		"file input": {[]string{"--in", "path.txt"}, false},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var opts Options
			parser := flags.NewParser(&opts, flags.Default)
			_, err := parser.ParseArgs(tc.args)
			require.NoError(t, err)

			assert.Equal(t, tc.want, pointRequested(parser))
		})
	}
}

func TestConvertTrackInvalid(t *testing.T) {
	_, err := convertTrack([]byte("east north\n"), Options{}, geo.GCJ02, geo.WGS84)
	assert.Error(t, err)
}

func TestConvertGeoJSON(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[116.397455,39.909187]},"properties":null}]}`

	out, err := convertGeoJSON([]byte(in), geo.GCJ02, geo.WGS84)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(out), "116.391"))
}
