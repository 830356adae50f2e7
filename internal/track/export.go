package track

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/woozymasta/marsconv/internal/geo"

	"github.com/rs/zerolog/log"
)

var errEmptyTrack = errors.New("export track: no points")

// File names written by DirExporter.
const (
	PathFile    = "path.txt"
	PrescanFile = "prescan_path.txt"
	GeoJSONFile = "path.geojson"
)

// Exporter persists a track somewhere outside the process.
type Exporter interface {
	Export(t *Track) error
}

// DirExporter saves tracks into a directory as WGS-84 plain path,
// prescan and GeoJSON files.
type DirExporter struct {
	Dir     string
	GeoJSON bool
	Force   bool
}

// Export converts the track to WGS-84 and writes the files.
// Existing files are kept unless Force is set.
func (e DirExporter) Export(t *Track) error {
	if t == nil || t.Len() == 0 {
		return errEmptyTrack
	}

	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return err
	}

	wgs := t.To(geo.WGS84)

	if err := e.write(PathFile, func(w io.Writer) error {
		return WritePath(w, wgs.Points)
	}); err != nil {
		return err
	}

	if err := e.write(PrescanFile, func(w io.Writer) error {
		return WritePrescan(w, wgs.Points)
	}); err != nil {
		return err
	}

	if e.GeoJSON {
		if err := e.write(GeoJSONFile, func(w io.Writer) error {
			return json.NewEncoder(w).Encode(wgs.FeatureCollection())
		}); err != nil {
			return err
		}
	}

	log.Info().
		Str("dir", e.Dir).
		Int("points", wgs.Len()).
		Msg("Track exported")

	return nil
}

func (e DirExporter) write(name string, fn func(io.Writer) error) (err error) {
	path := filepath.Join(e.Dir, name)

	if _, statErr := os.Stat(path); statErr == nil && !e.Force {
		log.Debug().Str("path", path).Msg("Track file exists, skipping")
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
			if err == nil {
				err = closeErr
			}
		}
	}()

	return fn(f)
}
