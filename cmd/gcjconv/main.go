package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/marsconv/internal/geo"
	"github.com/woozymasta/marsconv/internal/logger"
	"github.com/woozymasta/marsconv/internal/track"

	"github.com/jessevdk/go-flags"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input   string  `short:"i" long:"in"      description:"Input path file (\"lng lat\" per line). Reads from stdin if empty"`
	Output  string  `short:"o" long:"out"     description:"Output file path. Writes to stdout if empty"`
	From    string  `long:"from"              description:"Input datum"  choice:"wgs84" choice:"gcj02" default:"gcj02"`
	To      string  `long:"to"                description:"Output datum" choice:"wgs84" choice:"gcj02" default:"wgs84"`
	Format  string  `short:"f" long:"format"  description:"Output format" choice:"path" choice:"prescan" choice:"geojson" choice:"yaml" default:"path"`
	Prescan bool    `long:"prescan-in"        description:"Read input in \"index lat lng z\" format"`
	GeoJSON bool    `long:"geojson-in"        description:"Read input as a GeoJSON FeatureCollection"`
	Lng     float64 `long:"lng"               description:"Convert a single point instead of a file"`
	Lat     float64 `long:"lat"               description:"Latitude of the single point"`
}

type yamlPoint struct {
	Lng float64 `yaml:"lng"`
	Lat float64 `yaml:"lat"`
}

type yamlTrack struct {
	Datum  string      `yaml:"datum"`
	Points []yamlPoint `yaml:"points"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	from, err := geo.ParseDatum(opts.From)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid input datum")
	}
	to, err := geo.ParseDatum(opts.To)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid output datum")
	}

	// Single point mode prints "lng,lat" and exits
	if pointRequested(parser) {
		lng, lat := geo.Convert(from, to, opts.Lng, opts.Lat)
		fmt.Printf("%s %s\n", track.FormatPoint(orb.Point{opts.Lng, opts.Lat}), track.FormatPoint(orb.Point{lng, lat}))
		return
	}

	// Read Input
	var inputData []byte
	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
	} else {
		inputData, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal().Err(err).Str("path", opts.Input).Msg("Failed to read input")
	}

	var outputData []byte
	if opts.GeoJSON {
		outputData, err = convertGeoJSON(inputData, from, to)
	} else {
		outputData, err = convertTrack(inputData, opts, from, to)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to convert input")
	}

	if opts.Output == "" {
		_, _ = os.Stdout.Write(outputData)
		return
	}

	if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
		log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
	}
	log.Info().
		Str("path", opts.Output).
		Str("from", from.String()).
		Str("to", to.String()).
		Str("format", opts.Format).
		Msg("Conversion done")
}

// pointRequested reports whether --lng or --lat was given, including zero values.
func pointRequested(parser *flags.Parser) bool {
	for _, name := range []string{"lng", "lat"} {
		if opt := parser.FindOptionByLongName(name); opt != nil && opt.IsSet() {
			return true
		}
	}
	return false
}

func convertGeoJSON(data []byte, from, to geo.Datum) ([]byte, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	geo.ProjectFeatureCollection(fc, from, to)

	return json.MarshalIndent(fc, "", "  ")
}

func convertTrack(data []byte, opts Options, from, to geo.Datum) ([]byte, error) {
	var (
		t   *track.Track
		err error
	)
	if opts.Prescan {
		t, err = track.ParsePrescan(bytes.NewReader(data), from)
	} else {
		t, err = track.ParsePath(bytes.NewReader(data), from)
	}
	if err != nil {
		return nil, err
	}

	out := t.To(to)
	log.Debug().Int("points", out.Len()).Msg("Track converted")

	var buf bytes.Buffer
	switch opts.Format {
	case "prescan":
		err = track.WritePrescan(&buf, out.Points)
	case "geojson":
		var b []byte
		b, err = json.MarshalIndent(out.FeatureCollection(), "", "  ")
		buf.Write(b)
	case "yaml":
		doc := yamlTrack{Datum: out.Datum.String(), Points: make([]yamlPoint, 0, out.Len())}
		for _, p := range out.Points {
			doc.Points = append(doc.Points, yamlPoint{Lng: p.Lon(), Lat: p.Lat()})
		}
		err = yaml.NewEncoder(&buf).Encode(doc)
	default:
		err = track.WritePath(&buf, out.Points)
	}

	return buf.Bytes(), err
}
