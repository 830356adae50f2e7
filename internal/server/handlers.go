// Package server handles HTTP requests and middleware.
package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/woozymasta/marsconv/internal/geo"
	"github.com/woozymasta/marsconv/internal/gnss"
	"github.com/woozymasta/marsconv/internal/track"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

var maxBodySize int64 = 16 << 20

var errNoGNSS = errors.New("gnss service not configured")

type pointResponse struct {
	From    geo.Datum `json:"from"`
	To      geo.Datum `json:"to"`
	Lng     float64   `json:"lng"`
	Lat     float64   `json:"lat"`
	InChina bool      `json:"in_china"`
}

type fixResponse struct {
	Time time.Time `json:"time"`
	WGS  orb.Point `json:"wgs84"`
	GCJ  orb.Point `json:"gcj02"`
}

// HandleConvert converts a single point: /api/convert?from=gcj02&to=wgs84&lng=..&lat=..
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, to, err := datums(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := point(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	lng, lat := geo.Convert(from, to, p.Lon(), p.Lat())
	writeJSON(w, http.StatusOK, pointResponse{
		From:    from,
		To:      to,
		Lng:     lng,
		Lat:     lat,
		InChina: geo.IsInChina(p.Lon(), p.Lat()),
	})
}

// HandleGeoJSON converts every geometry of a posted FeatureCollection.
func (s *ServerContext) HandleGeoJSON(w http.ResponseWriter, r *http.Request) {
	from, to, err := datums(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeError(w, bodyStatus(err), err)
		return
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode geojson: %w", err))
		return
	}

	geo.ProjectFeatureCollection(fc, from, to)

	w.Header().Set("Content-Type", "application/geo+json")
	_ = json.NewEncoder(w).Encode(fc)
}

// HandleTrack converts a posted path file ("lng lat" per line).
// The format parameter selects path, prescan or geojson output.
func (s *ServerContext) HandleTrack(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, to, err := datums(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	t, err := track.ParsePath(http.MaxBytesReader(w, r.Body, maxBodySize), from)
	if err != nil {
		writeError(w, bodyStatus(err), err)
		return
	}
	out := t.To(to)

	switch format := q.Get("format"); format {
	case "", "path":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = track.WritePath(w, out.Points)
	case "prescan":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		err = track.WritePrescan(w, out.Points)
	case "geojson":
		w.Header().Set("Content-Type", "application/geo+json")
		err = json.NewEncoder(w).Encode(out.FeatureCollection())
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown format %q", format))
		return
	}

	if err != nil {
		log.Debug().Err(err).Msg("Failed to write track response")
	}
}

// HandleConfig serves the front-end map settings. The security code is not exposed.
func (s *ServerContext) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Config)
}

// HandleVehicle returns the last tracked position.
func (s *ServerContext) HandleVehicle(w http.ResponseWriter, r *http.Request) {
	if s.Follower == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("position tracking disabled"))
		return
	}

	fix, ok := s.Follower.Last()
	if !ok {
		writeError(w, http.StatusNotFound, gnss.ErrNoFix)
		return
	}

	writeJSON(w, http.StatusOK, fixResponse{Time: fix.Time, WGS: fix.WGS, GCJ: fix.GCJ})
}

// HandleSetVehicle moves the vehicle to a GCJ-02 map point: PUT /api/vehicle?lng=..&lat=..
func (s *ServerContext) HandleSetVehicle(w http.ResponseWriter, r *http.Request) {
	if s.Locator == nil {
		writeError(w, http.StatusServiceUnavailable, errNoGNSS)
		return
	}

	gcj, err := point(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	wgs, err := gnss.PlaceVehicle(r.Context(), s.Locator, gcj)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update vehicle position")
		writeError(w, http.StatusBadGateway, err)
		return
	}

	log.Info().
		Str("gcj02", track.FormatPoint(gcj)).
		Str("wgs84", track.FormatPoint(wgs)).
		Msg("Vehicle position updated")

	writeJSON(w, http.StatusOK, fixResponse{Time: time.Now(), WGS: wgs, GCJ: gcj})
}

// HandleSimulatorStart starts the GNSS simulator.
func (s *ServerContext) HandleSimulatorStart(w http.ResponseWriter, r *http.Request) {
	s.simulator(w, r, "start")
}

// HandleSimulatorStop stops the GNSS simulator.
func (s *ServerContext) HandleSimulatorStop(w http.ResponseWriter, r *http.Request) {
	s.simulator(w, r, "stop")
}

func (s *ServerContext) simulator(w http.ResponseWriter, r *http.Request, action string) {
	if s.Simulator == nil {
		writeError(w, http.StatusServiceUnavailable, errNoGNSS)
		return
	}

	var err error
	if action == "start" {
		err = s.Simulator.Start(r.Context())
	} else {
		err = s.Simulator.Stop(r.Context())
	}
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("GNSS simulator request failed")
		writeError(w, http.StatusBadGateway, err)
		return
	}

	log.Info().Str("action", action).Msg("GNSS simulator updated")
	writeJSON(w, http.StatusOK, map[string]string{"status": action})
}

// datums reads the from/to parameters, defaulting to GCJ-02 -> WGS-84.
func datums(q url.Values) (from, to geo.Datum, err error) {
	from, to = geo.GCJ02, geo.WGS84

	if v := q.Get("from"); v != "" {
		if from, err = geo.ParseDatum(v); err != nil {
			return "", "", err
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = geo.ParseDatum(v); err != nil {
			return "", "", err
		}
	}

	return from, to, nil
}

func point(q url.Values) (orb.Point, error) {
	lng, err := track.ParseDegrees(q.Get("lng"))
	if err != nil {
		return orb.Point{}, fmt.Errorf("lng: %w", err)
	}
	lat, err := track.ParseDegrees(q.Get("lat"))
	if err != nil {
		return orb.Point{}, fmt.Errorf("lat: %w", err)
	}
	return orb.Point{lng, lat}, nil
}

// bodyStatus maps a request body error to 413 when the size limit was hit.
func bodyStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// writeJSON encodes v before sending the header so encoding failures become a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
