package server

import "net/http"

// Routes registers every API endpoint and wraps the mux with request logging.
func (s *ServerContext) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/convert", s.HandleConvert)
	mux.HandleFunc("POST /api/geojson", s.HandleGeoJSON)
	mux.HandleFunc("POST /api/track", s.HandleTrack)
	mux.HandleFunc("GET /api/config", s.HandleConfig)
	mux.HandleFunc("GET /api/vehicle", s.HandleVehicle)
	mux.HandleFunc("PUT /api/vehicle", s.HandleSetVehicle)
	mux.HandleFunc("POST /api/simulator/start", s.HandleSimulatorStart)
	mux.HandleFunc("POST /api/simulator/stop", s.HandleSimulatorStop)

	return RequestLogger(mux)
}
