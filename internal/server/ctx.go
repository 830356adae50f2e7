package server

import (
	"github.com/woozymasta/marsconv/internal/config"
	"github.com/woozymasta/marsconv/internal/gnss"

	"github.com/rs/zerolog/log"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config    *config.Config
	Follower  *gnss.Follower      // nil when tracking is disabled
	Locator   gnss.VehicleLocator // nil when no GNSS service is configured
	Simulator gnss.Simulator
}

// NewServerContext initializes the context. client may be nil, in which case
// vehicle and simulator endpoints answer 503.
func NewServerContext(cfg *config.Config, client *gnss.Client, follower *gnss.Follower) *ServerContext {
	if cfg == nil {
		cfg = config.Default()
	}

	s := &ServerContext{
		Config:   cfg,
		Follower: follower,
	}
	if client != nil {
		s.Locator = client
		s.Simulator = client
	}

	log.Info().
		Bool("gnss", client != nil).
		Bool("tracking", follower != nil).
		Msg("Server context initialized successfully")

	return s
}
