package gnss

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/woozymasta/marsconv/internal/geo"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
)

// DefaultInterval is the polling period used when none is configured.
const DefaultInterval = 500 * time.Millisecond

// Fix is a vehicle position in both datums.
type Fix struct {
	Time time.Time
	WGS  orb.Point
	GCJ  orb.Point
}

// Follower polls a PositionSource and converts every fix for map display.
type Follower struct {
	source   PositionSource
	handler  func(Fix)
	last     *Fix
	interval time.Duration
	mu       sync.RWMutex
}

// NewFollower creates a follower. handler may be nil.
func NewFollower(source PositionSource, interval time.Duration, handler func(Fix)) *Follower {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Follower{
		source:   source,
		interval: interval,
		handler:  handler,
	}
}

// Run polls until ctx is cancelled. Fetch errors are logged and polling continues.
func (f *Follower) Run(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", f.interval).Msg("Position tracking started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Position tracking stopped")
			return
		case <-ticker.C:
			f.poll(ctx)
		}
	}
}

func (f *Follower) poll(ctx context.Context) {
	wgs, err := f.source.Position(ctx)
	if err != nil {
		if errors.Is(err, ErrNoFix) {
			log.Trace().Msg("No position fix")
		} else if ctx.Err() == nil {
			log.Warn().Err(err).Msg("Failed to fetch vehicle position")
		}
		return
	}

	lng, lat := geo.WGSToGCJ(wgs.Lon(), wgs.Lat())
	fix := Fix{
		Time: time.Now(),
		WGS:  wgs,
		GCJ:  orb.Point{lng, lat},
	}

	f.mu.Lock()
	f.last = &fix
	f.mu.Unlock()

	log.Debug().
		Float64("lng", fix.GCJ.Lon()).
		Float64("lat", fix.GCJ.Lat()).
		Msg("Vehicle position")

	if f.handler != nil {
		f.handler(fix)
	}
}

// Last returns the most recent fix.
func (f *Follower) Last() (Fix, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.last == nil {
		return Fix{}, false
	}
	return *f.last, true
}

// PlaceVehicle converts a GCJ-02 map point to WGS-84 and pushes it to the locator.
func PlaceVehicle(ctx context.Context, locator VehicleLocator, gcj orb.Point) (orb.Point, error) {
	lng, lat := geo.GCJToWGS(gcj.Lon(), gcj.Lat())
	wgs := orb.Point{lng, lat}

	if err := locator.SetVehicle(ctx, wgs); err != nil {
		return orb.Point{}, err
	}
	return wgs, nil
}
