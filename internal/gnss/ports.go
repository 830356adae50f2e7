// Package gnss talks to the positioning service that feeds WGS-84 fixes
// and follows the vehicle position over time.
package gnss

import (
	"context"
	"errors"

	"github.com/paulmach/orb"
)

// ErrNoFix is returned when the service has no position to report.
var ErrNoFix = errors.New("no position fix")

// PositionSource provides the current vehicle position in WGS-84.
type PositionSource interface {
	Position(ctx context.Context) (orb.Point, error)
}

// VehicleLocator overrides the vehicle position. The point is WGS-84.
type VehicleLocator interface {
	SetVehicle(ctx context.Context, p orb.Point) error
}

// Simulator controls a GNSS signal simulator.
type Simulator interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
