package streaming

import (
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

// Sample is one reading of a driving vehicle's telemetry. Every field except
// Guid and Time is nullable; a nil pointer encodes as an empty column.
type Sample struct {
	// Guid is the streaming identifier of the emitting vehicle.
	Guid fleetv1.VehicleGuid

	// Time is a Unix timestamp in milliseconds.
	Time int64

	// Speed in miles per hour.
	Speed *float64

	// Odometer reading in km.
	Odometer *float64

	// Soc is the state of charge as a percentage.
	Soc *int

	// Elevation in meters.
	Elevation *int

	// EstHeading is the estimated heading in degrees.
	EstHeading *int

	// EstLat is the estimated latitude in decimal degrees.
	EstLat *float64

	// EstLng is the estimated longitude in decimal degrees.
	EstLng *float64

	// Power usage in watts.
	Power *int

	// ShiftState is the gear selection.
	ShiftState *fleetv1.ShiftState

	// Range is the rated range in km.
	Range *float64

	// EstRange is the range estimated from recent energy usage, in km.
	EstRange *float64

	// Heading in degrees.
	Heading *int
}
