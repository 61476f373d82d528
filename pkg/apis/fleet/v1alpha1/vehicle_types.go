package v1alpha1

import (
	"fmt"
	"strconv"
)

// Timestamp is a Unix timestamp in seconds unless stated otherwise.
type Timestamp = int64

// VehicleId identifies a vehicle on the owner API.
type VehicleId uint64

// ParseVehicleId parses the decimal rendering of a VehicleId.
func ParseVehicleId(s string) (VehicleId, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid vehicle id %q: %w", s, err)
	}
	return VehicleId(v), nil
}

func (id VehicleId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// VehicleGuid identifies a vehicle on the streaming API. It is a separate
// namespace from VehicleId; the two never mix.
type VehicleGuid uint64

// ParseVehicleGuid parses the decimal rendering of a VehicleGuid.
func ParseVehicleGuid(s string) (VehicleGuid, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid vehicle guid %q: %w", s, err)
	}
	return VehicleGuid(v), nil
}

func (g VehicleGuid) String() string {
	return strconv.FormatUint(uint64(g), 10)
}

// OnlineState is the externally visible projection of a vehicle's simulation
// state. Values other than the declared constants are preserved as-is so that
// upstream additions survive a round-trip.
type OnlineState string

const (
	OnlineStateOffline OnlineState = "offline"
	OnlineStateOnline  OnlineState = "online"
)

// ShiftState is a vehicle's gear selection in its canonical single-letter wire
// form. Unknown letters are preserved as-is.
type ShiftState string

const (
	ShiftStatePark    ShiftState = "P"
	ShiftStateDrive   ShiftState = "D"
	ShiftStateReverse ShiftState = "R"
)

// ChargingState reports whether the car is currently charging.
type ChargingState string

const (
	ChargingStateStarting     ChargingState = "Starting"
	ChargingStateComplete     ChargingState = "Complete"
	ChargingStateCharging     ChargingState = "Charging"
	ChargingStateDisconnected ChargingState = "Disconnected"
	ChargingStateStopped      ChargingState = "Stopped"
	ChargingStateNoPower      ChargingState = "NoPower"
)

// VehicleDescriptor is the outward-facing record for a vehicle. It is created
// at registry startup and mutated only when the owning simulator reports a
// state change.
type VehicleDescriptor struct {
	// ID is the vehicle ID for owner-api endpoints.
	ID VehicleId `json:"id"`

	// VehicleID is the vehicle ID for the streaming API.
	VehicleID VehicleGuid `json:"vehicle_id"`

	// VIN is the vehicle identification number.
	VIN string `json:"vin"`

	// DisplayName is the user-chosen vehicle name.
	DisplayName string `json:"display_name"`

	// OptionCodes lists the factory option codes.
	OptionCodes string `json:"option_codes"`

	// Color is the exterior colour, if known.
	Color *string `json:"color"`

	// Tokens is the vehicle token bag.
	Tokens []string `json:"tokens"`

	// State is the online state.
	State OnlineState `json:"state"`

	// InService reports whether the vehicle is in service.
	InService bool `json:"in_service"`

	// IDS is the vehicle ID as a string.
	IDS string `json:"id_s"`

	// CalendarEnabled reports whether calendar sync is enabled.
	CalendarEnabled bool `json:"calendar_enabled"`

	// APIVersion is the vehicle API version.
	APIVersion int `json:"api_version"`

	BackseatToken          *string `json:"backseat_token"`
	BackseatTokenUpdatedAt *string `json:"backseat_token_updated_at"`
}

// SimulationState names the high-level state a simulator can be asked to
// assume via the simulate command, and the discriminant it reports back.
type SimulationState string

const (
	SimulationStateDriving     SimulationState = "driving"
	SimulationStateCharging    SimulationState = "charging"
	SimulationStateIdle        SimulationState = "idle"
	SimulationStateIdleNoSleep SimulationState = "idle_no_sleep"
	SimulationStateSleeping    SimulationState = "sleeping"
)

// ParseSimulationState parses the wire form of a SimulationState.
func ParseSimulationState(s string) (SimulationState, error) {
	switch SimulationState(s) {
	case SimulationStateDriving, SimulationStateCharging, SimulationStateIdle,
		SimulationStateIdleNoSleep, SimulationStateSleeping:
		return SimulationState(s), nil
	}
	return "", fmt.Errorf("unknown simulation state: %s", s)
}

// OnlineState maps the simulation state discriminant onto the descriptor's
// online state. Only Sleeping renders a vehicle offline.
func (s SimulationState) OnlineState() OnlineState {
	if s == SimulationStateSleeping {
		return OnlineStateOffline
	}
	return OnlineStateOnline
}
