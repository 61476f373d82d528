package simulator

import (
	"context"
	"time"

	"github.com/looplab/fsm"

	"github.com/luxfleet-io/luxfleet/internal/pkg/metrics"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

// Timings collects every wall-clock constant of the state machine. Tests
// shrink them; production uses DefaultTimings.
type Timings struct {
	// DriveTick is how often a driving vehicle advances and samples.
	DriveTick time.Duration

	// ChargeTick is how often a charging vehicle adds charge.
	ChargeTick time.Duration

	// IdleSleep is how long a vehicle stays idle before falling asleep.
	IdleSleep time.Duration

	// WakeDelay is how long a sleeping vehicle takes to wake after a wake_up
	// command.
	WakeDelay time.Duration

	// CommandTimeout bounds every command sent to the actor.
	CommandTimeout time.Duration
}

// DefaultTimings returns the production constants.
func DefaultTimings() Timings {
	return Timings{
		DriveTick:      time.Second,
		ChargeTick:     10 * time.Second,
		IdleSleep:      60 * time.Second,
		WakeDelay:      60 * time.Second,
		CommandTimeout: 10 * time.Second,
	}
}

// driveSpeedMph is the default speed a fresh drive is seeded with.
const driveSpeedMph = 60.0

// drivePowerWatts is the power draw reported while driving.
const drivePowerWatts = 500

// milesToKm converts statute miles to kilometers.
const milesToKm = 1.609344

// driveState is the per-drive bookkeeping: where the drive started and where
// the battery stands. By convention one percent of battery is one kilometer
// of range.
type driveState struct {
	startedAt time.Time
	lastTick  time.Time
	latitude  float64
	longitude float64
	heading   int
	speedMph  float64
	battery   float64
}

// chargeState is the per-charge bookkeeping.
type chargeState struct {
	startedAt time.Time
	lastTick  time.Time
	battery   float64
}

// Event names for the state machine. The simulate command overrides freely,
// so every event accepts every state as a source; timer deadlines fire a
// subset of them.
const (
	eventDrive     = "drive"
	eventCharge    = "charge"
	eventIdle      = "idle"
	eventStayAwake = "stay_awake"
	eventSleep     = "sleep"
	eventWake      = "wake"
)

var allStates = []string{
	string(fleetv1.SimulationStateDriving),
	string(fleetv1.SimulationStateCharging),
	string(fleetv1.SimulationStateIdle),
	string(fleetv1.SimulationStateIdleNoSleep),
	string(fleetv1.SimulationStateSleeping),
}

func eventFor(target fleetv1.SimulationState) string {
	switch target {
	case fleetv1.SimulationStateDriving:
		return eventDrive
	case fleetv1.SimulationStateCharging:
		return eventCharge
	case fleetv1.SimulationStateIdleNoSleep:
		return eventStayAwake
	case fleetv1.SimulationStateSleeping:
		return eventSleep
	default:
		return eventIdle
	}
}

// newMachine wires the discriminant state machine. Per-state bookkeeping and
// deadlines are (re)seeded by the enter callbacks; the generic enter_state
// callback mirrors the discriminant onto the snapshot and the watch
// broadcast.
func newMachine(s *Simulator) *fsm.FSM {
	events := fsm.Events{
		{Name: eventDrive, Src: allStates, Dst: string(fleetv1.SimulationStateDriving)},
		{Name: eventCharge, Src: allStates, Dst: string(fleetv1.SimulationStateCharging)},
		{Name: eventIdle, Src: allStates, Dst: string(fleetv1.SimulationStateIdle)},
		{Name: eventStayAwake, Src: allStates, Dst: string(fleetv1.SimulationStateIdleNoSleep)},
		{Name: eventSleep, Src: allStates, Dst: string(fleetv1.SimulationStateSleeping)},
		{Name: eventWake, Src: allStates, Dst: string(fleetv1.SimulationStateIdle)},
	}

	callbacks := fsm.Callbacks{
		"enter_" + string(fleetv1.SimulationStateDriving):  func(_ context.Context, e *fsm.Event) { s.enterDriving() },
		"enter_" + string(fleetv1.SimulationStateCharging): func(_ context.Context, e *fsm.Event) { s.enterCharging() },
		"enter_" + string(fleetv1.SimulationStateIdle):     func(_ context.Context, e *fsm.Event) { s.enterIdle() },
		"enter_" + string(fleetv1.SimulationStateSleeping): func(_ context.Context, e *fsm.Event) { s.enterSleeping() },
		"leave_" + string(fleetv1.SimulationStateDriving):  func(_ context.Context, e *fsm.Event) { s.leaveDriving() },
		"leave_" + string(fleetv1.SimulationStateCharging): func(_ context.Context, e *fsm.Event) { s.leaveCharging() },
		"enter_state": func(_ context.Context, e *fsm.Event) {
			state := fleetv1.SimulationState(e.Dst)
			metrics.StateTransitionsTotal.WithLabelValues(e.Dst).Inc()
			s.data.State = state.OnlineState()
			s.states.Publish(state)
		},
	}

	return fsm.NewFSM(string(fleetv1.SimulationStateIdle), events, callbacks)
}
