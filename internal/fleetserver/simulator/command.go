package simulator

import (
	"context"
	"time"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/apierror"
	"github.com/luxfleet-io/luxfleet/internal/pkg/broadcast"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

// command is the tagged variant type of the actor inbox. Every variant
// carries its own single-shot reply slot.
type command interface {
	name() string
}

type wakeUpCmd struct {
	reply chan error
}

func (wakeUpCmd) name() string { return "wake_up" }

type vehicleDataReply struct {
	data *fleetv1.VehicleData
	err  error
}

type getVehicleDataCmd struct {
	reply chan vehicleDataReply
}

func (getVehicleDataCmd) name() string { return "get_vehicle_data" }

type subscribeReply struct {
	rx  *broadcast.Receiver[*streaming.Sample]
	err *streaming.DataError
}

type subscribeCmd struct {
	reply chan subscribeReply
}

func (subscribeCmd) name() string { return "subscribe" }

type simulateCmd struct {
	target fleetv1.SimulationState
	reply  chan error
}

func (simulateCmd) name() string { return "simulate" }

type watchStateCmd struct {
	reply chan *broadcast.Receiver[fleetv1.SimulationState]
}

func (watchStateCmd) name() string { return "watch_state" }

// Sender is a cheap, copyable handle to one simulator's inbox. Every call is
// bounded by the command timeout; a dead or wedged simulator surfaces as
// device-not-available.
type Sender struct {
	guid    fleetv1.VehicleGuid
	inbox   chan<- command
	timeout time.Duration
}

// Guid returns the streaming identifier of the vehicle behind this handle.
func (s Sender) Guid() fleetv1.VehicleGuid {
	return s.guid
}

func (s Sender) send(ctx context.Context, cmd command) error {
	t := time.NewTimer(s.timeout)
	defer t.Stop()

	select {
	case s.inbox <- cmd:
		return nil
	case <-t.C:
		return apierror.New(apierror.KindDeviceNotAvailable)
	case <-ctx.Done():
		return apierror.New(apierror.KindDeviceNotAvailable)
	}
}

func await[T any](ctx context.Context, timeout time.Duration, reply chan T) (T, error) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-t.C:
		return zero, apierror.New(apierror.KindDeviceNotAvailable)
	case <-ctx.Done():
		return zero, apierror.New(apierror.KindDeviceNotAvailable)
	}
}

// WakeUp asks a sleeping vehicle to wake. It answers device-not-available
// while the wake is pending and success otherwise.
func (s Sender) WakeUp(ctx context.Context) error {
	cmd := wakeUpCmd{reply: make(chan error, 1)}
	if err := s.send(ctx, cmd); err != nil {
		return err
	}
	res, err := await(ctx, s.timeout, cmd.reply)
	if err != nil {
		return err
	}
	return res
}

// VehicleData fetches the current full snapshot.
func (s Sender) VehicleData(ctx context.Context) (*fleetv1.VehicleData, error) {
	cmd := getVehicleDataCmd{reply: make(chan vehicleDataReply, 1)}
	if err := s.send(ctx, cmd); err != nil {
		return nil, err
	}
	res, err := await(ctx, s.timeout, cmd.reply)
	if err != nil {
		return nil, err
	}
	return res.data, res.err
}

// Subscribe returns a fresh receiver of the vehicle's sample broadcast.
func (s Sender) Subscribe(ctx context.Context) (*broadcast.Receiver[*streaming.Sample], *streaming.DataError) {
	cmd := subscribeCmd{reply: make(chan subscribeReply, 1)}
	if err := s.send(ctx, cmd); err != nil {
		return nil, streaming.Disconnected(s.guid)
	}
	res, err := await(ctx, s.timeout, cmd.reply)
	if err != nil {
		return nil, streaming.Disconnected(s.guid)
	}
	return res.rx, res.err
}

// Simulate forces the vehicle into the requested high-level state.
func (s Sender) Simulate(ctx context.Context, target fleetv1.SimulationState) error {
	cmd := simulateCmd{target: target, reply: make(chan error, 1)}
	if err := s.send(ctx, cmd); err != nil {
		return err
	}
	res, err := await(ctx, s.timeout, cmd.reply)
	if err != nil {
		return err
	}
	return res
}

// WatchState returns a receiver of the state-discriminant broadcast. Intended
// for the registry's descriptor mirror and the MQTT bridge.
func (s Sender) WatchState(ctx context.Context) (*broadcast.Receiver[fleetv1.SimulationState], error) {
	cmd := watchStateCmd{reply: make(chan *broadcast.Receiver[fleetv1.SimulationState], 1)}
	if err := s.send(ctx, cmd); err != nil {
		return nil, err
	}
	return await(ctx, s.timeout, cmd.reply)
}
