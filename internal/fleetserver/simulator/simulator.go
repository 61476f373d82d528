// Package simulator runs one actor per vehicle. The actor owns the
// authoritative vehicle snapshot and its simulation state, multiplexes the
// command inbox with the state machine's timers, and publishes telemetry
// samples while driving.
package simulator

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/looplab/fsm"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/apierror"
	"github.com/luxfleet-io/luxfleet/internal/pkg/broadcast"
	"github.com/luxfleet-io/luxfleet/internal/pkg/flatproj"
	"github.com/luxfleet-io/luxfleet/internal/pkg/metrics"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/log"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

// Simulator is the per-vehicle actor state. All fields are owned by the run
// loop; nothing outside the goroutine touches them.
type Simulator struct {
	guid      fleetv1.VehicleGuid
	data      *fleetv1.VehicleData
	elevation int
	timings   Timings

	machine *fsm.FSM
	drive   *driveState
	charge  *chargeState

	nextTick time.Time
	sleepAt  time.Time
	wakeAt   time.Time

	// stream is allocated lazily on the first subscribe and closed when the
	// vehicle falls asleep or runs its battery down.
	stream *broadcast.Broadcaster[*streaming.Sample]
	states *broadcast.Broadcaster[fleetv1.SimulationState]

	inbox  chan command
	logger log.Logger
}

// Start spawns the actor for one seed descriptor and returns its command
// handle. The actor runs until ctx is cancelled.
func Start(ctx context.Context, desc fleetv1.VehicleDescriptor, timings Timings) Sender {
	now := time.Now()
	s := &Simulator{
		guid:    desc.VehicleID,
		data:    newVehicleData(&desc, now),
		timings: timings,
		states:  broadcast.New[fleetv1.SimulationState](),
		inbox:   make(chan command, 1),
		logger:  log.WithName("simulator").WithValues("vehicle", desc.VehicleID),
	}
	s.machine = newMachine(s)
	s.sleepAt = now.Add(timings.IdleSleep)

	go s.run(ctx)

	return Sender{guid: desc.VehicleID, inbox: s.inbox, timeout: timings.CommandTimeout}
}

func (s *Simulator) run(ctx context.Context) {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		var tick <-chan time.Time
		if deadline, ok := s.deadline(); ok {
			timer.Reset(time.Until(deadline))
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			s.shutdown()
			return
		case cmd := <-s.inbox:
			s.handleCommand(cmd)
		case <-tick:
			s.handleDeadline()
		}

		if tick != nil && !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
	}
}

func (s *Simulator) shutdown() {
	s.logger.Debug("Simulator exiting")
	s.clearStream()
	s.states.Close()
}

// deadline reports the next timer deadline of the current state, if any.
func (s *Simulator) deadline() (time.Time, bool) {
	switch fleetv1.SimulationState(s.machine.Current()) {
	case fleetv1.SimulationStateDriving, fleetv1.SimulationStateCharging:
		return s.nextTick, true
	case fleetv1.SimulationStateIdle:
		return s.sleepAt, true
	case fleetv1.SimulationStateSleeping:
		if !s.wakeAt.IsZero() {
			return s.wakeAt, true
		}
	}
	return time.Time{}, false
}

func (s *Simulator) handleDeadline() {
	switch fleetv1.SimulationState(s.machine.Current()) {
	case fleetv1.SimulationStateDriving:
		s.driveTick(time.Now())
	case fleetv1.SimulationStateCharging:
		s.chargeTick(time.Now())
	case fleetv1.SimulationStateIdle:
		s.logger.Debug("Going to sleep")
		s.transition(eventSleep)
	case fleetv1.SimulationStateSleeping:
		s.logger.Debug("Waking up")
		s.wakeAt = time.Time{}
		s.transition(eventWake)
	}
}

func (s *Simulator) handleCommand(cmd command) {
	status := "success"

	switch c := cmd.(type) {
	case wakeUpCmd:
		if s.asleep() {
			if s.wakeAt.IsZero() {
				s.wakeAt = time.Now().Add(s.timings.WakeDelay)
			}
			c.reply <- apierror.New(apierror.KindDeviceNotAvailable)
			status = "failed"
		} else {
			c.reply <- nil
		}

	case getVehicleDataCmd:
		if s.asleep() {
			c.reply <- vehicleDataReply{err: apierror.New(apierror.KindDeviceNotAvailable)}
			status = "failed"
		} else {
			c.reply <- vehicleDataReply{data: cloneVehicleData(s.data)}
		}

	case subscribeCmd:
		if s.asleep() {
			c.reply <- subscribeReply{err: streaming.Disconnected(s.guid)}
			status = "failed"
		} else {
			if s.stream == nil {
				s.stream = broadcast.New[*streaming.Sample]()
			}
			c.reply <- subscribeReply{rx: s.stream.Subscribe()}
		}

	case simulateCmd:
		s.transition(eventFor(c.target))
		c.reply <- nil

	case watchStateCmd:
		c.reply <- s.states.Subscribe()
	}

	metrics.CommandsTotal.WithLabelValues(cmd.name(), status).Inc()
}

func (s *Simulator) asleep() bool {
	return s.machine.Current() == string(fleetv1.SimulationStateSleeping)
}

// transition fires a state machine event. Asking for the state we are
// already in is a no-op, not an error.
func (s *Simulator) transition(event string) {
	err := s.machine.Event(context.Background(), event)
	if err == nil {
		return
	}
	var noTransition fsm.NoTransitionError
	if errors.As(err, &noTransition) {
		return
	}
	s.logger.Error(err, "State transition failed", "event", event)
}

// State machine callbacks. These run inside the actor goroutine, from
// machine.Event calls issued by the run loop.

func (s *Simulator) enterDriving() {
	now := time.Now()
	drive := &driveState{
		startedAt: now,
		lastTick:  now,
		heading:   s.data.DriveState.Heading,
		speedMph:  driveSpeedMph,
		battery:   float64(s.data.ChargeState.BatteryLevel),
	}
	if s.data.DriveState.Latitude != nil {
		drive.latitude = *s.data.DriveState.Latitude
	}
	if s.data.DriveState.Longitude != nil {
		drive.longitude = *s.data.DriveState.Longitude
	}
	s.drive = drive
	s.nextTick = now.Add(s.timings.DriveTick)
	s.logger.Debug("Now driving", "lat", drive.latitude, "lng", drive.longitude)
}

func (s *Simulator) leaveDriving() {
	s.drive = nil
	now := time.Now().Unix()
	s.data.DriveState.ShiftState = nil
	s.data.DriveState.Speed = nil
	s.data.DriveState.Power = nil
	s.data.DriveState.Timestamp = now
}

func (s *Simulator) enterCharging() {
	now := time.Now()
	s.charge = &chargeState{
		startedAt: now,
		lastTick:  now,
		battery:   float64(s.data.ChargeState.BatteryLevel),
	}
	s.nextTick = now.Add(s.timings.ChargeTick)
	s.logger.Debug("Now charging", "battery", s.charge.battery)
}

func (s *Simulator) leaveCharging() {
	s.charge = nil
	s.data.ChargeState.ChargingState = fleetv1.ChargingStateDisconnected
	s.data.ChargeState.ChargeAmps = 0
	s.data.ChargeState.Timestamp = time.Now().Unix()
}

func (s *Simulator) enterIdle() {
	s.sleepAt = time.Now().Add(s.timings.IdleSleep)
}

func (s *Simulator) enterSleeping() {
	s.wakeAt = time.Time{}
	s.clearStream()
}

// clearStream ends the sample broadcast. Subscribers observe end-of-stream; a
// later subscribe allocates a fresh broadcast.
func (s *Simulator) clearStream() {
	if s.stream != nil {
		s.stream.Close()
		s.stream = nil
	}
}

// driveTick advances the drive by the elapsed wall-clock time: the vehicle
// moves along its heading, the battery drains one percent per kilometer, and
// a telemetry sample goes out.
func (s *Simulator) driveTick(now time.Time) {
	drive := s.drive
	elapsed := now.Sub(drive.lastTick).Seconds()
	km := drive.speedMph * elapsed / 3600 * milesToKm

	proj := flatproj.New(drive.latitude, drive.longitude)
	rad := float64(drive.heading) * math.Pi / 180
	drive.latitude, drive.longitude = proj.Unproject(flatproj.Point{
		X: km * math.Sin(rad),
		Y: km * math.Cos(rad),
	})
	drive.battery -= km
	drive.lastTick = now

	ds := s.data.DriveState
	ds.Latitude = ptr(drive.latitude)
	ds.Longitude = ptr(drive.longitude)
	ds.ActiveRouteLatitude = drive.latitude
	ds.ActiveRouteLongitude = drive.longitude
	ds.Heading = drive.heading
	ds.ShiftState = ptr(fleetv1.ShiftStateDrive)
	ds.Speed = ptr(drive.speedMph)
	ds.Power = ptr(drivePowerWatts)
	ds.GpsAsOf = now.Unix()
	ds.Timestamp = now.Unix()

	battery := math.Max(drive.battery, 0)
	cs := s.data.ChargeState
	cs.BatteryLevel = int(math.Round(battery))
	cs.BatteryRange = battery
	cs.IdealBatteryRange = battery
	cs.EstBatteryRange = battery
	cs.Timestamp = now.Unix()

	s.data.VehicleState.Odometer += km
	s.data.VehicleState.Timestamp = now.Unix()

	s.publishSample(now)

	if drive.battery <= 0 {
		s.logger.Info("Battery depleted, stopping drive")
		s.clearStream()
		s.transition(eventIdle)
		return
	}
	s.nextTick = now.Add(s.timings.DriveTick)
}

// chargeTick adds ten percent of charge per minute of elapsed time. Charging
// publishes no samples.
func (s *Simulator) chargeTick(now time.Time) {
	charge := s.charge
	elapsed := now.Sub(charge.lastTick).Seconds()
	charge.battery = math.Min(charge.battery+10*elapsed/60, 100)
	charge.lastTick = now

	cs := s.data.ChargeState
	cs.BatteryLevel = int(math.Round(charge.battery))
	cs.BatteryRange = charge.battery
	cs.IdealBatteryRange = charge.battery
	cs.EstBatteryRange = charge.battery
	cs.ChargingState = fleetv1.ChargingStateCharging
	cs.Timestamp = now.Unix()

	if charge.battery >= 100 {
		s.logger.Info("Charging complete")
		s.transition(eventIdle)
		return
	}
	s.nextTick = now.Add(s.timings.ChargeTick)
}

func (s *Simulator) publishSample(now time.Time) {
	if s.stream == nil {
		return
	}

	sample := &streaming.Sample{
		Guid:       s.guid,
		Time:       now.UnixMilli(),
		Speed:      s.data.DriveState.Speed,
		Odometer:   ptr(s.data.VehicleState.Odometer),
		Soc:        ptr(s.data.ChargeState.BatteryLevel),
		Elevation:  ptr(s.elevation),
		EstHeading: ptr(s.data.DriveState.Heading),
		EstLat:     s.data.DriveState.Latitude,
		EstLng:     s.data.DriveState.Longitude,
		Power:      s.data.DriveState.Power,
		ShiftState: s.data.DriveState.ShiftState,
		Range:      ptr(s.data.ChargeState.BatteryRange),
		EstRange:   ptr(s.data.ChargeState.EstBatteryRange),
		Heading:    ptr(s.data.DriveState.Heading),
	}

	s.stream.Publish(sample)
	metrics.SamplesPublishedTotal.Inc()
}

func ptr[T any](v T) *T {
	return &v
}
