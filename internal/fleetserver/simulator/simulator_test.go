package simulator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/apierror"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

func testTimings() Timings {
	return Timings{
		DriveTick:      25 * time.Millisecond,
		ChargeTick:     25 * time.Millisecond,
		IdleSleep:      time.Hour,
		WakeDelay:      150 * time.Millisecond,
		CommandTimeout: 2 * time.Second,
	}
}

func testDescriptor() fleetv1.VehicleDescriptor {
	return fleetv1.VehicleDescriptor{
		ID:          123456789,
		VehicleID:   999456789,
		VIN:         "5YJ3E1EA7JF000000",
		DisplayName: "Test Car",
		State:       fleetv1.OnlineStateOnline,
		IDS:         "12345678901234567",
	}
}

func startTestSimulator(t *testing.T) Sender {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return Start(ctx, testDescriptor(), testTimings())
}

func TestVehicleDataWhileAwake(t *testing.T) {
	sender := startTestSimulator(t)
	ctx := context.Background()

	data, err := sender.VehicleData(ctx)
	require.NoError(t, err)
	assert.Equal(t, fleetv1.VehicleId(123456789), data.ID)
	assert.Equal(t, fleetv1.VehicleGuid(999456789), data.VehicleID)
	assert.Equal(t, 42, data.ChargeState.BatteryLevel)
	assert.Equal(t, fleetv1.OnlineStateOnline, data.State)
	require.NotNil(t, data.DriveState)
	assert.Nil(t, data.DriveState.ShiftState)
}

func TestWakeUpWhileAwakeSucceeds(t *testing.T) {
	sender := startTestSimulator(t)
	assert.NoError(t, sender.WakeUp(context.Background()))
}

func TestSleepingVehicle(t *testing.T) {
	sender := startTestSimulator(t)
	ctx := context.Background()

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateSleeping))

	// Queries answer device-not-available while asleep.
	_, err := sender.VehicleData(ctx)
	assert.True(t, apierror.IsKind(err, apierror.KindDeviceNotAvailable))

	// Subscribing answers a disconnect.
	_, derr := sender.Subscribe(ctx)
	require.NotNil(t, derr)
	assert.Equal(t, streaming.ErrorTypeVehicleDisconnected, derr.Type)

	// The first wake_up schedules the wake and still answers
	// device-not-available.
	err = sender.WakeUp(ctx)
	assert.True(t, apierror.IsKind(err, apierror.KindDeviceNotAvailable))

	// After the wake delay the vehicle answers queries again.
	require.Eventually(t, func() bool {
		_, err := sender.VehicleData(ctx)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestDrivingPublishesOrderedSamples(t *testing.T) {
	sender := startTestSimulator(t)
	ctx := context.Background()

	rx, derr := sender.Subscribe(ctx)
	require.Nil(t, derr)
	defer rx.Close()

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateDriving))

	var samples []*streaming.Sample
	deadline := time.After(2 * time.Second)
	for len(samples) < 3 {
		select {
		case sample, ok := <-rx.C():
			require.True(t, ok, "stream ended early")
			samples = append(samples, sample)
		case <-deadline:
			t.Fatalf("got %d samples before the deadline", len(samples))
		}
	}

	for i, sample := range samples {
		assert.Equal(t, fleetv1.VehicleGuid(999456789), sample.Guid)
		require.NotNil(t, sample.Speed)
		assert.Equal(t, 60.0, *sample.Speed)
		require.NotNil(t, sample.ShiftState)
		assert.Equal(t, fleetv1.ShiftStateDrive, *sample.ShiftState)
		require.NotNil(t, sample.Power)
		assert.Equal(t, 500, *sample.Power)
		if i > 0 {
			assert.GreaterOrEqual(t, sample.Time, samples[i-1].Time)
		}
	}

	data, err := sender.VehicleData(ctx)
	require.NoError(t, err)
	require.NotNil(t, data.DriveState.Speed)
	assert.Equal(t, 60.0, *data.DriveState.Speed)
	assert.Greater(t, data.VehicleState.Odometer, 0.0)
}

func TestSleepEndsTheStream(t *testing.T) {
	sender := startTestSimulator(t)
	ctx := context.Background()

	rx, derr := sender.Subscribe(ctx)
	require.Nil(t, derr)
	defer rx.Close()

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateDriving))

	// Wait for at least one sample so the drive is underway.
	select {
	case _, ok := <-rx.C():
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no sample before deadline")
	}

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateSleeping))

	require.Eventually(t, func() bool {
		select {
		case _, ok := <-rx.C():
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLeavingDrivingClearsDriveFields(t *testing.T) {
	sender := startTestSimulator(t)
	ctx := context.Background()

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateDriving))
	time.Sleep(60 * time.Millisecond)
	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateIdle))

	data, err := sender.VehicleData(ctx)
	require.NoError(t, err)
	assert.Nil(t, data.DriveState.ShiftState)
	assert.Nil(t, data.DriveState.Speed)
	assert.Nil(t, data.DriveState.Power)
}

func TestChargingSetsChargingStateAndDisconnectClearsState(t *testing.T) {
	sender := startTestSimulator(t)
	ctx := context.Background()

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateCharging))

	require.Eventually(t, func() bool {
		data, err := sender.VehicleData(ctx)
		require.NoError(t, err)
		return data.ChargeState.ChargingState == fleetv1.ChargingStateCharging
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateIdle))

	data, err := sender.VehicleData(ctx)
	require.NoError(t, err)
	assert.Equal(t, fleetv1.ChargingStateDisconnected, data.ChargeState.ChargingState)
	assert.EqualValues(t, 0, data.ChargeState.ChargeAmps)
}

func TestWatchStateBroadcastsTransitions(t *testing.T) {
	sender := startTestSimulator(t)
	ctx := context.Background()

	rx, err := sender.WatchState(ctx)
	require.NoError(t, err)
	defer rx.Close()

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateSleeping))

	select {
	case state, ok := <-rx.C():
		require.True(t, ok)
		assert.Equal(t, fleetv1.SimulationStateSleeping, state)
		assert.Equal(t, fleetv1.OnlineStateOffline, state.OnlineState())
	case <-time.After(2 * time.Second):
		t.Fatal("no state broadcast before deadline")
	}
}

func TestSimulateCurrentStateIsANoop(t *testing.T) {
	sender := startTestSimulator(t)
	ctx := context.Background()

	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateIdle))
	require.NoError(t, sender.Simulate(ctx, fleetv1.SimulationStateIdle))

	_, err := sender.VehicleData(ctx)
	assert.NoError(t, err)
}

func TestCancelledSimulatorAnswersDeviceNotAvailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sender := Start(ctx, testDescriptor(), testTimings())
	cancel()

	// Give the actor a moment to exit, then watch commands time out.
	time.Sleep(20 * time.Millisecond)

	short := sender
	short.timeout = 50 * time.Millisecond
	err := short.WakeUp(context.Background())
	assert.True(t, apierror.IsKind(err, apierror.KindDeviceNotAvailable))
}
