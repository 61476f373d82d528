package v1alpha1

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftStateJSON(t *testing.T) {
	data, err := json.Marshal(ShiftStateDrive)
	require.NoError(t, err)
	assert.Equal(t, `"D"`, string(data))

	var s ShiftState
	require.NoError(t, json.Unmarshal([]byte(`"XX"`), &s))
	assert.Equal(t, ShiftState("XX"), s)

	// Unknown letters survive a round-trip untouched.
	data, err = json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `"XX"`, string(data))
}

func TestParseVehicleId(t *testing.T) {
	id, err := ParseVehicleId("123456789")
	require.NoError(t, err)
	assert.Equal(t, VehicleId(123456789), id)
	assert.Equal(t, "123456789", id.String())

	_, err = ParseVehicleId("not-a-number")
	assert.Error(t, err)

	_, err = ParseVehicleId("-1")
	assert.Error(t, err)
}

func TestParseSimulationState(t *testing.T) {
	for _, valid := range []string{"driving", "charging", "idle", "idle_no_sleep", "sleeping"} {
		state, err := ParseSimulationState(valid)
		require.NoError(t, err)
		assert.Equal(t, SimulationState(valid), state)
	}

	_, err := ParseSimulationState("flying")
	assert.Error(t, err)
}

func TestSimulationStateOnlineProjection(t *testing.T) {
	assert.Equal(t, OnlineStateOffline, SimulationStateSleeping.OnlineState())
	for _, awake := range []SimulationState{
		SimulationStateDriving, SimulationStateCharging,
		SimulationStateIdle, SimulationStateIdleNoSleep,
	} {
		assert.Equal(t, OnlineStateOnline, awake.OnlineState())
	}
}

func TestParseEndpoint(t *testing.T) {
	e, err := ParseEndpoint("charge_state")
	require.NoError(t, err)
	assert.Equal(t, EndpointChargeState, e)

	_, err = ParseEndpoint("warp_core")
	assert.Error(t, err)
}

func TestDescriptorJSONShape(t *testing.T) {
	desc := VehicleDescriptor{
		ID:          123456789,
		VehicleID:   999456789,
		VIN:         "5YJ3E1EA7JF000000",
		DisplayName: "My Model 3",
		State:       OnlineStateOnline,
	}

	data, err := json.Marshal(desc)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.EqualValues(t, 123456789, raw["id"])
	assert.EqualValues(t, 999456789, raw["vehicle_id"])
	assert.Equal(t, "online", raw["state"])
	// Nullable fields render as explicit nulls, not omissions.
	assert.Contains(t, raw, "color")
	assert.Nil(t, raw["color"])
}
