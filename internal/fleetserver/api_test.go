package fleetserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/auth"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/registry"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/seed"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/simulator"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/options"
)

type testHarness struct {
	server   *httptest.Server
	tokens   *auth.Service
	registry *registry.Registry
}

func newTestHarness(t *testing.T) *testHarness {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tokens := auth.NewService(&options.TokenOptions{
		Secret: "mom-said-yes",
		Expiry: 10 * time.Minute,
	})
	reg := registry.New(ctx, seed.Fleet(), simulator.Timings{
		DriveTick:      25 * time.Millisecond,
		ChargeTick:     25 * time.Millisecond,
		IdleSleep:      time.Hour,
		WakeDelay:      100 * time.Millisecond,
		CommandTimeout: 2 * time.Second,
	})

	srv := New(options.NewHttpOptions(), tokens, reg)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &testHarness{server: ts, tokens: tokens, registry: reg}
}

func (h *testHarness) accessToken(t *testing.T, scopes auth.ScopeSet) string {
	t.Helper()
	token, err := h.tokens.Mint(scopes)
	require.NoError(t, err)
	return token.AccessToken
}

func (h *testHarness) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, h.server.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var envelope fleetv1.Response[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Response
}

func TestVehiclesList(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))

	resp := h.do(t, http.MethodGet, "/api/1/vehicles", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	vehicles := decodeResponse[[]fleetv1.VehicleDescriptor](t, resp)
	require.Len(t, vehicles, 2)
	assert.Equal(t, fleetv1.VehicleId(123456789), vehicles[0].ID)
	assert.Equal(t, fleetv1.VehicleId(123456000), vehicles[1].ID)
	assert.Equal(t, "5YJ3E1EA7JF000000", vehicles[0].VIN)
	assert.Equal(t, fleetv1.OnlineStateOnline, vehicles[0].State)
}

func TestVehiclesMissingScopeIs403(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleCmds))

	resp := h.do(t, http.MethodGet, "/api/1/vehicles", token, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Nil(t, body["response"])
	assert.Equal(t, "Unauthorized missing scopes", body["error"])
}

func TestVehiclesWithoutTokenIsEmpty401(t *testing.T) {
	h := newTestHarness(t)

	resp := h.do(t, http.MethodGet, "/api/1/vehicles", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	assert.Empty(t, buf.String())
}

func TestVehicleNotFound(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))

	resp := h.do(t, http.MethodGet, "/api/1/vehicles/42", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestVehicleDataEndpointMask(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))

	resp := h.do(t, http.MethodGet,
		"/api/1/vehicles/123456000/vehicle_data?endpoints=charge_state;drive_state", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeResponse[fleetv1.VehicleData](t, resp)
	require.NotNil(t, data.ChargeState)
	assert.Equal(t, 42, data.ChargeState.BatteryLevel)

	// drive_state without location_data nulls the coordinates only.
	require.NotNil(t, data.DriveState)
	assert.Nil(t, data.DriveState.Latitude)
	assert.Nil(t, data.DriveState.Longitude)
	assert.Equal(t, "wgs", data.DriveState.NativeType)

	assert.Nil(t, data.ClimateState)
	assert.Nil(t, data.GuiSettings)
	assert.Nil(t, data.VehicleConfig)
	assert.Nil(t, data.VehicleState)
}

func TestVehicleDataWithLocationData(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))

	resp := h.do(t, http.MethodGet,
		"/api/1/vehicles/123456000/vehicle_data?endpoints=drive_state;location_data", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeResponse[fleetv1.VehicleData](t, resp)
	require.NotNil(t, data.DriveState)
	assert.NotNil(t, data.DriveState.Latitude)
	assert.NotNil(t, data.DriveState.Longitude)
}

func TestVehicleDataUnknownEndpointIs400(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))

	resp := h.do(t, http.MethodGet,
		"/api/1/vehicles/123456000/vehicle_data?endpoints=charge_state;warp_core", token, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVehicleDataWithoutMaskHasNoSubRecords(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))

	resp := h.do(t, http.MethodGet, "/api/1/vehicles/123456000/vehicle_data", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeResponse[fleetv1.VehicleData](t, resp)
	assert.Equal(t, fleetv1.VehicleId(123456000), data.ID)
	assert.Nil(t, data.ChargeState)
	assert.Nil(t, data.DriveState)
	assert.Nil(t, data.VehicleState)
}

func TestWakeUpReturnsDescriptor(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleCmds))

	resp := h.do(t, http.MethodPost, "/api/1/vehicles/123456789/wake_up", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	desc := decodeResponse[fleetv1.VehicleDescriptor](t, resp)
	assert.Equal(t, fleetv1.VehicleId(123456789), desc.ID)
}

func TestWakeUpWhileSleepingStillReturnsDescriptor(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleCmds))

	v, ok := h.registry.ByID(123456789)
	require.True(t, ok)
	require.NoError(t, v.Command.Simulate(context.Background(), fleetv1.SimulationStateSleeping))

	resp := h.do(t, http.MethodPost, "/api/1/vehicles/123456789/wake_up", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	desc := decodeResponse[fleetv1.VehicleDescriptor](t, resp)
	assert.Equal(t, fleetv1.VehicleId(123456789), desc.ID)

	// The wake was scheduled; the vehicle comes back on its own.
	require.Eventually(t, func() bool {
		_, err := v.Command.VehicleData(context.Background())
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
}

func TestSimulate(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleCmds))

	resp := h.do(t, http.MethodPost, "/api/1/vehicles/123456789/simulate", token, "driving")
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.do(t, http.MethodPost, "/api/1/vehicles/123456789/simulate", token, "warp")
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSimulateRequiresVehicleCmds(t *testing.T) {
	h := newTestHarness(t)
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))

	resp := h.do(t, http.MethodPost, "/api/1/vehicles/123456789/simulate", token, "driving")
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestTokenEndpointRefresh(t *testing.T) {
	h := newTestHarness(t)

	minted, err := h.tokens.Mint(auth.NewScopeSet(
		auth.ScopeOpenid,
		auth.ScopeOfflineAccess,
		auth.ScopeUserData,
		auth.ScopeVehicleCmds,
	))
	require.NoError(t, err)

	resp := h.do(t, http.MethodPost, "/oauth2/v3/token", "", fleetv1.TokenRequest{
		GrantType:    fleetv1.GrantTypeRefreshToken,
		RefreshToken: minted.RefreshToken,
		ClientID:     "ownerapi",
		Scope:        "openid offline_access vehicle_cmds vehicle_device_data",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var raw fleetv1.RawToken
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.Equal(t, "Bearer", raw.TokenType)
	assert.Greater(t, raw.ExpiresIn, uint64(0))

	claims, err := h.tokens.ValidateAccess(raw.AccessToken)
	require.NoError(t, err)
	want := auth.NewScopeSet(auth.ScopeOpenid, auth.ScopeOfflineAccess, auth.ScopeVehicleCmds)
	assert.True(t, claims.Scopes.Equal(want), "got scopes %s", claims.Scopes)
}

func TestTokenEndpointRejectsBadRefreshToken(t *testing.T) {
	h := newTestHarness(t)

	resp := h.do(t, http.MethodPost, "/oauth2/v3/token", "", fleetv1.TokenRequest{
		GrantType:    fleetv1.GrantTypeRefreshToken,
		RefreshToken: "garbage",
		Scope:        "openid offline_access",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTokenEndpointUnimplementedGrants(t *testing.T) {
	h := newTestHarness(t)

	for _, grant := range []string{fleetv1.GrantTypeAuthorizationCode, fleetv1.GrantTypeClientCredentials} {
		t.Run(grant, func(t *testing.T) {
			resp := h.do(t, http.MethodPost, "/oauth2/v3/token", "", fleetv1.TokenRequest{GrantType: grant})
			resp.Body.Close()
			assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	h := newTestHarness(t)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		resp, err := h.server.Client().Get(h.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, fmt.Sprintf("path %s", path))
	}
}
