package fleetserver

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/apierror"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/auth"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/registry"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

// handleVehicles returns the current descriptors of all vehicles.
func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	if err := requireScope(r.Context(), auth.ScopeVehicleDeviceData); err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	writeResponse(w, s.registry.Descriptors())
}

// handleVehicle returns one descriptor or 404.
func (s *Server) handleVehicle(w http.ResponseWriter, r *http.Request) {
	if err := requireScope(r.Context(), auth.ScopeVehicleDeviceData); err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	v, err := s.vehicleFromPath(r)
	if err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	writeResponse(w, v.Descriptor())
}

// handleVehicleData queries the simulator for the full snapshot, then zeroes
// out every sub-record the endpoint mask did not request.
func (s *Server) handleVehicleData(w http.ResponseWriter, r *http.Request) {
	if err := requireScope(r.Context(), auth.ScopeVehicleDeviceData); err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	v, err := s.vehicleFromPath(r)
	if err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	// url.ParseQuery drops any pair holding a raw ';', so escape the
	// semicolons first to keep the mask intact.
	query, _ := url.ParseQuery(strings.ReplaceAll(r.URL.RawQuery, ";", "%3B"))
	endpoints, err := parseEndpointMask(query.Get("endpoints"))
	if err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	data, err := v.Command.VehicleData(r.Context())
	if err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	applyEndpointMask(data, endpoints)
	writeResponse(w, data)
}

// handleWakeUp forwards the wake command and answers with the vehicle's
// current descriptor whether the vehicle was awake or not.
func (s *Server) handleWakeUp(w http.ResponseWriter, r *http.Request) {
	if err := requireScope(r.Context(), auth.ScopeVehicleCmds); err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	v, err := s.vehicleFromPath(r)
	if err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	if err := v.Command.WakeUp(r.Context()); err != nil && !apierror.IsKind(err, apierror.KindDeviceNotAvailable) {
		apierror.WriteHTTP(w, err)
		return
	}

	writeResponse(w, v.Descriptor())
}

// handleSimulate forces the vehicle into the requested high-level state.
func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	if err := requireScope(r.Context(), auth.ScopeVehicleCmds); err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	v, err := s.vehicleFromPath(r)
	if err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	var raw string
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		apierror.WriteHTTP(w, apierror.New(apierror.KindInvalidCommand))
		return
	}
	target, err := fleetv1.ParseSimulationState(raw)
	if err != nil {
		apierror.WriteHTTP(w, apierror.New(apierror.KindInvalidCommand))
		return
	}

	if err := v.Command.Simulate(r.Context(), target); err != nil {
		apierror.WriteHTTP(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleToken dispatches the token endpoint by grant type. Only the refresh
// grant is implemented.
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req fleetv1.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierror.WriteHTTP(w, apierror.New(apierror.KindInvalidCommand))
		return
	}

	switch req.GrantType {
	case fleetv1.GrantTypeRefreshToken:
		token, err := s.tokens.Refresh(req.RefreshToken, req.Scope)
		if err != nil {
			apierror.WriteHTTP(w, err)
			return
		}

		raw := fleetv1.RawToken{
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    uint64(time.Until(token.ExpiresAt).Seconds()),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(raw)

	case fleetv1.GrantTypeAuthorizationCode, fleetv1.GrantTypeClientCredentials:
		apierror.WriteHTTP(w, apierror.NotImplemented("We only support refresh_token grant type for now."))

	default:
		apierror.WriteHTTP(w, apierror.New(apierror.KindInvalidCommand))
	}
}

func (s *Server) vehicleFromPath(r *http.Request) (*registry.Vehicle, error) {
	id, err := fleetv1.ParseVehicleId(mux.Vars(r)["id"])
	if err != nil {
		return nil, apierror.New(apierror.KindInvalidCommand)
	}
	v, ok := s.registry.ByID(id)
	if !ok {
		return nil, apierror.New(apierror.KindNotFound)
	}
	return v, nil
}

// parseEndpointMask parses the semicolon-separated endpoint list. An absent
// mask is empty; an unknown value is an invalid command.
func parseEndpointMask(raw string) (map[fleetv1.Endpoint]struct{}, error) {
	mask := map[fleetv1.Endpoint]struct{}{}
	if raw == "" {
		return mask, nil
	}
	for _, part := range strings.Split(raw, ";") {
		endpoint, err := fleetv1.ParseEndpoint(part)
		if err != nil {
			return nil, apierror.New(apierror.KindInvalidCommand)
		}
		mask[endpoint] = struct{}{}
	}
	return mask, nil
}

// applyEndpointMask zeroes out every sub-record not in the mask. Location
// fields additionally require the location_data endpoint.
func applyEndpointMask(data *fleetv1.VehicleData, mask map[fleetv1.Endpoint]struct{}) {
	has := func(e fleetv1.Endpoint) bool {
		_, ok := mask[e]
		return ok
	}

	if !has(fleetv1.EndpointChargeState) {
		data.ChargeState = nil
	}
	if !has(fleetv1.EndpointClimateState) {
		data.ClimateState = nil
	}
	if has(fleetv1.EndpointDriveState) {
		if !has(fleetv1.EndpointLocationData) {
			data.DriveState.Latitude = nil
			data.DriveState.Longitude = nil
		}
	} else {
		data.DriveState = nil
	}
	if !has(fleetv1.EndpointGuiSettings) {
		data.GuiSettings = nil
	}
	if !has(fleetv1.EndpointVehicleConfig) {
		data.VehicleConfig = nil
	}
	if !has(fleetv1.EndpointVehicleState) {
		data.VehicleState = nil
	}
}
