package fleetserver

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

// Handler builds the full HTTP surface: owner API, token endpoint, streaming
// upgrade, health probes and metrics.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	owner := r.PathPrefix("/api/1").Subrouter()
	owner.Use(s.accessTokenMiddleware)
	owner.HandleFunc("/vehicles", s.handleVehicles).Methods(http.MethodGet)
	owner.HandleFunc("/vehicles/{id}", s.handleVehicle).Methods(http.MethodGet)
	owner.HandleFunc("/vehicles/{id}/vehicle_data", s.handleVehicleData).Methods(http.MethodGet)
	owner.HandleFunc("/vehicles/{id}/wake_up", s.handleWakeUp).Methods(http.MethodPost)
	owner.HandleFunc("/vehicles/{id}/simulate", s.handleSimulate).Methods(http.MethodPost)

	r.HandleFunc("/oauth2/v3/token", s.handleToken).Methods(http.MethodPost)
	r.HandleFunc("/streaming/", s.handleStreaming).Methods(http.MethodGet)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// writeResponse renders a payload in the standard success envelope.
func writeResponse[T any](w http.ResponseWriter, payload T) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(fleetv1.Success(payload))
}
