package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CommandsTotal counts simulator commands by type and outcome.
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxfleet_simulator_commands_total",
			Help: "Total number of commands processed by vehicle simulators.",
		},
		[]string{"command", "status"}, // status: success/failed
	)

	// StateTransitionsTotal counts simulator state transitions by target state.
	StateTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxfleet_simulator_state_transitions_total",
			Help: "Total number of simulator state transitions.",
		},
		[]string{"state"},
	)

	// StreamingSubscriptions tracks live WebSocket subscriptions.
	StreamingSubscriptions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "luxfleet_streaming_subscriptions",
			Help: "Number of live streaming subscriptions across all connections.",
		},
	)

	// SamplesPublishedTotal counts telemetry samples published by simulators.
	SamplesPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "luxfleet_streaming_samples_published_total",
			Help: "Total number of telemetry samples published to broadcast topics.",
		},
	)

	// TokensIssuedTotal counts minted token pairs by grant type.
	TokensIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "luxfleet_tokens_issued_total",
			Help: "Total number of token pairs minted.",
		},
		[]string{"grant"},
	)
)

func init() {
	prometheus.MustRegister(CommandsTotal)
	prometheus.MustRegister(StateTransitionsTotal)
	prometheus.MustRegister(StreamingSubscriptions)
	prometheus.MustRegister(SamplesPublishedTotal)
	prometheus.MustRegister(TokensIssuedTotal)
}
