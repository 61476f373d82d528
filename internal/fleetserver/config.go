// Package fleetserver assembles the fake fleet cloud: the owner REST API,
// the token endpoint, the streaming WebSocket, and the optional MQTT bridge.
package fleetserver

import (
	"fmt"

	"github.com/luxfleet-io/luxfleet/internal/bridge"
	"github.com/luxfleet-io/luxfleet/internal/fleetserver/auth"
	"github.com/luxfleet-io/luxfleet/pkg/options"
)

// Config collects every option group the server consumes.
type Config struct {
	HttpOptions  *options.HttpOptions
	TokenOptions *options.TokenOptions
	MqttOptions  *options.MqttOptions
}

// NewServer wires the server from its configuration. Simulators are not
// running yet; they spawn when Run is called.
func (cfg *Config) NewServer() (*Server, error) {
	tokens := auth.NewService(cfg.TokenOptions)

	var mqttBridge *bridge.Bridge
	if cfg.MqttOptions.Enabled() {
		b, err := bridge.New(cfg.MqttOptions)
		if err != nil {
			return nil, fmt.Errorf("failed to init mqtt bridge: %w", err)
		}
		mqttBridge = b
	}

	return &Server{
		httpOptions: cfg.HttpOptions,
		tokens:      tokens,
		bridge:      mqttBridge,
	}, nil
}
