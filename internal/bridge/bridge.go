// Package bridge mirrors the fleet onto an MQTT broker: retained presence
// messages per vehicle, plus live telemetry while a vehicle is driving. It is
// pure egress; the REST and streaming surfaces never depend on it.
package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/registry"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/log"
	"github.com/luxfleet-io/luxfleet/pkg/mqtt"
	mqtttopic "github.com/luxfleet-io/luxfleet/pkg/mqtt/topic"
	"github.com/luxfleet-io/luxfleet/pkg/options"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

const (
	segmentPresence  = "presence"
	segmentTelemetry = "telemetry"
)

// presence is the retained per-vehicle status payload.
type presence struct {
	VehicleID fleetv1.VehicleGuid    `json:"vehicle_id"`
	Online    bool                   `json:"online"`
	State     fleetv1.SimulationState `json:"state"`
}

// Bridge publishes fleet state to an MQTT broker.
type Bridge struct {
	client mqtt.Client
	topics *mqtttopic.Builder
	logger log.Logger
}

// New builds a bridge from the MQTT options.
func New(opts *options.MqttOptions) (*Bridge, error) {
	cfg := opts.ToClientConfig()
	if cfg.ClientID == "" {
		hostname, _ := os.Hostname()
		cfg.ClientID = fmt.Sprintf("luxfleet-bridge-%s", hostname)
	}

	client, err := mqtt.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Bridge{
		client: client,
		topics: mqtttopic.NewBuilder(opts.TopicRoot),
		logger: log.WithName("bridge"),
	}, nil
}

// Run connects to the broker and watches every vehicle until ctx is
// cancelled.
func (b *Bridge) Run(ctx context.Context, reg *registry.Registry) error {
	if err := b.client.Start(ctx); err != nil {
		return err
	}
	defer b.disconnect()

	if err := b.client.AwaitConnection(ctx); err != nil {
		return err
	}
	b.logger.Info("Bridge connected")

	g, ctx := errgroup.WithContext(ctx)
	for _, v := range reg.Vehicles() {
		g.Go(func() error {
			b.watchVehicle(ctx, v)
			return nil
		})
	}

	return g.Wait()
}

func (b *Bridge) disconnect() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b.client.Disconnect(ctx)
}

// watchVehicle mirrors one vehicle's state transitions into retained
// presence messages, and pumps telemetry while the vehicle drives.
func (b *Bridge) watchVehicle(ctx context.Context, v *registry.Vehicle) {
	rx, err := v.Command.WatchState(ctx)
	if err != nil {
		b.logger.Error(err, "Failed to watch vehicle", "vehicle", v.Guid)
		return
	}
	defer rx.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case state, ok := <-rx.C():
			if !ok {
				return
			}
			b.publishPresence(ctx, v.Guid, state)
			if state == fleetv1.SimulationStateDriving {
				b.pumpTelemetry(ctx, v)
			}
		}
	}
}

func (b *Bridge) publishPresence(ctx context.Context, guid fleetv1.VehicleGuid, state fleetv1.SimulationState) {
	payload, err := json.Marshal(presence{
		VehicleID: guid,
		Online:    state.OnlineState() == fleetv1.OnlineStateOnline,
		State:     state,
	})
	if err != nil {
		return
	}

	topic := b.topics.Build(segmentPresence, guid.String())
	if err := b.client.Publish(ctx, topic, 1, true, payload); err != nil {
		b.logger.Error(err, "Failed to publish presence", "vehicle", guid)
	}
}

// pumpTelemetry subscribes to the driving vehicle and republishes every
// sample as an encoded line carrying the full field list. It returns when
// the drive ends and the broadcast closes.
func (b *Bridge) pumpTelemetry(ctx context.Context, v *registry.Vehicle) {
	rx, derr := v.Command.Subscribe(ctx)
	if derr != nil {
		b.logger.Warn("Telemetry subscribe failed", "vehicle", v.Guid, "error", derr.Error())
		return
	}
	defer rx.Close()

	topic := b.topics.Build(segmentTelemetry, v.Guid.String())
	for {
		select {
		case <-ctx.Done():
			return
		case sample, ok := <-rx.C():
			if !ok {
				return
			}
			line := streaming.Encode(streaming.AllFields, sample)
			if err := b.client.Publish(ctx, topic, 0, false, []byte(line)); err != nil {
				b.logger.Error(err, "Failed to publish telemetry", "vehicle", v.Guid)
			}
		}
	}
}
