package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

// SampleHandler consumes one decoded sample. Returning false stops the
// stream.
type SampleHandler func(sample *streaming.Sample) bool

// Stream subscribes to one vehicle's telemetry and feeds decoded samples to
// the handler until the handler stops it, the server reports an error, or ctx
// is cancelled.
func (c *Client) Stream(ctx context.Context, guid fleetv1.VehicleGuid, fields []streaming.Field, handler SampleHandler) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.streamingURL.String(), nil)
	if err != nil {
		return fmt.Errorf("streaming dial failed: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	subscribe := streaming.ClientMessage{
		MsgType: streaming.MsgSubscribeOauth,
		Token:   c.accessToken,
		Value:   streaming.JoinFields(fields),
		Tag:     guid.String(),
	}
	payload, err := json.Marshal(subscribe)
	if err != nil {
		return err
	}
	if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return fmt.Errorf("subscribe failed: %w", err)
	}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		var msg streaming.ServerMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.MsgType {
		case streaming.MsgHello:
			continue
		case streaming.MsgUpdate:
			sample, err := streaming.Decode(guid, msg.Value, fields)
			if err != nil {
				return fmt.Errorf("decode sample: %w", err)
			}
			if !handler(sample) {
				return nil
			}
		case streaming.MsgError:
			return streaming.NewDataError(msg.Tag, msg.ErrorType, msg.Value)
		}
	}
}
