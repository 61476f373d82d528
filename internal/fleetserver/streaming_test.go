package fleetserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/auth"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

func dialStreaming(t *testing.T, h *testHarness) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(h.server.URL, "http") + "/streaming/"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readServerMessage(t *testing.T, conn *websocket.Conn) streaming.ServerMessage {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	mt, data, err := conn.ReadMessage()
	require.NoError(t, err)
	// Server frames are binary WebSocket frames containing UTF-8 JSON.
	assert.Equal(t, websocket.BinaryMessage, mt)

	var msg streaming.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func sendClientMessage(t *testing.T, conn *websocket.Conn, msg streaming.ClientMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func TestStreamingHelloComesFirst(t *testing.T) {
	h := newTestHarness(t)
	conn := dialStreaming(t, h)

	hello := readServerMessage(t, conn)
	assert.Equal(t, streaming.MsgHello, hello.MsgType)
	assert.Equal(t, uint64(30000), hello.ConnectionTimeout)
}

func TestStreamingDrivingProducesUpdates(t *testing.T) {
	h := newTestHarness(t)
	conn := dialStreaming(t, h)

	hello := readServerMessage(t, conn)
	require.Equal(t, streaming.MsgHello, hello.MsgType)

	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))
	sendClientMessage(t, conn, streaming.ClientMessage{
		MsgType: streaming.MsgSubscribeOauth,
		Token:   token,
		Value:   "speed,odometer,soc,est_lat,est_lng",
		Tag:     "999456000",
	})

	v, ok := h.registry.ByGuid(999456000)
	require.True(t, ok)

	require.NoError(t, v.Command.Simulate(context.Background(), fleetv1.SimulationStateDriving))

	fields := streaming.ParseFields("speed,odometer,soc,est_lat,est_lng")
	var last int64
	for i := 0; i < 3; i++ {
		msg := readServerMessage(t, conn)
		require.Equal(t, streaming.MsgUpdate, msg.MsgType)
		assert.Equal(t, "999456000", msg.Tag)

		// Timestamp plus five fields.
		require.Len(t, strings.Split(msg.Value, ","), 6)

		sample, err := streaming.Decode(999456000, msg.Value, fields)
		require.NoError(t, err)
		require.NotNil(t, sample.Speed)
		assert.Equal(t, 60.0, *sample.Speed)
		assert.GreaterOrEqual(t, sample.Time, last)
		last = sample.Time
	}
}

func TestStreamingSleepSurfacesDisconnect(t *testing.T) {
	h := newTestHarness(t)
	conn := dialStreaming(t, h)
	require.Equal(t, streaming.MsgHello, readServerMessage(t, conn).MsgType)

	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))
	sendClientMessage(t, conn, streaming.ClientMessage{
		MsgType: streaming.MsgSubscribeOauth,
		Token:   token,
		Value:   "speed,soc",
		Tag:     "999456000",
	})

	v, ok := h.registry.ByGuid(999456000)
	require.True(t, ok)
	require.NoError(t, v.Command.Simulate(context.Background(), fleetv1.SimulationStateDriving))

	// Wait for the stream to establish.
	first := readServerMessage(t, conn)
	require.Equal(t, streaming.MsgUpdate, first.MsgType)

	require.NoError(t, v.Command.Simulate(context.Background(), fleetv1.SimulationStateSleeping))

	for {
		msg := readServerMessage(t, conn)
		if msg.MsgType == streaming.MsgUpdate {
			continue
		}
		require.Equal(t, streaming.MsgError, msg.MsgType)
		assert.Equal(t, streaming.ErrorTypeVehicleDisconnected, msg.ErrorType)
		assert.Equal(t, "999456000", msg.Tag)
		break
	}
}

func TestStreamingSubscribeWhileSleeping(t *testing.T) {
	h := newTestHarness(t)

	v, ok := h.registry.ByGuid(999456789)
	require.True(t, ok)
	require.NoError(t, v.Command.Simulate(context.Background(), fleetv1.SimulationStateSleeping))

	conn := dialStreaming(t, h)
	require.Equal(t, streaming.MsgHello, readServerMessage(t, conn).MsgType)

	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))
	sendClientMessage(t, conn, streaming.ClientMessage{
		MsgType: streaming.MsgSubscribeOauth,
		Token:   token,
		Value:   "speed",
		Tag:     "999456789",
	})

	msg := readServerMessage(t, conn)
	require.Equal(t, streaming.MsgError, msg.MsgType)
	assert.Equal(t, streaming.ErrorTypeVehicleDisconnected, msg.ErrorType)
}

func TestStreamingClientErrors(t *testing.T) {
	h := newTestHarness(t)
	validToken := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))
	wrongScope := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleCmds))

	tests := []struct {
		name  string
		msg   streaming.ClientMessage
		value string
	}{
		{
			name: "invalid token",
			msg: streaming.ClientMessage{
				MsgType: streaming.MsgSubscribeOauth,
				Token:   "garbage",
				Value:   "speed",
				Tag:     "999456000",
			},
			value: "Invalid token",
		},
		{
			name: "invalid scope",
			msg: streaming.ClientMessage{
				MsgType: streaming.MsgSubscribeOauth,
				Token:   wrongScope,
				Value:   "speed",
				Tag:     "999456000",
			},
			value: "Invalid scope",
		},
		{
			name: "unparsable tag",
			msg: streaming.ClientMessage{
				MsgType: streaming.MsgSubscribeOauth,
				Token:   validToken,
				Value:   "speed",
				Tag:     "not-a-guid",
			},
			value: "Invalid vehicle id",
		},
		{
			name: "unknown vehicle",
			msg: streaming.ClientMessage{
				MsgType: streaming.MsgSubscribeOauth,
				Token:   validToken,
				Value:   "speed",
				Tag:     "42",
			},
			value: "Invalid vehicle id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dialStreaming(t, h)
			require.Equal(t, streaming.MsgHello, readServerMessage(t, conn).MsgType)

			sendClientMessage(t, conn, tt.msg)

			msg := readServerMessage(t, conn)
			require.Equal(t, streaming.MsgError, msg.MsgType)
			assert.Equal(t, streaming.ErrorTypeClientError, msg.ErrorType)
			assert.Equal(t, tt.msg.Tag, msg.Tag)
			assert.Equal(t, tt.value, msg.Value)
		})
	}
}

func TestStreamingUnsubscribeStopsUpdates(t *testing.T) {
	h := newTestHarness(t)
	conn := dialStreaming(t, h)
	require.Equal(t, streaming.MsgHello, readServerMessage(t, conn).MsgType)

	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))
	sendClientMessage(t, conn, streaming.ClientMessage{
		MsgType: streaming.MsgSubscribeOauth,
		Token:   token,
		Value:   "speed",
		Tag:     "999456000",
	})

	v, ok := h.registry.ByGuid(999456000)
	require.True(t, ok)
	require.NoError(t, v.Command.Simulate(context.Background(), fleetv1.SimulationStateDriving))

	require.Equal(t, streaming.MsgUpdate, readServerMessage(t, conn).MsgType)

	sendClientMessage(t, conn, streaming.ClientMessage{
		MsgType: streaming.MsgUnsubscribe,
		Tag:     "999456000",
	})

	// A frame already in flight may still arrive; after a short drain the
	// stream must go quiet.
	time.Sleep(100 * time.Millisecond)
	drainDeadline := time.Now().Add(150 * time.Millisecond)
	for {
		require.NoError(t, conn.SetReadDeadline(drainDeadline))
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}

	// No more updates for six drive ticks.
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(150*time.Millisecond)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
}

func TestStreamingIgnoresUnknownMessages(t *testing.T) {
	h := newTestHarness(t)
	conn := dialStreaming(t, h)
	require.Equal(t, streaming.MsgHello, readServerMessage(t, conn).MsgType)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	sendClientMessage(t, conn, streaming.ClientMessage{MsgType: "data:yodel"})

	// The connection stays usable.
	token := h.accessToken(t, auth.NewScopeSet(auth.ScopeVehicleDeviceData))
	sendClientMessage(t, conn, streaming.ClientMessage{
		MsgType: streaming.MsgSubscribeOauth,
		Token:   token,
		Value:   "speed",
		Tag:     "42",
	})
	msg := readServerMessage(t, conn)
	assert.Equal(t, streaming.MsgError, msg.MsgType)
}
