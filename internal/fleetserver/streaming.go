package fleetserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/luxfleet-io/luxfleet/internal/fleetserver/auth"
	"github.com/luxfleet-io/luxfleet/internal/pkg/broadcast"
	"github.com/luxfleet-io/luxfleet/internal/pkg/metrics"
	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/log"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleStreaming upgrades the connection and runs the per-connection state
// machine until the client leaves or a send fails.
func (s *Server) handleStreaming(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error(err, "WebSocket upgrade failed")
		return
	}

	session := &streamSession{
		server: s,
		conn:   conn,
		subs:   map[fleetv1.VehicleGuid]*subscription{},
		events: make(chan streamEvent),
		logger: log.WithName("streaming").WithValues("remote", conn.RemoteAddr().String()),
	}
	session.run(r.Context())
}

// subscription is one vehicle's live feed into a connection. The pump
// goroutine forwards broadcast samples into the session's fan-in channel and
// reports end-of-stream; cancelling the context tears it down.
type subscription struct {
	guid   fleetv1.VehicleGuid
	fields []streaming.Field
	cancel context.CancelFunc
}

type streamEvent struct {
	sub    *subscription
	sample *streaming.Sample

	// terminated is set when the broadcast ended: the sender dropped or the
	// actor is gone.
	terminated bool
}

type streamSession struct {
	server *Server
	conn   *websocket.Conn
	subs   map[fleetv1.VehicleGuid]*subscription
	events chan streamEvent
	logger log.Logger
}

func (ss *streamSession) run(ctx context.Context) {
	defer ss.teardown()

	if !ss.send(streaming.Hello()) {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inbound := make(chan streaming.ClientMessage)
	go ss.readLoop(ctx, inbound)

	for {
		select {
		case msg, ok := <-inbound:
			if !ok {
				return
			}
			if !ss.handleClientMessage(ctx, msg) {
				return
			}
		case ev := <-ss.events:
			if !ss.handleStreamEvent(ev) {
				return
			}
		}
	}
}

func (ss *streamSession) teardown() {
	for _, sub := range ss.subs {
		ss.removeSubscription(sub.guid)
	}
	_ = ss.conn.Close()
}

// readLoop decodes inbound frames, accepting both text and binary. Frames
// that do not decode are ignored; closing the channel ends the session.
func (ss *streamSession) readLoop(ctx context.Context, inbound chan<- streaming.ClientMessage) {
	defer close(inbound)
	for {
		mt, data, err := ss.conn.ReadMessage()
		if err != nil {
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		var msg streaming.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			ss.logger.Debug("Ignoring undecodable frame", "error", err)
			continue
		}
		select {
		case inbound <- msg:
		case <-ctx.Done():
			return
		}
	}
}

// send writes a server frame as binary UTF-8 JSON. A false return means the
// connection is beyond saving and the session should end silently.
func (ss *streamSession) send(msg streaming.ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		ss.logger.Error(err, "Could not serialize message")
		return false
	}
	if err := ss.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return false
	}
	return true
}

func (ss *streamSession) sendError(derr *streaming.DataError) bool {
	return ss.send(derr.Frame())
}

func (ss *streamSession) handleClientMessage(ctx context.Context, msg streaming.ClientMessage) bool {
	switch msg.MsgType {
	case streaming.MsgSubscribeOauth:
		return ss.subscribe(ctx, msg)
	case streaming.MsgUnsubscribe:
		if guid, err := fleetv1.ParseVehicleGuid(msg.Tag); err == nil {
			ss.removeSubscription(guid)
		}
		return true
	default:
		ss.logger.Debug("Ignoring message", "msg_type", msg.MsgType)
		return true
	}
}

// subscribe authenticates, resolves the vehicle and swaps in a fresh
// subscription for its guid. Failures are reported as data:error frames and
// the session continues.
func (ss *streamSession) subscribe(ctx context.Context, msg streaming.ClientMessage) bool {
	claims, err := ss.server.tokens.ValidateAccess(msg.Token)
	if err != nil {
		return ss.sendError(streaming.NewDataError(msg.Tag, streaming.ErrorTypeClientError, "Invalid token"))
	}
	if !claims.Scopes.Has(auth.ScopeVehicleDeviceData) {
		return ss.sendError(streaming.NewDataError(msg.Tag, streaming.ErrorTypeClientError, "Invalid scope"))
	}

	guid, err := fleetv1.ParseVehicleGuid(msg.Tag)
	if err != nil {
		return ss.sendError(streaming.NewDataError(msg.Tag, streaming.ErrorTypeClientError, "Invalid vehicle id"))
	}
	vehicle, ok := ss.server.registry.ByGuid(guid)
	if !ok {
		return ss.sendError(streaming.NewDataError(msg.Tag, streaming.ErrorTypeClientError, "Invalid vehicle id"))
	}

	fields := streaming.ParseFields(msg.Value)

	rx, derr := vehicle.Command.Subscribe(ctx)
	if derr != nil {
		return ss.sendError(derr)
	}

	ss.removeSubscription(guid)

	subCtx, cancel := context.WithCancel(ctx)
	sub := &subscription{guid: guid, fields: fields, cancel: cancel}
	ss.subs[guid] = sub
	metrics.StreamingSubscriptions.Inc()

	go ss.pump(subCtx, sub, rx)
	return true
}

// pump forwards one subscription's samples into the fan-in channel,
// preserving per-vehicle order.
func (ss *streamSession) pump(ctx context.Context, sub *subscription, rx *broadcast.Receiver[*streaming.Sample]) {
	defer rx.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case sample, ok := <-rx.C():
			if !ok {
				select {
				case ss.events <- streamEvent{sub: sub, terminated: true}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case ss.events <- streamEvent{sub: sub, sample: sample}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (ss *streamSession) handleStreamEvent(ev streamEvent) bool {
	// A replaced or removed subscription may still flush an event; drop it.
	if current, ok := ss.subs[ev.sub.guid]; !ok || current != ev.sub {
		return true
	}

	if ev.terminated {
		ss.removeSubscription(ev.sub.guid)
		return ss.sendError(streaming.Disconnected(ev.sub.guid))
	}

	value := streaming.Encode(ev.sub.fields, ev.sample)
	return ss.send(streaming.Update(ev.sub.guid, value))
}

func (ss *streamSession) removeSubscription(guid fleetv1.VehicleGuid) {
	sub, ok := ss.subs[guid]
	if !ok {
		return
	}
	sub.cancel()
	delete(ss.subs, guid)
	metrics.StreamingSubscriptions.Dec()
}
