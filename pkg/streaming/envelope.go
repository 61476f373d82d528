package streaming

import (
	"fmt"

	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
)

// Message types carried in the msg_type discriminator of every envelope.
const (
	MsgSubscribeOauth = "data:subscribe_oauth"
	MsgUnsubscribe    = "data:unsubscribe"
	MsgHello          = "control:hello"
	MsgUpdate         = "data:update"
	MsgError          = "data:error"
)

// HelloConnectionTimeout is the connection_timeout advertised in the hello
// frame, in milliseconds.
const HelloConnectionTimeout = 30000

// ErrorType classifies a data:error frame.
type ErrorType string

const (
	ErrorTypeVehicleDisconnected ErrorType = "vehicle_disconnected"
	ErrorTypeVehicleError        ErrorType = "vehicle_error"
	ErrorTypeClientError         ErrorType = "client_error"
)

// ClientMessage is an envelope received from a streaming client, tagged by
// MsgType. Only the fields of the selected message are populated.
type ClientMessage struct {
	MsgType string `json:"msg_type"`

	// Token authenticates a data:subscribe_oauth request.
	Token string `json:"token,omitempty"`

	// Value is the comma-separated field list of a subscription.
	Value string `json:"value,omitempty"`

	// Tag is the vehicle guid rendered in decimal.
	Tag string `json:"tag,omitempty"`
}

// ServerMessage is an envelope sent to a streaming client, tagged by MsgType.
type ServerMessage struct {
	MsgType string `json:"msg_type"`

	// ConnectionTimeout is set on control:hello only, in milliseconds.
	ConnectionTimeout uint64 `json:"connection_timeout,omitempty"`

	// Tag is the vehicle guid rendered in decimal.
	Tag string `json:"tag,omitempty"`

	// Value is the encoded sample line of a data:update, or the error text of
	// a data:error.
	Value string `json:"value,omitempty"`

	// ErrorType is set on data:error only.
	ErrorType ErrorType `json:"error_type,omitempty"`
}

// Hello builds the control:hello frame sent on connect.
func Hello() ServerMessage {
	return ServerMessage{
		MsgType:           MsgHello,
		ConnectionTimeout: HelloConnectionTimeout,
	}
}

// Update builds a data:update frame carrying an encoded sample line.
func Update(guid fleetv1.VehicleGuid, value string) ServerMessage {
	return ServerMessage{
		MsgType: MsgUpdate,
		Tag:     guid.String(),
		Value:   value,
	}
}

// DataError is a reportable streaming failure, rendered to the client as a
// data:error frame.
type DataError struct {
	Tag   string
	Type  ErrorType
	Value string
}

// NewDataError builds a DataError for an explicit tag.
func NewDataError(tag string, errorType ErrorType, value string) *DataError {
	return &DataError{Tag: tag, Type: errorType, Value: value}
}

// Disconnected reports that the vehicle's stream has ended.
func Disconnected(guid fleetv1.VehicleGuid) *DataError {
	return &DataError{
		Tag:   guid.String(),
		Type:  ErrorTypeVehicleDisconnected,
		Value: "disconnected",
	}
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data error: tag=%s type=%s value=%s", e.Tag, e.Type, e.Value)
}

// Frame renders the error as a data:error envelope.
func (e *DataError) Frame() ServerMessage {
	return ServerMessage{
		MsgType:   MsgError,
		Tag:       e.Tag,
		ErrorType: e.Type,
		Value:     e.Value,
	}
}
