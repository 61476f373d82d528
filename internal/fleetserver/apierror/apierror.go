// Package apierror defines the uniform error taxonomy shared by the REST and
// streaming surfaces, with projections onto HTTP statuses and WebSocket
// error types.
package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	fleetv1 "github.com/luxfleet-io/luxfleet/pkg/apis/fleet/v1alpha1"
	"github.com/luxfleet-io/luxfleet/pkg/log"
	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

// Kind enumerates the failure classes a request can surface.
type Kind int

const (
	// KindInvalidCommand reports an unknown data request or command.
	KindInvalidCommand Kind = iota

	// KindInvalidField reports field data that is not valid.
	KindInvalidField

	// KindTokenExpired collapses every token failure: bad signature, past
	// exp, wrong purpose. The client cannot tell them apart.
	KindTokenExpired

	// KindMissingScopes reports a token lacking a required scope.
	KindMissingScopes

	// KindNotFound reports a resource that does not exist.
	KindNotFound

	// KindDeviceNotAvailable reports a vehicle that is not online.
	KindDeviceNotAvailable

	// KindNotImplemented reports an operation that is not supported yet.
	KindNotImplemented

	// KindInternalServerError reports any other processing failure.
	KindInternalServerError

	// KindDeviceUnexpectedResponse reports a vehicle answering with an error.
	KindDeviceUnexpectedResponse
)

// Error is a failure tagged with its taxonomy kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.code()
}

// New builds an error of the given kind.
func New(kind Kind) *Error {
	return &Error{Kind: kind}
}

// Internal builds an internal server error carrying a private message. The
// message is logged, never sent to the client.
func Internal(format string, args ...any) *Error {
	return &Error{Kind: KindInternalServerError, Message: fmt.Sprintf(format, args...)}
}

// NotImplemented builds a not-implemented error whose message is shown to the
// client.
func NotImplemented(format string, args ...any) *Error {
	return &Error{Kind: KindNotImplemented, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the taxonomy kind from any error, collapsing unknown errors
// to KindInternalServerError.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternalServerError
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus projects the kind onto an HTTP status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidCommand, KindInvalidField:
		return http.StatusBadRequest
	case KindTokenExpired:
		return http.StatusUnauthorized
	case KindMissingScopes:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindDeviceNotAvailable:
		return http.StatusRequestTimeout
	case KindNotImplemented:
		return http.StatusNotImplemented
	case KindDeviceUnexpectedResponse:
		return 540
	default:
		return http.StatusInternalServerError
	}
}

// StreamType projects the kind onto a WebSocket error type. The second result
// is false for kinds with no streaming projection.
func (k Kind) StreamType() (streaming.ErrorType, bool) {
	switch k {
	case KindInvalidCommand, KindInvalidField, KindTokenExpired, KindMissingScopes, KindNotFound:
		return streaming.ErrorTypeClientError, true
	case KindDeviceNotAvailable:
		return streaming.ErrorTypeVehicleDisconnected, true
	case KindDeviceUnexpectedResponse:
		return streaming.ErrorTypeVehicleError, true
	default:
		return "", false
	}
}

func (e *Error) code() string {
	switch e.Kind {
	case KindInvalidCommand:
		return "error:invalid_command"
	case KindInvalidField:
		return "error:invalid_field"
	case KindMissingScopes:
		return "Unauthorized missing scopes"
	case KindNotFound:
		return "Not Found"
	case KindDeviceNotAvailable:
		return "Device not available"
	case KindNotImplemented:
		return "Not Implemented"
	case KindDeviceUnexpectedResponse:
		return "Device responded with an error"
	default:
		return "Internal Server Error"
	}
}

func (e *Error) description() string {
	switch e.Kind {
	case KindInvalidCommand:
		return "Invalid command"
	case KindInvalidField:
		return "Invalid field"
	case KindMissingScopes:
		return "Unauthorized missing scopes"
	case KindNotFound:
		return "Not Found"
	case KindDeviceNotAvailable:
		return "Device not available"
	case KindNotImplemented:
		return "Not Implemented: " + e.Message
	case KindDeviceUnexpectedResponse:
		return "Device responded with an error"
	default:
		return "Something went wrong"
	}
}

// Envelope renders the error as the standard failure envelope.
func (e *Error) Envelope() fleetv1.ErrorResponse {
	return fleetv1.NewErrorResponse(e.code(), e.description())
}

// WriteHTTP renders err onto an HTTP response. Every body is the failure
// envelope except KindTokenExpired, which is an empty 401.
func WriteHTTP(w http.ResponseWriter, err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = Internal("%v", err)
	}

	if e.Kind == KindInternalServerError {
		log.Error(err, "Internal error")
	}

	if e.Kind == KindTokenExpired {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Kind.HTTPStatus())
	_ = json.NewEncoder(w).Encode(e.Envelope())
}
