package apierror

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luxfleet-io/luxfleet/pkg/streaming"
)

func TestErrorEnvelopeJSON(t *testing.T) {
	body, err := json.Marshal(New(KindInvalidCommand).Envelope())
	require.NoError(t, err)
	assert.Equal(t,
		`{"response":null,"error":"error:invalid_command","error_description":"Invalid command","messages":{}}`,
		string(body))
}

func TestHTTPStatusProjection(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidCommand, http.StatusBadRequest},
		{KindInvalidField, http.StatusBadRequest},
		{KindTokenExpired, http.StatusUnauthorized},
		{KindMissingScopes, http.StatusForbidden},
		{KindNotFound, http.StatusNotFound},
		{KindDeviceNotAvailable, http.StatusRequestTimeout},
		{KindNotImplemented, http.StatusNotImplemented},
		{KindInternalServerError, http.StatusInternalServerError},
		{KindDeviceUnexpectedResponse, 540},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.HTTPStatus())
	}
}

func TestStreamTypeProjection(t *testing.T) {
	st, ok := KindMissingScopes.StreamType()
	require.True(t, ok)
	assert.Equal(t, streaming.ErrorTypeClientError, st)

	st, ok = KindDeviceNotAvailable.StreamType()
	require.True(t, ok)
	assert.Equal(t, streaming.ErrorTypeVehicleDisconnected, st)

	st, ok = KindDeviceUnexpectedResponse.StreamType()
	require.True(t, ok)
	assert.Equal(t, streaming.ErrorTypeVehicleError, st)

	_, ok = KindInternalServerError.StreamType()
	assert.False(t, ok)
}

func TestWriteHTTPUsesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTP(rec, New(KindMissingScopes))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body["response"])
	assert.Equal(t, "Unauthorized missing scopes", body["error"])
}

func TestWriteHTTPTokenExpiredIsEmpty(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTP(rec, New(KindTokenExpired))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestWriteHTTPCollapsesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTP(rec, errors.New("database caught fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// The private message stays out of the response.
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.Equal(t, "Something went wrong", body["error_description"])
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(New(KindNotFound)))
	assert.Equal(t, KindInternalServerError, KindOf(errors.New("nope")))
	assert.True(t, IsKind(New(KindDeviceNotAvailable), KindDeviceNotAvailable))
}
