package v1alpha1

import "encoding/json"

// Response is the success envelope wrapping every owner API payload.
type Response[T any] struct {
	Response T `json:"response"`
}

// Success wraps a payload in the standard envelope.
func Success[T any](payload T) Response[T] {
	return Response[T]{Response: payload}
}

// ErrorResponse is the failure envelope. Response always renders as null and
// Messages as an empty object unless populated.
type ErrorResponse struct {
	Response         any                 `json:"response"`
	Error            string              `json:"error"`
	ErrorDescription string              `json:"error_description"`
	Messages         map[string][]string `json:"messages"`
}

// NewErrorResponse builds the failure envelope for the given error code and
// description.
func NewErrorResponse(code, description string) ErrorResponse {
	return ErrorResponse{
		Error:            code,
		ErrorDescription: description,
		Messages:         map[string][]string{},
	}
}

// MarshalJSON keeps the messages field an object even when the zero value
// slipped through without NewErrorResponse.
func (e ErrorResponse) MarshalJSON() ([]byte, error) {
	type alias ErrorResponse
	a := alias(e)
	if a.Messages == nil {
		a.Messages = map[string][]string{}
	}
	return json.Marshal(a)
}
