package errors

import (
	"github.com/go-json-experiment/json"
	"fmt"
)

// ErrorWithMessage is the uniform shape any recovered value is coerced
// into. Message is non-empty once normalized.
type ErrorWithMessage struct {
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *ErrorWithMessage) Error() string {
	return e.Message
}

// Normalize coerces an arbitrary recovered value into an ErrorWithMessage.
// Errors and strings keep their text; anything else is serialized to JSON
// for a descriptive message, falling back to plain formatting when
// serialization fails (cyclic values, channels). Normalize never fails.
func Normalize(v any) *ErrorWithMessage {
	switch val := v.(type) {
	case *ErrorWithMessage:
		if val != nil && val.Message != "" {
			return val
		}
	case error:
		if val != nil && val.Error() != "" {
			return &ErrorWithMessage{Message: val.Error()}
		}
	case string:
		if val != "" {
			return &ErrorWithMessage{Message: val}
		}
	}

	if data, err := json.Marshal(v); err == nil {
		if s := string(data); s != "" && s != "null" && s != `""` {
			return &ErrorWithMessage{Message: s}
		}
	}
	msg := fmt.Sprintf("%v", v)
	if msg == "" {
		msg = "unknown error"
	}
	return &ErrorWithMessage{Message: msg}
}

// MessageOf returns the normalized message for any recovered value.
func MessageOf(v any) string {
	return Normalize(v).Message
}
