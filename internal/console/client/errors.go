package client

import (
	"fmt"
	"net/http"
)

// Kind classifies why a backend call failed.
type Kind string

const (
	// KindTransport covers network, DNS, and timeout failures.
	KindTransport Kind = "transport"
	// KindStatus is a non-2xx response.
	KindStatus Kind = "status"
	// KindMalformed is a 2xx response whose body is not the expected JSON.
	KindMalformed Kind = "malformed"
)

// Error is returned by every Client method that fails.
type Error struct {
	Op         string
	Kind       Kind
	StatusCode int
	// Message is the backend's "error" field when present; otherwise a short
	// description suitable for showing to the operator.
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("%s: %s (HTTP %d)", e.Op, e.Message, e.StatusCode)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown inline beneath a form.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.StatusCode)
}
