package provider

import (
	"errors"
	"fmt"
)

// ErrEmptyPrompt is returned when Generate is called with blank prompt text.
var ErrEmptyPrompt = errors.New("empty prompt")

// Error is a ProviderError: a transport failure, a non-2xx status or a
// malformed upstream payload. StatusCode is 0 when no HTTP status applies.
type Error struct {
	ProviderID string
	StatusCode int
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	msg := "provider " + e.ProviderID
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(providerID string, status int, detail string, err error) *Error {
	return &Error{ProviderID: providerID, StatusCode: status, Detail: detail, Err: err}
}
