package ai

import (
	"errors"
	"fmt"
)

// ErrTimeout reports that the upstream call exceeded its deadline and was
// abandoned.
var ErrTimeout = errors.New("upstream deadline exceeded")

// UpstreamError is a non-success response from the completion provider.
// Status and body are preserved so the handler can pass them through for
// diagnostics.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Body)
}

// TransportError is a network-level failure reaching the provider, as
// opposed to a response the provider produced.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("upstream transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
