package notify

import "errors"

var (
	// ErrInvalidPayload is returned when a broadcast payload is not a JSON value
	ErrInvalidPayload = errors.New("payload must be valid JSON")
	// ErrInvalidRequest is returned when a publish request misses required fields
	ErrInvalidRequest = errors.New("invalid request")
)
