package signalrgb

import "errors"

// Domain-specific errors for the SignalRGB client.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrRequestFailed is returned when the SignalRGB HTTP API call fails.
	ErrRequestFailed = errors.New("signalrgb: request failed")

	// ErrEffectNotFound is returned when no effect matches the requested name.
	ErrEffectNotFound = errors.New("signalrgb: effect not found")
)
