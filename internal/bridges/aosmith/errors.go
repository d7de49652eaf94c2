package aosmith

import "errors"

// Domain-specific errors for the A. O. Smith cloud client.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrAuthFailed is returned when the cloud rejects the credentials.
	ErrAuthFailed = errors.New("aosmith: authentication failed")

	// ErrRequestFailed is returned when a cloud request fails after auth.
	ErrRequestFailed = errors.New("aosmith: request failed")

	// ErrDeviceNotFound is returned when a junction ID is unknown to the cloud.
	ErrDeviceNotFound = errors.New("aosmith: device not found")
)
