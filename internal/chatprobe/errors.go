package chatprobe

import "errors"

var (
	// ErrUnhealthy is returned when the dashboard health check fails.
	ErrUnhealthy = errors.New("dashboard unhealthy")
	// ErrUnexpectedStatus is returned for a response with the wrong status.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrCheckFailed is returned when an observed state breaks an invariant.
	ErrCheckFailed = errors.New("check failed")
	// ErrReplyTimeout is returned when a reply does not arrive in time.
	ErrReplyTimeout = errors.New("reply did not arrive in time")
)
