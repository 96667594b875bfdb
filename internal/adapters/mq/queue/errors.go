package queue

import "errors"

var (
	// ErrQueueFull is reported to the session when an exchange cannot be queued.
	ErrQueueFull = errors.New("dispatch queue full")

	// ErrQueueClosed settles exchanges still queued when the workers stop.
	ErrQueueClosed = errors.New("dispatch queue closed")
)
