package conversation

import "errors"

var (
	// ErrEmptyMessage rejects a submission that is blank after trimming.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrExchangeInFlight rejects a submission while a reply is awaited.
	ErrExchangeInFlight = errors.New("exchange already in flight")
	// ErrEmptyReply marks a reply service answer with no usable text.
	ErrEmptyReply = errors.New("empty reply")
	// ErrStaleExchange marks a resolution for an exchange the session no longer awaits.
	ErrStaleExchange = errors.New("stale exchange")
)
