package reply

import "errors"

var (
	// ErrTransport covers connection failures and timeouts.
	ErrTransport = errors.New("reply transport failed")
	// ErrStatus marks a non-2xx answer.
	ErrStatus = errors.New("reply service returned an error status")
	// ErrMalformed marks a body without a reply field.
	ErrMalformed = errors.New("malformed reply body")
)
