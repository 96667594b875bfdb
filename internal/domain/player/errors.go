package player

import "errors"

var (
	// ErrNotFound is returned when an id does not resolve in the catalog.
	ErrNotFound = errors.New("player not found")
	// ErrInvalidRecord marks a record that fails validation.
	ErrInvalidRecord = errors.New("invalid player record")
	// ErrDuplicateID marks two records sharing an id.
	ErrDuplicateID = errors.New("duplicate player id")
	// ErrUnknownRole marks a role outside the known set.
	ErrUnknownRole = errors.New("unknown role")
)
