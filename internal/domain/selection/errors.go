package selection

import "errors"

var (
	// ErrEmptyPlayerID rejects a selection without an id.
	ErrEmptyPlayerID = errors.New("player id is empty")
	// ErrSelfComparison rejects comparing the baseline player with itself.
	ErrSelfComparison = errors.New("cannot compare a player with itself")
)
