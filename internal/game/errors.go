package game

import "errors"

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSplitNotAllowed   = errors.New("split not allowed")
	ErrIllegalAction     = errors.New("action not allowed in current phase")
	// ErrDeckExhausted marks an invariant breach: a bounded round can never
	// draw all 52 cards. Treated as a defect, not a user error.
	ErrDeckExhausted = errors.New("deck exhausted")
)
