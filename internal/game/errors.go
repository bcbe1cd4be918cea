package game

import "errors"

// Per-request failures. All are recoverable: they are reported to the
// requesting connection and leave room state untouched.
var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrPlayerNotFound = errors.New("player not found in room")
	ErrIllegalPhase   = errors.New("action not allowed in current phase")
	ErrInvalidBet     = errors.New("invalid bet")
	ErrShoeExhausted  = errors.New("shoe exhausted")
)
