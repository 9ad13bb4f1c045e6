package game

import "errors"

// Sentinel errors for the match state machine. The transport layer maps
// these onto wire behavior: permission and argument errors surface to the
// caller, turn and phase violations are swallowed (rejected silently on
// the wire, but still observable to callers of the core API).
var (
	// ErrPermissionDenied means a caller without the match authority token
	// attempted an authority-only mutation. Never retried.
	ErrPermissionDenied = errors.New("permission denied: authority required")

	// ErrInvalidArgument covers malformed input: bad card values, a
	// non-positive deck count, an empty roster at match start.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound means a referenced card is absent from the hand, or a
	// referenced participant is not part of the match.
	ErrNotFound = errors.New("not found")

	// ErrNotYourTurn rejects an action from a participant who does not
	// hold the turn.
	ErrNotYourTurn = errors.New("not your turn")

	// ErrWrongPhase rejects an action outside the phase that permits it.
	ErrWrongPhase = errors.New("wrong phase")

	// ErrMatchOver rejects anything after the match reached GameOver.
	ErrMatchOver = errors.New("match is over")
)
