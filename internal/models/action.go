package models

// MatchAction captures a participant's in-match request as delivered by the
// transport: play a card, end the turn, or (for the host) start the match.
type MatchAction struct {
	ActionType string `json:"action_type"`

	// Card is set for play_card actions, as the packed one-byte encoding.
	Card *byte `json:"card,omitempty"`
}
