package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one participant's authoritative state. Score and Hand are
// written only by the match authority; clients see Score via public
// broadcasts and Hand via targeted pushes.
type Player struct {
	ID          uuid.UUID       `json:"id"`
	DisplayName string          `json:"displayName"`
	Score       int             `json:"score"`
	Hand        []Card          `json:"hand"`
	Connected   bool            `json:"connected"`
	Conn        *websocket.Conn `json:"-"`
}

func NewPlayer(id uuid.UUID, displayName string) *Player {
	return &Player{
		ID:          id,
		DisplayName: displayName,
		Hand:        []Card{},
		Connected:   true,
	}
}

// HasCard reports whether at least one value-equal instance of card is in
// the hand.
func (p *Player) HasCard(card Card) bool {
	for _, c := range p.Hand {
		if c == card {
			return true
		}
	}
	return false
}
