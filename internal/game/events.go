package game

import (
	"github.com/google/uuid"

	"github.com/mysterious-guests/cardtable/internal/models"
)

// MatchEventType is an enum-like type for broadcast match events.
type MatchEventType string

const (
	EventMatchPhase      MatchEventType = "match_phase"       // public phase transition
	EventPlayerTurn      MatchEventType = "match_player_turn" // public notification of whose turn it is
	EventCardPlayed      MatchEventType = "player_card_played"
	EventScoreUpdate     MatchEventType = "player_score"
	EventPlayerJoined    MatchEventType = "player_joined"
	EventPlayerLeft      MatchEventType = "player_left"
	EventPlayerReconnect MatchEventType = "player_reconnected"
	EventMatchEnd        MatchEventType = "match_end"
	EventPrivateHand     MatchEventType = "private_hand"       // targeted full-hand push
	EventPrivateSync     MatchEventType = "private_sync_state" // targeted state sync on connect/reconnect
)

// EventUser identifies a participant inside event payloads.
type EventUser struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name,omitempty"`
}

// EventCard carries a card over the wire: the packed byte for binary
// compatibility plus readable rank/suit.
type EventCard struct {
	Code byte   `json:"code"`
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

func buildEventCard(c models.Card) EventCard {
	return EventCard{Code: c.Encode(), Rank: c.Rank.String(), Suit: c.Suit.String()}
}

func buildEventCards(cards []models.Card) []EventCard {
	out := make([]EventCard, len(cards))
	for i, c := range cards {
		out[i] = buildEventCard(c)
	}
	return out
}

// MatchEvent is the single envelope pushed to clients, public or targeted.
type MatchEvent struct {
	Type  MatchEventType `json:"type"`
	User  *EventUser     `json:"user,omitempty"`
	Card  *EventCard     `json:"card,omitempty"`
	Cards []EventCard    `json:"cards,omitempty"`

	Payload map[string]interface{} `json:"payload,omitempty"`

	State *ObfMatchState `json:"state,omitempty"`
}

// fireEvent broadcasts an event to all connected participants.
// Assumes lock is held.
func (m *Match) fireEvent(ev MatchEvent) {
	if m.BroadcastFn != nil {
		m.BroadcastFn(ev)
	}
}

// fireEventToPlayer sends an event only to one participant.
// Assumes lock is held.
func (m *Match) fireEventToPlayer(playerID uuid.UUID, ev MatchEvent) {
	if m.BroadcastToPlayerFn == nil {
		return
	}
	if p := m.getPlayerByID(playerID); p != nil && p.Connected {
		m.BroadcastToPlayerFn(playerID, ev)
	}
}
