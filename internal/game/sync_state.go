package game

import (
	"github.com/google/uuid"
)

// ObfPlayerState is one participant as seen by a requesting viewer: hands
// stay private, so only the viewer's own hand is revealed.
type ObfPlayerState struct {
	PlayerID      uuid.UUID   `json:"player_id"`
	DisplayName   string      `json:"displayName"`
	Score         int         `json:"score"`
	HandSize      int         `json:"hand_size"`
	Connected     bool        `json:"connected"`
	IsCurrentTurn bool        `json:"isCurrentTurn"`
	RevealedHand  []EventCard `json:"revealedHand,omitempty"` // viewer's own hand only
}

// ObfMatchState is the per-viewer snapshot sent on connect and reconnect.
type ObfMatchState struct {
	MatchID       uuid.UUID        `json:"match_id"`
	Phase         string           `json:"phase"`
	CurrentTurnID uuid.UUID        `json:"currentTurnId,omitempty"`
	DrawPileSize  int              `json:"drawPileSize"`
	Table         []EventCard      `json:"table"`
	Players       []ObfPlayerState `json:"players"`
}

// snapshotFor builds the obfuscated state for one viewer.
// Assumes lock is held.
func (m *Match) snapshotFor(viewer uuid.UUID) ObfMatchState {
	state := ObfMatchState{
		MatchID:      m.ID,
		Phase:        m.Phase.String(),
		DrawPileSize: m.table.DrawPileSize(),
		Table:        buildEventCards(m.table.Discard()),
	}
	if cur, ok := m.turns.Current(); ok {
		state.CurrentTurnID = cur
	}
	for _, p := range m.Players {
		ps := ObfPlayerState{
			PlayerID:      p.ID,
			DisplayName:   p.DisplayName,
			Score:         p.Score,
			HandSize:      len(p.Hand),
			Connected:     p.Connected,
			IsCurrentTurn: m.turns.IsTurnOf(p.ID),
		}
		if p.ID == viewer {
			ps.RevealedHand = buildEventCards(p.Hand)
		}
		state.Players = append(state.Players, ps)
	}
	return state
}

// sendSyncState pushes the obfuscated state to a single participant.
// Assumes lock is held.
func (m *Match) sendSyncState(playerID uuid.UUID) {
	state := m.snapshotFor(playerID)
	m.fireEventToPlayer(playerID, MatchEvent{
		Type:  EventPrivateSync,
		State: &state,
	})
}

// broadcastSyncStateToAll refreshes every connected participant's view.
// Assumes lock is held.
func (m *Match) broadcastSyncStateToAll() {
	for _, p := range m.Players {
		if p.Connected {
			m.sendSyncState(p.ID)
		}
	}
}
