package game

import (
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mysterious-guests/cardtable/internal/models"
)

// Authority is the capability required by every authority-only mutation.
// NewMatch mints exactly one token per match; only the server-side handler
// layer ever holds it, so clients cannot attempt privileged calls at all.
// A zero or foreign token fails with ErrPermissionDenied.
type Authority struct {
	matchID uuid.UUID
}

// OnMatchEndFunc receives the final outcome for external reporting
// (results storage, leaderboard, lobby notification).
type OnMatchEndFunc func(matchID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int)

// ActionLogFunc receives every authority-side mutation for external
// logging (e.g. a queue consumed out of process). May be nil.
type ActionLogFunc func(actorID uuid.UUID, actionType string, payload map[string]interface{})

// Match holds the entire authoritative state for one match. All mutating
// entry points take the match mutex, so requests serialize in arrival
// order and every handler runs to completion before the next is admitted.
type Match struct {
	ID uuid.UUID

	Phase   Phase
	Players []*models.Player

	table Table
	turns TurnOrder

	// HandSize is the number of cards dealt to each participant.
	HandSize int
	// DeckCount is the number of 52-card decks shuffled into the draw pile.
	DeckCount int

	Mu sync.Mutex

	// BroadcastFn pushes an event to every connected participant. If nil,
	// no broadcast is done.
	BroadcastFn func(ev MatchEvent)

	// BroadcastToPlayerFn pushes an event to a single participant.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev MatchEvent)

	// OnMatchEnd is invoked once when the match reaches GameOver.
	OnMatchEnd OnMatchEndFunc

	// Snapshots, when set, receives {score, hand} on disconnect and seeds
	// rejoining participants. Optional.
	Snapshots SnapshotStore

	// LogAction, when set, receives an ordered record of every mutation.
	// Called with the match lock held, so records arrive in order.
	LogAction ActionLogFunc
}

// NewMatch builds an empty match in the Lobby phase and returns its
// authority token.
func NewMatch() (*Match, Authority) {
	id, _ := uuid.NewRandom()
	m := &Match{
		ID:        id,
		Phase:     PhaseLobby,
		HandSize:  3,
		DeckCount: 1,
	}
	return m, Authority{matchID: id}
}

func (m *Match) checkAuthority(auth Authority) error {
	if auth.matchID == uuid.Nil || auth.matchID != m.ID {
		return ErrPermissionDenied
	}
	return nil
}

// getPlayerByID returns the participant or nil. Assumes lock is held.
func (m *Match) getPlayerByID(id uuid.UUID) *models.Player {
	for _, p := range m.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// logAction forwards a mutation record to the external action log.
// Assumes lock is held.
func (m *Match) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	if m.LogAction != nil {
		m.LogAction(actorID, actionType, payload)
	}
}

// AddParticipant registers a new participant or, if the ID is already
// known, treats the call as a reconnect. New joins are only accepted in
// the Lobby phase. A saved session snapshot, when present, seeds the
// participant's score and hand verbatim.
func (m *Match) AddParticipant(p *models.Player) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if existing := m.getPlayerByID(p.ID); existing != nil {
		existing.Conn = p.Conn
		existing.Connected = true
		log.Infof("participant %s reconnected to match %s", p.ID, m.ID)
		m.logAction(p.ID, "player_add", map[string]interface{}{"reconnect": true})
		return nil
	}
	if m.Phase != PhaseLobby {
		return fmt.Errorf("%w: joins only accepted in lobby", ErrWrongPhase)
	}

	if m.Snapshots != nil {
		if score, hand, ok := m.Snapshots.RestorePlayerSnapshot(p.ID); ok {
			p.Score = score
			p.Hand = append([]models.Card{}, hand...)
			log.Infof("restored session snapshot for participant %s (score=%d, hand=%d)", p.ID, score, len(hand))
		}
	}

	m.Players = append(m.Players, p)
	m.logAction(p.ID, "player_add", map[string]interface{}{"reconnect": false})
	m.fireEvent(MatchEvent{
		Type: EventPlayerJoined,
		User: &EventUser{ID: p.ID, Name: p.DisplayName},
	})
	return nil
}

// StartMatch transitions Lobby -> Dealing -> Playing: builds and shuffles
// the draw pile, snapshots the roster in join order as the turn order,
// and deals HandSize cards to each participant.
func (m *Match) StartMatch(auth Authority) error {
	if err := m.checkAuthority(auth); err != nil {
		return err
	}
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Phase == PhaseGameOver {
		return ErrMatchOver
	}
	if m.Phase != PhaseLobby {
		return fmt.Errorf("%w: match already started", ErrWrongPhase)
	}
	if len(m.Players) == 0 {
		return fmt.Errorf("%w: empty roster", ErrInvalidArgument)
	}

	// Build the pile before announcing Dealing: a bad deck count must
	// reject with no visible state change.
	if err := m.table.BuildAndShuffle(m.DeckCount); err != nil {
		return err
	}
	m.setPhase(PhaseDealing)

	order := make([]uuid.UUID, 0, len(m.Players))
	for _, p := range m.Players {
		order = append(order, p.ID)
	}
	m.turns.Build(order)

	for _, p := range m.Players {
		m.giveCards(p, m.table.Draw(m.HandSize))
	}

	m.logAction(uuid.Nil, "match_start", map[string]interface{}{
		"players":  len(m.Players),
		"handSize": m.HandSize,
	})

	m.setPhase(PhasePlaying)
	m.broadcastPlayerTurn()
	return nil
}

// PlayCard validates and applies a participant's play: it must be the
// Playing phase, the caller's turn, and a card from their hand. The turn
// does not auto-advance; an explicit EndTurn follows.
func (m *Match) PlayCard(auth Authority, participantID uuid.UUID, card models.Card) error {
	if err := m.checkAuthority(auth); err != nil {
		return err
	}
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Phase == PhaseGameOver {
		return ErrMatchOver
	}
	if m.Phase != PhasePlaying {
		return fmt.Errorf("%w: cannot play in %s", ErrWrongPhase, m.Phase)
	}
	if !m.turns.IsTurnOf(participantID) {
		return ErrNotYourTurn
	}

	p := m.getPlayerByID(participantID)
	if p == nil {
		return fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
	}
	if err := m.playFromHand(p, card); err != nil {
		return err
	}

	m.table.Play(card)
	m.logAction(participantID, "play_card", map[string]interface{}{"card": card.String()})
	played := buildEventCard(card)
	m.fireEvent(MatchEvent{
		Type: EventCardPlayed,
		User: &EventUser{ID: p.ID, Name: p.DisplayName},
		Card: &played,
	})
	m.pushHand(p)
	m.saveSnapshot(p)
	return nil
}

// EndTurn advances the rotation if the caller holds the turn.
func (m *Match) EndTurn(auth Authority, participantID uuid.UUID) error {
	if err := m.checkAuthority(auth); err != nil {
		return err
	}
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Phase == PhaseGameOver {
		return ErrMatchOver
	}
	if m.Phase != PhasePlaying {
		return fmt.Errorf("%w: cannot end turn in %s", ErrWrongPhase, m.Phase)
	}
	if !m.turns.IsTurnOf(participantID) {
		return ErrNotYourTurn
	}

	m.turns.Advance()
	m.logAction(participantID, "end_turn", nil)
	m.broadcastPlayerTurn()
	return nil
}

// SetScore writes a participant's score. Authority-only; there is no
// client-side mutator anywhere.
func (m *Match) SetScore(auth Authority, participantID uuid.UUID, score int) error {
	if err := m.checkAuthority(auth); err != nil {
		return err
	}
	m.Mu.Lock()
	defer m.Mu.Unlock()

	p := m.getPlayerByID(participantID)
	if p == nil {
		return fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
	}
	p.Score = score
	m.logAction(participantID, "score_update", map[string]interface{}{"score": score})
	m.fireEvent(MatchEvent{
		Type:    EventScoreUpdate,
		User:    &EventUser{ID: p.ID, Name: p.DisplayName},
		Payload: map[string]interface{}{"score": score},
	})
	m.saveSnapshot(p)
	return nil
}

// EndGame forces the terminal phase and reports the outcome.
func (m *Match) EndGame(auth Authority) error {
	if err := m.checkAuthority(auth); err != nil {
		return err
	}
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Phase == PhaseGameOver {
		return ErrMatchOver
	}
	m.endGame()
	return nil
}

// HandleDisconnect processes a participant's permanent or transient
// departure: the hand/score snapshot is offered to the session store, the
// participant leaves the turn order (never skipping the next player), and
// an emptied order ends the match.
func (m *Match) HandleDisconnect(participantID uuid.UUID) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	p := m.getPlayerByID(participantID)
	if p == nil || !p.Connected {
		return
	}
	p.Connected = false
	p.Conn = nil
	m.logAction(participantID, "player_disconnect", nil)
	m.saveSnapshot(p)

	m.fireEvent(MatchEvent{
		Type: EventPlayerLeft,
		User: &EventUser{ID: p.ID, Name: p.DisplayName},
	})

	held := m.turns.IsTurnOf(participantID)
	removed, empty := m.turns.Remove(participantID)
	if !removed && m.Phase == PhaseLobby {
		// Not in any order yet; drop from the roster so the match can
		// still start with the players who stayed.
		for i, pl := range m.Players {
			if pl.ID == participantID {
				m.Players = append(m.Players[:i], m.Players[i+1:]...)
				break
			}
		}
		return
	}
	if empty && m.Phase != PhaseGameOver && m.Phase != PhaseLobby {
		m.endGame()
		return
	}
	if held && m.Phase == PhasePlaying {
		m.broadcastPlayerTurn()
	}
	m.broadcastSyncStateToAll()
}

// HandleReconnect marks a participant connected again, reattaches their
// connection and replays the current state to them. A participant who was
// already removed from the turn order stays removed; they still receive
// the sync so they can spectate the remainder.
func (m *Match) HandleReconnect(participantID uuid.UUID, conn *websocket.Conn) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	p := m.getPlayerByID(participantID)
	if p == nil {
		log.Warnf("reconnecting participant %s not found in match %s", participantID, m.ID)
		if conn != nil {
			conn.Close(websocket.StatusPolicyViolation, "match not found or you were removed")
		}
		return
	}
	p.Connected = true
	p.Conn = conn
	m.logAction(participantID, "player_reconnect", nil)

	m.fireEvent(MatchEvent{
		Type: EventPlayerReconnect,
		User: &EventUser{ID: p.ID, Name: p.DisplayName},
	})
	m.sendSyncState(participantID)
	m.pushHand(p)
}

// GiveCards appends cards to a participant's hand and pushes the full
// hand to them privately. Authority-only.
func (m *Match) GiveCards(auth Authority, participantID uuid.UUID, cards []models.Card) error {
	if err := m.checkAuthority(auth); err != nil {
		return err
	}
	m.Mu.Lock()
	defer m.Mu.Unlock()

	p := m.getPlayerByID(participantID)
	if p == nil {
		return fmt.Errorf("%w: participant %s", ErrNotFound, participantID)
	}
	m.giveCards(p, cards)
	return nil
}

// HostID returns the first participant in join order, who is allowed to
// trigger the match start.
func (m *Match) HostID() (uuid.UUID, bool) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if len(m.Players) == 0 {
		return uuid.Nil, false
	}
	return m.Players[0].ID, true
}

// IsTurnOf reports whether id currently holds the turn.
func (m *Match) IsTurnOf(id uuid.UUID) bool {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.turns.IsTurnOf(id)
}

// TurnHolder returns the current turn holder, if any.
func (m *Match) TurnHolder() (uuid.UUID, bool) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.turns.Current()
}

// giveCards appends to the hand and pushes it to the owner only; hands
// are never broadcast. Assumes lock is held.
func (m *Match) giveCards(p *models.Player, cards []models.Card) {
	if len(cards) == 0 {
		m.pushHand(p)
		return
	}
	p.Hand = append(p.Hand, cards...)
	m.logAction(p.ID, "give_cards", map[string]interface{}{"count": len(cards)})
	m.pushHand(p)
	m.saveSnapshot(p)
}

// playFromHand removes exactly one value-equal instance of card from the
// hand. With multiple decks in play, which of several equal instances goes
// is unspecified: the first match is taken. Assumes lock is held.
func (m *Match) playFromHand(p *models.Player, card models.Card) error {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: card %s not in hand", ErrNotFound, card)
}

// pushHand sends the participant's full hand to them only.
// Assumes lock is held.
func (m *Match) pushHand(p *models.Player) {
	m.fireEventToPlayer(p.ID, MatchEvent{
		Type:  EventPrivateHand,
		Cards: buildEventCards(p.Hand),
	})
}

// saveSnapshot offers {score, hand} to the session store for reconnects.
// Assumes lock is held.
func (m *Match) saveSnapshot(p *models.Player) {
	if m.Snapshots != nil {
		m.Snapshots.SavePlayerSnapshot(p.ID, p.Score, p.Hand)
	}
}

// setPhase transitions the phase and broadcasts it. Assumes lock is held.
func (m *Match) setPhase(phase Phase) {
	m.Phase = phase
	m.fireEvent(MatchEvent{
		Type:    EventMatchPhase,
		Payload: map[string]interface{}{"phase": phase.String()},
	})
}

// broadcastPlayerTurn notifies everyone whose turn it is now.
// Assumes lock is held.
func (m *Match) broadcastPlayerTurn() {
	cur, ok := m.turns.Current()
	if !ok {
		return
	}
	ev := MatchEvent{Type: EventPlayerTurn, User: &EventUser{ID: cur}}
	if p := m.getPlayerByID(cur); p != nil {
		ev.User.Name = p.DisplayName
	}
	m.fireEvent(ev)
}

// endGame reaches the terminal phase, reports final scores and declares
// the highest score the winner. Assumes lock is held.
func (m *Match) endGame() {
	m.setPhase(PhaseGameOver)
	log.Infof("match %s ended", m.ID)

	scores := make(map[uuid.UUID]int, len(m.Players))
	winner := uuid.Nil
	best := 0
	for _, p := range m.Players {
		scores[p.ID] = p.Score
		if winner == uuid.Nil || p.Score > best {
			winner = p.ID
			best = p.Score
		}
	}
	m.logAction(uuid.Nil, "match_end", map[string]interface{}{"winner": winner.String()})

	payloadScores := make(map[string]int, len(scores))
	for id, sc := range scores {
		payloadScores[id.String()] = sc
	}
	m.fireEvent(MatchEvent{
		Type: EventMatchEnd,
		Payload: map[string]interface{}{
			"winner": winner.String(),
			"scores": payloadScores,
		},
	})

	if m.OnMatchEnd != nil {
		m.OnMatchEnd(m.ID, winner, scores)
	}
}
