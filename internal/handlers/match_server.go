package handlers

import (
	"context"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mysterious-guests/cardtable/internal/cache"
	"github.com/mysterious-guests/cardtable/internal/database"
	"github.com/mysterious-guests/cardtable/internal/game"
)

// MatchServer owns the live match registry and, crucially, the authority
// tokens. Tokens never leave this layer: participant requests arrive over
// the wire, and only the server-side handlers can invoke authority-only
// operations on their behalf.
type MatchServer struct {
	Mutex     sync.Mutex
	Store     *game.MatchStore
	Snapshots game.SnapshotStore

	tokens map[uuid.UUID]game.Authority
}

func NewMatchServer(snapshots game.SnapshotStore) *MatchServer {
	return &MatchServer{
		Store:     game.NewMatchStore(),
		Snapshots: snapshots,
		tokens:    make(map[uuid.UUID]game.Authority),
	}
}

// CreateMatch builds a new match in the Lobby phase, wires its external
// sinks (action queue, results persistence, leaderboard) and registers it.
func (ms *MatchServer) CreateMatch(handSize, deckCount int) *game.Match {
	m, authority := game.NewMatch()
	if handSize <= 0 {
		handSize = envInt("HAND_SIZE")
	}
	if deckCount <= 0 {
		deckCount = envInt("DECK_COUNT")
	}
	if handSize > 0 {
		m.HandSize = handSize
	}
	if deckCount > 0 {
		m.DeckCount = deckCount
	}
	m.Snapshots = ms.Snapshots

	if cache.Rdb != nil {
		m.LogAction = actionLogger(m)
	}
	m.OnMatchEnd = ms.onMatchEnd(m)

	ms.Mutex.Lock()
	ms.tokens[m.ID] = authority
	ms.Mutex.Unlock()
	ms.Store.AddMatch(m)
	return m
}

// authorityFor returns the authority token for a match this server owns.
func (ms *MatchServer) authorityFor(matchID uuid.UUID) (game.Authority, bool) {
	ms.Mutex.Lock()
	defer ms.Mutex.Unlock()
	auth, ok := ms.tokens[matchID]
	return auth, ok
}

// actionLogger queues every authority-side mutation for out-of-process
// consumers. Redis publish happens off the match goroutine.
func actionLogger(m *game.Match) game.ActionLogFunc {
	var idx int
	return func(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
		idx++
		record := cache.MatchActionRecord{
			MatchID:       m.ID,
			ActionIndex:   idx,
			ActorID:       actorID,
			ActionType:    actionType,
			ActionPayload: payload,
			Timestamp:     time.Now().UnixMilli(),
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := cache.PublishMatchAction(ctx, record); err != nil {
				log.Warnf("failed to publish match action %s for %s: %v", actionType, m.ID, err)
			}
		}()
	}
}

// onMatchEnd records the outcome in postgres and the leaderboard.
func (ms *MatchServer) onMatchEnd(m *game.Match) game.OnMatchEndFunc {
	return func(matchID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int) {
		players := m.Players // roster is stable once GameOver is reached

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := database.RecordMatchAndResults(ctx, matchID, players, scores, winner); err != nil {
				log.Errorf("failed to record results for match %s: %v", matchID, err)
			}
			if cache.Rdb != nil && winner != uuid.Nil {
				for _, p := range players {
					if p.ID == winner {
						if err := cache.RecordWin(ctx, p.DisplayName); err != nil {
							log.Warnf("failed to record leaderboard win for %s: %v", p.DisplayName, err)
						}
						break
					}
				}
			}
		}()
	}
}

// envInt reads an integer env var, returning 0 when unset or malformed so
// the caller's own default applies.
func envInt(key string) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return 0
	}
	return v
}
