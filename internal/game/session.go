package game

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mysterious-guests/cardtable/internal/models"
)

// SnapshotStore is the optional persistence hook: the match offers
// {participant, score, hand} on every hand/score mutation and disconnect,
// and restores the last saved snapshot verbatim when the participant
// rejoins a match that has not started yet.
type SnapshotStore interface {
	SavePlayerSnapshot(id uuid.UUID, score int, hand []models.Card)
	RestorePlayerSnapshot(id uuid.UUID) (score int, hand []models.Card, ok bool)
}

type playerSnapshot struct {
	Score int           `json:"score"`
	Hand  []models.Card `json:"hand"`
}

// MemorySnapshotStore keeps snapshots in process memory. Suitable for a
// single-server deployment; the cache package provides a redis-backed
// store for anything longer-lived.
type MemorySnapshotStore struct {
	mu   sync.Mutex
	data map[uuid.UUID]playerSnapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{data: make(map[uuid.UUID]playerSnapshot)}
}

func (s *MemorySnapshotStore) SavePlayerSnapshot(id uuid.UUID, score int, hand []models.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[id] = playerSnapshot{Score: score, Hand: append([]models.Card{}, hand...)}
}

func (s *MemorySnapshotStore) RestorePlayerSnapshot(id uuid.UUID) (int, []models.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.data[id]
	if !ok {
		return 0, nil, false
	}
	return snap.Score, append([]models.Card{}, snap.Hand...), true
}
