package game

import (
	"sync"

	"github.com/google/uuid"
)

// MatchStore is the in-memory registry of live matches.
type MatchStore struct {
	mu      sync.Mutex
	matches map[uuid.UUID]*Match
}

func NewMatchStore() *MatchStore {
	return &MatchStore{matches: make(map[uuid.UUID]*Match)}
}

func (s *MatchStore) AddMatch(m *Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[m.ID] = m
}

func (s *MatchStore) GetMatch(id uuid.UUID) (*Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, exists := s.matches[id]
	return m, exists
}

func (s *MatchStore) DeleteMatch(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
}

// ListMatches returns the IDs of all live matches.
func (s *MatchStore) ListMatches() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(s.matches))
	for id := range s.matches {
		ids = append(ids, id)
	}
	return ids
}
