package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mysterious-guests/cardtable/internal/cache"
)

type createMatchRequest struct {
	HandSize  int `json:"hand_size"`
	DeckCount int `json:"deck_count"`
}

// CreateMatchHandler creates a new in-memory match and returns its ID.
// Participants then join over /match/ws/{match_id}.
func CreateMatchHandler(ms *MatchServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "use POST", http.StatusMethodNotAllowed)
			return
		}
		var req createMatchRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // empty body falls back to defaults
		}

		m := ms.CreateMatch(req.HandSize, req.DeckCount)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"match_id":   m.ID,
			"hand_size":  m.HandSize,
			"deck_count": m.DeckCount,
		})
	}
}

// ListMatchesHandler returns the IDs of all live matches.
func ListMatchesHandler(ms *MatchServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": ms.Store.ListMatches(),
		})
	}
}

// LeaderboardHandler returns the top cumulative winners. Empty when redis
// is not configured.
func LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if cache.Rdb == nil {
			json.NewEncoder(w).Encode(map[string]interface{}{"leaderboard": []cache.LeaderboardEntry{}})
			return
		}
		entries, err := cache.TopWinners(r.Context(), 10)
		if err != nil {
			http.Error(w, "leaderboard unavailable", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"leaderboard": entries})
	}
}
