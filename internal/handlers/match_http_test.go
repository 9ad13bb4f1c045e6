// internal/handlers/match_http_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mysterious-guests/cardtable/internal/auth"
	"github.com/mysterious-guests/cardtable/internal/game"
)

// TestCreateMatch checks that POST /match/create registers a lobby-phase
// match and returns its ID.
func TestCreateMatch(t *testing.T) {
	ms := NewMatchServer(game.NewMemorySnapshotStore())

	body := `{"hand_size":5,"deck_count":2}`
	req := httptest.NewRequest("POST", "/match/create", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	CreateMatchHandler(ms).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		MatchID   uuid.UUID `json:"match_id"`
		HandSize  int       `json:"hand_size"`
		DeckCount int       `json:"deck_count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.MatchID == uuid.Nil {
		t.Fatalf("match has no ID")
	}
	if resp.HandSize != 5 || resp.DeckCount != 2 {
		t.Fatalf("match options not applied: %+v", resp)
	}

	m, ok := ms.Store.GetMatch(resp.MatchID)
	if !ok {
		t.Fatalf("match %v not registered", resp.MatchID)
	}
	if m.Phase != game.PhaseLobby {
		t.Fatalf("new match should be in lobby, got %v", m.Phase)
	}
	if _, ok := ms.authorityFor(m.ID); !ok {
		t.Fatalf("server holds no authority token for its own match")
	}
}

func TestCreateMatchRequiresPost(t *testing.T) {
	ms := NewMatchServer(game.NewMemorySnapshotStore())

	req := httptest.NewRequest("GET", "/match/create", nil)
	w := httptest.NewRecorder()
	CreateMatchHandler(ms).ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestListMatches(t *testing.T) {
	ms := NewMatchServer(game.NewMemorySnapshotStore())
	m1 := ms.CreateMatch(0, 0)
	m2 := ms.CreateMatch(0, 0)

	req := httptest.NewRequest("GET", "/match/list", nil)
	w := httptest.NewRecorder()
	ListMatchesHandler(ms).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp struct {
		Matches []uuid.UUID `json:"matches"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(resp.Matches))
	}
	found := map[uuid.UUID]bool{}
	for _, id := range resp.Matches {
		found[id] = true
	}
	if !found[m1.ID] || !found[m2.ID] {
		t.Fatalf("listing missing matches: %v", resp.Matches)
	}
}

// TestEnsureParticipant checks that a first request mints an identity
// cookie and a second request with that cookie keeps the same identity.
func TestEnsureParticipant(t *testing.T) {
	auth.Init() // ephemeral keys

	req := httptest.NewRequest("GET", "/match/ws/x", nil)
	w := httptest.NewRecorder()
	id1, err := EnsureParticipant(w, req)
	if err != nil {
		t.Fatalf("EnsureParticipant failed: %v", err)
	}
	if id1 == uuid.Nil {
		t.Fatalf("no participant ID minted")
	}
	cookie := w.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, participantCookie+"=") {
		t.Fatalf("identity cookie not set: %q", cookie)
	}

	req2 := httptest.NewRequest("GET", "/match/ws/x", nil)
	req2.Header.Set("Cookie", cookie)
	w2 := httptest.NewRecorder()
	id2, err := EnsureParticipant(w2, req2)
	if err != nil {
		t.Fatalf("EnsureParticipant with cookie failed: %v", err)
	}
	if id2 != id1 {
		t.Fatalf("identity not stable across requests: %v vs %v", id1, id2)
	}
}

func TestExtractTokenFromCookie(t *testing.T) {
	token := extractTokenFromCookie("other=1; " + participantCookie + "=abc.def.ghi; x=2")
	if token != "abc.def.ghi" {
		t.Fatalf("unexpected token %q", token)
	}
	if got := extractTokenFromCookie(""); got != "" {
		t.Fatalf("empty header should yield empty token, got %q", got)
	}
	if got := extractTokenFromCookie("unrelated=1"); got != "" {
		t.Fatalf("missing cookie should yield empty token, got %q", got)
	}
}
