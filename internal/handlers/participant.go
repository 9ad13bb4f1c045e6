package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mysterious-guests/cardtable/internal/auth"
)

// EnsureParticipant resolves the caller's stable participant identity. A
// valid token cookie yields the existing identity; otherwise a fresh
// ephemeral identity is minted and set as a cookie, so reconnects from
// the same client map back to the same participant.
func EnsureParticipant(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	cookieHeader := r.Header.Get("Cookie")
	token := extractTokenFromCookie(cookieHeader)

	if token != "" {
		if idStr, err := auth.AuthenticateJWT(token); err == nil {
			if id, parseErr := uuid.Parse(idStr); parseErr == nil {
				return id, nil
			}
		}
		// fall through: stale or malformed token gets replaced
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to generate participant id: %w", err)
	}
	newToken, err := auth.CreateJWT(id.String())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create participant token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     participantCookie,
		Value:    newToken,
		HttpOnly: true,
		Path:     "/",
	})
	return id, nil
}
