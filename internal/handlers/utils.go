package handlers

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/coder/websocket"
)

// participantCookie names the cookie carrying the signed participant token.
const participantCookie = "cardtable_token"

// extractTokenFromCookie pulls the participant token out of a raw Cookie
// header, or returns empty if absent.
func extractTokenFromCookie(cookieHeader string) string {
	parts := strings.Split(cookieHeader, participantCookie+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// sendWsError pushes a small error envelope to one client. Only used for
// malformed input; turn/phase violations are deliberately not answered.
func sendWsError(ctx context.Context, c *websocket.Conn, message string) {
	env := map[string]interface{}{
		"type":    "error",
		"message": message,
	}
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	_ = c.Write(ctx, websocket.MessageText, data)
}
