package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mysterious-guests/cardtable/internal/game"
	"github.com/mysterious-guests/cardtable/internal/models"
)

// MatchWSHandler upgrades the HTTP connection to a WebSocket for one match.
// It resolves the participant identity, joins (or rejoins) them into the
// match, and runs the read loop that is the request channel: each message
// is applied to the match in arrival order.
func MatchWSHandler(logger *logrus.Logger, ms *MatchServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// /match/ws/{match_id}
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/match/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "missing match_id in path (/match/ws/{match_id})", http.StatusBadRequest)
			return
		}
		matchID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "invalid match_id format", http.StatusBadRequest)
			return
		}

		m, ok := ms.Store.GetMatch(matchID)
		if !ok {
			http.Error(w, "match not found", http.StatusNotFound)
			return
		}
		auth, ok := ms.authorityFor(matchID)
		if !ok {
			http.Error(w, "match not owned by this server", http.StatusInternalServerError)
			return
		}

		// Identity must be resolved before the upgrade so the token cookie
		// can still be set on the HTTP response.
		participantID, err := EnsureParticipant(w, r)
		if err != nil {
			logger.Warnf("participant identity failed for match %s: %v", matchID, err)
			http.Error(w, "identity failed", http.StatusForbidden)
			return
		}

		displayName := r.URL.Query().Get("name")
		if displayName == "" {
			displayName = "Guest"
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"cardtable"},
			OriginPatterns: []string{"*"}, // tighten for production
		})
		if err != nil {
			logger.Warnf("websocket accept error for match %s: %v", matchID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "internal error during handler exit")

		if c.Subprotocol() != "cardtable" {
			c.Close(BadSubprotocolError, "client must use the 'cardtable' subprotocol")
			return
		}
		if m.Phase == game.PhaseGameOver {
			c.Close(MatchAlreadyOverError, "match has already ended")
			return
		}
		logger.Infof("participant %s connected to match %s from %s", participantID, matchID, r.RemoteAddr)

		// Wire the state push channel once per match.
		m.Mu.Lock()
		if m.BroadcastFn == nil {
			m.BroadcastFn = createBroadcastFunc(m, logger)
		}
		if m.BroadcastToPlayerFn == nil {
			m.BroadcastToPlayerFn = createBroadcastToPlayerFunc(m, logger)
		}
		alreadyJoined := false
		for _, p := range m.Players {
			if p.ID == participantID {
				alreadyJoined = true
				break
			}
		}
		m.Mu.Unlock()

		if alreadyJoined {
			m.HandleReconnect(participantID, c)
		} else {
			p := models.NewPlayer(participantID, displayName)
			p.Conn = c
			if err := m.AddParticipant(p); err != nil {
				logger.Warnf("participant %s cannot join match %s: %v", participantID, matchID, err)
				c.Close(websocket.StatusPolicyViolation, "match already started")
				return
			}
			m.HandleReconnect(participantID, c) // sends initial sync + hand
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readMatchMessages(ctx, c, m, auth, participantID, logger)

		logger.Infof("participant %s read loop exited for match %s", participantID, matchID)
		m.HandleDisconnect(participantID)
	}
}

// readMatchMessages reads JSON envelopes off one connection and routes
// them into the match under its lock. Arrival order is the serialization
// order; there is no reordering or priority.
func readMatchMessages(ctx context.Context, c *websocket.Conn, m *game.Match, auth game.Authority, participantID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for %s in match %s", participantID, m.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("websocket context canceled for %s in match %s", participantID, m.ID)
			} else {
				logger.Warnf("websocket read error for %s in match %s: %v", participantID, m.ID, err)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg models.MatchAction
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid JSON from %s in match %s: %v", participantID, m.ID, err)
			sendWsError(ctx, c, "invalid JSON format")
			continue
		}

		switch msg.ActionType {
		case "start_match":
			// Only the host (first joined) may trigger the start.
			if host, ok := m.HostID(); !ok || host != participantID {
				sendWsError(ctx, c, "only the host can start the match")
				continue
			}
			if err := m.StartMatch(auth); err != nil {
				logger.Debugf("start_match rejected for %s in match %s: %v", participantID, m.ID, err)
				if errors.Is(err, game.ErrInvalidArgument) {
					sendWsError(ctx, c, "cannot start with an empty roster")
				}
			}

		case "play_card":
			if msg.Card == nil {
				sendWsError(ctx, c, "play_card requires a card")
				continue
			}
			card, err := models.DecodeCard(*msg.Card)
			if err != nil {
				sendWsError(ctx, c, "malformed card value")
				continue
			}
			if err := m.PlayCard(auth, participantID, card); err != nil {
				// Turn and phase violations stay silent on the wire; the
				// client learns nothing and sees no state change. Cards
				// not in hand are equally unanswered.
				logger.Debugf("play_card rejected for %s in match %s: %v", participantID, m.ID, err)
			}

		case "end_turn":
			if err := m.EndTurn(auth, participantID); err != nil {
				logger.Debugf("end_turn rejected for %s in match %s: %v", participantID, m.ID, err)
			}

		default:
			logger.Debugf("unknown message type %q from %s in match %s", msg.ActionType, participantID, m.ID)
			sendWsError(ctx, c, "unknown message type")
		}
	}
}

// createBroadcastFunc returns the public state push sink: it fans an event
// out to every connected participant. It runs while the match lock is
// held, so it only snapshots the connection list synchronously; the
// actual writes happen off the match goroutine.
func createBroadcastFunc(m *game.Match, logger *logrus.Logger) func(ev game.MatchEvent) {
	return func(ev game.MatchEvent) {
		conns := make(map[uuid.UUID]*websocket.Conn)
		for _, p := range m.Players {
			if p.Connected && p.Conn != nil {
				conns[p.ID] = p.Conn
			}
		}

		msgBytes, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal broadcast event (%s) for match %s: %v", ev.Type, m.ID, err)
			return
		}

		go func() {
			for pid, conn := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				err := conn.Write(ctx, websocket.MessageText, msgBytes)
				cancel()
				if err != nil {
					logger.Warnf("failed to write broadcast to %s in match %s: %v", pid, m.ID, err)
				}
			}
		}()
	}
}

// createBroadcastToPlayerFunc returns the targeted push sink used for
// private hands and state syncs.
func createBroadcastToPlayerFunc(m *game.Match, logger *logrus.Logger) func(targetID uuid.UUID, ev game.MatchEvent) {
	return func(targetID uuid.UUID, ev game.MatchEvent) {
		var targetConn *websocket.Conn
		for _, p := range m.Players {
			if p.ID == targetID {
				if p.Connected && p.Conn != nil {
					targetConn = p.Conn
				}
				break
			}
		}
		if targetConn == nil {
			return
		}

		msgBytes, err := json.Marshal(ev)
		if err != nil {
			logger.Errorf("failed to marshal private event (%s) for %s in match %s: %v", ev.Type, targetID, m.ID, err)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := targetConn.Write(ctx, websocket.MessageText, msgBytes); err != nil {
				logger.Warnf("failed to write private message to %s in match %s: %v", targetID, m.ID, err)
			}
		}()
	}
}
