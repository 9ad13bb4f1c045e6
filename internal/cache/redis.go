package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/mysterious-guests/cardtable/internal/models"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// DefaultQueueName is the Redis list (queue) name for match action logs.
var DefaultQueueName = "cardtable_actions"

// snapshotTTL bounds how long a disconnected participant's state is kept.
const snapshotTTL = 24 * time.Hour

// MatchActionRecord is one authority-side mutation, queued for
// out-of-process consumers (replay, audit).
type MatchActionRecord struct {
	MatchID       uuid.UUID              `json:"match_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorID       uuid.UUID              `json:"actor_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// ConnectRedis initializes the global Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() error {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	Rdb = redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := Rdb.Ping(ctx).Err(); err != nil {
		// Rdb must stay nil on failure; callers gate on it.
		Rdb.Close()
		Rdb = nil
		return fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return nil
}

// PublishMatchAction serializes the record to JSON and pushes it onto the
// action queue. Quick network send only; no blocking of match logic.
func PublishMatchAction(ctx context.Context, record MatchActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal MatchActionRecord: %w", err)
	}

	queueName := getEnv("ACTION_QUEUE_NAME", DefaultQueueName)
	if err := Rdb.RPush(ctx, queueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", queueName, err)
	}
	return nil
}

// SessionStore is the redis-backed session snapshot store. Implements
// game.SnapshotStore; writes are fire-and-forget so a slow redis never
// stalls the match mutex.
type SessionStore struct{}

type sessionSnapshot struct {
	Score int           `json:"score"`
	Hand  []models.Card `json:"hand"`
}

func sessionKey(id uuid.UUID) string {
	return "cardtable:session:" + id.String()
}

func (SessionStore) SavePlayerSnapshot(id uuid.UUID, score int, hand []models.Card) {
	snap := sessionSnapshot{Score: score, Hand: append([]models.Card{}, hand...)}
	data, err := json.Marshal(snap)
	if err != nil {
		log.Warnf("failed to marshal session snapshot for %s: %v", id, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := Rdb.Set(ctx, sessionKey(id), data, snapshotTTL).Err(); err != nil {
			log.Warnf("failed to save session snapshot for %s: %v", id, err)
		}
	}()
}

func (SessionStore) RestorePlayerSnapshot(id uuid.UUID) (int, []models.Card, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	data, err := Rdb.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warnf("failed to load session snapshot for %s: %v", id, err)
		}
		return 0, nil, false
	}
	var snap sessionSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warnf("corrupt session snapshot for %s: %v", id, err)
		return 0, nil, false
	}
	return snap.Score, snap.Hand, true
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
