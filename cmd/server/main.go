package main

import (
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/mysterious-guests/cardtable/internal/auth"
	"github.com/mysterious-guests/cardtable/internal/cache"
	"github.com/mysterious-guests/cardtable/internal/database"
	"github.com/mysterious-guests/cardtable/internal/game"
	"github.com/mysterious-guests/cardtable/internal/handlers"
	"github.com/mysterious-guests/cardtable/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	// Redis and postgres are optional: without them the server still runs
	// with in-memory sessions and no results persistence.
	var snapshots game.SnapshotStore = game.NewMemorySnapshotStore()
	if os.Getenv("REDIS_ADDR") != "" {
		if err := cache.ConnectRedis(); err != nil {
			logger.Warnf("redis unavailable, falling back to in-memory sessions: %v", err)
		} else {
			snapshots = cache.SessionStore{}
		}
	}
	if os.Getenv("PG_HOST") != "" {
		if err := database.ConnectDB(); err != nil {
			logger.Warnf("postgres unavailable, match results will not be recorded: %v", err)
		}
	}

	ms := handlers.NewMatchServer(snapshots)

	mux := http.NewServeMux()

	logRequests := middleware.LogMiddleware(logger)
	mux.Handle("/match/create", logRequests(handlers.CreateMatchHandler(ms)))
	mux.Handle("/match/list", logRequests(handlers.ListMatchesHandler(ms)))
	mux.Handle("/leaderboard", logRequests(handlers.LeaderboardHandler()))
	mux.Handle("/match/ws/", logRequests(handlers.MatchWSHandler(logger, ms)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
