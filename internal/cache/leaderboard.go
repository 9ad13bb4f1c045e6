package cache

import (
	"context"
	"time"
)

const leaderboardKey = "cardtable:leaderboard:wins"

// LeaderboardEntry is one row of the cumulative-wins standings.
type LeaderboardEntry struct {
	Name string `json:"name"`
	Wins int64  `json:"wins"`
}

// RecordWin increments the winner's cumulative win count.
func RecordWin(ctx context.Context, displayName string) error {
	return Rdb.ZIncrBy(ctx, leaderboardKey, 1, displayName).Err()
}

// TopWinners returns the n highest win counts, best first.
func TopWinners(ctx context.Context, n int64) ([]LeaderboardEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := Rdb.ZRevRangeWithScores(ctx, leaderboardKey, 0, n-1).Result()
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		name, _ := row.Member.(string)
		entries = append(entries, LeaderboardEntry{Name: name, Wins: int64(row.Score)})
	}
	return entries, nil
}
