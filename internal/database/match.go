package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mysterious-guests/cardtable/internal/models"
)

// RecordMatchAndResults persists the final outcome of a match: one row in
// matches, one row per participant in match_results.
func RecordMatchAndResults(ctx context.Context, matchID uuid.UUID, players []*models.Player, finalScores map[uuid.UUID]int, winner uuid.UUID) error {
	if DB == nil {
		return nil // persistence disabled
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertMatch := `
			INSERT INTO matches (id, status)
			VALUES ($1, 'completed')
			ON CONFLICT (id) DO UPDATE SET status = 'completed'
		`
		if _, e := tx.Exec(ctx, upsertMatch, matchID); e != nil {
			return e
		}

		for _, pl := range players {
			q := `
				INSERT INTO match_results (match_id, player_id, display_name, score, did_win)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (match_id, player_id)
				DO UPDATE SET score=$4, did_win=$5
			`
			if _, e := tx.Exec(ctx, q, matchID, pl.ID, pl.DisplayName, finalScores[pl.ID], pl.ID == winner); e != nil {
				return e
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx upsert match or results: %w", err)
	}
	return nil
}
