package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo catalog into an empty database. It is a no-op
// once any team exists.
func BootstrapSeed(ctx context.Context, db *sqlx.DB, start time.Time) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams WHERE deleted_at IS NULL`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	exec := func(label, query string, arg map[string]any) error {
		sqlQuery, args, err := sqlx.Named(query, arg)
		if err != nil {
			return fmt.Errorf("bind seed %s query: %w", label, err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(sqlQuery), args...); err != nil {
			return fmt.Errorf("seed %s: %w", label, err)
		}
		return nil
	}

	for _, t := range memory.SeedTeams() {
		if err := exec("team "+t.ID, `
INSERT INTO teams (public_id, name, short_code, color)
VALUES (:public_id, :name, :short_code, :color)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  t.ID,
			"name":       t.Name,
			"short_code": t.ShortCode,
			"color":      optionalString(t.Color),
		}); err != nil {
			return err
		}
	}

	gameweeks := memory.SeedGameweeks(start.UTC())
	for _, gw := range gameweeks {
		if err := exec("gameweek "+gw.ID, `
INSERT INTO gameweeks (public_id, number, deadline, is_current)
VALUES (:public_id, :number, :deadline, :is_current)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":  gw.ID,
			"number":     gw.Number,
			"deadline":   gw.Deadline.UTC(),
			"is_current": gw.IsCurrent,
		}); err != nil {
			return err
		}
	}

	for _, f := range memory.SeedFixtures(gameweeks) {
		if err := exec("fixture "+f.ID, `
INSERT INTO fixtures (public_id, gameweek_public_id, home_team_public_id, away_team_public_id, kickoff_at, status)
VALUES (:public_id, :gameweek_public_id, :home_team_public_id, :away_team_public_id, :kickoff_at, :status)
ON CONFLICT (public_id) DO NOTHING`, map[string]any{
			"public_id":           f.ID,
			"gameweek_public_id":  f.GameweekID,
			"home_team_public_id": f.HomeTeamID,
			"away_team_public_id": f.AwayTeamID,
			"kickoff_at":          f.KickoffTime.UTC(),
			"status":              string(f.Status),
		}); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
