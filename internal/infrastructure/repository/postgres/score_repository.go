package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/score"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func (r *ScoreRepository) UpsertMany(ctx context.Context, scores []score.GameweekScore) error {
	if len(scores) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert scores: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range scores {
		model := gameweekScoreModel{
			UserID:     item.UserID,
			GameweekID: item.GameweekID,
			PickID:     item.PickID,
			FixtureID:  item.FixtureID,
			TeamID:     item.TeamID,
			Points:     item.Points,
			IsCorrect:  item.IsCorrect,
			ScoredAt:   utcOrNow(item.ScoredAt),
		}
		query, args, err := qb.InsertModel("gameweek_scores", model, `ON CONFLICT (user_id, gameweek_public_id)
DO UPDATE SET
    pick_public_id = EXCLUDED.pick_public_id,
    fixture_public_id = EXCLUDED.fixture_public_id,
    team_public_id = EXCLUDED.team_public_id,
    points = EXCLUDED.points,
    is_correct = EXCLUDED.is_correct,
    scored_at = EXCLUDED.scored_at`)
		if err != nil {
			return fmt.Errorf("build upsert score query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert score user=%s gameweek=%s: %w", item.UserID, item.GameweekID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert scores tx: %w", err)
	}
	return nil
}

func (r *ScoreRepository) DeleteMany(ctx context.Context, gameweekID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	query, args, err := qb.DeleteFrom("gameweek_scores").
		Where(
			qb.Eq("gameweek_public_id", gameweekID),
			qb.In("user_id", stringsToAny(userIDs)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete scores query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete scores gameweek=%s: %w", gameweekID, err)
	}
	return nil
}

func (r *ScoreRepository) ListByGameweek(ctx context.Context, gameweekID string) ([]score.GameweekScore, error) {
	query, args, err := qb.Select("*").From("gameweek_scores").
		Where(qb.Eq("gameweek_public_id", gameweekID)).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores by gameweek query: %w", err)
	}
	return r.list(ctx, "list scores by gameweek", query, args)
}

func (r *ScoreRepository) ListByUser(ctx context.Context, userID string) ([]score.GameweekScore, error) {
	query, args, err := qb.Select("*").From("gameweek_scores").
		Where(qb.Eq("user_id", userID)).
		OrderBy("gameweek_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores by user query: %w", err)
	}
	return r.list(ctx, "list scores by user", query, args)
}

func (r *ScoreRepository) ListByUsers(ctx context.Context, userIDs []string) ([]score.GameweekScore, error) {
	builder := qb.Select("*").From("gameweek_scores")
	if userIDs != nil {
		builder = builder.Where(qb.In("user_id", stringsToAny(userIDs)))
	}
	query, args, err := builder.OrderBy("user_id", "gameweek_public_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list scores by users query: %w", err)
	}
	return r.list(ctx, "list scores by users", query, args)
}

func (r *ScoreRepository) list(ctx context.Context, op, query string, args []any) ([]score.GameweekScore, error) {
	var rows []gameweekScoreModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]score.GameweekScore, 0, len(rows))
	for _, row := range rows {
		out = append(out, score.GameweekScore{
			UserID:     row.UserID,
			GameweekID: row.GameweekID,
			PickID:     row.PickID,
			FixtureID:  row.FixtureID,
			TeamID:     row.TeamID,
			Points:     row.Points,
			IsCorrect:  row.IsCorrect,
			ScoredAt:   row.ScoredAt.UTC(),
		})
	}
	return out, nil
}
