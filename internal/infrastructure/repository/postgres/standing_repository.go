package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type StandingRepository struct {
	db *sqlx.DB
}

func NewStandingRepository(db *sqlx.DB) *StandingRepository {
	return &StandingRepository{db: db}
}

func (r *StandingRepository) ListByScope(ctx context.Context, scope standing.Scope) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(qb.Eq("league_public_id", scope.LeagueID)).
		OrderBy("current_rank", "correct_picks DESC", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings query: %w", err)
	}
	return r.list(ctx, "list standings by scope", query, args)
}

func (r *StandingRepository) ListByUser(ctx context.Context, userID string) ([]standing.Standing, error) {
	query, args, err := qb.Select("*").From("standings").
		Where(qb.Eq("user_id", userID)).
		OrderBy("league_public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list standings by user query: %w", err)
	}
	return r.list(ctx, "list standings by user", query, args)
}

// ReplaceScope deletes and re-inserts the scope inside one transaction so
// readers see either the old board or the new one.
func (r *StandingRepository) ReplaceScope(ctx context.Context, scope standing.Scope, rows []standing.Standing) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace standings: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	deleteQuery, deleteArgs, err := qb.DeleteFrom("standings").
		Where(qb.Eq("league_public_id", scope.LeagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("delete standings scope=%s: %w", scope, err)
	}

	for _, row := range rows {
		model := standingModel{
			LeagueID:     scope.LeagueID,
			UserID:       row.UserID,
			TotalPoints:  row.TotalPoints,
			CorrectPicks: row.CorrectPicks,
			TotalPicks:   row.TotalPicks,
			CurrentRank:  row.CurrentRank,
			UpdatedAt:    utcOrNow(row.UpdatedAt),
		}
		query, args, err := qb.InsertModel("standings", model, "")
		if err != nil {
			return fmt.Errorf("build insert standing query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert standing scope=%s user=%s: %w", scope, row.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace standings tx: %w", err)
	}
	return nil
}

func (r *StandingRepository) list(ctx context.Context, op, query string, args []any) ([]standing.Standing, error) {
	var rows []standingModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]standing.Standing, 0, len(rows))
	for _, row := range rows {
		out = append(out, standing.Standing{
			LeagueID:     row.LeagueID,
			UserID:       row.UserID,
			TotalPoints:  row.TotalPoints,
			CorrectPicks: row.CorrectPicks,
			TotalPicks:   row.TotalPicks,
			CurrentRank:  row.CurrentRank,
			UpdatedAt:    row.UpdatedAt.UTC(),
		})
	}
	return out, nil
}
