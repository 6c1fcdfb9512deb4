package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByUserGameweek(ctx context.Context, userID, gameweekID string) (pick.Pick, bool, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("gameweek_public_id", gameweekID),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return pick.Pick{}, false, fmt.Errorf("build get pick query: %w", err)
	}

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}
	return pickFromRow(row), true, nil
}

func (r *PickRepository) ListByUser(ctx context.Context, userID string) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks by user query: %w", err)
	}
	return r.list(ctx, "list picks by user", query, args)
}

func (r *PickRepository) ListByGameweek(ctx context.Context, gameweekID string) ([]pick.Pick, error) {
	query, args, err := qb.Select("*").From("picks").
		Where(qb.Eq("gameweek_public_id", gameweekID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks by gameweek query: %w", err)
	}
	return r.list(ctx, "list picks by gameweek", query, args)
}

func (r *PickRepository) ListByFixtures(ctx context.Context, fixtureIDs []string) ([]pick.Pick, error) {
	if len(fixtureIDs) == 0 {
		return []pick.Pick{}, nil
	}

	query, args, err := qb.Select("*").From("picks").
		Where(qb.In("fixture_public_id", stringsToAny(fixtureIDs))).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list picks by fixtures query: %w", err)
	}
	return r.list(ctx, "list picks by fixtures", query, args)
}

func (r *PickRepository) CountByUserTeam(ctx context.Context, userID, teamID string) (int, error) {
	return countByUserTeam(ctx, r.db, userID, teamID)
}

func (r *PickRepository) CountPerUser(ctx context.Context, userIDs []string) (map[string]int, error) {
	builder := qb.Select("user_id", "COUNT(*) AS total").From("picks")
	if userIDs != nil {
		builder = builder.Where(qb.In("user_id", stringsToAny(userIDs)))
	}
	query, args, err := builder.GroupBy("user_id").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build count picks per user query: %w", err)
	}

	var rows []userCountRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("count picks per user: %w", err)
	}

	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.UserID] = row.Total
	}
	return out, nil
}

// Create serializes writers per user with a transaction-scoped advisory lock,
// then checks the team cap and inserts. The unique index on
// (user_id, gameweek_public_id) backs the one-pick-per-gameweek rule.
func (r *PickRepository) Create(ctx context.Context, p pick.Pick, maxTeamUses int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create pick: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "pick:"+p.UserID); err != nil {
		return fmt.Errorf("lock user picks: %w", err)
	}

	uses, err := countByUserTeam(ctx, tx, p.UserID, p.TeamID)
	if err != nil {
		return err
	}
	if uses >= maxTeamUses {
		return pick.ErrTeamExhausted
	}

	insertModel := pickInsertModel{
		PublicID:   p.ID,
		UserID:     p.UserID,
		GameweekID: p.GameweekID,
		FixtureID:  p.FixtureID,
		TeamID:     p.TeamID,
		CreatedAt:  utcOrNow(p.CreatedAt),
	}
	query, args, err := qb.InsertModel("picks", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert pick query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if constraint, ok := uniqueViolationConstraint(err); ok && constraint == "picks_user_gameweek_uidx" {
			return pick.ErrAlreadyPicked
		}
		return fmt.Errorf("insert pick: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create pick tx: %w", err)
	}
	return nil
}

func (r *PickRepository) Delete(ctx context.Context, userID, gameweekID string) (bool, error) {
	query, args, err := qb.DeleteFrom("picks").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("gameweek_public_id", gameweekID),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete pick query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete pick: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete pick: %w", err)
	}
	return affected > 0, nil
}

func (r *PickRepository) list(ctx context.Context, op, query string, args []any) ([]pick.Pick, error) {
	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}
	return out, nil
}

func countByUserTeam(ctx context.Context, q sqlx.QueryerContext, userID, teamID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("picks").
		Where(
			qb.Eq("user_id", userID),
			qb.Eq("team_public_id", teamID),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count team uses query: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, q, &total, query, args...); err != nil {
		return 0, fmt.Errorf("count team uses: %w", err)
	}
	return total, nil
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		ID:         row.PublicID,
		UserID:     row.UserID,
		GameweekID: row.GameweekID,
		FixtureID:  row.FixtureID,
		TeamID:     row.TeamID,
		CreatedAt:  row.CreatedAt.UTC(),
	}
}
