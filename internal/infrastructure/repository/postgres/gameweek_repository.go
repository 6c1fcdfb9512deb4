package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type GameweekRepository struct {
	db *sqlx.DB
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) List(ctx context.Context) ([]gameweek.Gameweek, error) {
	query, args, err := qb.Select("*").From("gameweeks").
		Where(qb.IsNull("deleted_at")).
		OrderBy("number").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select gameweeks query: %w", err)
	}

	var rows []gameweekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select gameweeks: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameweekFromRow(row))
	}
	return out, nil
}

func (r *GameweekRepository) GetByID(ctx context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	return r.getOne(ctx, "get gameweek", qb.Eq("public_id", gameweekID))
}

func (r *GameweekRepository) GetByNumber(ctx context.Context, number int) (gameweek.Gameweek, bool, error) {
	return r.getOne(ctx, "get gameweek by number", qb.Eq("number", number))
}

func (r *GameweekRepository) GetCurrent(ctx context.Context) (gameweek.Gameweek, bool, error) {
	return r.getOne(ctx, "get current gameweek", qb.Eq("is_current", true))
}

func (r *GameweekRepository) getOne(ctx context.Context, op string, cond qb.Condition) (gameweek.Gameweek, bool, error) {
	query, args, err := qb.Select("*").From("gameweeks").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return gameweekFromRow(row), true, nil
}

func (r *GameweekRepository) UpsertMany(ctx context.Context, gameweeks []gameweek.Gameweek) error {
	if len(gameweeks) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert gameweeks: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range gameweeks {
		insertModel := gameweekInsertModel{
			PublicID:   item.ID,
			Number:     item.Number,
			Deadline:   item.Deadline.UTC(),
			RoundRefID: optionalInt64(item.ExternalRefID),
		}
		query, args, err := qb.InsertModel("gameweeks", insertModel, `ON CONFLICT (public_id)
DO UPDATE SET
    number = EXCLUDED.number,
    deadline = EXCLUDED.deadline,
    external_round_id = EXCLUDED.external_round_id,
    updated_at = NOW(),
    deleted_at = NULL`)
		if err != nil {
			return fmt.Errorf("build upsert gameweek query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert gameweek public_id=%s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert gameweeks tx: %w", err)
	}
	return nil
}

// SetCurrent clears the flag and sets it on gameweekID inside one transaction,
// so readers never observe zero or two current rows.
func (r *GameweekRepository) SetCurrent(ctx context.Context, gameweekID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx set current gameweek: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	clearQuery, clearArgs, err := qb.Update("gameweeks").
		Set("is_current", false).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("is_current", true)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build clear current gameweek query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clearQuery, clearArgs...); err != nil {
		return fmt.Errorf("clear current gameweek: %w", err)
	}

	setQuery, setArgs, err := qb.Update("gameweeks").
		Set("is_current", true).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", gameweekID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build set current gameweek query: %w", err)
	}
	result, err := tx.ExecContext(ctx, setQuery, setArgs...)
	if err != nil {
		return fmt.Errorf("set current gameweek: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected set current gameweek: %w", err)
	}
	if affected == 0 {
		return gameweek.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set current gameweek tx: %w", err)
	}
	return nil
}

func gameweekFromRow(row gameweekTableModel) gameweek.Gameweek {
	return gameweek.Gameweek{
		ID:            row.PublicID,
		Number:        row.Number,
		Deadline:      row.Deadline.UTC(),
		IsCurrent:     row.IsCurrent,
		ExternalRefID: nullInt64ToInt64(row.RoundRefID),
	}
}
