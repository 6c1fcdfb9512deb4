package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	qb "github.com/riskibarqy/pickem-league/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League, owner league.Member) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx create league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	createdAt := utcOrNow(l.CreatedAt)
	leagueModel := leagueInsertModel{
		PublicID:      l.ID,
		Name:          l.Name,
		CreatorUserID: l.CreatorUserID,
		MaxMembers:    intPtrToNullInt64(l.MaxMembers),
		IsPublic:      l.IsPublic,
		InviteCode:    l.InviteCode,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
	query, args, err := qb.InsertModel("custom_leagues", leagueModel, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert league: %w", err)
	}

	if err := insertLeagueMember(ctx, tx, owner.LeagueID, owner); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create league tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, "get league", qb.Eq("public_id", leagueID))
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, code string) (league.League, bool, error) {
	return r.getOne(ctx, "get league by invite code", qb.Eq("invite_code", code))
}

func (r *LeagueRepository) getOne(ctx context.Context, op string, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("custom_leagues").
		Where(cond, qb.IsNull("deleted_at")).
		Limit(1).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build %s query: %w", op, err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("%s: %w", op, err)
	}
	return leagueFromRow(row), true, nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("custom_leagues").
		Where(qb.IsNull("deleted_at")).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}
	return r.list(ctx, "list leagues", query, args)
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	query, args, err := qb.Select("*").From("custom_leagues").
		Where(
			qb.IsNull("deleted_at"),
			qb.Expr(`public_id IN (
    SELECT custom_league_public_id FROM custom_league_members
    WHERE user_id = ? AND deleted_at IS NULL
)`, userID),
		).
		OrderBy("created_at", "public_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues by user query: %w", err)
	}
	return r.list(ctx, "list leagues by user", query, args)
}

func (r *LeagueRepository) ListMemberIDs(ctx context.Context, leagueID string) ([]string, error) {
	query, args, err := qb.Select("user_id").From("custom_league_members").
		Where(
			qb.Eq("custom_league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list league members query: %w", err)
	}

	out := make([]string, 0)
	if err := r.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	return out, nil
}

// AddMember locks the league row so concurrent joins see a consistent
// member count before the insert.
func (r *LeagueRepository) AddMember(ctx context.Context, l league.League, m league.Member) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx add league member: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("id").From("custom_leagues").
		Where(
			qb.Eq("public_id", l.ID),
			qb.IsNull("deleted_at"),
		).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock league query: %w", err)
	}
	var rowID int64
	if err := tx.GetContext(ctx, &rowID, lockQuery, lockArgs...); err != nil {
		return fmt.Errorf("lock league: %w", err)
	}

	countQuery, countArgs, err := qb.Select("COUNT(*)").From("custom_league_members").
		Where(
			qb.Eq("custom_league_public_id", l.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build count league members query: %w", err)
	}
	var count int
	if err := tx.GetContext(ctx, &count, countQuery, countArgs...); err != nil {
		return fmt.Errorf("count league members: %w", err)
	}

	existsQuery, existsArgs, err := qb.Select("COUNT(*)").From("custom_league_members").
		Where(
			qb.Eq("custom_league_public_id", l.ID),
			qb.Eq("user_id", m.UserID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build league member exists query: %w", err)
	}
	var exists int
	if err := tx.GetContext(ctx, &exists, existsQuery, existsArgs...); err != nil {
		return fmt.Errorf("check league member: %w", err)
	}
	if exists > 0 {
		return league.ErrAlreadyMember
	}
	if !l.HasRoomFor(count) {
		return league.ErrLeagueFull
	}

	if err := insertLeagueMember(ctx, tx, l.ID, m); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit add league member tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) RemoveMember(ctx context.Context, leagueID, userID string) (bool, error) {
	query, args, err := qb.Update("custom_league_members").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("custom_league_public_id", leagueID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build remove league member query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("remove league member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected remove league member: %w", err)
	}
	return affected > 0, nil
}

// Delete soft-deletes the league and its memberships and drops its board.
func (r *LeagueRepository) Delete(ctx context.Context, leagueID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx delete league: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	membersQuery, membersArgs, err := qb.Update("custom_league_members").
		SetExpr("deleted_at", "NOW()").
		Where(
			qb.Eq("custom_league_public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league members query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, membersQuery, membersArgs...); err != nil {
		return fmt.Errorf("delete league members: %w", err)
	}

	standingsQuery, standingsArgs, err := qb.DeleteFrom("standings").
		Where(qb.Eq("league_public_id", leagueID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league standings query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, standingsQuery, standingsArgs...); err != nil {
		return fmt.Errorf("delete league standings: %w", err)
	}

	leagueQuery, leagueArgs, err := qb.Update("custom_leagues").
		SetExpr("deleted_at", "NOW()").
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("public_id", leagueID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, leagueQuery, leagueArgs...); err != nil {
		return fmt.Errorf("delete league: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete league tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) list(ctx context.Context, op, query string, args []any) ([]league.League, error) {
	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out, nil
}

func insertLeagueMember(ctx context.Context, tx *sqlx.Tx, leagueID string, m league.Member) error {
	model := leagueMemberInsertModel{
		LeagueID: leagueID,
		UserID:   m.UserID,
		JoinedAt: utcOrNow(m.JoinedAt),
	}
	query, args, err := qb.InsertModel("custom_league_members", model, "")
	if err != nil {
		return fmt.Errorf("build insert league member query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return league.ErrAlreadyMember
		}
		return fmt.Errorf("insert league member: %w", err)
	}
	return nil
}

func leagueFromRow(row leagueTableModel) league.League {
	return league.League{
		ID:            row.PublicID,
		Name:          row.Name,
		CreatorUserID: row.CreatorUserID,
		MaxMembers:    nullInt64ToIntPtr(row.MaxMembers),
		IsPublic:      row.IsPublic,
		InviteCode:    row.InviteCode,
		CreatedAt:     row.CreatedAt.UTC(),
	}
}
