package postgres

import (
	"database/sql"
	"time"
)

type leagueTableModel struct {
	ID            int64         `db:"id"`
	PublicID      string        `db:"public_id"`
	Name          string        `db:"name"`
	CreatorUserID string        `db:"creator_user_id"`
	MaxMembers    sql.NullInt64 `db:"max_members"`
	IsPublic      bool          `db:"is_public"`
	InviteCode    string        `db:"invite_code"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
	DeletedAt     *time.Time    `db:"deleted_at"`
}

type leagueInsertModel struct {
	PublicID      string        `db:"public_id"`
	Name          string        `db:"name"`
	CreatorUserID string        `db:"creator_user_id"`
	MaxMembers    sql.NullInt64 `db:"max_members"`
	IsPublic      bool          `db:"is_public"`
	InviteCode    string        `db:"invite_code"`
	CreatedAt     time.Time     `db:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

type leagueMemberInsertModel struct {
	LeagueID string    `db:"custom_league_public_id"`
	UserID   string    `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}
