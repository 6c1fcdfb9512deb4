package postgres

import (
	"database/sql"
	"time"
)

type teamTableModel struct {
	ID        int64          `db:"id"`
	PublicID  string         `db:"public_id"`
	Name      string         `db:"name"`
	ShortCode string         `db:"short_code"`
	Color     sql.NullString `db:"color"`
	LogoURL   string         `db:"logo_url"`
	TeamRefID sql.NullInt64  `db:"external_team_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
	DeletedAt *time.Time     `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID  string  `db:"public_id"`
	Name      string  `db:"name"`
	ShortCode string  `db:"short_code"`
	Color     *string `db:"color"`
	LogoURL   string  `db:"logo_url"`
	TeamRefID *int64  `db:"external_team_id"`
}
