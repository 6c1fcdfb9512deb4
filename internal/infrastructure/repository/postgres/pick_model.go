package postgres

import "time"

type pickTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	UserID     string    `db:"user_id"`
	GameweekID string    `db:"gameweek_public_id"`
	FixtureID  string    `db:"fixture_public_id"`
	TeamID     string    `db:"team_public_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type pickInsertModel struct {
	PublicID   string    `db:"public_id"`
	UserID     string    `db:"user_id"`
	GameweekID string    `db:"gameweek_public_id"`
	FixtureID  string    `db:"fixture_public_id"`
	TeamID     string    `db:"team_public_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type userCountRow struct {
	UserID string `db:"user_id"`
	Total  int    `db:"total"`
}
