package postgres

import (
	"database/sql"
	"time"
)

type gameweekTableModel struct {
	ID         int64         `db:"id"`
	PublicID   string        `db:"public_id"`
	Number     int           `db:"number"`
	Deadline   time.Time     `db:"deadline"`
	IsCurrent  bool          `db:"is_current"`
	RoundRefID sql.NullInt64 `db:"external_round_id"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
	DeletedAt  *time.Time    `db:"deleted_at"`
}

type gameweekInsertModel struct {
	PublicID   string    `db:"public_id"`
	Number     int       `db:"number"`
	Deadline   time.Time `db:"deadline"`
	RoundRefID *int64    `db:"external_round_id"`
}
