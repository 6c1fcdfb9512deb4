package postgres

import (
	"database/sql"
	"time"
)

type fixtureTableModel struct {
	ID           int64         `db:"id"`
	PublicID     string        `db:"public_id"`
	GameweekID   string        `db:"gameweek_public_id"`
	HomeTeamID   string        `db:"home_team_public_id"`
	AwayTeamID   string        `db:"away_team_public_id"`
	KickoffAt    time.Time     `db:"kickoff_at"`
	Status       string        `db:"status"`
	HomeScore    sql.NullInt64 `db:"home_score"`
	AwayScore    sql.NullInt64 `db:"away_score"`
	FixtureRefID sql.NullInt64 `db:"external_fixture_id"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
	DeletedAt    *time.Time    `db:"deleted_at"`
}

type fixtureInsertModel struct {
	PublicID     string        `db:"public_id"`
	GameweekID   string        `db:"gameweek_public_id"`
	HomeTeamID   string        `db:"home_team_public_id"`
	AwayTeamID   string        `db:"away_team_public_id"`
	KickoffAt    time.Time     `db:"kickoff_at"`
	Status       string        `db:"status"`
	HomeScore    sql.NullInt64 `db:"home_score"`
	AwayScore    sql.NullInt64 `db:"away_score"`
	FixtureRefID *int64        `db:"external_fixture_id"`
}
