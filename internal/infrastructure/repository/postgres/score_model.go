package postgres

import "time"

type gameweekScoreModel struct {
	UserID     string    `db:"user_id"`
	GameweekID string    `db:"gameweek_public_id"`
	PickID     string    `db:"pick_public_id"`
	FixtureID  string    `db:"fixture_public_id"`
	TeamID     string    `db:"team_public_id"`
	Points     int       `db:"points"`
	IsCorrect  bool      `db:"is_correct"`
	ScoredAt   time.Time `db:"scored_at"`
}
