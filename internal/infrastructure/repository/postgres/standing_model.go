package postgres

import "time"

type standingModel struct {
	LeagueID     string    `db:"league_public_id"`
	UserID       string    `db:"user_id"`
	TotalPoints  int       `db:"total_points"`
	CorrectPicks int       `db:"correct_picks"`
	TotalPicks   int       `db:"total_picks"`
	CurrentRank  int       `db:"current_rank"`
	UpdatedAt    time.Time `db:"updated_at"`
}
