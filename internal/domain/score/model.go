package score

import (
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
)

const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// GameweekScore is the derived result of one pick, keyed by (UserID, GameweekID).
type GameweekScore struct {
	UserID     string
	GameweekID string
	PickID     string
	FixtureID  string
	TeamID     string
	Points     int
	IsCorrect  bool
	ScoredAt   time.Time
}

// PointsFor returns the points and correctness of backing teamID in f.
// ok is false when f is not finished or teamID did not play.
func PointsFor(f fixture.Fixture, teamID string) (points int, correct bool, ok bool) {
	scored, conceded, ok := f.GoalsFor(teamID)
	if !ok {
		return 0, false, false
	}

	switch {
	case scored > conceded:
		return PointsWin, true, true
	case scored == conceded:
		return PointsDraw, false, true
	default:
		return PointsLoss, false, true
	}
}

// ForPick scores p against its fixture.
func ForPick(p pick.Pick, f fixture.Fixture, now time.Time) (GameweekScore, bool) {
	if p.FixtureID != f.ID {
		return GameweekScore{}, false
	}
	points, correct, ok := PointsFor(f, p.TeamID)
	if !ok {
		return GameweekScore{}, false
	}

	return GameweekScore{
		UserID:     p.UserID,
		GameweekID: p.GameweekID,
		PickID:     p.ID,
		FixtureID:  f.ID,
		TeamID:     p.TeamID,
		Points:     points,
		IsCorrect:  correct,
		ScoredAt:   now,
	}, true
}

// SameResult compares everything except ScoredAt.
func SameResult(a, b GameweekScore) bool {
	return a.UserID == b.UserID &&
		a.GameweekID == b.GameweekID &&
		a.PickID == b.PickID &&
		a.FixtureID == b.FixtureID &&
		a.TeamID == b.TeamID &&
		a.Points == b.Points &&
		a.IsCorrect == b.IsCorrect
}
