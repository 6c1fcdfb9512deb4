package fixture

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusLive      Status = "live"
	StatusFinished  Status = "finished"
)

// Fixture is one match inside a gameweek. Scores are set only once finished.
type Fixture struct {
	ID            string
	GameweekID    string
	HomeTeamID    string
	AwayTeamID    string
	KickoffTime   time.Time
	Status        Status
	HomeScore     *int
	AwayScore     *int
	ExternalRefID int64
}

func (f Fixture) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fixture id is required")
	}
	if f.GameweekID == "" {
		return fmt.Errorf("fixture gameweek id is required")
	}
	if f.HomeTeamID == "" || f.AwayTeamID == "" {
		return fmt.Errorf("fixture teams are required")
	}
	if f.HomeTeamID == f.AwayTeamID {
		return fmt.Errorf("fixture home and away team must differ")
	}
	if f.Status == StatusFinished && (f.HomeScore == nil || f.AwayScore == nil) {
		return fmt.Errorf("finished fixture requires both scores")
	}

	return nil
}

func (f Fixture) HasTeam(teamID string) bool {
	return teamID != "" && (teamID == f.HomeTeamID || teamID == f.AwayTeamID)
}

// IsFinished is true only when the result is final and both scores are present.
func (f Fixture) IsFinished() bool {
	return f.Status == StatusFinished && f.HomeScore != nil && f.AwayScore != nil
}

// GoalsFor returns goals scored and conceded by teamID. ok is false when the
// fixture is not finished or teamID is not playing.
func (f Fixture) GoalsFor(teamID string) (scored, conceded int, ok bool) {
	if !f.IsFinished() {
		return 0, 0, false
	}
	switch teamID {
	case f.HomeTeamID:
		return *f.HomeScore, *f.AwayScore, true
	case f.AwayTeamID:
		return *f.AwayScore, *f.HomeScore, true
	default:
		return 0, 0, false
	}
}

// NormalizeStatus maps provider status codes onto the three catalog states.
func NormalizeStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "FT", "AET", "FT_PEN", "PEN", "FINISHED", "AWARDED":
		return StatusFinished
	case "LIVE", "INPLAY_1ST_HALF", "INPLAY_2ND_HALF", "HT", "INPLAY_ET", "INPLAY_PENALTIES", "BREAK", "1H", "2H", "ET", "IN_PLAY":
		return StatusLive
	default:
		return StatusScheduled
	}
}
