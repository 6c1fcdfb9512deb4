package pick

import (
	"fmt"
	"time"
)

// MaxTeamUses caps how many picks one user may hold on the same team per season.
const MaxTeamUses = 2

// Pick is a user's single team selection for one gameweek.
type Pick struct {
	ID         string
	UserID     string
	GameweekID string
	FixtureID  string
	TeamID     string
	CreatedAt  time.Time
}

func (p Pick) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("pick id is required")
	}
	if p.UserID == "" {
		return fmt.Errorf("pick user id is required")
	}
	if p.GameweekID == "" || p.FixtureID == "" || p.TeamID == "" {
		return fmt.Errorf("pick gameweek, fixture and team are required")
	}

	return nil
}
