package pick

import (
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
)

// Facts is the catalog and ledger state a proposal is judged against.
type Facts struct {
	Now time.Time

	Fixture      fixture.Fixture
	FixtureFound bool

	Current    gameweek.Gameweek
	HasCurrent bool

	HasPickForGameweek bool
	TeamUses           int
}

// Evaluate applies the eligibility checks in order and returns the first
// rejection, or nil when teamID may be picked.
func Evaluate(facts Facts, teamID string) error {
	if !facts.FixtureFound || !facts.HasCurrent || facts.Fixture.GameweekID != facts.Current.ID {
		return ErrFixtureNotOpen
	}
	if !facts.Fixture.HasTeam(teamID) {
		return ErrInvalidTeamForFixture
	}
	if !facts.Current.IsOpen(facts.Now) {
		return ErrDeadlinePassed
	}
	if facts.HasPickForGameweek {
		return ErrAlreadyPicked
	}
	if facts.TeamUses >= MaxTeamUses {
		return ErrTeamExhausted
	}

	return nil
}

// CanUndo checks the undo window for a pick in gw.
func CanUndo(gw gameweek.Gameweek, now time.Time) error {
	if !gw.IsOpen(now) {
		return ErrUndoWindowClosed
	}
	return nil
}

type State string

const (
	StateNoPick State = "no_pick"
	StatePicked State = "picked"
	StateLocked State = "locked"
)

// StateOf returns the ledger state of one (user, gameweek).
func StateOf(gw gameweek.Gameweek, hasPick bool, now time.Time) State {
	switch {
	case !hasPick:
		return StateNoPick
	case gw.IsOpen(now):
		return StatePicked
	default:
		return StateLocked
	}
}

// RemainingUses converts per-team usage counts into remaining picks per team.
func RemainingUses(used map[string]int) map[string]int {
	out := make(map[string]int, len(used))
	for teamID, n := range used {
		left := MaxTeamUses - n
		if left < 0 {
			left = 0
		}
		out[teamID] = left
	}
	return out
}
