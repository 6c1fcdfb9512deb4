package standing

import (
	"time"
)

// Scope selects a leaderboard: global when LeagueID is empty.
type Scope struct {
	LeagueID string
}

func Global() Scope {
	return Scope{}
}

func League(leagueID string) Scope {
	return Scope{LeagueID: leagueID}
}

func (s Scope) IsGlobal() bool {
	return s.LeagueID == ""
}

func (s Scope) String() string {
	if s.IsGlobal() {
		return "global"
	}
	return "league:" + s.LeagueID
}

// Standing is one leaderboard row.
type Standing struct {
	LeagueID     string
	UserID       string
	TotalPoints  int
	CorrectPicks int
	TotalPicks   int
	CurrentRank  int
	UpdatedAt    time.Time
}

func (s Standing) Scope() Scope {
	return Scope{LeagueID: s.LeagueID}
}
