package score

import (
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
)

func finished(home, away int) fixture.Fixture {
	return fixture.Fixture{
		ID:         "fx1",
		GameweekID: "gw1",
		HomeTeamID: "ARS",
		AwayTeamID: "CHE",
		Status:     fixture.StatusFinished,
		HomeScore:  &home,
		AwayScore:  &away,
	}
}

func TestPointsFor(t *testing.T) {
	tests := []struct {
		name        string
		fixture     fixture.Fixture
		team        string
		wantPoints  int
		wantCorrect bool
		wantOK      bool
	}{
		{name: "home win for home picker", fixture: finished(2, 1), team: "ARS", wantPoints: 3, wantCorrect: true, wantOK: true},
		{name: "home win for away picker", fixture: finished(2, 1), team: "CHE", wantPoints: 0, wantOK: true},
		{name: "draw home", fixture: finished(1, 1), team: "ARS", wantPoints: 1, wantOK: true},
		{name: "draw away", fixture: finished(1, 1), team: "CHE", wantPoints: 1, wantOK: true},
		{name: "away win", fixture: finished(0, 3), team: "CHE", wantPoints: 3, wantCorrect: true, wantOK: true},
		{name: "not finished", fixture: fixture.Fixture{ID: "fx1", HomeTeamID: "ARS", AwayTeamID: "CHE", Status: fixture.StatusLive}, team: "ARS"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			points, correct, ok := PointsFor(tc.fixture, tc.team)
			if points != tc.wantPoints || correct != tc.wantCorrect || ok != tc.wantOK {
				t.Fatalf("PointsFor() = (%d, %v, %v), want (%d, %v, %v)", points, correct, ok, tc.wantPoints, tc.wantCorrect, tc.wantOK)
			}
		})
	}
}

func TestForPick(t *testing.T) {
	now := time.Date(2026, 8, 16, 18, 0, 0, 0, time.UTC)
	p := pick.Pick{ID: "p1", UserID: "u1", GameweekID: "gw1", FixtureID: "fx1", TeamID: "ARS"}

	got, ok := ForPick(p, finished(2, 1), now)
	if !ok {
		t.Fatalf("expected score")
	}
	want := GameweekScore{UserID: "u1", GameweekID: "gw1", PickID: "p1", FixtureID: "fx1", TeamID: "ARS", Points: 3, IsCorrect: true}
	if !SameResult(got, want) || !got.ScoredAt.Equal(now) {
		t.Fatalf("unexpected score: %+v", got)
	}

	p.FixtureID = "fx2"
	if _, ok := ForPick(p, finished(2, 1), now); ok {
		t.Fatalf("expected mismatched fixture to be skipped")
	}
}
