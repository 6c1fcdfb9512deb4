package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
)

func TestFixtureFromRow(t *testing.T) {
	kickoff := time.Date(2026, 8, 8, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	got := fixtureFromRow(fixtureTableModel{
		PublicID:     "fx-1-1",
		GameweekID:   "gw-1",
		HomeTeamID:   "team-persija",
		AwayTeamID:   "team-persib",
		KickoffAt:    kickoff,
		Status:       "finished",
		HomeScore:    sql.NullInt64{Int64: 2, Valid: true},
		AwayScore:    sql.NullInt64{Int64: 1, Valid: true},
		FixtureRefID: sql.NullInt64{Int64: 19000, Valid: true},
	})

	if !got.IsFinished() || *got.HomeScore != 2 || *got.AwayScore != 1 {
		t.Fatalf("unexpected fixture: %+v", got)
	}
	if got.KickoffTime.Location() != time.UTC || !got.KickoffTime.Equal(kickoff) {
		t.Fatalf("expected utc kickoff, got %v", got.KickoffTime)
	}
	if got.ExternalRefID != 19000 {
		t.Fatalf("unexpected external ref: %d", got.ExternalRefID)
	}
}

func TestFixtureFromRow_ScheduledHasNoScores(t *testing.T) {
	got := fixtureFromRow(fixtureTableModel{PublicID: "fx-2-1", Status: string(fixture.StatusScheduled)})
	if got.HomeScore != nil || got.AwayScore != nil || got.IsFinished() {
		t.Fatalf("unexpected fixture: %+v", got)
	}
}

func TestLeagueFromRow_OptionalCap(t *testing.T) {
	open := leagueFromRow(leagueTableModel{PublicID: "lg-1", Name: "Kantor", InviteCode: "ABCDEFGH"})
	if open.MaxMembers != nil || !open.HasRoomFor(1000) {
		t.Fatalf("expected uncapped league: %+v", open)
	}

	capped := leagueFromRow(leagueTableModel{PublicID: "lg-2", MaxMembers: sql.NullInt64{Int64: 2, Valid: true}})
	if capped.MaxMembers == nil || capped.HasRoomFor(2) {
		t.Fatalf("expected cap of 2: %+v", capped)
	}
}
