package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

type fakeCatalogProvider struct {
	teams    []ExternalTeam
	rounds   []ExternalRound
	fixtures []ExternalFixture
	err      error
}

func (p fakeCatalogProvider) FetchTeams(context.Context, int64) ([]ExternalTeam, error) {
	return p.teams, p.err
}

func (p fakeCatalogProvider) FetchRounds(context.Context, int64) ([]ExternalRound, error) {
	return p.rounds, nil
}

func (p fakeCatalogProvider) FetchFixtures(context.Context, int64) ([]ExternalFixture, error) {
	return p.fixtures, nil
}

func TestSyncService_SyncCatalog(t *testing.T) {
	ctx := context.Background()
	h := newPickemHarness(t)

	kickoff := time.Date(2026, 8, 15, 14, 0, 0, 0, time.UTC)
	provider := fakeCatalogProvider{
		teams: []ExternalTeam{
			{ExternalID: 1, Name: "Arsenal", ShortCode: "ars"},
			{ExternalID: 2, Name: "Chelsea"},
			{ExternalID: 3, Name: "Liverpool", ShortCode: "LIV"},
			{ExternalID: 4, Name: "Everton", ShortCode: "EVE"},
		},
		rounds: []ExternalRound{{ExternalID: 100, Number: 1}, {ExternalID: 101, Number: 2}},
		fixtures: []ExternalFixture{
			{ExternalID: 10, RoundNumber: 1, HomeTeamExternalID: 1, AwayTeamExternalID: 2, KickoffTime: kickoff.Add(2 * time.Hour), Status: "FT", HomeScore: intPtr(2), AwayScore: intPtr(0)},
			{ExternalID: 11, RoundNumber: 1, HomeTeamExternalID: 3, AwayTeamExternalID: 4, KickoffTime: kickoff, Status: "FT"},
			{ExternalID: 12, RoundNumber: 2, HomeTeamExternalID: 1, AwayTeamExternalID: 3, KickoffTime: kickoff.Add(7 * 24 * time.Hour), Status: "NS"},
			{ExternalID: 13, RoundNumber: 3, HomeTeamExternalID: 2, AwayTeamExternalID: 4, KickoffTime: kickoff.Add(14 * 24 * time.Hour), Status: "NS"},
			{ExternalID: 14, RoundNumber: 2, HomeTeamExternalID: 2, AwayTeamExternalID: 99, KickoffTime: kickoff.Add(7 * 24 * time.Hour), Status: "NS"},
		},
	}

	svc := NewSyncService(provider, 23614, h.teams, h.gameweekDB, h.fixtures, h.scoringSvc, h.standingSvc, logging.NewNop())
	summary, err := svc.SyncCatalog(ctx)
	if err != nil {
		t.Fatalf("sync catalog: %v", err)
	}
	if summary.Teams != 4 || summary.Gameweeks != 2 || summary.Fixtures != 3 || summary.SkippedFixtures != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Scored) != 1 || summary.Scored[0].GameweekID != "gw-1" {
		t.Fatalf("expected gw-1 to be scored, got %+v", summary.Scored)
	}

	gw, ok, err := h.gameweekDB.GetByID(ctx, "gw-1")
	if err != nil || !ok {
		t.Fatalf("get gameweek: ok=%v err=%v", ok, err)
	}
	if !gw.Deadline.Equal(kickoff) || !gw.IsCurrent {
		t.Fatalf("expected deadline at earliest kickoff with current flag kept, got %+v", gw)
	}

	noScore, ok, _ := h.fixtures.GetByID(ctx, "fixture-11")
	if !ok || noScore.Status != fixture.StatusLive {
		t.Fatalf("expected finished fixture without scores stored as live, got %+v", noScore)
	}
	team, ok, _ := h.teams.GetByID(ctx, "team-2")
	if !ok || team.ShortCode != "CHE" {
		t.Fatalf("expected derived short code, got %+v", team)
	}
}

func TestSyncService_ProviderFailure(t *testing.T) {
	h := newPickemHarness(t)
	svc := NewSyncService(fakeCatalogProvider{err: errors.New("boom")}, 1, h.teams, h.gameweekDB, h.fixtures, nil, nil, logging.NewNop())

	if _, err := svc.SyncCatalog(context.Background()); !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
