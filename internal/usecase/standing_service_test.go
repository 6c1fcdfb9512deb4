package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/score"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
)

func seedScores(t *testing.T, h *pickemHarness, points map[string]int) {
	t.Helper()

	ctx := context.Background()
	rows := make([]score.GameweekScore, 0, len(points))
	for userID, p := range points {
		fixtureID := "fx-1-1"
		teamID := "team-persija"
		if _, err := h.pickSvc.SubmitPick(ctx, PickInput{UserID: userID, FixtureID: fixtureID, TeamID: teamID}); err != nil {
			t.Fatalf("submit pick for %s: %v", userID, err)
		}
		rows = append(rows, score.GameweekScore{
			UserID:     userID,
			GameweekID: "gw-1",
			FixtureID:  fixtureID,
			TeamID:     teamID,
			Points:     p,
			IsCorrect:  p == score.PointsWin,
			ScoredAt:   h.clock,
		})
	}
	if err := h.scores.UpsertMany(ctx, rows); err != nil {
		t.Fatalf("upsert scores: %v", err)
	}
}

func TestStandingService_RefreshStandingsCompetitionRanking(t *testing.T) {
	ctx := context.Background()
	h := newPickemHarness(t)
	seedScores(t, h, map[string]int{"alice": 10, "bob": 10, "carol": 7})

	if _, err := h.standingSvc.RefreshStandings(ctx, standing.Global()); err != nil {
		t.Fatalf("refresh global: %v", err)
	}
	rows, err := h.standingSvc.ListGlobal(ctx)
	if err != nil {
		t.Fatalf("list global: %v", err)
	}

	gotRanks := []int{rows[0].CurrentRank, rows[1].CurrentRank, rows[2].CurrentRank}
	if gotRanks[0] != 1 || gotRanks[1] != 1 || gotRanks[2] != 3 {
		t.Fatalf("unexpected ranks: %v", gotRanks)
	}
	if rows[2].UserID != "carol" || rows[2].TotalPicks != 1 {
		t.Fatalf("unexpected last row: %+v", rows[2])
	}
}

func TestStandingService_RefreshAllCoversLeagues(t *testing.T) {
	ctx := context.Background()
	h := newPickemHarness(t)
	seedScores(t, h, map[string]int{"alice": 3, "bob": 1, "carol": 0})

	created, err := h.leagueSvc.Create(ctx, CreateLeagueInput{UserID: "alice", Name: "Office League"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if _, err := h.leagueSvc.Join(ctx, "bob", created.InviteCode); err != nil {
		t.Fatalf("join league: %v", err)
	}
	if _, err := h.leagueSvc.Create(ctx, CreateLeagueInput{UserID: "carol", Name: "Solo League", IsPublic: true}); err != nil {
		t.Fatalf("create second league: %v", err)
	}

	h.clock = h.clock.Add(time.Minute)
	summary, err := h.standingSvc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("refresh all: %v", err)
	}
	if summary.Global.Rows != 3 || summary.LeagueCount != 2 || summary.RefreshedRows != 3 || len(summary.FailedLeagues) != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	board, err := h.standingSvc.ListLeague(ctx, "bob", created.ID)
	if err != nil {
		t.Fatalf("list league board: %v", err)
	}
	if len(board) != 2 || board[0].UserID != "alice" || board[1].CurrentRank != 2 {
		t.Fatalf("unexpected league board: %+v", board)
	}

	if _, err := h.standingSvc.ListLeague(ctx, "carol", created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}

	mine, err := h.standingSvc.ListMine(ctx, "alice")
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected global and league rows for alice, got %+v", mine)
	}
}

func TestStandingService_EmptyLeagueClearsBoard(t *testing.T) {
	ctx := context.Background()
	h := newPickemHarness(t)

	summary, err := h.standingSvc.RefreshStandings(ctx, standing.Global())
	if err != nil {
		t.Fatalf("refresh empty global: %v", err)
	}
	if summary.Rows != 0 {
		t.Fatalf("expected empty board, got %+v", summary)
	}

	if _, err := h.standingSvc.RefreshStandings(ctx, standing.League("missing")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
