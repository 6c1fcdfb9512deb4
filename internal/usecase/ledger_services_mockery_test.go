package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/jobscheduler"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/score"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	fixturemock "github.com/riskibarqy/pickem-league/internal/mocks/domain/fixture"
	gameweekmock "github.com/riskibarqy/pickem-league/internal/mocks/domain/gameweek"
	jobschedulermock "github.com/riskibarqy/pickem-league/internal/mocks/domain/jobscheduler"
	leaguemock "github.com/riskibarqy/pickem-league/internal/mocks/domain/league"
	pickmock "github.com/riskibarqy/pickem-league/internal/mocks/domain/pick"
	scoremock "github.com/riskibarqy/pickem-league/internal/mocks/domain/score"
	standingmock "github.com/riskibarqy/pickem-league/internal/mocks/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestScoringService_ScoreGameweek_WritesOnlyChangedRowsUsingMockery(t *testing.T) {
	t.Parallel()

	gameweekRepo := gameweekmock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	pickRepo := pickmock.NewRepository(t)
	scoreRepo := scoremock.NewRepository(t)
	service := NewScoringService(gameweekRepo, fixtureRepo, pickRepo, scoreRepo, logging.NewNop())

	two, zero := 2, 0
	kickoff := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)

	gameweekRepo.
		On("GetByID", mock.Anything, "gw-1").
		Return(gameweek.Gameweek{ID: "gw-1", Number: 1}, true, nil).
		Once()
	fixtureRepo.
		On("ListByGameweek", mock.Anything, "gw-1").
		Return([]fixture.Fixture{
			{ID: "fx-1", GameweekID: "gw-1", HomeTeamID: "t1", AwayTeamID: "t2", KickoffTime: kickoff, Status: fixture.StatusFinished, HomeScore: &two, AwayScore: &zero},
			{ID: "fx-2", GameweekID: "gw-1", HomeTeamID: "t3", AwayTeamID: "t4", KickoffTime: kickoff, Status: fixture.StatusScheduled},
		}, nil).
		Once()
	picks := []pick.Pick{
		{ID: "p1", UserID: "u1", GameweekID: "gw-1", FixtureID: "fx-1", TeamID: "t1"},
		{ID: "p2", UserID: "u2", GameweekID: "gw-1", FixtureID: "fx-1", TeamID: "t2"},
	}
	pickRepo.
		On("ListByGameweek", mock.Anything, "gw-1").
		Return(picks, nil).
		Once()
	pickRepo.
		On("ListByFixtures", mock.Anything, []string{"fx-1"}).
		Return(picks, nil).
		Once()
	scoreRepo.
		On("ListByGameweek", mock.Anything, "gw-1").
		Return([]score.GameweekScore{
			{UserID: "u2", GameweekID: "gw-1", PickID: "p2", FixtureID: "fx-1", TeamID: "t2", Points: score.PointsLoss},
		}, nil).
		Once()
	scoreRepo.
		On("UpsertMany", mock.Anything, mock.MatchedBy(func(rows []score.GameweekScore) bool {
			return len(rows) == 1 && rows[0].UserID == "u1" && rows[0].Points == score.PointsWin && rows[0].IsCorrect
		})).
		Return(nil).
		Once()

	summary, err := service.ScoreGameweek(context.Background(), "gw-1")
	if err != nil {
		t.Fatalf("score gameweek: %v", err)
	}
	if summary.FinishedFixtures != 1 || summary.PicksScored != 2 || summary.RowsWritten != 1 || summary.RowsDeleted != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestScoringService_ScoreGameweek_DeletesRowsOfUnfinishedFixturesUsingMockery(t *testing.T) {
	t.Parallel()

	gameweekRepo := gameweekmock.NewRepository(t)
	fixtureRepo := fixturemock.NewRepository(t)
	pickRepo := pickmock.NewRepository(t)
	scoreRepo := scoremock.NewRepository(t)
	service := NewScoringService(gameweekRepo, fixtureRepo, pickRepo, scoreRepo, logging.NewNop())

	kickoff := time.Date(2026, 9, 12, 14, 0, 0, 0, time.UTC)

	gameweekRepo.
		On("GetByID", mock.Anything, "gw-1").
		Return(gameweek.Gameweek{ID: "gw-1", Number: 1}, true, nil).
		Once()
	fixtureRepo.
		On("ListByGameweek", mock.Anything, "gw-1").
		Return([]fixture.Fixture{
			{ID: "fx-1", GameweekID: "gw-1", HomeTeamID: "t1", AwayTeamID: "t2", KickoffTime: kickoff, Status: fixture.StatusLive},
		}, nil).
		Once()
	pickRepo.
		On("ListByGameweek", mock.Anything, "gw-1").
		Return([]pick.Pick{{ID: "p1", UserID: "u1", GameweekID: "gw-1", FixtureID: "fx-1", TeamID: "t1"}}, nil).
		Once()
	scoreRepo.
		On("ListByGameweek", mock.Anything, "gw-1").
		Return([]score.GameweekScore{
			{UserID: "u1", GameweekID: "gw-1", PickID: "p1", FixtureID: "fx-1", TeamID: "t1", Points: score.PointsWin, IsCorrect: true},
		}, nil).
		Once()
	scoreRepo.
		On("DeleteMany", mock.Anything, "gw-1", []string{"u1"}).
		Return(nil).
		Once()

	summary, err := service.ScoreGameweek(context.Background(), "gw-1")
	if err != nil {
		t.Fatalf("score gameweek: %v", err)
	}
	if summary.FinishedFixtures != 0 || summary.PicksScored != 0 || summary.RowsWritten != 0 || summary.RowsDeleted != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestStandingService_ListLeague_PrivateLeagueRejectsOutsiderUsingMockery(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	service := NewStandingService(leagueRepo, pickmock.NewRepository(t), scoremock.NewRepository(t), standingmock.NewRepository(t), 2, logging.NewNop())

	leagueRepo.
		On("GetByID", mock.Anything, "lg-1").
		Return(league.League{ID: "lg-1", Name: "Office", IsPublic: false}, true, nil).
		Once()
	leagueRepo.
		On("ListMemberIDs", mock.Anything, "lg-1").
		Return([]string{"u1"}, nil).
		Once()

	if _, err := service.ListLeague(context.Background(), "u9", "lg-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestStandingService_RefreshStandings_LeagueScopeUsingMockery(t *testing.T) {
	t.Parallel()

	leagueRepo := leaguemock.NewRepository(t)
	pickRepo := pickmock.NewRepository(t)
	scoreRepo := scoremock.NewRepository(t)
	standingRepo := standingmock.NewRepository(t)
	service := NewStandingService(leagueRepo, pickRepo, scoreRepo, standingRepo, 2, logging.NewNop())

	members := []string{"u1", "u2"}
	leagueRepo.
		On("GetByID", mock.Anything, "lg-1").
		Return(league.League{ID: "lg-1", IsPublic: true}, true, nil).
		Once()
	leagueRepo.
		On("ListMemberIDs", mock.Anything, "lg-1").
		Return(members, nil).
		Once()
	pickRepo.
		On("CountPerUser", mock.Anything, members).
		Return(map[string]int{"u1": 2, "u2": 1}, nil).
		Once()
	scoreRepo.
		On("ListByUsers", mock.Anything, members).
		Return([]score.GameweekScore{
			{UserID: "u1", GameweekID: "gw-1", Points: score.PointsDraw},
			{UserID: "u2", GameweekID: "gw-1", Points: score.PointsWin, IsCorrect: true},
		}, nil).
		Once()
	standingRepo.
		On("ReplaceScope", mock.Anything, standing.League("lg-1"), mock.MatchedBy(func(rows []standing.Standing) bool {
			return len(rows) == 2 &&
				rows[0].UserID == "u2" && rows[0].CurrentRank == 1 &&
				rows[1].UserID == "u1" && rows[1].CurrentRank == 2 && rows[1].TotalPicks == 2
		})).
		Return(nil).
		Once()

	summary, err := service.RefreshStandings(context.Background(), standing.League("lg-1"))
	if err != nil {
		t.Fatalf("refresh standings: %v", err)
	}
	if summary.Rows != 2 || summary.Scope != "league:lg-1" {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestJobService_RunStandings_RecordsFailureUsingMockery(t *testing.T) {
	t.Parallel()

	pickRepo := pickmock.NewRepository(t)
	dispatchRepo := jobschedulermock.NewRepository(t)
	standingSvc := NewStandingService(leaguemock.NewRepository(t), pickRepo, scoremock.NewRepository(t), standingmock.NewRepository(t), 2, logging.NewNop())
	service := NewJobService(gameweekmock.NewRepository(t), nil, nil, standingSvc, nil, dispatchRepo, JobConfig{}, logging.NewNop())

	pickRepo.
		On("CountPerUser", mock.Anything, mock.Anything).
		Return(nil, errors.New("db down")).
		Once()
	dispatchRepo.
		On("UpsertEvent", mock.Anything, mock.MatchedBy(func(event jobscheduler.DispatchEvent) bool {
			return event.DispatchID == "dsp-7" &&
				event.JobName == jobscheduler.JobStandings &&
				event.Status == jobscheduler.StatusFailed &&
				event.ErrorMessage != ""
		})).
		Return(nil).
		Once()

	if _, err := service.RunStandings(context.Background(), JobInput{DispatchID: "dsp-7"}); err == nil {
		t.Fatalf("expected refresh error")
	}
}

func TestJobService_ListRecentEvents_ClampsLimitUsingMockery(t *testing.T) {
	t.Parallel()

	dispatchRepo := jobschedulermock.NewRepository(t)
	service := NewJobService(gameweekmock.NewRepository(t), nil, nil, nil, nil, dispatchRepo, JobConfig{}, logging.NewNop())

	dispatchRepo.
		On("ListRecent", mock.Anything, "score", 50).
		Return([]jobscheduler.DispatchEvent{{DispatchID: "dsp-1", JobName: "score", Status: jobscheduler.StatusCompleted}}, nil).
		Once()

	items, err := service.ListRecentEvents(context.Background(), " score ", 500)
	if err != nil {
		t.Fatalf("list recent events: %v", err)
	}
	if len(items) != 1 || items[0].DispatchID != "dsp-1" {
		t.Fatalf("unexpected events: %+v", items)
	}
}
