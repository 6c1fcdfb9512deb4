package usecase

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

type sequenceIDGenerator struct {
	next atomic.Int64
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("id-%04d", g.next.Add(1)), nil
}

func (g *sequenceIDGenerator) NewCode(length int) (string, error) {
	n := g.next.Add(1)
	code := fmt.Sprintf("%0*d", length, n)
	out := []byte(code)
	for i, c := range out {
		out[i] = "ABCDEFGHJK"[c-'0']
	}
	return string(out), nil
}

type pickemHarness struct {
	clock     time.Time
	gameweeks []gameweek.Gameweek

	teams      *memory.TeamRepository
	gameweekDB *memory.GameweekRepository
	fixtures   *memory.FixtureRepository
	picks      *memory.PickRepository
	scores     *memory.ScoreRepository
	standings  *memory.StandingRepository
	leagues    *memory.LeagueRepository
	dispatches *memory.JobDispatchRepository

	pickSvc     *PickService
	scoringSvc  *ScoringService
	standingSvc *StandingService
	leagueSvc   *LeagueService
}

func newPickemHarness(t *testing.T) *pickemHarness {
	t.Helper()

	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	gameweeks := memory.SeedGameweeks(start)
	h := &pickemHarness{
		clock:      start,
		gameweeks:  gameweeks,
		teams:      memory.NewTeamRepository(memory.SeedTeams()),
		gameweekDB: memory.NewGameweekRepository(gameweeks),
		fixtures:   memory.NewFixtureRepository(memory.SeedFixtures(gameweeks)),
		picks:      memory.NewPickRepository(),
		scores:     memory.NewScoreRepository(),
		standings:  memory.NewStandingRepository(),
		leagues:    memory.NewLeagueRepository(),
		dispatches: memory.NewJobDispatchRepository(),
	}

	logger := logging.NewNop()
	ids := &sequenceIDGenerator{}
	now := func() time.Time { return h.clock }

	h.pickSvc = NewPickService(h.gameweekDB, h.fixtures, h.picks, h.scores, ids, logger)
	h.pickSvc.now = now
	h.scoringSvc = NewScoringService(h.gameweekDB, h.fixtures, h.picks, h.scores, logger)
	h.scoringSvc.now = now
	h.standingSvc = NewStandingService(h.leagues, h.picks, h.scores, h.standings, 2, logger)
	h.standingSvc.now = now
	h.leagueSvc = NewLeagueService(h.leagues, h.standingSvc, ids, logger)
	h.leagueSvc.now = now

	return h
}

func intPtr(v int) *int {
	return &v
}
