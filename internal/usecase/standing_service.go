package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/score"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const defaultStandingWorkers = 4

type RefreshSummary struct {
	Scope string `json:"scope"`
	Rows  int    `json:"rows"`
}

type RefreshAllSummary struct {
	Global        RefreshSummary `json:"global"`
	LeagueCount   int            `json:"league_count"`
	RefreshedRows int            `json:"refreshed_rows"`
	FailedLeagues []string       `json:"failed_leagues"`
}

type StandingService struct {
	leagueRepo   league.Repository
	pickRepo     pick.Repository
	scoreRepo    score.Repository
	standingRepo standing.Repository
	workers      int
	logger       *logging.Logger
	now          func() time.Time
}

func NewStandingService(
	leagueRepo league.Repository,
	pickRepo pick.Repository,
	scoreRepo score.Repository,
	standingRepo standing.Repository,
	workers int,
	logger *logging.Logger,
) *StandingService {
	if logger == nil {
		logger = logging.Default()
	}
	if workers <= 0 {
		workers = defaultStandingWorkers
	}

	return &StandingService{
		leagueRepo:   leagueRepo,
		pickRepo:     pickRepo,
		scoreRepo:    scoreRepo,
		standingRepo: standingRepo,
		workers:      workers,
		logger:       logger,
		now:          time.Now,
	}
}

// RefreshStandings rebuilds every row of scope from scores and pick counts
// and replaces the stored rows wholesale.
func (s *StandingService) RefreshStandings(ctx context.Context, scope standing.Scope) (RefreshSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.RefreshStandings", attribute.String("scope", scope.String()))
	defer span.End()

	scope.LeagueID = strings.TrimSpace(scope.LeagueID)
	population, err := s.population(ctx, scope)
	if err != nil {
		recordSpanError(span, err)
		return RefreshSummary{}, err
	}

	var (
		scores []score.GameweekScore
		counts map[string]int
	)
	switch {
	case scope.IsGlobal():
		counts, err = s.pickRepo.CountPerUser(ctx, nil)
		if err != nil {
			recordSpanError(span, err)
			return RefreshSummary{}, fmt.Errorf("count picks per user: %w", err)
		}
		scores, err = s.scoreRepo.ListByUsers(ctx, nil)
		if err != nil {
			recordSpanError(span, err)
			return RefreshSummary{}, fmt.Errorf("list scores: %w", err)
		}
		population = make([]string, 0, len(counts))
		for userID := range counts {
			population = append(population, userID)
		}
	case len(population) > 0:
		counts, err = s.pickRepo.CountPerUser(ctx, population)
		if err != nil {
			recordSpanError(span, err)
			return RefreshSummary{}, fmt.Errorf("count picks per member: %w", err)
		}
		scores, err = s.scoreRepo.ListByUsers(ctx, population)
		if err != nil {
			recordSpanError(span, err)
			return RefreshSummary{}, fmt.Errorf("list member scores: %w", err)
		}
	}

	rows := standing.Build(scope, population, scores, counts, s.now().UTC())
	if err := s.standingRepo.ReplaceScope(ctx, scope, rows); err != nil {
		recordSpanError(span, err)
		return RefreshSummary{}, fmt.Errorf("replace standings for %s: %w", scope, err)
	}

	s.logger.InfoContext(ctx, "standings refreshed", "scope", scope.String(), "rows", len(rows))
	return RefreshSummary{Scope: scope.String(), Rows: len(rows)}, nil
}

// RefreshAll rebuilds the global board, then every league board on a worker
// pool. A failed league is reported and does not stop the others.
func (s *StandingService) RefreshAll(ctx context.Context) (RefreshAllSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingService.RefreshAll")
	defer span.End()

	global, err := s.RefreshStandings(ctx, standing.Global())
	if err != nil {
		return RefreshAllSummary{}, err
	}

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		recordSpanError(span, err)
		return RefreshAllSummary{}, fmt.Errorf("list leagues: %w", err)
	}

	result := RefreshAllSummary{
		Global:        global,
		LeagueCount:   len(leagues),
		FailedLeagues: []string{},
	}
	if len(leagues) == 0 {
		return result, nil
	}

	workers := s.workers
	if workers > len(leagues) {
		workers = len(leagues)
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return RefreshAllSummary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg       sync.WaitGroup
		rowCount atomic.Int64
		failedMu sync.Mutex
	)
	for _, item := range leagues {
		leagueID := item.ID
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()

			summary, err := s.RefreshStandings(ctx, standing.League(leagueID))
			if err != nil {
				s.logger.WarnContext(ctx, "refresh league standings failed", "league_id", leagueID, "error", err)
				failedMu.Lock()
				result.FailedLeagues = append(result.FailedLeagues, leagueID)
				failedMu.Unlock()
				return
			}
			rowCount.Add(int64(summary.Rows))
		}); err != nil {
			wg.Done()
			return RefreshAllSummary{}, fmt.Errorf("submit league refresh: %w", err)
		}
	}
	wg.Wait()

	sort.Strings(result.FailedLeagues)
	result.RefreshedRows = int(rowCount.Load())
	return result, nil
}

// ClearLeague drops every board row of a deleted league.
func (s *StandingService) ClearLeague(ctx context.Context, leagueID string) error {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if err := s.standingRepo.ReplaceScope(ctx, standing.League(leagueID), nil); err != nil {
		return fmt.Errorf("clear standings for league=%s: %w", leagueID, err)
	}
	return nil
}

func (s *StandingService) ListGlobal(ctx context.Context) ([]standing.Standing, error) {
	items, err := s.standingRepo.ListByScope(ctx, standing.Global())
	if err != nil {
		return nil, fmt.Errorf("list global standings: %w", err)
	}
	return items, nil
}

// ListLeague returns a league board. Private leagues are visible to members only.
func (s *StandingService) ListLeague(ctx context.Context, userID, leagueID string) ([]standing.Standing, error) {
	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}

	if !item.IsPublic {
		members, err := s.leagueRepo.ListMemberIDs(ctx, leagueID)
		if err != nil {
			return nil, fmt.Errorf("list league members: %w", err)
		}
		if userID == "" || !slices.Contains(members, userID) {
			return nil, fmt.Errorf("%w: not a member of league=%s", ErrForbidden, leagueID)
		}
	}

	items, err := s.standingRepo.ListByScope(ctx, standing.League(leagueID))
	if err != nil {
		return nil, fmt.Errorf("list league standings: %w", err)
	}
	return items, nil
}

func (s *StandingService) ListMine(ctx context.Context, userID string) ([]standing.Standing, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.standingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list standings by user: %w", err)
	}
	return items, nil
}

func (s *StandingService) population(ctx context.Context, scope standing.Scope) ([]string, error) {
	if scope.IsGlobal() {
		return nil, nil
	}

	_, exists, err := s.leagueRepo.GetByID(ctx, scope.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, scope.LeagueID)
	}

	members, err := s.leagueRepo.ListMemberIDs(ctx, scope.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}
	return members, nil
}
