package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/pick"
	"github.com/riskibarqy/pickem-league/internal/domain/score"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type ScoreSummary struct {
	GameweekID       string `json:"gameweek_id"`
	FinishedFixtures int    `json:"finished_fixtures"`
	PicksScored      int    `json:"picks_scored"`
	RowsWritten      int    `json:"rows_written"`
	RowsDeleted      int    `json:"rows_deleted"`
}

type ScoringService struct {
	gameweekRepo gameweek.Repository
	fixtureRepo  fixture.Repository
	pickRepo     pick.Repository
	scoreRepo    score.Repository
	logger       *logging.Logger
	now          func() time.Time
}

func NewScoringService(
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	pickRepo pick.Repository,
	scoreRepo score.Repository,
	logger *logging.Logger,
) *ScoringService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ScoringService{
		gameweekRepo: gameweekRepo,
		fixtureRepo:  fixtureRepo,
		pickRepo:     pickRepo,
		scoreRepo:    scoreRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// ScoreGameweek converges the gameweek's score rows on its picks. A pick is
// scored against its own fixture even when that fixture has moved to another
// round, and rows of picks whose fixture is no longer finished are removed.
// Picks of other gameweeks that sit on this gameweek's finished fixtures are
// scored under their own gameweek. Unchanged rows are not rewritten, so
// repeated runs over the same fixture data leave the table untouched.
func (s *ScoringService) ScoreGameweek(ctx context.Context, gameweekID string) (ScoreSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScoringService.ScoreGameweek", attribute.String("gameweek_id", gameweekID))
	defer span.End()

	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		return ScoreSummary{}, fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}

	_, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		recordSpanError(span, err)
		return ScoreSummary{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return ScoreSummary{}, fmt.Errorf("%w: gameweek=%s", ErrNotFound, gameweekID)
	}

	summary := ScoreSummary{GameweekID: gameweekID}

	fixtures, err := s.fixtureRepo.ListByGameweek(ctx, gameweekID)
	if err != nil {
		recordSpanError(span, err)
		return ScoreSummary{}, fmt.Errorf("list fixtures by gameweek: %w", err)
	}

	fixtureByID := make(map[string]fixture.Fixture, len(fixtures))
	finishedIDs := make([]string, 0, len(fixtures))
	for _, fx := range fixtures {
		fixtureByID[fx.ID] = fx
		if fx.IsFinished() {
			finishedIDs = append(finishedIDs, fx.ID)
		}
	}
	summary.FinishedFixtures = len(finishedIDs)

	picks, err := s.collectPicks(ctx, gameweekID, finishedIDs)
	if err != nil {
		recordSpanError(span, err)
		return ScoreSummary{}, err
	}

	now := s.now().UTC()
	desired := make(map[string][]score.GameweekScore)
	for _, p := range picks {
		fx, ok := fixtureByID[p.FixtureID]
		if !ok {
			found, exists, err := s.fixtureRepo.GetByID(ctx, p.FixtureID)
			if err != nil {
				recordSpanError(span, err)
				return ScoreSummary{}, fmt.Errorf("get fixture=%s: %w", p.FixtureID, err)
			}
			if exists {
				fx = found
			}
			fixtureByID[p.FixtureID] = fx
		}
		sc, ok := score.ForPick(p, fx, now)
		if !ok {
			continue
		}
		summary.PicksScored++
		desired[sc.GameweekID] = append(desired[sc.GameweekID], sc)
	}

	gameweekIDs := make([]string, 0, len(desired)+1)
	gameweekIDs = append(gameweekIDs, gameweekID)
	for id := range desired {
		if id != gameweekID {
			gameweekIDs = append(gameweekIDs, id)
		}
	}
	sort.Strings(gameweekIDs[1:])

	changed := make([]score.GameweekScore, 0, len(picks))
	stale := make([]string, 0)
	for _, id := range gameweekIDs {
		existing, err := s.scoreRepo.ListByGameweek(ctx, id)
		if err != nil {
			recordSpanError(span, err)
			return ScoreSummary{}, fmt.Errorf("list gameweek scores gameweek=%s: %w", id, err)
		}
		existingByUser := make(map[string]score.GameweekScore, len(existing))
		for _, sc := range existing {
			existingByUser[sc.UserID] = sc
		}

		wanted := make(map[string]struct{}, len(desired[id]))
		for _, sc := range desired[id] {
			wanted[sc.UserID] = struct{}{}
			if prev, ok := existingByUser[sc.UserID]; ok && score.SameResult(prev, sc) {
				continue
			}
			changed = append(changed, sc)
		}

		// Only the requested gameweek is pruned; other rounds converge when
		// they are scored themselves.
		if id != gameweekID {
			continue
		}
		for _, sc := range existing {
			if _, ok := wanted[sc.UserID]; !ok {
				stale = append(stale, sc.UserID)
			}
		}
	}

	if len(changed) > 0 {
		if err := s.scoreRepo.UpsertMany(ctx, changed); err != nil {
			recordSpanError(span, err)
			return ScoreSummary{}, fmt.Errorf("upsert gameweek scores: %w", err)
		}
	}
	summary.RowsWritten = len(changed)

	if len(stale) > 0 {
		sort.Strings(stale)
		if err := s.scoreRepo.DeleteMany(ctx, gameweekID, stale); err != nil {
			recordSpanError(span, err)
			return ScoreSummary{}, fmt.Errorf("delete stale gameweek scores: %w", err)
		}
	}
	summary.RowsDeleted = len(stale)

	s.logger.InfoContext(ctx, "gameweek scored",
		"gameweek_id", gameweekID,
		"finished_fixtures", summary.FinishedFixtures,
		"picks_scored", summary.PicksScored,
		"rows_written", summary.RowsWritten,
		"rows_deleted", summary.RowsDeleted,
	)

	return summary, nil
}

// collectPicks merges the gameweek's own picks with every pick placed on one
// of its finished fixtures, deduplicated by pick id.
func (s *ScoringService) collectPicks(ctx context.Context, gameweekID string, finishedIDs []string) ([]pick.Pick, error) {
	own, err := s.pickRepo.ListByGameweek(ctx, gameweekID)
	if err != nil {
		return nil, fmt.Errorf("list picks by gameweek: %w", err)
	}

	var onFixtures []pick.Pick
	if len(finishedIDs) > 0 {
		onFixtures, err = s.pickRepo.ListByFixtures(ctx, finishedIDs)
		if err != nil {
			return nil, fmt.Errorf("list picks by fixtures: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(own)+len(onFixtures))
	out := make([]pick.Pick, 0, len(own)+len(onFixtures))
	for _, group := range [][]pick.Pick{own, onFixtures} {
		for _, p := range group {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

// ListUserScores returns the user's scored gameweeks.
func (s *ScoringService) ListUserScores(ctx context.Context, userID string) ([]score.GameweekScore, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.scoreRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scores by user: %w", err)
	}
	return items, nil
}
