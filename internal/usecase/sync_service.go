package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/team"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

type ExternalTeam struct {
	ExternalID int64
	Name       string
	ShortCode  string
	LogoURL    string
}

type ExternalRound struct {
	ExternalID int64
	Number     int
}

type ExternalFixture struct {
	ExternalID         int64
	RoundNumber        int
	HomeTeamExternalID int64
	AwayTeamExternalID int64
	KickoffTime        time.Time
	Status             string
	HomeScore          *int
	AwayScore          *int
}

// CatalogProvider is the upstream source of teams, rounds and fixtures.
type CatalogProvider interface {
	FetchTeams(ctx context.Context, seasonID int64) ([]ExternalTeam, error)
	FetchRounds(ctx context.Context, seasonID int64) ([]ExternalRound, error)
	FetchFixtures(ctx context.Context, seasonID int64) ([]ExternalFixture, error)
}

type SyncSummary struct {
	SeasonID         int64             `json:"season_id"`
	Teams            int               `json:"teams"`
	Gameweeks        int               `json:"gameweeks"`
	Fixtures         int               `json:"fixtures"`
	SkippedFixtures  int               `json:"skipped_fixtures"`
	Scored           []ScoreSummary    `json:"scored"`
	StandingsRefresh RefreshAllSummary `json:"standings_refresh"`
}

type SyncService struct {
	provider     CatalogProvider
	seasonID     int64
	teamRepo     team.Repository
	gameweekRepo gameweek.Repository
	fixtureRepo  fixture.Repository
	scoringSvc   *ScoringService
	standingSvc  *StandingService
	logger       *logging.Logger
}

func NewSyncService(
	provider CatalogProvider,
	seasonID int64,
	teamRepo team.Repository,
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	scoringSvc *ScoringService,
	standingSvc *StandingService,
	logger *logging.Logger,
) *SyncService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SyncService{
		provider:     provider,
		seasonID:     seasonID,
		teamRepo:     teamRepo,
		gameweekRepo: gameweekRepo,
		fixtureRepo:  fixtureRepo,
		scoringSvc:   scoringSvc,
		standingSvc:  standingSvc,
		logger:       logger,
	}
}

// SyncCatalog pulls the season from the provider, upserts teams, gameweeks
// and fixtures in that order, then re-scores finished gameweeks and refreshes
// every standings board.
func (s *SyncService) SyncCatalog(ctx context.Context) (SyncSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncCatalog", attribute.Int64("season_id", s.seasonID))
	defer span.End()

	if s.provider == nil {
		return SyncSummary{}, fmt.Errorf("%w: catalog provider is not configured", ErrDependencyUnavailable)
	}
	if s.seasonID <= 0 {
		return SyncSummary{}, fmt.Errorf("%w: season id must be greater than zero", ErrInvalidInput)
	}

	var (
		extTeams    []ExternalTeam
		extRounds   []ExternalRound
		extFixtures []ExternalFixture
	)
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		items, err := s.provider.FetchTeams(ctx, s.seasonID)
		if err != nil {
			return fmt.Errorf("fetch teams: %w", err)
		}
		extTeams = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.provider.FetchRounds(ctx, s.seasonID)
		if err != nil {
			return fmt.Errorf("fetch rounds: %w", err)
		}
		extRounds = items
		return nil
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.provider.FetchFixtures(ctx, s.seasonID)
		if err != nil {
			return fmt.Errorf("fetch fixtures: %w", err)
		}
		extFixtures = items
		return nil
	})
	if err := p.Wait(); err != nil {
		recordSpanError(span, err)
		return SyncSummary{}, fmt.Errorf("%w: %v", ErrDependencyUnavailable, err)
	}

	summary := SyncSummary{SeasonID: s.seasonID, Scored: []ScoreSummary{}}

	teams := mapExternalTeams(extTeams)
	if err := s.teamRepo.UpsertMany(ctx, teams); err != nil {
		recordSpanError(span, err)
		return SyncSummary{}, fmt.Errorf("upsert teams: %w", err)
	}
	summary.Teams = len(teams)

	gameweeks := mapExternalRounds(extRounds, extFixtures)
	if err := s.gameweekRepo.UpsertMany(ctx, gameweeks); err != nil {
		recordSpanError(span, err)
		return SyncSummary{}, fmt.Errorf("upsert gameweeks: %w", err)
	}
	summary.Gameweeks = len(gameweeks)

	fixtures, skipped := mapExternalFixtures(extFixtures, teamIDSet(teams), gameweekIDSet(gameweeks))
	for _, item := range skipped {
		s.logger.WarnContext(ctx, "skip provider fixture", "external_id", item.ExternalID, "round", item.RoundNumber)
	}
	if err := s.fixtureRepo.UpsertMany(ctx, fixtures); err != nil {
		recordSpanError(span, err)
		return SyncSummary{}, fmt.Errorf("upsert fixtures: %w", err)
	}
	summary.Fixtures = len(fixtures)
	summary.SkippedFixtures = len(skipped)

	if s.scoringSvc != nil {
		for _, gameweekID := range gameweeksWithFinishedFixtures(fixtures) {
			scored, err := s.scoringSvc.ScoreGameweek(ctx, gameweekID)
			if err != nil {
				recordSpanError(span, err)
				return SyncSummary{}, fmt.Errorf("score gameweek=%s: %w", gameweekID, err)
			}
			summary.Scored = append(summary.Scored, scored)
		}
	}

	if s.standingSvc != nil {
		refreshed, err := s.standingSvc.RefreshAll(ctx)
		if err != nil {
			recordSpanError(span, err)
			return SyncSummary{}, fmt.Errorf("refresh standings: %w", err)
		}
		summary.StandingsRefresh = refreshed
	}

	s.logger.InfoContext(ctx, "catalog synced",
		"season_id", s.seasonID,
		"teams", summary.Teams,
		"gameweeks", summary.Gameweeks,
		"fixtures", summary.Fixtures,
		"skipped_fixtures", summary.SkippedFixtures,
	)
	return summary, nil
}

func teamIDFromExternal(externalID int64) string {
	return fmt.Sprintf("team-%d", externalID)
}

func gameweekIDFromNumber(number int) string {
	return fmt.Sprintf("gw-%d", number)
}

func fixtureIDFromExternal(externalID int64) string {
	return fmt.Sprintf("fixture-%d", externalID)
}

func mapExternalTeams(items []ExternalTeam) []team.Team {
	out := make([]team.Team, 0, len(items))
	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.ExternalID <= 0 {
			continue
		}
		if _, ok := seen[item.ExternalID]; ok {
			continue
		}
		seen[item.ExternalID] = struct{}{}

		shortCode := strings.ToUpper(strings.TrimSpace(item.ShortCode))
		if shortCode == "" {
			shortCode = deriveShortCode(item.Name)
		}
		candidate := team.Team{
			ID:            teamIDFromExternal(item.ExternalID),
			Name:          strings.TrimSpace(item.Name),
			ShortCode:     shortCode,
			LogoURL:       strings.TrimSpace(item.LogoURL),
			ExternalRefID: item.ExternalID,
		}
		if candidate.Validate() != nil {
			continue
		}
		out = append(out, candidate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExternalRefID < out[j].ExternalRefID })
	return out
}

// mapExternalRounds builds gameweeks whose deadline is the earliest kickoff
// among the round's fixtures. Rounds without a dated fixture are dropped.
func mapExternalRounds(rounds []ExternalRound, fixtures []ExternalFixture) []gameweek.Gameweek {
	earliest := make(map[int]time.Time, len(rounds))
	for _, item := range fixtures {
		if item.KickoffTime.IsZero() {
			continue
		}
		current, ok := earliest[item.RoundNumber]
		if !ok || item.KickoffTime.Before(current) {
			earliest[item.RoundNumber] = item.KickoffTime.UTC()
		}
	}

	out := make([]gameweek.Gameweek, 0, len(rounds))
	seen := make(map[int]struct{}, len(rounds))
	for _, round := range rounds {
		if _, ok := seen[round.Number]; ok {
			continue
		}
		deadline, ok := earliest[round.Number]
		if !ok {
			continue
		}
		candidate := gameweek.Gameweek{
			ID:            gameweekIDFromNumber(round.Number),
			Number:        round.Number,
			Deadline:      deadline,
			ExternalRefID: round.ExternalID,
		}
		if candidate.Validate() != nil {
			continue
		}
		seen[round.Number] = struct{}{}
		out = append(out, candidate)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

// mapExternalFixtures converts provider fixtures. A finished status without
// both scores is stored as live until the provider sends the result. Fixtures
// pointing at a team or gameweek outside this sync are skipped.
func mapExternalFixtures(items []ExternalFixture, teamIDs, gameweekIDs map[string]struct{}) ([]fixture.Fixture, []ExternalFixture) {
	out := make([]fixture.Fixture, 0, len(items))
	skipped := make([]ExternalFixture, 0)
	for _, item := range items {
		status := fixture.NormalizeStatus(item.Status)
		if status == fixture.StatusFinished && (item.HomeScore == nil || item.AwayScore == nil) {
			status = fixture.StatusLive
		}

		candidate := fixture.Fixture{
			ID:            fixtureIDFromExternal(item.ExternalID),
			GameweekID:    gameweekIDFromNumber(item.RoundNumber),
			HomeTeamID:    teamIDFromExternal(item.HomeTeamExternalID),
			AwayTeamID:    teamIDFromExternal(item.AwayTeamExternalID),
			KickoffTime:   item.KickoffTime.UTC(),
			Status:        status,
			ExternalRefID: item.ExternalID,
		}
		if status == fixture.StatusFinished {
			home, away := *item.HomeScore, *item.AwayScore
			candidate.HomeScore, candidate.AwayScore = &home, &away
		}

		_, homeKnown := teamIDs[candidate.HomeTeamID]
		_, awayKnown := teamIDs[candidate.AwayTeamID]
		_, gameweekKnown := gameweekIDs[candidate.GameweekID]
		if item.ExternalID <= 0 || !homeKnown || !awayKnown || !gameweekKnown ||
			item.KickoffTime.IsZero() || candidate.Validate() != nil {
			skipped = append(skipped, item)
			continue
		}
		out = append(out, candidate)
	}
	return out, skipped
}

func teamIDSet(items []team.Team) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item.ID] = struct{}{}
	}
	return out
}

func gameweekIDSet(items []gameweek.Gameweek) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item.ID] = struct{}{}
	}
	return out
}

func gameweeksWithFinishedFixtures(items []fixture.Fixture) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, item := range items {
		if !item.IsFinished() {
			continue
		}
		if _, ok := seen[item.GameweekID]; ok {
			continue
		}
		seen[item.GameweekID] = struct{}{}
		out = append(out, item.GameweekID)
	}
	sort.Strings(out)
	return out
}

func deriveShortCode(name string) string {
	letters := make([]rune, 0, 3)
	for _, r := range strings.ToUpper(name) {
		if r < 'A' || r > 'Z' {
			continue
		}
		letters = append(letters, r)
		if len(letters) == 3 {
			break
		}
	}
	return string(letters)
}
