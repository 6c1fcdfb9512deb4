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
	idgen "github.com/riskibarqy/pickem-league/internal/platform/id"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type PickInput struct {
	UserID    string
	FixtureID string
	TeamID    string
}

// PickDecision is the outcome of a proposal. Reason is nil when Allowed.
type PickDecision struct {
	Allowed  bool
	Reason   error
	Fixture  fixture.Fixture
	Gameweek gameweek.Gameweek
}

type PickView struct {
	Pick     pick.Pick
	Gameweek gameweek.Gameweek
	State    pick.State
	Score    *score.GameweekScore
}

type TeamUsage struct {
	TeamID    string
	Used      int
	Remaining int
}

type PickService struct {
	gameweekRepo gameweek.Repository
	fixtureRepo  fixture.Repository
	pickRepo     pick.Repository
	scoreRepo    score.Repository
	idGen        idgen.Generator
	logger       *logging.Logger
	now          func() time.Time
}

func NewPickService(
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	pickRepo pick.Repository,
	scoreRepo score.Repository,
	idGen idgen.Generator,
	logger *logging.Logger,
) *PickService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}

	return &PickService{
		gameweekRepo: gameweekRepo,
		fixtureRepo:  fixtureRepo,
		pickRepo:     pickRepo,
		scoreRepo:    scoreRepo,
		idGen:        idGen,
		logger:       logger,
		now:          time.Now,
	}
}

// ProposePick runs the eligibility checks without writing anything.
// Rejections are reported in the decision, not as an error.
func (s *PickService) ProposePick(ctx context.Context, input PickInput) (PickDecision, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ProposePick",
		attribute.String("fixture_id", input.FixtureID),
		attribute.String("team_id", input.TeamID),
	)
	defer span.End()

	input, err := normalizePickInput(input)
	if err != nil {
		return PickDecision{}, err
	}

	facts, err := s.gatherFacts(ctx, input)
	if err != nil {
		recordSpanError(span, err)
		return PickDecision{}, err
	}

	decision := PickDecision{
		Fixture:  facts.Fixture,
		Gameweek: facts.Current,
	}
	if reason := pick.Evaluate(facts, input.TeamID); reason != nil {
		decision.Reason = reason
		return decision, nil
	}

	decision.Allowed = true
	return decision, nil
}

// SubmitPick re-validates eligibility and writes the pick. The repository
// repeats the one-per-gameweek and team-cap checks inside its insert.
func (s *PickService) SubmitPick(ctx context.Context, input PickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.SubmitPick",
		attribute.String("fixture_id", input.FixtureID),
		attribute.String("team_id", input.TeamID),
	)
	defer span.End()

	input, err := normalizePickInput(input)
	if err != nil {
		return pick.Pick{}, err
	}

	facts, err := s.gatherFacts(ctx, input)
	if err != nil {
		recordSpanError(span, err)
		return pick.Pick{}, err
	}
	if reason := pick.Evaluate(facts, input.TeamID); reason != nil {
		return pick.Pick{}, reason
	}

	pickID, err := s.idGen.NewID()
	if err != nil {
		return pick.Pick{}, fmt.Errorf("generate pick id: %w", err)
	}

	item := pick.Pick{
		ID:         pickID,
		UserID:     input.UserID,
		GameweekID: facts.Current.ID,
		FixtureID:  facts.Fixture.ID,
		TeamID:     input.TeamID,
		CreatedAt:  facts.Now.UTC(),
	}
	if err := s.pickRepo.Create(ctx, item, pick.MaxTeamUses); err != nil {
		if pick.IsRejection(err) {
			return pick.Pick{}, err
		}
		recordSpanError(span, err)
		return pick.Pick{}, fmt.Errorf("create pick: %w", err)
	}

	s.logger.InfoContext(ctx, "pick submitted",
		"user_id", item.UserID,
		"gameweek_id", item.GameweekID,
		"fixture_id", item.FixtureID,
		"team_id", item.TeamID,
	)

	return item, nil
}

// UndoPick hard-deletes the user's pick while the gameweek is still open.
func (s *PickService) UndoPick(ctx context.Context, userID, gameweekID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.UndoPick", attribute.String("gameweek_id", gameweekID))
	defer span.End()

	userID = strings.TrimSpace(userID)
	gameweekID = strings.TrimSpace(gameweekID)
	if userID == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if gameweekID == "" {
		return fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: gameweek=%s", ErrNotFound, gameweekID)
	}
	if err := pick.CanUndo(gw, s.now()); err != nil {
		return err
	}

	deleted, err := s.pickRepo.Delete(ctx, userID, gameweekID)
	if err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("delete pick: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: no pick for gameweek=%s", ErrNotFound, gameweekID)
	}

	s.logger.InfoContext(ctx, "pick undone", "user_id", userID, "gameweek_id", gameweekID)
	return nil
}

func (s *PickService) ListUserPicks(ctx context.Context, userID string) ([]PickView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListUserPicks")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	picks, err := s.pickRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list picks by user: %w", err)
	}
	gameweeks, err := s.gameweekRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gameweeks: %w", err)
	}
	scores, err := s.scoreRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list scores by user: %w", err)
	}

	gameweekByID := make(map[string]gameweek.Gameweek, len(gameweeks))
	for _, gw := range gameweeks {
		gameweekByID[gw.ID] = gw
	}
	scoreByGameweek := make(map[string]score.GameweekScore, len(scores))
	for _, sc := range scores {
		scoreByGameweek[sc.GameweekID] = sc
	}

	now := s.now()
	out := make([]PickView, 0, len(picks))
	for _, p := range picks {
		gw := gameweekByID[p.GameweekID]
		view := PickView{
			Pick:     p,
			Gameweek: gw,
			State:    pick.StateOf(gw, true, now),
		}
		if sc, ok := scoreByGameweek[p.GameweekID]; ok && sc.PickID == p.ID {
			sc := sc
			view.Score = &sc
		}
		out = append(out, view)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Gameweek.Number < out[j].Gameweek.Number
	})
	return out, nil
}

// TeamUsage lists teams the user has picked with the uses left on each.
func (s *PickService) TeamUsage(ctx context.Context, userID string) ([]TeamUsage, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.TeamUsage", attribute.String("user_id", userID))
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	picks, err := s.pickRepo.ListByUser(ctx, userID)
	if err != nil {
		recordSpanError(span, err)
		return nil, fmt.Errorf("list picks by user: %w", err)
	}

	used := make(map[string]int)
	for _, p := range picks {
		used[p.TeamID]++
	}
	remaining := pick.RemainingUses(used)

	out := make([]TeamUsage, 0, len(used))
	for teamID, n := range used {
		out = append(out, TeamUsage{TeamID: teamID, Used: n, Remaining: remaining[teamID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TeamID < out[j].TeamID })

	return out, nil
}

func (s *PickService) gatherFacts(ctx context.Context, input PickInput) (pick.Facts, error) {
	facts := pick.Facts{Now: s.now()}

	fx, found, err := s.fixtureRepo.GetByID(ctx, input.FixtureID)
	if err != nil {
		return pick.Facts{}, fmt.Errorf("get fixture: %w", err)
	}
	facts.Fixture, facts.FixtureFound = fx, found

	current, hasCurrent, err := s.gameweekRepo.GetCurrent(ctx)
	if err != nil {
		return pick.Facts{}, fmt.Errorf("get current gameweek: %w", err)
	}
	facts.Current, facts.HasCurrent = current, hasCurrent

	if !found || !hasCurrent || fx.GameweekID != current.ID || !fx.HasTeam(input.TeamID) {
		return facts, nil
	}

	_, hasPick, err := s.pickRepo.GetByUserGameweek(ctx, input.UserID, current.ID)
	if err != nil {
		return pick.Facts{}, fmt.Errorf("get pick for gameweek: %w", err)
	}
	facts.HasPickForGameweek = hasPick

	uses, err := s.pickRepo.CountByUserTeam(ctx, input.UserID, input.TeamID)
	if err != nil {
		return pick.Facts{}, fmt.Errorf("count team uses: %w", err)
	}
	facts.TeamUses = uses

	return facts, nil
}

func normalizePickInput(input PickInput) (PickInput, error) {
	input.UserID = strings.TrimSpace(input.UserID)
	input.FixtureID = strings.TrimSpace(input.FixtureID)
	input.TeamID = strings.TrimSpace(input.TeamID)

	switch {
	case input.UserID == "":
		return PickInput{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	case input.FixtureID == "":
		return PickInput{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	case input.TeamID == "":
		return PickInput{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}

	return input, nil
}
