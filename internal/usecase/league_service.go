package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/league"
	"github.com/riskibarqy/pickem-league/internal/domain/standing"
	idgen "github.com/riskibarqy/pickem-league/internal/platform/id"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type CreateLeagueInput struct {
	UserID     string
	Name       string
	MaxMembers *int
	IsPublic   bool
}

type LeagueView struct {
	League      league.League
	MemberCount int
}

// standingsRefresher is the part of StandingService league changes need.
type standingsRefresher interface {
	RefreshStandings(ctx context.Context, scope standing.Scope) (RefreshSummary, error)
	ClearLeague(ctx context.Context, leagueID string) error
}

type LeagueService struct {
	leagueRepo league.Repository
	standings  standingsRefresher
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	standings standingsRefresher,
	idGen idgen.Generator,
	logger *logging.Logger,
) *LeagueService {
	if logger == nil {
		logger = logging.Default()
	}
	if idGen == nil {
		idGen = idgen.NewRandomGenerator()
	}

	return &LeagueService{
		leagueRepo: leagueRepo,
		standings:  standings,
		idGen:      idGen,
		logger:     logger,
		now:        time.Now,
	}
}

// Create stores a league with the creator as its first member.
func (s *LeagueService) Create(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Create")
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	code, err := s.idGen.NewCode(league.InviteCodeLength)
	if err != nil {
		return league.League{}, fmt.Errorf("generate invite code: %w", err)
	}

	now := s.now().UTC()
	item := league.League{
		ID:            leagueID,
		Name:          strings.TrimSpace(input.Name),
		CreatorUserID: userID,
		MaxMembers:    input.MaxMembers,
		IsPublic:      input.IsPublic,
		InviteCode:    code,
		CreatedAt:     now,
	}
	if err := item.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	owner := league.Member{LeagueID: item.ID, UserID: userID, JoinedAt: now}
	if err := s.leagueRepo.Create(ctx, item, owner); err != nil {
		if isDuplicateConstraintError(err) {
			return league.League{}, fmt.Errorf("%w: invite code collision, retry", ErrConflict)
		}
		recordSpanError(span, err)
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	s.refresh(ctx, item.ID)
	s.logger.InfoContext(ctx, "league created", "league_id", item.ID, "creator_user_id", userID)
	return item, nil
}

// Join adds the user to the league behind inviteCode.
func (s *LeagueService) Join(ctx context.Context, userID, inviteCode string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Join")
	defer span.End()

	userID = strings.TrimSpace(userID)
	inviteCode = league.NormalizeInviteCode(inviteCode)
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if inviteCode == "" {
		return league.League{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByInviteCode(ctx, inviteCode)
	if err != nil {
		recordSpanError(span, err)
		return league.League{}, fmt.Errorf("get league by invite code: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: invite code=%s", ErrNotFound, inviteCode)
	}
	span.SetAttributes(attribute.String("league_id", item.ID))

	member := league.Member{LeagueID: item.ID, UserID: userID, JoinedAt: s.now().UTC()}
	if err := s.leagueRepo.AddMember(ctx, item, member); err != nil {
		switch {
		case errors.Is(err, league.ErrLeagueFull), errors.Is(err, league.ErrAlreadyMember):
			return league.League{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		recordSpanError(span, err)
		return league.League{}, fmt.Errorf("add league member: %w", err)
	}

	s.refresh(ctx, item.ID)
	s.logger.InfoContext(ctx, "league joined", "league_id", item.ID, "user_id", userID)
	return item, nil
}

// Leave removes a member. The creator cannot leave; they delete the league instead.
func (s *LeagueService) Leave(ctx context.Context, userID, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Leave", attribute.String("league_id", leagueID))
	defer span.End()

	item, err := s.get(ctx, userID, leagueID)
	if err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)
	if item.CreatorUserID == userID {
		return fmt.Errorf("%w: league creator cannot leave, delete the league instead", ErrConflict)
	}

	removed, err := s.leagueRepo.RemoveMember(ctx, item.ID, userID)
	if err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("remove league member: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: not a member of league=%s", ErrNotFound, item.ID)
	}

	s.refresh(ctx, item.ID)
	s.logger.InfoContext(ctx, "league left", "league_id", item.ID, "user_id", userID)
	return nil
}

func (s *LeagueService) ListMine(ctx context.Context, userID string) ([]league.League, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.leagueRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	return items, nil
}

// Get returns a league with its member count. Private leagues are visible to members only.
func (s *LeagueService) Get(ctx context.Context, userID, leagueID string) (LeagueView, error) {
	item, err := s.get(ctx, userID, leagueID)
	if err != nil {
		return LeagueView{}, err
	}

	members, err := s.leagueRepo.ListMemberIDs(ctx, item.ID)
	if err != nil {
		return LeagueView{}, fmt.Errorf("list league members: %w", err)
	}
	if !item.IsPublic && !containsMember(members, strings.TrimSpace(userID)) {
		return LeagueView{}, fmt.Errorf("%w: not a member of league=%s", ErrForbidden, item.ID)
	}

	return LeagueView{League: item, MemberCount: len(members)}, nil
}

// Delete removes the league, its members and its standings. Creator only.
func (s *LeagueService) Delete(ctx context.Context, userID, leagueID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.Delete", attribute.String("league_id", leagueID))
	defer span.End()

	item, err := s.get(ctx, userID, leagueID)
	if err != nil {
		return err
	}
	if item.CreatorUserID != strings.TrimSpace(userID) {
		return fmt.Errorf("%w: only the creator can delete league=%s", ErrForbidden, item.ID)
	}

	if err := s.leagueRepo.Delete(ctx, item.ID); err != nil {
		recordSpanError(span, err)
		return fmt.Errorf("delete league: %w", err)
	}
	if s.standings != nil {
		if err := s.standings.ClearLeague(ctx, item.ID); err != nil {
			recordSpanError(span, err)
			return fmt.Errorf("clear league standings: %w", err)
		}
	}

	s.logger.InfoContext(ctx, "league deleted", "league_id", item.ID, "user_id", item.CreatorUserID)
	return nil
}

func (s *LeagueService) get(ctx context.Context, userID, leagueID string) (league.League, error) {
	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	item, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	return item, nil
}

// refresh rebuilds the league board after a membership change. Failure is
// logged only; the next scheduled standings job repairs the board.
func (s *LeagueService) refresh(ctx context.Context, leagueID string) {
	if s.standings == nil {
		return
	}
	if _, err := s.standings.RefreshStandings(ctx, standing.League(leagueID)); err != nil {
		s.logger.WarnContext(ctx, "refresh league standings failed", "league_id", leagueID, "error", err)
	}
}

func containsMember(members []string, userID string) bool {
	if userID == "" {
		return false
	}
	for _, m := range members {
		if m == userID {
			return true
		}
	}
	return false
}
