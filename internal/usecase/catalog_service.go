package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/team"
)

// CatalogService serves read-only team, gameweek and fixture data.
type CatalogService struct {
	teamRepo     team.Repository
	gameweekRepo gameweek.Repository
	fixtureRepo  fixture.Repository
}

func NewCatalogService(teamRepo team.Repository, gameweekRepo gameweek.Repository, fixtureRepo fixture.Repository) *CatalogService {
	return &CatalogService{
		teamRepo:     teamRepo,
		gameweekRepo: gameweekRepo,
		fixtureRepo:  fixtureRepo,
	}
}

func (s *CatalogService) ListTeams(ctx context.Context) ([]team.Team, error) {
	items, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	return items, nil
}

func (s *CatalogService) ListGameweeks(ctx context.Context) ([]gameweek.Gameweek, error) {
	items, err := s.gameweekRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gameweeks: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Number < items[j].Number })
	return items, nil
}

func (s *CatalogService) CurrentGameweek(ctx context.Context) (gameweek.Gameweek, error) {
	gw, exists, err := s.gameweekRepo.GetCurrent(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: no current gameweek", ErrNotFound)
	}
	return gw, nil
}

// ListFixtures lists fixtures of gameweekID, or of the current gameweek when empty.
func (s *CatalogService) ListFixtures(ctx context.Context, gameweekID string) ([]fixture.Fixture, error) {
	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		current, err := s.CurrentGameweek(ctx)
		if err != nil {
			return nil, err
		}
		gameweekID = current.ID
	} else {
		_, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
		if err != nil {
			return nil, fmt.Errorf("get gameweek: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: gameweek=%s", ErrNotFound, gameweekID)
		}
	}

	items, err := s.fixtureRepo.ListByGameweek(ctx, gameweekID)
	if err != nil {
		return nil, fmt.Errorf("list fixtures by gameweek: %w", err)
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].KickoffTime.Before(items[j].KickoffTime) })
	return items, nil
}

func (s *CatalogService) GetFixture(ctx context.Context, fixtureID string) (fixture.Fixture, error) {
	fixtureID = strings.TrimSpace(fixtureID)
	if fixtureID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture id is required", ErrInvalidInput)
	}

	item, exists, err := s.fixtureRepo.GetByID(ctx, fixtureID)
	if err != nil {
		return fixture.Fixture{}, fmt.Errorf("get fixture: %w", err)
	}
	if !exists {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture=%s", ErrNotFound, fixtureID)
	}
	return item, nil
}
