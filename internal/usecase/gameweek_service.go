package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/platform/logging"
)

// GameweekService owns the administrative move of the current-gameweek flag.
type GameweekService struct {
	gameweekRepo gameweek.Repository
	logger       *logging.Logger
}

func NewGameweekService(gameweekRepo gameweek.Repository, logger *logging.Logger) *GameweekService {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameweekService{gameweekRepo: gameweekRepo, logger: logger}
}

func (s *GameweekService) SetCurrent(ctx context.Context, gameweekID string) (gameweek.Gameweek, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GameweekService.SetCurrent")
	defer span.End()

	gameweekID = strings.TrimSpace(gameweekID)
	if gameweekID == "" {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek id is required", ErrInvalidInput)
	}

	if err := s.gameweekRepo.SetCurrent(ctx, gameweekID); err != nil {
		if errors.Is(err, gameweek.ErrNotFound) {
			return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%s", ErrNotFound, gameweekID)
		}
		recordSpanError(span, err)
		return gameweek.Gameweek{}, fmt.Errorf("set current gameweek: %w", err)
	}

	gw, exists, err := s.gameweekRepo.GetByID(ctx, gameweekID)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek=%s", ErrNotFound, gameweekID)
	}

	s.logger.InfoContext(ctx, "current gameweek set", "gameweek_id", gw.ID, "number", gw.Number)
	return gw, nil
}

// AdvanceCurrent moves the flag to the gameweek numbered one above the current one.
func (s *GameweekService) AdvanceCurrent(ctx context.Context) (gameweek.Gameweek, error) {
	current, exists, err := s.gameweekRepo.GetCurrent(ctx)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get current gameweek: %w", err)
	}

	nextNumber := gameweek.MinNumber
	if exists {
		nextNumber = current.Number + 1
	}
	if nextNumber > gameweek.MaxNumber {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek %d is the last of the season", ErrConflict, current.Number)
	}

	next, found, err := s.gameweekRepo.GetByNumber(ctx, nextNumber)
	if err != nil {
		return gameweek.Gameweek{}, fmt.Errorf("get gameweek by number: %w", err)
	}
	if !found {
		return gameweek.Gameweek{}, fmt.Errorf("%w: gameweek number=%d", ErrNotFound, nextNumber)
	}

	return s.SetCurrent(ctx, next.ID)
}
