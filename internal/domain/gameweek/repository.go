package gameweek

import "context"

type Repository interface {
	List(ctx context.Context) ([]Gameweek, error)
	GetByID(ctx context.Context, gameweekID string) (Gameweek, bool, error)
	GetByNumber(ctx context.Context, number int) (Gameweek, bool, error)
	GetCurrent(ctx context.Context) (Gameweek, bool, error)
	// UpsertMany writes number and deadline. It never changes IsCurrent.
	UpsertMany(ctx context.Context, gameweeks []Gameweek) error
	// SetCurrent moves the current flag to gameweekID in one step.
	// Returns ErrNotFound when the gameweek does not exist.
	SetCurrent(ctx context.Context, gameweekID string) error
}
