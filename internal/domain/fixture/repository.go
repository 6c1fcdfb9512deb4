package fixture

import "context"

// Repository exposes fixture catalog operations.
type Repository interface {
	ListByGameweek(ctx context.Context, gameweekID string) ([]Fixture, error)
	GetByID(ctx context.Context, fixtureID string) (Fixture, bool, error)
	UpsertMany(ctx context.Context, fixtures []Fixture) error
}
