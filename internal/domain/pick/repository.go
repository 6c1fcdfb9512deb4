package pick

import "context"

// Repository is the pick ledger.
type Repository interface {
	GetByUserGameweek(ctx context.Context, userID, gameweekID string) (Pick, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Pick, error)
	ListByGameweek(ctx context.Context, gameweekID string) ([]Pick, error)
	ListByFixtures(ctx context.Context, fixtureIDs []string) ([]Pick, error)
	CountByUserTeam(ctx context.Context, userID, teamID string) (int, error)
	// CountPerUser returns picks made per user. A nil userIDs counts every user.
	CountPerUser(ctx context.Context, userIDs []string) (map[string]int, error)
	// Create inserts p atomically with the one-per-gameweek and team-cap checks.
	// It returns ErrAlreadyPicked or ErrTeamExhausted on conflict and leaves no row on failure.
	Create(ctx context.Context, p Pick, maxTeamUses int) error
	// Delete hard-deletes the user's pick for the gameweek.
	Delete(ctx context.Context, userID, gameweekID string) (bool, error)
}
