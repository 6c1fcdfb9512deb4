package score

import "context"

type Repository interface {
	// UpsertMany writes scores keyed by (user, gameweek), overwriting earlier values.
	UpsertMany(ctx context.Context, scores []GameweekScore) error
	// DeleteMany removes the given users' rows for one gameweek.
	DeleteMany(ctx context.Context, gameweekID string, userIDs []string) error
	ListByGameweek(ctx context.Context, gameweekID string) ([]GameweekScore, error)
	ListByUser(ctx context.Context, userID string) ([]GameweekScore, error)
	// ListByUsers returns scores for the given users. A nil userIDs returns every score.
	ListByUsers(ctx context.Context, userIDs []string) ([]GameweekScore, error)
}
