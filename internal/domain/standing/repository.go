package standing

import "context"

type Repository interface {
	// ListByScope returns rows ordered by rank.
	ListByScope(ctx context.Context, scope Scope) ([]Standing, error)
	ListByUser(ctx context.Context, userID string) ([]Standing, error)
	// ReplaceScope swaps every row of scope for rows in one step.
	ReplaceScope(ctx context.Context, scope Scope, rows []Standing) error
}
