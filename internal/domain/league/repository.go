package league

import "context"

// Repository describes league and membership persistence.
type Repository interface {
	// Create stores l together with its creator's membership.
	Create(ctx context.Context, l League, owner Member) error
	GetByID(ctx context.Context, leagueID string) (League, bool, error)
	GetByInviteCode(ctx context.Context, code string) (League, bool, error)
	List(ctx context.Context) ([]League, error)
	ListByUser(ctx context.Context, userID string) ([]League, error)
	ListMemberIDs(ctx context.Context, leagueID string) ([]string, error)
	// AddMember enforces the member cap in the same step as the insert and
	// returns ErrLeagueFull or ErrAlreadyMember.
	AddMember(ctx context.Context, l League, m Member) error
	RemoveMember(ctx context.Context, leagueID, userID string) (bool, error)
	Delete(ctx context.Context, leagueID string) error
}
