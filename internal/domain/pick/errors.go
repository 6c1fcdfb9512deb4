package pick

import "github.com/cockroachdb/errors"

// Rejection reasons. All of them are expected outcomes of a user action.
var (
	ErrFixtureNotOpen        = errors.New("fixture is not open for picks")
	ErrInvalidTeamForFixture = errors.New("team is not playing in this fixture")
	ErrDeadlinePassed        = errors.New("gameweek deadline has passed")
	ErrAlreadyPicked         = errors.New("a pick already exists for this gameweek")
	ErrTeamExhausted         = errors.New("team has already been picked the maximum number of times")
	ErrUndoWindowClosed      = errors.New("pick can no longer be undone")
)

// IsRejection reports whether err is one of the rejection reasons above.
func IsRejection(err error) bool {
	return errors.IsAny(err,
		ErrFixtureNotOpen,
		ErrInvalidTeamForFixture,
		ErrDeadlinePassed,
		ErrAlreadyPicked,
		ErrTeamExhausted,
		ErrUndoWindowClosed,
	)
}
