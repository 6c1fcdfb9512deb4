package gameweek

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	MinNumber = 1
	MaxNumber = 38
)

var ErrNotFound = errors.New("gameweek not found")

// Gameweek is one scheduling round. Deadline is the earliest kickoff in the
// round and is the single cutoff for every pick and undo in it.
type Gameweek struct {
	ID            string
	Number        int
	Deadline      time.Time
	IsCurrent     bool
	ExternalRefID int64
}

func (g Gameweek) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("gameweek id is required")
	}
	if g.Number < MinNumber || g.Number > MaxNumber {
		return fmt.Errorf("gameweek number must be between %d and %d", MinNumber, MaxNumber)
	}
	if g.Deadline.IsZero() {
		return fmt.Errorf("gameweek deadline is required")
	}

	return nil
}

// IsOpen reports whether picks may still change. The deadline itself is closed.
func (g Gameweek) IsOpen(now time.Time) bool {
	return now.Before(g.Deadline)
}
