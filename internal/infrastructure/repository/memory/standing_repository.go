package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickem-league/internal/domain/standing"
)

type StandingRepository struct {
	mu      sync.RWMutex
	byScope map[string][]standing.Standing
}

func NewStandingRepository() *StandingRepository {
	return &StandingRepository{byScope: make(map[string][]standing.Standing)}
}

func (r *StandingRepository) ListByScope(_ context.Context, scope standing.Scope) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows := r.byScope[scope.LeagueID]
	out := make([]standing.Standing, 0, len(rows))
	out = append(out, rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CurrentRank != out[j].CurrentRank {
			return out[i].CurrentRank < out[j].CurrentRank
		}
		if out[i].CorrectPicks != out[j].CorrectPicks {
			return out[i].CorrectPicks > out[j].CorrectPicks
		}
		return out[i].UserID < out[j].UserID
	})
	return out, nil
}

func (r *StandingRepository) ListByUser(_ context.Context, userID string) ([]standing.Standing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]standing.Standing, 0)
	for _, rows := range r.byScope {
		for _, row := range rows {
			if row.UserID == userID {
				out = append(out, row)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeagueID < out[j].LeagueID })
	return out, nil
}

func (r *StandingRepository) ReplaceScope(_ context.Context, scope standing.Scope, rows []standing.Standing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(rows) == 0 {
		delete(r.byScope, scope.LeagueID)
		return nil
	}
	copied := make([]standing.Standing, len(rows))
	copy(copied, rows)
	r.byScope[scope.LeagueID] = copied
	return nil
}
