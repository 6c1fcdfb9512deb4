package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickem-league/internal/domain/pick"
)

// PickRepository keeps the ledger in memory. Every write runs under one lock,
// so Create's checks and insert form a single step.
type PickRepository struct {
	mu    sync.RWMutex
	items map[string]pick.Pick
}

func NewPickRepository() *PickRepository {
	return &PickRepository{items: make(map[string]pick.Pick)}
}

func (r *PickRepository) GetByUserGameweek(_ context.Context, userID, gameweekID string) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.UserID == userID && item.GameweekID == gameweekID {
			return item, true, nil
		}
	}
	return pick.Pick{}, false, nil
}

func (r *PickRepository) ListByUser(_ context.Context, userID string) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) ListByGameweek(_ context.Context, gameweekID string) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0)
	for _, item := range r.items {
		if item.GameweekID == gameweekID {
			out = append(out, item)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) ListByFixtures(_ context.Context, fixtureIDs []string) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[string]struct{}, len(fixtureIDs))
	for _, id := range fixtureIDs {
		wanted[id] = struct{}{}
	}

	out := make([]pick.Pick, 0)
	for _, item := range r.items {
		if _, ok := wanted[item.FixtureID]; ok {
			out = append(out, item)
		}
	}
	sortPicks(out)
	return out, nil
}

func (r *PickRepository) CountByUserTeam(_ context.Context, userID, teamID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.countUserTeam(userID, teamID), nil
}

func (r *PickRepository) CountPerUser(_ context.Context, userIDs []string) (map[string]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var wanted map[string]struct{}
	if userIDs != nil {
		wanted = make(map[string]struct{}, len(userIDs))
		for _, id := range userIDs {
			wanted[id] = struct{}{}
		}
	}

	out := make(map[string]int)
	for _, item := range r.items {
		if wanted != nil {
			if _, ok := wanted[item.UserID]; !ok {
				continue
			}
		}
		out[item.UserID]++
	}
	return out, nil
}

func (r *PickRepository) Create(_ context.Context, p pick.Pick, maxTeamUses int) error {
	if err := p.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.UserID == p.UserID && item.GameweekID == p.GameweekID {
			return pick.ErrAlreadyPicked
		}
	}
	if r.countUserTeam(p.UserID, p.TeamID) >= maxTeamUses {
		return pick.ErrTeamExhausted
	}

	r.items[p.ID] = p
	return nil
}

func (r *PickRepository) Delete(_ context.Context, userID, gameweekID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.UserID == userID && item.GameweekID == gameweekID {
			delete(r.items, id)
			return true, nil
		}
	}
	return false, nil
}

func (r *PickRepository) countUserTeam(userID, teamID string) int {
	count := 0
	for _, item := range r.items {
		if item.UserID == userID && item.TeamID == teamID {
			count++
		}
	}
	return count
}

func sortPicks(items []pick.Pick) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
