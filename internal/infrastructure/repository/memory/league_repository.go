package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickem-league/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	items   map[string]league.League
	members map[string]map[string]league.Member
}

func NewLeagueRepository() *LeagueRepository {
	return &LeagueRepository{
		items:   make(map[string]league.League),
		members: make(map[string]map[string]league.Member),
	}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League, owner league.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range r.items {
		if item.ID == l.ID || item.InviteCode == l.InviteCode {
			return errDuplicateKey
		}
	}

	r.items[l.ID] = l
	r.members[l.ID] = map[string]league.Member{owner.UserID: owner}
	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[leagueID]
	return item, ok, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, code string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.InviteCode == code {
			return item, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sortLeagues(out)
	return out, nil
}

func (r *LeagueRepository) ListByUser(_ context.Context, userID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for leagueID, members := range r.members {
		if _, ok := members[userID]; ok {
			out = append(out, r.items[leagueID])
		}
	}
	sortLeagues(out)
	return out, nil
}

func (r *LeagueRepository) ListMemberIDs(_ context.Context, leagueID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.members[leagueID]
	out := make([]string, 0, len(members))
	for userID := range members {
		out = append(out, userID)
	}
	sort.Strings(out)
	return out, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, l league.League, m league.Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.members[l.ID]
	if !ok {
		members = make(map[string]league.Member)
		r.members[l.ID] = members
	}
	if _, exists := members[m.UserID]; exists {
		return league.ErrAlreadyMember
	}
	if !l.HasRoomFor(len(members)) {
		return league.ErrLeagueFull
	}

	members[m.UserID] = m
	return nil
}

func (r *LeagueRepository) RemoveMember(_ context.Context, leagueID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.members[leagueID]
	if _, ok := members[userID]; !ok {
		return false, nil
	}
	delete(members, userID)
	return true, nil
}

func (r *LeagueRepository) Delete(_ context.Context, leagueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.items, leagueID)
	delete(r.members, leagueID)
	return nil
}

func sortLeagues(items []league.League) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
