package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu    sync.RWMutex
	items map[string]gameweek.Gameweek
}

func NewGameweekRepository(gameweeks []gameweek.Gameweek) *GameweekRepository {
	items := make(map[string]gameweek.Gameweek, len(gameweeks))
	for _, item := range gameweeks {
		items[item.ID] = item
	}

	return &GameweekRepository{items: items}
}

func (r *GameweekRepository) List(_ context.Context) ([]gameweek.Gameweek, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Gameweek, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

func (r *GameweekRepository) GetByID(_ context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[gameweekID]
	return item, ok, nil
}

func (r *GameweekRepository) GetByNumber(_ context.Context, number int) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.Number == number {
			return item, true, nil
		}
	}
	return gameweek.Gameweek{}, false, nil
}

func (r *GameweekRepository) GetCurrent(_ context.Context) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.IsCurrent {
			return item, true, nil
		}
	}
	return gameweek.Gameweek{}, false, nil
}

func (r *GameweekRepository) UpsertMany(_ context.Context, items []gameweek.Gameweek) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			continue
		}
		existing, ok := r.items[item.ID]
		item.IsCurrent = ok && existing.IsCurrent
		r.items[item.ID] = item
	}

	return nil
}

func (r *GameweekRepository) SetCurrent(_ context.Context, gameweekID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[gameweekID]; !ok {
		return gameweek.ErrNotFound
	}
	for id, item := range r.items {
		item.IsCurrent = id == gameweekID
		r.items[id] = item
	}

	return nil
}
