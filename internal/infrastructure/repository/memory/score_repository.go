package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/pickem-league/internal/domain/score"
)

type ScoreRepository struct {
	mu    sync.RWMutex
	items map[scoreKey]score.GameweekScore
}

type scoreKey struct {
	userID     string
	gameweekID string
}

func NewScoreRepository() *ScoreRepository {
	return &ScoreRepository{items: make(map[scoreKey]score.GameweekScore)}
}

func (r *ScoreRepository) UpsertMany(_ context.Context, scores []score.GameweekScore) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range scores {
		r.items[scoreKey{userID: item.UserID, gameweekID: item.GameweekID}] = item
	}
	return nil
}

func (r *ScoreRepository) DeleteMany(_ context.Context, gameweekID string, userIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, userID := range userIDs {
		delete(r.items, scoreKey{userID: userID, gameweekID: gameweekID})
	}
	return nil
}

func (r *ScoreRepository) ListByGameweek(_ context.Context, gameweekID string) ([]score.GameweekScore, error) {
	return r.filter(func(item score.GameweekScore) bool { return item.GameweekID == gameweekID }), nil
}

func (r *ScoreRepository) ListByUser(_ context.Context, userID string) ([]score.GameweekScore, error) {
	return r.filter(func(item score.GameweekScore) bool { return item.UserID == userID }), nil
}

func (r *ScoreRepository) ListByUsers(_ context.Context, userIDs []string) ([]score.GameweekScore, error) {
	if userIDs == nil {
		return r.filter(func(score.GameweekScore) bool { return true }), nil
	}

	wanted := make(map[string]struct{}, len(userIDs))
	for _, id := range userIDs {
		wanted[id] = struct{}{}
	}
	return r.filter(func(item score.GameweekScore) bool {
		_, ok := wanted[item.UserID]
		return ok
	}), nil
}

func (r *ScoreRepository) filter(keep func(score.GameweekScore) bool) []score.GameweekScore {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]score.GameweekScore, 0)
	for _, item := range r.items {
		if keep(item) {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID == out[j].UserID {
			return out[i].GameweekID < out[j].GameweekID
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}
