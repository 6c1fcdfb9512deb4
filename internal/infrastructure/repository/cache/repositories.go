package cache

import (
	"context"
	"strconv"

	"github.com/riskibarqy/pickem-league/internal/domain/fixture"
	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/team"
	basecache "github.com/riskibarqy/pickem-league/internal/platform/cache"
)

// Catalog reads go through the store. Writes go to next and drop every key of
// the entity so the following read reloads.

const (
	teamPrefix     = "team:"
	gameweekPrefix = "gameweek:"
	fixturePrefix  = "fixture:"
)

type lookup[T any] struct {
	value  T
	exists bool
}

func cloneSlice[T any](items []T) []T {
	return append([]T(nil), items...)
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := basecache.Load(ctx, r.cache, teamPrefix+"list", func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		return cloneSlice(items), err
	})
	if err != nil {
		return nil, err
	}
	return cloneSlice(items), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, teamID string) (team.Team, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, teamPrefix+"id:"+teamID, func(ctx context.Context) (lookup[team.Team], error) {
		item, exists, err := r.next.GetByID(ctx, teamID)
		return lookup[team.Team]{value: item, exists: exists}, err
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) UpsertMany(ctx context.Context, teams []team.Team) error {
	defer r.cache.DeletePrefix(ctx, teamPrefix)
	return r.next.UpsertMany(ctx, teams)
}

type GameweekRepository struct {
	next  gameweek.Repository
	cache *basecache.Store
}

func NewGameweekRepository(next gameweek.Repository, cache *basecache.Store) *GameweekRepository {
	return &GameweekRepository{next: next, cache: cache}
}

func (r *GameweekRepository) List(ctx context.Context) ([]gameweek.Gameweek, error) {
	items, err := basecache.Load(ctx, r.cache, gameweekPrefix+"list", func(ctx context.Context) ([]gameweek.Gameweek, error) {
		items, err := r.next.List(ctx)
		return cloneSlice(items), err
	})
	if err != nil {
		return nil, err
	}
	return cloneSlice(items), nil
}

func (r *GameweekRepository) GetByID(ctx context.Context, gameweekID string) (gameweek.Gameweek, bool, error) {
	return r.one(ctx, gameweekPrefix+"id:"+gameweekID, func(ctx context.Context) (gameweek.Gameweek, bool, error) {
		return r.next.GetByID(ctx, gameweekID)
	})
}

func (r *GameweekRepository) GetByNumber(ctx context.Context, number int) (gameweek.Gameweek, bool, error) {
	return r.one(ctx, gameweekPrefix+"number:"+strconv.Itoa(number), func(ctx context.Context) (gameweek.Gameweek, bool, error) {
		return r.next.GetByNumber(ctx, number)
	})
}

func (r *GameweekRepository) GetCurrent(ctx context.Context) (gameweek.Gameweek, bool, error) {
	return r.one(ctx, gameweekPrefix+"current", r.next.GetCurrent)
}

func (r *GameweekRepository) UpsertMany(ctx context.Context, gameweeks []gameweek.Gameweek) error {
	defer r.cache.DeletePrefix(ctx, gameweekPrefix)
	return r.next.UpsertMany(ctx, gameweeks)
}

func (r *GameweekRepository) SetCurrent(ctx context.Context, gameweekID string) error {
	defer r.cache.DeletePrefix(ctx, gameweekPrefix)
	return r.next.SetCurrent(ctx, gameweekID)
}

func (r *GameweekRepository) one(
	ctx context.Context,
	key string,
	load func(context.Context) (gameweek.Gameweek, bool, error),
) (gameweek.Gameweek, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, key, func(ctx context.Context) (lookup[gameweek.Gameweek], error) {
		item, exists, err := load(ctx)
		return lookup[gameweek.Gameweek]{value: item, exists: exists}, err
	})
	if err != nil {
		return gameweek.Gameweek{}, false, err
	}
	return cached.value, cached.exists, nil
}

type FixtureRepository struct {
	next  fixture.Repository
	cache *basecache.Store
}

func NewFixtureRepository(next fixture.Repository, cache *basecache.Store) *FixtureRepository {
	return &FixtureRepository{next: next, cache: cache}
}

func (r *FixtureRepository) ListByGameweek(ctx context.Context, gameweekID string) ([]fixture.Fixture, error) {
	items, err := basecache.Load(ctx, r.cache, fixturePrefix+"gameweek:"+gameweekID, func(ctx context.Context) ([]fixture.Fixture, error) {
		items, err := r.next.ListByGameweek(ctx, gameweekID)
		return cloneSlice(items), err
	})
	if err != nil {
		return nil, err
	}
	return cloneSlice(items), nil
}

func (r *FixtureRepository) GetByID(ctx context.Context, fixtureID string) (fixture.Fixture, bool, error) {
	cached, err := basecache.Load(ctx, r.cache, fixturePrefix+"id:"+fixtureID, func(ctx context.Context) (lookup[fixture.Fixture], error) {
		item, exists, err := r.next.GetByID(ctx, fixtureID)
		return lookup[fixture.Fixture]{value: item, exists: exists}, err
	})
	if err != nil {
		return fixture.Fixture{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *FixtureRepository) UpsertMany(ctx context.Context, fixtures []fixture.Fixture) error {
	defer r.cache.DeletePrefix(ctx, fixturePrefix)
	return r.next.UpsertMany(ctx, fixtures)
}
