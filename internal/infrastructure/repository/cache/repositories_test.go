package cache

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/pickem-league/internal/domain/gameweek"
	"github.com/riskibarqy/pickem-league/internal/domain/team"
	gameweekmock "github.com/riskibarqy/pickem-league/internal/mocks/domain/gameweek"
	teammock "github.com/riskibarqy/pickem-league/internal/mocks/domain/team"
	basecache "github.com/riskibarqy/pickem-league/internal/platform/cache"
	"github.com/stretchr/testify/mock"
)

func TestTeamRepository_ListIsCachedUntilUpsert(t *testing.T) {
	ctx := context.Background()
	next := teammock.NewRepository(t)
	repo := NewTeamRepository(next, basecache.NewStore(time.Minute))

	first := []team.Team{{ID: "team-persija", Name: "Persija Jakarta", ShortCode: "PSJ"}}
	next.On("List", mock.Anything).Return(first, nil).Once()

	for i := 0; i < 3; i++ {
		items, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("list teams: %v", err)
		}
		if len(items) != 1 {
			t.Fatalf("unexpected teams: %+v", items)
		}
	}

	next.On("UpsertMany", mock.Anything, mock.Anything).Return(nil).Once()
	if err := repo.UpsertMany(ctx, first); err != nil {
		t.Fatalf("upsert teams: %v", err)
	}

	second := append(first, team.Team{ID: "team-persib", Name: "Persib Bandung", ShortCode: "PSB"})
	next.On("List", mock.Anything).Return(second, nil).Once()
	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list teams after upsert: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected reload after upsert, got %+v", items)
	}
}

func TestGameweekRepository_SetCurrentInvalidates(t *testing.T) {
	ctx := context.Background()
	next := gameweekmock.NewRepository(t)
	repo := NewGameweekRepository(next, basecache.NewStore(time.Minute))

	next.On("GetCurrent", mock.Anything).Return(gameweek.Gameweek{ID: "gw-1", Number: 1, IsCurrent: true}, true, nil).Once()
	for i := 0; i < 2; i++ {
		gw, ok, err := repo.GetCurrent(ctx)
		if err != nil || !ok || gw.ID != "gw-1" {
			t.Fatalf("unexpected current: %+v ok=%v err=%v", gw, ok, err)
		}
	}

	next.On("SetCurrent", mock.Anything, "gw-2").Return(nil).Once()
	if err := repo.SetCurrent(ctx, "gw-2"); err != nil {
		t.Fatalf("set current: %v", err)
	}

	next.On("GetCurrent", mock.Anything).Return(gameweek.Gameweek{ID: "gw-2", Number: 2, IsCurrent: true}, true, nil).Once()
	gw, _, err := repo.GetCurrent(ctx)
	if err != nil || gw.ID != "gw-2" {
		t.Fatalf("expected gw-2 after set current, got %+v err=%v", gw, err)
	}
}

func TestGameweekRepository_CachesMisses(t *testing.T) {
	ctx := context.Background()
	next := gameweekmock.NewRepository(t)
	repo := NewGameweekRepository(next, basecache.NewStore(time.Minute))

	next.On("GetByNumber", mock.Anything, 9).Return(gameweek.Gameweek{}, false, nil).Once()
	for i := 0; i < 2; i++ {
		_, ok, err := repo.GetByNumber(ctx, 9)
		if err != nil || ok {
			t.Fatalf("expected cached miss, ok=%v err=%v", ok, err)
		}
	}
}
