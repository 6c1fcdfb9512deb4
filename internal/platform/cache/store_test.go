package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "gameweeks:current", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errors.New("unexpected loaded value")
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_EntriesExpire(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)
	store := NewStore(time.Minute)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "teams:all", 1)
	if _, ok := store.Get(context.Background(), "teams:all"); !ok {
		t.Fatalf("expected fresh entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := store.Get(context.Background(), "teams:all"); ok {
		t.Fatalf("expected expired entry to be evicted")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	store := NewStore(time.Minute)
	ctx := context.Background()
	store.Set(ctx, "fixtures:gw:1", 1)
	store.Set(ctx, "fixtures:gw:2", 2)
	store.Set(ctx, "teams:all", 3)

	store.DeletePrefix(ctx, "fixtures:")

	if _, ok := store.Get(ctx, "fixtures:gw:1"); ok {
		t.Fatalf("expected fixtures entries removed")
	}
	if _, ok := store.Get(ctx, "teams:all"); !ok {
		t.Fatalf("expected unrelated entry kept")
	}
}

func TestLoad_Typed(t *testing.T) {
	store := NewStore(time.Minute)
	got, err := Load(context.Background(), store, "n", func(context.Context) (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Fatalf("unexpected load result %d, %v", got, err)
	}

	store.Set(context.Background(), "s", "str")
	if _, err := Load(context.Background(), store, "s", func(context.Context) (int, error) { return 0, nil }); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}
