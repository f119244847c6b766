package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
)

func testCache(t *testing.T) *Cache {
	t.Helper()
	c := New(time.Minute)
	t.Cleanup(c.Stop)
	return c
}

func countingLoader(value any, deps []uuid.UUID, calls *atomic.Int32) Loader {
	return func(context.Context) (any, []uuid.UUID, error) {
		calls.Add(1)
		return value, deps, nil
	}
}

func TestGetOrCreateMemoizes(t *testing.T) {
	c := testCache(t)
	id := uuid.New()
	key := Key{Region: "catalog", Op: "by-id", IDs: []uuid.UUID{id}}

	var calls atomic.Int32
	loader := countingLoader("v1", []uuid.UUID{id}, &calls)

	v, err := c.GetOrCreate(context.Background(), key, loader)
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if v != "v1" {
		t.Errorf("got %v, want v1", v)
	}
	if _, err := c.GetOrCreate(context.Background(), key, loader); err != nil {
		t.Fatalf("GetOrCreate (cached): %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("loader ran %d times, want 1", calls.Load())
	}
}

func TestKeyOrderMatters(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	k1 := Key{Region: "product", Op: "batch", IDs: []uuid.UUID{a, b}}
	k2 := Key{Region: "product", Op: "batch", IDs: []uuid.UUID{b, a}}
	if k1.String() == k2.String() {
		t.Error("keys with different id order must differ")
	}

	k3 := Key{Region: "product", Op: "batch", IDs: []uuid.UUID{a, b}, Params: "core"}
	if k1.String() == k3.String() {
		t.Error("keys with different params must differ")
	}
}

func TestConcurrentMissesShareOneFlight(t *testing.T) {
	c := testCache(t)
	id := uuid.New()
	key := Key{Region: "catalog", Op: "by-id", IDs: []uuid.UUID{id}}

	var calls atomic.Int32
	gate := make(chan struct{})
	loader := func(context.Context) (any, []uuid.UUID, error) {
		calls.Add(1)
		<-gate
		return "shared", []uuid.UUID{id}, nil
	}

	const n = 16
	var wg sync.WaitGroup
	results := make([]any, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCreate(context.Background(), key, loader)
			if err != nil {
				t.Errorf("GetOrCreate: %v", err)
			}
			results[i] = v
		}(i)
	}
	// Give the goroutines a moment to pile onto the flight, then release.
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("loader ran %d times, want 1", calls.Load())
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("results[%d] = %v, want shared", i, v)
		}
	}
}

func TestExpireRegion(t *testing.T) {
	c := testCache(t)
	catID, prodID := uuid.New(), uuid.New()
	catKey := Key{Region: "catalog", Op: "by-id", IDs: []uuid.UUID{catID}}
	prodKey := Key{Region: "product", Op: "by-id", IDs: []uuid.UUID{prodID}}

	var catCalls, prodCalls atomic.Int32
	catLoader := countingLoader("cat", []uuid.UUID{catID}, &catCalls)
	prodLoader := countingLoader("prod", []uuid.UUID{prodID}, &prodCalls)

	c.GetOrCreate(context.Background(), catKey, catLoader)
	c.GetOrCreate(context.Background(), prodKey, prodLoader)

	c.ExpireRegion("catalog")

	c.GetOrCreate(context.Background(), catKey, catLoader)
	c.GetOrCreate(context.Background(), prodKey, prodLoader)

	if catCalls.Load() != 2 {
		t.Errorf("catalog loader ran %d times, want 2 (expired)", catCalls.Load())
	}
	if prodCalls.Load() != 1 {
		t.Errorf("product loader ran %d times, want 1 (untouched)", prodCalls.Load())
	}
}

func TestExpireEntityDropsDependentsOnly(t *testing.T) {
	c := testCache(t)
	shared := uuid.New()
	other := uuid.New()

	depKey := Key{Region: "category", Op: "by-id", IDs: []uuid.UUID{uuid.New()}}
	freeKey := Key{Region: "category", Op: "by-id", IDs: []uuid.UUID{other}}

	var depCalls, freeCalls atomic.Int32
	// The first entry depends on the shared entity (an ancestor in its
	// resolved closure) even though it was requested under another id.
	depLoader := countingLoader("dep", []uuid.UUID{depKey.IDs[0], shared}, &depCalls)
	freeLoader := countingLoader("free", []uuid.UUID{other}, &freeCalls)

	c.GetOrCreate(context.Background(), depKey, depLoader)
	c.GetOrCreate(context.Background(), freeKey, freeLoader)

	c.ExpireEntity(shared)

	c.GetOrCreate(context.Background(), depKey, depLoader)
	c.GetOrCreate(context.Background(), freeKey, freeLoader)

	if depCalls.Load() != 2 {
		t.Errorf("dependent loader ran %d times, want 2", depCalls.Load())
	}
	if freeCalls.Load() != 1 {
		t.Errorf("unrelated loader ran %d times, want 1", freeCalls.Load())
	}
}

func TestNegativeEntryInvalidatedByRequestedID(t *testing.T) {
	c := testCache(t)
	missing := uuid.New()
	key := Key{Region: "product", Op: "by-id", IDs: []uuid.UUID{missing}}

	var calls atomic.Int32
	// A lookup miss caches a nil value whose only dependency is the
	// requested id itself.
	loader := countingLoader((*struct{})(nil), []uuid.UUID{missing}, &calls)

	c.GetOrCreate(context.Background(), key, loader)
	c.GetOrCreate(context.Background(), key, loader)
	if calls.Load() != 1 {
		t.Fatalf("negative entry not cached: %d loader runs", calls.Load())
	}

	// Creating the entity expires its token, making it visible.
	c.ExpireEntity(missing)
	c.GetOrCreate(context.Background(), key, loader)
	if calls.Load() != 2 {
		t.Errorf("negative entry survived entity expiry: %d loader runs", calls.Load())
	}
}

func TestExpiryDuringLoadIsNotCached(t *testing.T) {
	c := testCache(t)
	id := uuid.New()
	key := Key{Region: "product", Op: "by-id", IDs: []uuid.UUID{id}}

	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	loader := func(context.Context) (any, []uuid.UUID, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return "stale", []uuid.UUID{id}, nil
		}
		return "fresh", []uuid.UUID{id}, nil
	}

	done := make(chan any, 1)
	go func() {
		v, _ := c.GetOrCreate(context.Background(), key, loader)
		done <- v
	}()

	// Expire the entity while the first load is still computing. Its
	// snapshot predates the write and must not be cached.
	<-started
	c.ExpireEntity(id)
	close(release)

	if v := <-done; v != "stale" {
		t.Errorf("in-flight load returned %v, want its own stale value", v)
	}
	if c.Len() != 0 {
		t.Fatalf("cache holds %d entries, want 0 (stale snapshot cached past the expiry)", c.Len())
	}

	v, err := c.GetOrCreate(context.Background(), key, loader)
	if err != nil {
		t.Fatalf("GetOrCreate after expiry: %v", err)
	}
	if v != "fresh" {
		t.Errorf("got %v, want fresh", v)
	}
	if calls.Load() != 2 {
		t.Errorf("loader ran %d times, want 2", calls.Load())
	}
}

func TestLoaderErrorsNotCached(t *testing.T) {
	c := testCache(t)
	id := uuid.New()
	key := Key{Region: "catalog", Op: "by-id", IDs: []uuid.UUID{id}}

	boom := errors.New("boom")
	var calls atomic.Int32
	failing := func(context.Context) (any, []uuid.UUID, error) {
		calls.Add(1)
		return nil, nil, boom
	}

	if _, err := c.GetOrCreate(context.Background(), key, failing); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := c.GetOrCreate(context.Background(), key, failing); !errors.Is(err, boom) {
		t.Fatalf("expected boom on retry, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("failing loader ran %d times, want 2 (errors never cached)", calls.Load())
	}
	if c.Len() != 0 {
		t.Errorf("cache holds %d entries after failed loads, want 0", c.Len())
	}
}
