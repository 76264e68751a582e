package musicsearch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avasquez/recordshelf-be/internal/models"
)

type fakeSearcher struct {
	calls   atomic.Int64
	err     error
	block   chan struct{} // when set, calls wait here before returning
	results []models.AlbumCandidate
}

func (f *fakeSearcher) SearchAlbums(ctx context.Context, query string) ([]models.AlbumCandidate, error) {
	f.calls.Add(1)
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

func candidates(ids ...string) []models.AlbumCandidate {
	out := make([]models.AlbumCandidate, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.AlbumCandidate{AlbumID: id, Name: "Album " + id})
	}
	return out
}

func TestCacheServesRepeatedQueriesFromMemory(t *testing.T) {
	upstream := &fakeSearcher{results: candidates("a1", "a2")}
	cache := NewCache(upstream)

	first, err := cache.SearchAlbums(context.Background(), "beatles")
	require.NoError(t, err)

	second, err := cache.SearchAlbums(context.Background(), "beatles")
	require.NoError(t, err)

	assert.Equal(t, int64(1), upstream.calls.Load(), "identical queries within the freshness window hit the provider once")
	assert.Equal(t, first, second)
}

func TestCacheNormalizesKeyByTrimming(t *testing.T) {
	upstream := &fakeSearcher{results: candidates("a1")}
	cache := NewCache(upstream)

	_, err := cache.SearchAlbums(context.Background(), "beatles")
	require.NoError(t, err)
	_, err = cache.SearchAlbums(context.Background(), "  beatles  ")
	require.NoError(t, err)

	assert.Equal(t, int64(1), upstream.calls.Load())
}

func TestCacheShortCircuitsBlankQueries(t *testing.T) {
	upstream := &fakeSearcher{results: candidates("a1")}
	cache := NewCache(upstream)

	for _, q := range []string{"", "   ", "\t"} {
		result, err := cache.SearchAlbums(context.Background(), q)
		require.NoError(t, err)
		assert.Empty(t, result)
	}

	assert.Equal(t, int64(0), upstream.calls.Load(), "blank queries never reach the provider")
	assert.Equal(t, 0, cache.Len(), "blank queries are not cached")
}

func TestCacheDoesNotCacheErrors(t *testing.T) {
	upstream := &fakeSearcher{err: errors.New("provider down")}
	cache := NewCache(upstream)

	_, err := cache.SearchAlbums(context.Background(), "beatles")
	require.Error(t, err)
	assert.Equal(t, 0, cache.Len())

	// The provider recovers; the next identical query must reach it.
	upstream.err = nil
	upstream.results = candidates("a1")
	result, err := cache.SearchAlbums(context.Background(), "beatles")
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, int64(2), upstream.calls.Load())
}

func TestCacheDeduplicatesInFlightQueries(t *testing.T) {
	upstream := &fakeSearcher{results: candidates("a1"), block: make(chan struct{})}
	cache := NewCache(upstream)

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]models.AlbumCandidate, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = cache.SearchAlbums(context.Background(), "beatles")
		}(i)
	}

	// Give every caller time to join the pending flight, then release it.
	time.Sleep(50 * time.Millisecond)
	close(upstream.block)
	wg.Wait()

	assert.Equal(t, int64(1), upstream.calls.Load(), "late callers must await the same pending result")
	for i := 1; i < callers; i++ {
		assert.Equal(t, results[0], results[i])
	}
}

func TestCacheFlightSurvivesFirstCallerCancellation(t *testing.T) {
	upstream := &fakeSearcher{results: candidates("a1"), block: make(chan struct{})}
	cache := NewCache(upstream)

	// The first caller opens the flight, then cancels.
	ctx1, cancel1 := context.WithCancel(context.Background())
	go cache.SearchAlbums(ctx1, "beatles")
	require.Eventually(t, func() bool { return upstream.calls.Load() == 1 },
		time.Second, 5*time.Millisecond)

	// A second caller joins the same flight.
	type outcome struct {
		result []models.AlbumCandidate
		err    error
	}
	second := make(chan outcome, 1)
	go func() {
		result, err := cache.SearchAlbums(context.Background(), "beatles")
		second <- outcome{result, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel1()
	time.Sleep(50 * time.Millisecond)
	close(upstream.block)

	got := <-second
	require.NoError(t, got.err, "the first caller's cancellation must not fail waiters sharing the flight")
	assert.Len(t, got.result, 1)
	assert.Equal(t, int64(1), upstream.calls.Load())
}

func TestCacheRefetchesAfterFreshnessWindow(t *testing.T) {
	upstream := &fakeSearcher{results: candidates("a1")}
	cache := NewCache(upstream)

	current := time.Now()
	cache.now = func() time.Time { return current }

	_, err := cache.SearchAlbums(context.Background(), "beatles")
	require.NoError(t, err)

	current = current.Add(defaultFreshFor + time.Second)
	_, err = cache.SearchAlbums(context.Background(), "beatles")
	require.NoError(t, err)

	assert.Equal(t, int64(2), upstream.calls.Load(), "a stale entry must not be served")
}

func TestPruneEvictsStaleAndIdleEntries(t *testing.T) {
	upstream := &fakeSearcher{results: candidates("a1")}
	cache := NewCache(upstream)

	current := time.Now()
	cache.now = func() time.Time { return current }

	_, err := cache.SearchAlbums(context.Background(), "beatles")
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	// Within both windows: nothing to evict.
	assert.Equal(t, 0, cache.Prune(current.Add(time.Minute)))
	assert.Equal(t, 1, cache.Len())

	// Past the freshness window: evicted.
	assert.Equal(t, 1, cache.Prune(current.Add(defaultFreshFor+time.Second)))
	assert.Equal(t, 0, cache.Len())
}
