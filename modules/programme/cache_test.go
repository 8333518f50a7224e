package programme

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

const scheduleHTML = `<body><main>
	<h2>Lunedì</h2>
	<h3>Mattina</h3>
	<p>morning show</p>
	<h2>08:00</h2>
</main></body>`

type fakeFetcher struct {
	calls int
	body  []byte
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(fetcher documentFetcher) *ScheduleCache {
	cfg := &Config{CacheTTL: 6 * time.Hour}
	return NewScheduleCache(cfg, fetcher, discardLogger())
}

func TestCacheFetchesOncePerFreshnessWindow(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte(scheduleHTML)}
	cache := newTestCache(fetcher)

	base := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	now := base
	cache.now = func() time.Time { return now }

	first := cache.Get(context.Background())
	if len(first[time.Monday]) != 1 {
		t.Fatalf("expected one Monday slot, got %v", first)
	}

	now = base.Add(5 * time.Hour)
	cache.Get(context.Background())
	if fetcher.calls != 1 {
		t.Errorf("expected one fetch inside the freshness window, got %d", fetcher.calls)
	}

	now = base.Add(7 * time.Hour)
	cache.Get(context.Background())
	if fetcher.calls != 2 {
		t.Errorf("expected a refetch after the window expired, got %d fetches", fetcher.calls)
	}
}

func TestCacheColdFailureReturnsEmptySchedule(t *testing.T) {
	fetcher := &fakeFetcher{err: &FetchError{URL: "http://example.test", StatusCode: 503}}
	cache := newTestCache(fetcher)

	schedule := cache.Get(context.Background())
	if len(schedule) != 0 {
		t.Fatalf("expected an empty schedule, got %v", schedule)
	}

	// Resolving the empty result yields the generic fallback without expiry.
	info := Resolve(time.Now(), schedule, time.UTC)
	if info.Title != "In diretta" || !info.ValidUntil.IsZero() {
		t.Errorf("unexpected fallback: %+v", info)
	}
}

func TestCacheFailureServesStaleSchedule(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte(scheduleHTML)}
	cache := newTestCache(fetcher)

	base := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	now := base
	cache.now = func() time.Time { return now }

	fresh := cache.Get(context.Background())
	if len(fresh[time.Monday]) != 1 {
		t.Fatalf("expected a parsed schedule, got %v", fresh)
	}

	fetcher.err = &FetchError{URL: "http://example.test", StatusCode: 500}
	now = base.Add(7 * time.Hour)

	stale := cache.Get(context.Background())
	if len(stale[time.Monday]) != 1 {
		t.Fatalf("expected the stale schedule as fallback, got %v", stale)
	}
	if fetcher.calls != 2 {
		t.Errorf("expected the failed refetch to have been attempted, got %d fetches", fetcher.calls)
	}

	// A failed refetch does not refresh the window; the next call retries.
	cache.Get(context.Background())
	if fetcher.calls != 3 {
		t.Errorf("expected another refetch attempt, got %d fetches", fetcher.calls)
	}
}

func TestCacheParseFailureServesStaleSchedule(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte(scheduleHTML)}
	cache := newTestCache(fetcher)

	base := time.Date(2026, time.January, 5, 10, 0, 0, 0, time.UTC)
	now := base
	cache.now = func() time.Time { return now }

	cache.Get(context.Background())

	// An out-of-range time heading fails the whole parse.
	fetcher.body = []byte(`<body><h2>Lunedì</h2><h3>Rotto</h3><h2>99:99</h2></body>`)
	now = base.Add(7 * time.Hour)

	stale := cache.Get(context.Background())
	if len(stale[time.Monday]) != 1 {
		t.Fatalf("expected the stale schedule after a parse failure, got %v", stale)
	}
}
