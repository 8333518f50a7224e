package programme

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"time"
)

// documentFetcher retrieves the raw schedule page.
type documentFetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

type cacheEntry struct {
	fetchedAt time.Time
	schedule  WeeklySchedule
}

// ScheduleCache holds the most recently parsed schedule and decides when a
// refetch is warranted. Fetch and parse failures never escape: callers get
// the last known good schedule, or an empty one before the first success.
//
// The mutex makes check-then-fetch-then-replace atomic, so concurrent
// callers (the refresh loop and the HTTP API) cannot trigger duplicate
// fetches.
type ScheduleCache struct {
	mu      sync.Mutex
	entry   *cacheEntry
	ttl     time.Duration
	fetcher documentFetcher
	logger  *slog.Logger

	// now is replaced in tests.
	now func() time.Time
}

// NewScheduleCache returns a cold cache backed by the given fetcher.
func NewScheduleCache(cfg *Config, fetcher documentFetcher, logger *slog.Logger) *ScheduleCache {
	return &ScheduleCache{
		ttl:     cfg.CacheTTL,
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the current weekly schedule. Inside the freshness window the
// cached schedule is returned without network access; outside it a
// fetch+parse is attempted, and on failure the stale schedule (or an empty
// one) is returned instead.
func (c *ScheduleCache) Get(ctx context.Context) WeeklySchedule {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.entry != nil && now.Sub(c.entry.fetchedAt) < c.ttl {
		metricCacheHitsTotal.Inc()
		return c.entry.schedule
	}

	schedule, err := c.refresh(ctx)
	if err != nil {
		metricFetchErrorsTotal.Inc()
		c.logger.Warn("schedule refresh failed, serving last known schedule", "err", err)
		if c.entry != nil {
			return c.entry.schedule
		}
		return WeeklySchedule{}
	}

	c.entry = &cacheEntry{fetchedAt: now, schedule: schedule}

	slots := 0
	for _, daySlots := range schedule {
		slots += len(daySlots)
	}
	metricSlotsParsed.Set(float64(slots))
	c.logger.Info("schedule refreshed", "days", len(schedule), "slots", slots)

	return schedule
}

func (c *ScheduleCache) refresh(ctx context.Context) (WeeklySchedule, error) {
	metricFetchesTotal.Inc()

	body, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	return ParseSchedule(bytes.NewReader(body))
}
