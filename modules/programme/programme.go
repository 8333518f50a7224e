package programme

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/grafana/dskit/services"
	"github.com/pkg/errors"
)

// Refresh loop bounds: never wake more often than once a minute, never
// sleep past half an hour even when the next boundary is days away, and
// fall back to five minutes when the resolver computed no expiry.
const (
	minRefresh     = time.Minute
	maxRefresh     = 30 * time.Minute
	defaultRefresh = 5 * time.Minute
)

// Subscriber receives every published ShowInfo, including unchanged repeats.
type Subscriber func(ShowInfo)

// Programme is the now-playing service: a long-lived loop that resolves the
// current show, publishes it to subscribers, and sleeps until the answer is
// due to change.
type Programme struct {
	services.Service
	cfg    *Config
	logger *slog.Logger
	zone   *time.Location
	cache  *ScheduleCache

	mu          sync.Mutex
	subscribers []Subscriber
	current     ShowInfo
	haveCurrent bool
}

var module = "programme"

// New creates and returns a new Programme service.
func New(cfg Config, logger slog.Logger) (*Programme, error) {
	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "unknown timezone %q", cfg.Timezone)
	}

	l := logger.With("module", module)

	p := &Programme{
		cfg:    &cfg,
		logger: l,
		zone:   zone,
		cache:  NewScheduleCache(&cfg, NewFetcher(&cfg), l),
	}

	p.Service = services.NewBasicService(nil, p.running, p.stopping)

	return p, nil
}

// Subscribe registers a consumer for published updates. Subscribers added
// while the loop runs receive the next cycle's ShowInfo.
func (p *Programme) Subscribe(fn Subscriber) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subscribers = append(p.subscribers, fn)
}

// NowPlaying resolves the show airing right now, refreshing the schedule if
// the cache allows it. Schedule unavailability degrades to the generic
// fallback, never to an error.
func (p *Programme) NowPlaying(ctx context.Context) ShowInfo {
	return Resolve(time.Now(), p.cache.Get(ctx), p.zone)
}

// Schedule returns the current weekly schedule, subject to cache policy.
func (p *Programme) Schedule(ctx context.Context) WeeklySchedule {
	return p.cache.Get(ctx)
}

// Latest returns the most recently published ShowInfo, if any cycle has
// completed yet.
func (p *Programme) Latest() (ShowInfo, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.haveCurrent
}

func (p *Programme) running(ctx context.Context) error {
	for {
		info := p.NowPlaying(ctx)
		p.publish(info)

		wait := refreshInterval(time.Now(), info.ValidUntil)
		p.logger.Debug("now playing published", "title", info.Title, "source", info.Source, "next_refresh", wait)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

func (p *Programme) stopping(_ error) error {
	p.logger.Info("stopping")
	return nil
}

func (p *Programme) publish(info ShowInfo) {
	p.mu.Lock()
	p.current = info
	p.haveCurrent = true
	subs := make([]Subscriber, len(p.subscribers))
	copy(subs, p.subscribers)
	p.mu.Unlock()

	metricRefreshCyclesTotal.Inc()
	for _, fn := range subs {
		fn(info)
	}
}

// refreshInterval clamps the time until the answer expires into the refresh
// bounds. A zero expiry means "no computed boundary"; recheck after the
// default interval.
func refreshInterval(now, validUntil time.Time) time.Duration {
	if validUntil.IsZero() {
		return defaultRefresh
	}

	d := validUntil.Sub(now)
	if d < minRefresh {
		return minRefresh
	}
	if d > maxRefresh {
		return maxRefresh
	}
	return d
}
