package programme

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "visionair",
		Name:      "schedule_fetches_total",
		Help:      "Schedule page fetch attempts.",
	})
	metricFetchErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "visionair",
		Name:      "schedule_fetch_errors_total",
		Help:      "Schedule page fetches that failed or did not parse.",
	})
	metricCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "visionair",
		Name:      "schedule_cache_hits_total",
		Help:      "Schedule requests served from the in-memory cache.",
	})
	metricRefreshCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "visionair",
		Name:      "nowplaying_refresh_cycles_total",
		Help:      "Now-playing refresh cycles published to subscribers.",
	})
	metricSlotsParsed = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "visionair",
		Name:      "schedule_slots",
		Help:      "Slots in the most recently parsed schedule.",
	})
)
