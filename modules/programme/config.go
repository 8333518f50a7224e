package programme

import (
	"flag"
	"time"

	"github.com/zachfi/zkit/pkg/util"
)

const (
	defaultScheduleURL  = "https://radiovisionair.net/programmazione/"
	defaultUserAgent    = "Mozilla/5.0 (Linux) VisionairRadioPlayer/1.0"
	defaultTimezone     = "Europe/Rome"
	defaultFetchTimeout = 15 * time.Second
	defaultCacheTTL     = 6 * time.Hour
)

type Config struct {
	ScheduleURL  string        `yaml:"schedule-url,omitempty"`
	UserAgent    string        `yaml:"user-agent,omitempty"`
	Timezone     string        `yaml:"timezone,omitempty"`      // reference zone for "now" (the station's local time)
	FetchTimeout time.Duration `yaml:"fetch-timeout,omitempty"` // bound on a single schedule page fetch
	CacheTTL     time.Duration `yaml:"cache-ttl,omitempty"`     // freshness window; no refetch inside it
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.ScheduleURL, util.PrefixConfig(prefix, "schedule-url"), defaultScheduleURL,
		"The URL of the schedule page to scrape")
	f.StringVar(&cfg.UserAgent, util.PrefixConfig(prefix, "user-agent"), defaultUserAgent,
		"User-Agent header sent when fetching the schedule page")
	f.StringVar(&cfg.Timezone, util.PrefixConfig(prefix, "timezone"), defaultTimezone,
		"IANA time zone used to interpret the schedule and the current instant")
	f.DurationVar(&cfg.FetchTimeout, util.PrefixConfig(prefix, "fetch-timeout"), defaultFetchTimeout,
		"Timeout for a single schedule page fetch")
	f.DurationVar(&cfg.CacheTTL, util.PrefixConfig(prefix, "cache-ttl"), defaultCacheTTL,
		"How long a fetched schedule stays fresh before a refetch is attempted")
}
