package player

import (
	"flag"
	"time"

	"github.com/zachfi/zkit/pkg/util"
)

const (
	defaultStreamURL        = "https://live.s1.radiovisionair.net:8443/?ver=710800"
	defaultUserAgent        = "Mozilla/5.0 (Linux) VisionairRadioPlayer/1.0"
	defaultReconnectInitial = 5 * time.Second
	defaultReconnectMax     = 60 * time.Second
)

type Config struct {
	URL                 string        `yaml:"url,omitempty"`
	UserAgent           string        `yaml:"user-agent,omitempty"`
	SinkPath            string        `yaml:"sink-path,omitempty"`             // file or FIFO receiving the audio bytes; empty discards
	ReconnectBackoff    time.Duration `yaml:"reconnect-backoff,omitempty"`     // initial delay before reconnecting after disconnect
	ReconnectBackoffMax time.Duration `yaml:"reconnect-backoff-max,omitempty"` // cap on reconnect delay (exponential backoff)
}

func (cfg *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&cfg.URL, util.PrefixConfig(prefix, "url"), defaultStreamURL,
		"The URL of the station's audio stream")
	f.StringVar(&cfg.UserAgent, util.PrefixConfig(prefix, "user-agent"), defaultUserAgent,
		"User-Agent header sent to the stream server")
	f.StringVar(&cfg.SinkPath, util.PrefixConfig(prefix, "sink-path"), "",
		"File or FIFO to write audio bytes to, e.g. a pipe into an external audio process. Empty discards the audio, leaving only the schedule API active.")
	f.DurationVar(&cfg.ReconnectBackoff, util.PrefixConfig(prefix, "reconnect-backoff"), defaultReconnectInitial,
		"Initial delay before reconnecting after a stream disconnect. Exponential backoff is used up to reconnect-backoff-max.")
	f.DurationVar(&cfg.ReconnectBackoffMax, util.PrefixConfig(prefix, "reconnect-backoff-max"), defaultReconnectMax,
		"Maximum delay between reconnection attempts.")
}
