// Package player keeps the station's audio stream open, copying audio bytes
// to a configurable sink and reconnecting with backoff on disconnects. It is
// the daemon's stand-in for the mobile app's playback service: the current
// ICY title and show information are tracked for the status API and logged
// where the app would update its notification.
package player

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/grafana/dskit/backoff"
	"github.com/grafana/dskit/services"

	"github.com/albertomenenti/VisiOnAir-Player/modules/programme"
	"github.com/albertomenenti/VisiOnAir-Player/pkg/shoutcast"
)

// healthyPlayDuration is how long a connection must last before the
// reconnect backoff resets.
const healthyPlayDuration = 30 * time.Second

type Player struct {
	services.Service
	cfg    *Config
	logger *slog.Logger
	sink   io.WriteCloser

	mu       sync.Mutex
	stream   *shoutcast.Stream
	station  string
	icyTitle string
	show     programme.ShowInfo
	playing  bool
}

var module = "player"

// New creates and returns a new Player service.
func New(cfg Config, logger slog.Logger) (*Player, error) {
	if cfg.ReconnectBackoff == 0 {
		cfg.ReconnectBackoff = defaultReconnectInitial
	}
	if cfg.ReconnectBackoffMax == 0 {
		cfg.ReconnectBackoffMax = defaultReconnectMax
	}

	p := &Player{
		cfg:    &cfg,
		logger: logger.With("module", module),
	}

	p.Service = services.NewBasicService(p.starting, p.running, p.stopping)

	return p, nil
}

// OnShowUpdate receives published schedule updates; registered as a
// programme subscriber by the app wiring.
func (p *Player) OnShowUpdate(info programme.ShowInfo) {
	p.mu.Lock()
	p.show = info
	p.mu.Unlock()

	p.logger.Info("now airing", "title", info.Title, "source", info.Source)
}

func (p *Player) starting(ctx context.Context) error {
	if p.cfg.SinkPath == "" {
		p.sink = nopSink{}
		return nil
	}

	f, err := os.OpenFile(p.cfg.SinkPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		p.logger.Error("error opening audio sink", "path", p.cfg.SinkPath, "err", err)
		return err
	}
	p.sink = f

	return nil
}

func (p *Player) running(ctx context.Context) error {
	boff := backoff.New(ctx, backoff.Config{
		MinBackoff: p.cfg.ReconnectBackoff,
		MaxBackoff: p.cfg.ReconnectBackoffMax,
	})

	for boff.Ongoing() {
		started := time.Now()
		err := p.playOnce(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			p.logger.Warn("stream disconnected", "err", err, "retries", boff.NumRetries())
		}

		if time.Since(started) > healthyPlayDuration {
			boff.Reset()
		}
		boff.Wait()
	}

	return nil
}

// playOnce opens the stream and copies audio to the sink until the stream
// fails or the context is cancelled.
func (p *Player) playOnce(ctx context.Context) error {
	stream, err := shoutcast.Open(p.cfg.URL, p.cfg.UserAgent)
	if err != nil {
		return err
	}

	stream.MetadataCallbackFunc = func(m *shoutcast.Metadata) {
		p.mu.Lock()
		p.icyTitle = m.StreamTitle
		p.mu.Unlock()
		p.logger.Info("now listening to", "title", m.StreamTitle)
	}

	p.mu.Lock()
	p.stream = stream
	p.station = stream.Name
	p.playing = true
	p.mu.Unlock()

	p.logger.Info("stream opened", "station", stream.Name, "bitrate", stream.Bitrate)

	// Close the stream on cancellation so the copy unblocks.
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			stream.Close()
		case <-done:
		}
	}()

	_, copyErr := io.Copy(p.sink, stream)
	close(done)
	stream.Close()

	p.mu.Lock()
	p.stream = nil
	p.playing = false
	p.mu.Unlock()

	if copyErr == io.EOF {
		return nil
	}
	return copyErr
}

func (p *Player) stopping(_ error) error {
	p.logger.Info("stopping")

	p.mu.Lock()
	stream := p.stream
	p.mu.Unlock()
	if stream != nil {
		_ = stream.Close()
	}

	if p.sink != nil {
		return p.sink.Close()
	}
	return nil
}

type playerStatus struct {
	Playing   bool   `json:"playing"`
	Station   string `json:"station,omitempty"`
	ICYTitle  string `json:"icy_title,omitempty"`
	ShowTitle string `json:"show_title,omitempty"`
}

// StatusHandler reports the playback state.
func (p *Player) StatusHandler(w http.ResponseWriter, _ *http.Request) {
	p.mu.Lock()
	status := playerStatus{
		Playing:   p.playing,
		Station:   p.station,
		ICYTitle:  p.icyTitle,
		ShowTitle: p.show.Title,
	}
	p.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		p.logger.Error("error writing response", "err", err)
	}
}

type nopSink struct{}

func (nopSink) Write(b []byte) (int, error) { return len(b), nil }
func (nopSink) Close() error                { return nil }
