package shoutcast

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"
)

// MetadataCallbackFunc is called whenever the stream metadata changes.
type MetadataCallbackFunc func(m *Metadata)

// Stream is an open ICY stream. It implements io.ReadCloser; Read returns
// audio bytes only, with interleaved metadata blocks stripped.
type Stream struct {
	// Station fields from the ICY response headers.
	Name        string
	Genre       string
	Description string
	URL         string
	Bitrate     int

	// Optional function to be executed when stream metadata changes.
	MetadataCallbackFunc MetadataCallbackFunc

	metaint  int // audio bytes between metadata blocks; zero disables stripping
	pos      int // audio bytes read since the last metadata block
	metadata *Metadata
	rc       io.ReadCloser
}

// Open connects to an ICY stream. Playlist URLs are resolved first. The
// User-Agent identifies this client to the server.
//
// Timeouts apply to connection establishment only; the body is read
// indefinitely.
func Open(url, userAgent string) (*Stream, error) {
	dialer := &net.Dialer{Timeout: 5 * time.Second}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		ResponseHeaderTimeout: 10 * time.Second,
	}

	resolved, err := resolveStreamURL(&http.Client{Transport: transport, Timeout: 10 * time.Second}, url, userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve stream URL: %w", err)
	}

	req, err := http.NewRequest(http.MethodGet, resolved, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("icy-metadata", "1")

	// No client timeout: the stream is read until closed.
	resp, err := (&http.Client{Transport: transport}).Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, resolved)
	}

	var bitrate int
	if raw := resp.Header.Get("icy-br"); raw != "" {
		bitrate, _ = strconv.Atoi(raw)
	}

	// Servers only interleave metadata when icy-metaint is advertised.
	metaint, _ := strconv.Atoi(resp.Header.Get("icy-metaint"))

	return &Stream{
		Name:        resp.Header.Get("icy-name"),
		Genre:       resp.Header.Get("icy-genre"),
		Description: resp.Header.Get("icy-description"),
		URL:         resp.Header.Get("icy-url"),
		Bitrate:     bitrate,
		metaint:     metaint,
		rc:          resp.Body,
	}, nil
}

// Read implements io.Reader, returning audio bytes only.
func (s *Stream) Read(p []byte) (int, error) {
	if s.metaint <= 0 {
		return s.rc.Read(p)
	}

	if s.pos == s.metaint {
		if err := s.readMetadataBlock(); err != nil {
			return 0, err
		}
		s.pos = 0
	}

	// Never read past the next metadata boundary.
	if remaining := s.metaint - s.pos; len(p) > remaining {
		p = p[:remaining]
	}

	n, err := s.rc.Read(p)
	s.pos += n
	return n, err
}

// readMetadataBlock consumes one metadata block at the current boundary and
// fires the callback if the metadata changed.
func (s *Stream) readMetadataBlock() error {
	var sizeByte [1]byte
	if _, err := io.ReadFull(s.rc, sizeByte[:]); err != nil {
		return err
	}

	size := int(sizeByte[0]) * 16
	if size == 0 {
		return nil
	}

	block := make([]byte, size)
	if _, err := io.ReadFull(s.rc, block); err != nil {
		return err
	}

	if m := NewMetadata(block); !m.Equals(s.metadata) {
		s.metadata = m
		if s.MetadataCallbackFunc != nil {
			s.MetadataCallbackFunc(m)
		}
	}

	return nil
}

// Close closes the stream.
func (s *Stream) Close() error {
	return s.rc.Close()
}
