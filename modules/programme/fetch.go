package programme

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// FetchError reports a failed schedule page retrieval: network error,
// timeout, or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int // zero when the request never produced a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves the raw schedule page. It knows nothing about the page's
// structure; one call is one GET, with no internal retries (retry policy
// lives in the cache).
type Fetcher struct {
	url       string
	userAgent string
	client    *http.Client
}

// NewFetcher returns a Fetcher for the given URL. The timeout bounds the
// whole request, connection included.
func NewFetcher(cfg *Config) *Fetcher {
	return &Fetcher{
		url:       cfg.ScheduleURL,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.FetchTimeout},
	}
}

// Fetch performs one GET and returns the response body.
func (f *Fetcher) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	req.Header.Set("Accept", "text/html")
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{URL: f.url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: err}
	}

	return body, nil
}
