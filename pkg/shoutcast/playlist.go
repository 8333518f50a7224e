package shoutcast

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// resolveStreamURL follows a playlist URL (.pls or .m3u) to the stream URL
// it points at. A URL that already serves an ICY stream is returned as-is.
func resolveStreamURL(client *http.Client, url, userAgent string) (string, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	// Already a stream, no playlist indirection.
	if resp.Header.Get("icy-metaint") != "" || resp.Header.Get("icy-name") != "" {
		return url, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	content := string(body)
	contentType := resp.Header.Get("Content-Type")

	switch {
	case isPLS(url, contentType, content):
		return firstPLSEntry(content)
	case isM3U(url, contentType, content):
		return firstM3UEntry(content)
	}

	// Not a recognizable playlist; assume the URL streams directly. Audio
	// servers frequently omit ICY headers until the icy-metadata request
	// header is sent.
	return url, nil
}

func isPLS(url, contentType, content string) bool {
	return strings.Contains(contentType, "audio/x-scpls") ||
		strings.Contains(contentType, "application/pls+xml") ||
		strings.HasSuffix(url, ".pls") ||
		strings.Contains(content, "[playlist]")
}

func isM3U(url, contentType, content string) bool {
	return strings.Contains(contentType, "audio/mpegurl") ||
		strings.Contains(contentType, "application/vnd.apple.mpegurl") ||
		strings.HasSuffix(url, ".m3u") ||
		strings.HasSuffix(url, ".m3u8") ||
		strings.Contains(content, "#EXTM3U")
}

// firstPLSEntry returns the first FileN= URL in a PLS playlist.
func firstPLSEntry(content string) (string, error) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "File") {
			continue
		}
		if _, value, found := strings.Cut(line, "="); found {
			if url := strings.TrimSpace(value); url != "" {
				return url, nil
			}
		}
	}
	return "", fmt.Errorf("no stream URL found in PLS playlist")
}

// firstM3UEntry returns the first non-comment URL in an M3U playlist.
func firstM3UEntry(content string) (string, error) {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			return line, nil
		}
	}
	return "", fmt.Errorf("no stream URL found in M3U playlist")
}
