package shoutcast

import "strings"

// Metadata is one decoded ICY metadata block.
type Metadata struct {
	StreamTitle string
	StreamURL   string
}

// NewMetadata decodes a raw metadata block. Blocks look like
// "StreamTitle='Artist - Track';StreamUrl='';" padded with NULs to a
// multiple of 16 bytes.
func NewMetadata(raw []byte) *Metadata {
	m := &Metadata{}

	s := strings.TrimRight(string(raw), "\x00")
	for _, field := range strings.Split(s, ";") {
		key, value, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), "'")

		switch strings.TrimSpace(key) {
		case "StreamTitle":
			m.StreamTitle = value
		case "StreamUrl":
			m.StreamURL = value
		}
	}

	return m
}

// Equals reports whether both metadata blocks carry the same values.
func (m *Metadata) Equals(other *Metadata) bool {
	if other == nil {
		return false
	}
	return m.StreamTitle == other.StreamTitle && m.StreamURL == other.StreamURL
}
