package shoutcast

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// icyBody builds a stream body with a metadata block after every metaint
// audio bytes.
func icyBody(metaint int, audio []string, titles []string) []byte {
	var buf bytes.Buffer
	for i, chunk := range audio {
		buf.WriteString(chunk)
		if i >= len(titles) {
			continue
		}
		meta := ""
		if titles[i] != "" {
			meta = "StreamTitle='" + titles[i] + "';"
		}
		// Pad to a multiple of 16.
		pad := (16 - len(meta)%16) % 16
		if meta == "" {
			buf.WriteByte(0)
			continue
		}
		meta += strings.Repeat("\x00", pad)
		buf.WriteByte(byte(len(meta) / 16))
		buf.WriteString(meta)
	}
	return buf.Bytes()
}

func TestReadStripsMetadata(t *testing.T) {
	body := icyBody(8, []string{"AAAAAAAA", "BBBBBBBB", "CCCCCCCC"}, []string{"first title", "", ""})

	var titles []string
	s := &Stream{
		metaint: 8,
		rc:      io.NopCloser(bytes.NewReader(body)),
	}
	s.MetadataCallbackFunc = func(m *Metadata) { titles = append(titles, m.StreamTitle) }

	audio, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(audio); got != "AAAAAAAABBBBBBBBCCCCCCCC" {
		t.Errorf("metadata leaked into audio: %q", got)
	}
	if len(titles) != 1 || titles[0] != "first title" {
		t.Errorf("unexpected titles: %v", titles)
	}
}

func TestReadCallbackFiresOnlyOnChange(t *testing.T) {
	body := icyBody(4, []string{"aaaa", "bbbb", "cccc", "dddd"}, []string{"one", "one", "two"})

	var titles []string
	s := &Stream{
		metaint: 4,
		rc:      io.NopCloser(bytes.NewReader(body)),
	}
	s.MetadataCallbackFunc = func(m *Metadata) { titles = append(titles, m.StreamTitle) }

	if _, err := io.ReadAll(s); err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(titles) != 2 || titles[0] != "one" || titles[1] != "two" {
		t.Errorf("unexpected titles: %v", titles)
	}
}

func TestReadWithoutMetaint(t *testing.T) {
	s := &Stream{rc: io.NopCloser(strings.NewReader("plain audio bytes"))}

	audio, err := io.ReadAll(s)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(audio) != "plain audio bytes" {
		t.Errorf("unexpected audio: %q", audio)
	}
}

func TestReadSmallBuffersCrossMetadataBoundary(t *testing.T) {
	body := icyBody(8, []string{"12345678", "abcdefgh"}, []string{"t"})

	s := &Stream{metaint: 8, rc: io.NopCloser(bytes.NewReader(body))}

	var out []byte
	buf := make([]byte, 3)
	for {
		n, err := s.Read(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	if string(out) != "12345678abcdefgh" {
		t.Errorf("unexpected audio: %q", out)
	}
}
