package programme

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParseError reports a structurally unrecoverable schedule document. The
// parser is otherwise permissive and degrades to an empty schedule.
type ParseError struct {
	Detail string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse schedule: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("parse schedule: %s", e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

var timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseSchedule converts the schedule page into a WeeklySchedule.
//
// The page is a flat run of headings and paragraphs: an h2 with a day name
// opens a day, an h3 names a show, paragraphs accumulate its description,
// and an h2 with an HH:MM time closes the pending (day, title, description)
// into a slot. The time heading closes a slot rather than opening one; a
// title never followed by a time heading is dropped, matching the upstream
// page's authoring convention.
func ParseSchedule(r io.Reader) (WeeklySchedule, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, &ParseError{Detail: "reading document", Err: err}
	}

	root := doc.Find("main, article, .entry-content").First()
	if root.Length() == 0 {
		root = doc.Find("body")
	}

	var (
		currentDay   time.Weekday
		haveDay      bool
		currentTitle string
		haveTitle    bool
		desc         strings.Builder
		all          []Slot
		parseErr     error
	)

	root.Find("h2, h3, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t := strings.TrimSpace(s.Text())
		if t == "" {
			return true
		}

		switch goquery.NodeName(s) {
		case "h2":
			if timePattern.MatchString(t) {
				if haveDay && haveTitle {
					start, err := parseClock(t)
					if err != nil {
						parseErr = err
						return false
					}
					all = append(all, Slot{
						Day:         currentDay,
						Start:       start,
						Title:       currentTitle,
						Description: strings.TrimSpace(desc.String()),
					})
				}
			} else if day, ok := scheduleDays[normalizeDayName(t)]; ok {
				currentDay = day
				haveDay = true
				currentTitle = ""
				haveTitle = false
				desc.Reset()
			}
			// Other h2 headings (page title, promos) are ignored.
		case "h3":
			if haveDay {
				currentTitle = t
				haveTitle = true
				desc.Reset()
			}
		case "p":
			if haveTitle {
				cleaned := strings.TrimSpace(strings.ReplaceAll(t, "\u00a0", " "))
				if cleaned != "" && cleaned != "[...]" && !strings.EqualFold(cleaned, "discover more") {
					if desc.Len() > 0 {
						desc.WriteByte('\n')
					}
					desc.WriteString(cleaned)
				}
			}
		}

		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}

	schedule := make(WeeklySchedule)
	for _, slot := range all {
		schedule[slot.Day] = append(schedule[slot.Day], slot)
	}
	for day := range schedule {
		slots := schedule[day]
		// Stable: slots sharing a start time keep document order.
		sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	}

	return schedule, nil
}

// parseClock parses a strict HH:MM heading. "24:00" is the end-of-day
// boundary and normalizes to midnight.
func parseClock(s string) (ClockTime, error) {
	t := strings.TrimSpace(s)
	if t == "24:00" {
		return NewClockTime(0, 0), nil
	}

	hour, _ := strconv.Atoi(t[:2])
	minute, _ := strconv.Atoi(t[3:])
	if hour > 23 || minute > 59 {
		return 0, &ParseError{Detail: fmt.Sprintf("time heading %q out of range", t)}
	}

	return NewClockTime(hour, minute), nil
}

// foldDiacritics strips combining marks after NFD decomposition, so that
// "lunedì" folds to "lunedi".
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var nonLetters = regexp.MustCompile(`[^a-z]`)

func normalizeDayName(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	folded, _, err := transform.String(foldDiacritics, lower)
	if err != nil {
		folded = lower
	}
	return nonLetters.ReplaceAllString(folded, "")
}
