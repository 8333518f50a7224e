// Package programme derives "what show is on now" from the station's
// schedule webpage. The page is fetched and parsed into a weekly timetable,
// cached for a freshness window, and resolved against the current instant to
// produce a ShowInfo with an expiry. A refresh loop republishes the answer
// whenever it is due to change.
package programme

import (
	"fmt"
	"time"
)

// ClockTime is a time of day with minute precision, stored as minutes since
// midnight. The schedule page writes times as strict HH:MM; "24:00" is the
// end-of-day boundary and normalizes to midnight.
type ClockTime int

// NewClockTime returns the ClockTime for the given hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*60 + minute)
}

// Hour returns the hour component, 0-23.
func (c ClockTime) Hour() int { return int(c) / 60 }

// Minute returns the minute component, 0-59.
func (c ClockTime) Minute() int { return int(c) % 60 }

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Slot is one timetable entry: a show occupying the interval from its start
// time to the next slot's start within the same day.
type Slot struct {
	Day         time.Weekday
	Start       ClockTime
	Title       string
	Description string
}

// WeeklySchedule maps each weekday to its slots, sorted ascending by start.
// Days with no entries are absent. A schedule is built fresh on every
// successful fetch and never mutated afterwards.
type WeeklySchedule map[time.Weekday][]Slot

// ShowInfo is the resolver's answer: what is airing now and until when.
// A zero ValidUntil means the answer has no computed expiry and should be
// recomputed after a default interval.
type ShowInfo struct {
	Title       string
	Description string
	Source      string
	ValidUntil  time.Time
}

const (
	fallbackTitle  = "In diretta"
	fallbackSource = "Programmazione"
)

// dayNames holds the station's Italian day names as rendered in ShowInfo
// source strings.
var dayNames = map[time.Weekday]string{
	time.Monday:    "Lunedì",
	time.Tuesday:   "Martedì",
	time.Wednesday: "Mercoledì",
	time.Thursday:  "Giovedì",
	time.Friday:    "Venerdì",
	time.Saturday:  "Sabato",
	time.Sunday:    "Domenica",
}

// scheduleDays maps normalized day headings to weekdays. Headings are
// lowercased, diacritic-folded and stripped of non-letters before lookup, so
// "Lunedì", "LUNEDI" and "Lunedi:" all match.
var scheduleDays = map[string]time.Weekday{
	"lunedi":    time.Monday,
	"martedi":   time.Tuesday,
	"mercoledi": time.Wednesday,
	"giovedi":   time.Thursday,
	"venerdi":   time.Friday,
	"sabato":    time.Saturday,
	"domenica":  time.Sunday,
}

// weekOrder is the display ordering for the schedule API.
var weekOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}
