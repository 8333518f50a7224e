package programme

import (
	"fmt"
	"strings"
	"time"
)

// Resolve determines the show airing at the given instant. It is a pure
// function of its inputs; the instant is interpreted in the given zone.
//
// The current slot is the last one starting at or before the local time of
// day; when the local time precedes the day's first slot, the first slot is
// reported. The answer expires at the next slot's start, or at local
// midnight when the current slot is the day's last.
func Resolve(now time.Time, schedule WeeklySchedule, zone *time.Location) ShowInfo {
	local := now.In(zone)

	daySlots := schedule[local.Weekday()]
	if len(daySlots) == 0 {
		return ShowInfo{
			Title:       fallbackTitle,
			Description: "",
			Source:      fallbackSource,
		}
	}

	nowTime := NewClockTime(local.Hour(), local.Minute())

	idx := -1
	for i, slot := range daySlots {
		if slot.Start <= nowTime {
			idx = i
		}
	}

	current := daySlots[0]
	if idx >= 0 {
		current = daySlots[idx]
	}

	// Expiry: start of the slot after the current one, or next midnight.
	// When the local time precedes the first slot, idx is -1 and the next
	// boundary is the second slot, same as for idx 0.
	nextIdx := idx
	if nextIdx < 0 {
		nextIdx = 0
	}
	nextIdx++

	var validUntil time.Time
	if nextIdx < len(daySlots) {
		next := daySlots[nextIdx].Start
		validUntil = time.Date(local.Year(), local.Month(), local.Day(), next.Hour(), next.Minute(), 0, 0, zone)
	} else {
		midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, zone)
		validUntil = midnight.AddDate(0, 0, 1)
	}

	title := current.Title
	if strings.TrimSpace(title) == "" {
		title = fallbackTitle
	}

	return ShowInfo{
		Title:       title,
		Description: current.Description,
		Source:      fmt.Sprintf("%s (%s)", fallbackSource, dayNames[local.Weekday()]),
		ValidUntil:  validUntil,
	}
}
