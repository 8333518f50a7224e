package programme

import (
	"testing"
	"time"
)

var testZone = time.FixedZone("CET", 3600)

// monday returns a Monday instant at the given local time.
func monday(hour, minute int) time.Time {
	return time.Date(2026, time.January, 5, hour, minute, 0, 0, testZone)
}

func mondaySchedule() WeeklySchedule {
	return WeeklySchedule{
		time.Monday: {
			{Day: time.Monday, Start: NewClockTime(8, 0), Title: "Mattina", Description: "morning show"},
			{Day: time.Monday, Start: NewClockTime(14, 0), Title: "Pomeriggio"},
		},
	}
}

func TestResolveInclusiveLowerBound(t *testing.T) {
	info := Resolve(monday(14, 0), mondaySchedule(), testZone)
	if info.Title != "Pomeriggio" {
		t.Errorf("at 14:00 expected the 14:00 slot, got %q", info.Title)
	}
}

func TestResolveJustBeforeBoundary(t *testing.T) {
	info := Resolve(monday(13, 59), mondaySchedule(), testZone)
	if info.Title != "Mattina" {
		t.Errorf("at 13:59 expected the 08:00 slot, got %q", info.Title)
	}
	want := monday(14, 0)
	if !info.ValidUntil.Equal(want) {
		t.Errorf("ValidUntil = %v, want %v", info.ValidUntil, want)
	}
}

func TestResolveBeforeFirstSlot(t *testing.T) {
	info := Resolve(monday(7, 0), mondaySchedule(), testZone)
	if info.Title != "Mattina" {
		t.Errorf("before the first slot expected the first slot, got %q", info.Title)
	}
	// The answer still expires at the next slot boundary.
	want := monday(14, 0)
	if !info.ValidUntil.Equal(want) {
		t.Errorf("ValidUntil = %v, want %v", info.ValidUntil, want)
	}
}

func TestResolveLastSlotExpiresAtMidnight(t *testing.T) {
	info := Resolve(monday(20, 0), mondaySchedule(), testZone)
	if info.Title != "Pomeriggio" {
		t.Fatalf("expected the last slot, got %q", info.Title)
	}
	want := time.Date(2026, time.January, 6, 0, 0, 0, 0, testZone)
	if !info.ValidUntil.Equal(want) {
		t.Errorf("ValidUntil = %v, want next midnight %v", info.ValidUntil, want)
	}
}

func TestResolveDuplicateStartsLastWins(t *testing.T) {
	schedule := WeeklySchedule{
		time.Monday: {
			{Day: time.Monday, Start: NewClockTime(10, 0), Title: "X"},
			{Day: time.Monday, Start: NewClockTime(10, 0), Title: "Y"},
		},
	}

	info := Resolve(monday(10, 0), schedule, testZone)
	if info.Title != "Y" {
		t.Errorf("with duplicate starts the later-listed slot wins, got %q", info.Title)
	}
}

func TestResolveEmptySchedule(t *testing.T) {
	info := Resolve(monday(12, 0), WeeklySchedule{}, testZone)
	if info.Title != "In diretta" {
		t.Errorf("expected the generic fallback title, got %q", info.Title)
	}
	if info.Source != "Programmazione" {
		t.Errorf("expected the generic source, got %q", info.Source)
	}
	if !info.ValidUntil.IsZero() {
		t.Errorf("empty schedule fallback must carry no expiry, got %v", info.ValidUntil)
	}
}

func TestResolveBlankTitleFallsBack(t *testing.T) {
	schedule := WeeklySchedule{
		time.Monday: {
			{Day: time.Monday, Start: NewClockTime(8, 0), Title: "  "},
		},
	}

	info := Resolve(monday(9, 0), schedule, testZone)
	if info.Title != "In diretta" {
		t.Errorf("blank slot title should fall back, got %q", info.Title)
	}
}

func TestResolveSourceNamesTheDay(t *testing.T) {
	info := Resolve(monday(9, 0), mondaySchedule(), testZone)
	if info.Source != "Programmazione (Lunedì)" {
		t.Errorf("unexpected source: %q", info.Source)
	}
}

func TestResolveValidUntilStrictlyAfterNow(t *testing.T) {
	schedule := mondaySchedule()
	for _, now := range []time.Time{
		monday(0, 0),
		monday(7, 59),
		monday(8, 0),
		monday(13, 59),
		monday(14, 0),
		monday(23, 59),
	} {
		info := Resolve(now, schedule, testZone)
		if !info.ValidUntil.After(now) {
			t.Errorf("ValidUntil %v not strictly after %v", info.ValidUntil, now)
		}
	}
}
