package models

import "time"

const slotDateFormat = "2006-01-02"

// SlotWindow is a fixed time-of-day interval a slot number maps to.
type SlotWindow struct {
	StartHour int
	EndHour   int
}

// Slot numbers map to fixed windows; anything outside 1..4 falls back to
// slot 2 (the midday window).
var slotWindows = map[int]SlotWindow{
	1: {StartHour: 9, EndHour: 11},
	2: {StartHour: 12, EndHour: 14},
	3: {StartHour: 15, EndHour: 17},
	4: {StartHour: 18, EndHour: 20},
}

const defaultSlotNumber = 2

// ResolveSlotWindow returns the window for a slot number, substituting the
// slot 2 window for out-of-range values.
func ResolveSlotWindow(slot int) SlotWindow {
	return slotWindows[NormalizeSlotNumber(slot)]
}

// NormalizeSlotNumber collapses out-of-range slot numbers to the default, so
// a stored slot number always names the window that was actually booked.
func NormalizeSlotNumber(slot int) int {
	if _, ok := slotWindows[slot]; ok {
		return slot
	}
	return defaultSlotNumber
}

// ResolveBookingDate parses a candidate-supplied YYYY-MM-DD date in the given
// zone. An unparseable value is not an error: it silently falls back to today
// in that same zone.
func ResolveBookingDate(raw string, loc *time.Location) time.Time {
	if d, err := time.ParseInLocation(slotDateFormat, raw, loc); err == nil {
		return d
	}
	now := time.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}

// SlotTimes combines a resolved date with a slot window into concrete start
// and end timestamps in the date's zone.
func SlotTimes(date time.Time, w SlotWindow) (start, end time.Time) {
	start = time.Date(date.Year(), date.Month(), date.Day(), w.StartHour, 0, 0, 0, date.Location())
	end = time.Date(date.Year(), date.Month(), date.Day(), w.EndHour, 0, 0, 0, date.Location())
	return start, end
}
