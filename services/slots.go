package services

import (
	"fmt"
	"time"

	"github.com/norseabelito-rgb/lzhub-demo-sub001/entity"
)

const SlotLength = 30 * time.Minute

const (
	SlotAvailable = "available"
	SlotWarning   = "warning"
	SlotFull      = "full"
)

// Slot is one 30-minute window of the availability grid.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Booked    int       `json:"booked"`
	Remaining int       `json:"remaining"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SlotStatus labels a slot by its booked players.
func SlotStatus(booked, capacity, warningThreshold int) string {
	switch {
	case booked >= capacity:
		return SlotFull
	case booked*100 >= capacity*warningThreshold:
		return SlotWarning
	default:
		return SlotAvailable
	}
}

// parseClock turns "HH:MM" into minutes after midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("ora %q nu are formatul HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// OpeningWindow returns the venue's opening and closing instants on day (venue-local date).
func OpeningWindow(day time.Time, settings *entity.CapacitySettings, loc *time.Location) (time.Time, time.Time, error) {
	open, err := parseClock(settings.OpeningTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	closing, err := parseClock(settings.ClosingTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	// Wall-clock construction keeps the hours fixed on daylight-saving days.
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, open/60, open%60, 0, 0, loc), time.Date(y, m, d, closing/60, closing%60, 0, 0, loc), nil
}

// SlotStarts enumerates slot start times in [from, to).
func SlotStarts(from, to time.Time) []time.Time {
	var out []time.Time
	for t := from; t.Before(to); t = t.Add(SlotLength) {
		out = append(out, t)
	}
	return out
}

// slotsCovering returns the slot starts, aligned to opening, that [start, end) overlaps.
func slotsCovering(opening, start, end time.Time) []time.Time {
	offset := start.Sub(opening)
	first := opening.Add(offset / SlotLength * SlotLength)
	return SlotStarts(first, end)
}

// BookedIn sums the party sizes of blocking reservations overlapping [start, end).
func BookedIn(reservations []entity.Reservation, start, end time.Time) int {
	total := 0
	for i := range reservations {
		r := &reservations[i]
		if r.Blocks() && Overlaps(r.StartTime, r.EndTime, start, end) {
			total += r.PartySize
		}
	}
	return total
}

// BuildSlots produces the availability grid for one venue day.
func BuildSlots(opening, closing time.Time, reservations []entity.Reservation, settings *entity.CapacitySettings) []Slot {
	starts := SlotStarts(opening, closing)
	slots := make([]Slot, 0, len(starts))
	for _, s := range starts {
		end := s.Add(SlotLength)
		if end.After(closing) {
			end = closing
		}
		booked := BookedIn(reservations, s, end)
		remaining := settings.MaxPlayersPerSlot - booked
		if remaining < 0 {
			remaining = 0
		}
		slots = append(slots, Slot{
			Start:     s,
			End:       end,
			Booked:    booked,
			Remaining: remaining,
			Capacity:  settings.MaxPlayersPerSlot,
			Status:    SlotStatus(booked, settings.MaxPlayersPerSlot, settings.WarningThreshold),
		})
	}
	return slots
}
