package schedule

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps treats both intervals as half-open.
func Overlaps(a, b Interval) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

func overlapsAny(iv Interval, busy []Interval) bool {
	for _, b := range busy {
		if Overlaps(iv, b) {
			return true
		}
	}
	return false
}

// Busy converts non-cancelled appointments into [start, start+duration)
// intervals, skipping the excluded id (0 excludes nothing).
func Busy(appointments []models.Appointment, exclude uint) []Interval {
	out := make([]Interval, 0, len(appointments))
	for _, ap := range appointments {
		if exclude != 0 && ap.ID == exclude {
			continue
		}
		out = append(out, Interval{
			Start: ap.StartTime,
			End:   ap.StartTime.Add(time.Duration(ap.DurationMin) * time.Minute),
		})
	}
	return out
}

type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
	IsBreak   bool   `json:"is_break"`
	IsBooked  bool   `json:"is_booked"`
	IsPast    bool   `json:"is_past"`
}

// ResolveSlots builds the day grid for wh and flags each slot. A slot is
// booked when a booking of the requested duration starting there would
// overlap any busy interval, and past when its start is not after now.
func ResolveSlots(date time.Time, wh models.WorkingHours, busy []Interval, duration time.Duration, now time.Time) []Slot {
	grid := GenerateSlots(wh.StartTime, wh.EndTime)
	slots := make([]Slot, 0, len(grid))

	for _, hm := range grid {
		start, _ := At(date, hm)

		s := Slot{
			Time:     hm,
			IsBreak:  IsBreak(wh, hm),
			IsBooked: overlapsAny(Interval{Start: start, End: start.Add(duration)}, busy),
			IsPast:   !start.After(now),
		}
		s.Available = !s.IsBreak && !s.IsBooked && !s.IsPast
		slots = append(slots, s)
	}
	return slots
}
