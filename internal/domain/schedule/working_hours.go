package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ErrInvalidSchedule marks working hours that violate the schedule invariants.
// It signals corrupted configuration, not a user mistake.
var ErrInvalidSchedule = errors.New("invalid working hours")

func DayName(date time.Time) string {
	return strings.ToLower(date.Weekday().String())
}

// DayFor returns the working hours entry for date's weekday.
func DayFor(week []models.WorkingHours, date time.Time) (models.WorkingHours, bool) {
	wd := int(date.Weekday())
	for _, wh := range week {
		if wh.Weekday == wd {
			return wh, true
		}
	}
	return models.WorkingHours{}, false
}

// IsBreak reports whether the slot start falls in [break_start, break_end).
// Only the start is compared; a booking may run into the break tail.
func IsBreak(wh models.WorkingHours, slot string) bool {
	if !wh.HasBreak {
		return false
	}
	t, ok := ParseHM(slot)
	if !ok {
		return false
	}
	bs, ok1 := ParseHM(wh.BreakStart)
	be, ok2 := ParseHM(wh.BreakEnd)
	if !ok1 || !ok2 {
		return false
	}
	return bs <= t && t < be
}

func ValidateDay(wh models.WorkingHours) error {
	if wh.Weekday < 0 || wh.Weekday > 6 {
		return fmt.Errorf("%w: weekday %d out of range", ErrInvalidSchedule, wh.Weekday)
	}

	if !wh.IsWorking {
		if wh.HasBreak || wh.BreakStart != "" || wh.BreakEnd != "" {
			return fmt.Errorf("%w: %s is not a working day but has a break", ErrInvalidSchedule, wh.Day())
		}
		return nil
	}

	start, ok1 := ParseHM(wh.StartTime)
	end, ok2 := ParseHM(wh.EndTime)
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: %s needs start and end times", ErrInvalidSchedule, wh.Day())
	}
	if start >= end {
		return fmt.Errorf("%w: %s starts after it ends", ErrInvalidSchedule, wh.Day())
	}

	if !wh.HasBreak {
		if wh.BreakStart != "" || wh.BreakEnd != "" {
			return fmt.Errorf("%w: %s has break times without a break", ErrInvalidSchedule, wh.Day())
		}
		return nil
	}

	bs, ok1 := ParseHM(wh.BreakStart)
	be, ok2 := ParseHM(wh.BreakEnd)
	if !ok1 || !ok2 {
		return fmt.Errorf("%w: %s needs break start and end", ErrInvalidSchedule, wh.Day())
	}
	if bs >= be {
		return fmt.Errorf("%w: %s break starts after it ends", ErrInvalidSchedule, wh.Day())
	}
	if bs < start || be >= end {
		return fmt.Errorf("%w: %s break outside working hours", ErrInvalidSchedule, wh.Day())
	}
	return nil
}

// ValidateWeek requires exactly one valid entry per weekday.
func ValidateWeek(week []models.WorkingHours) error {
	if len(week) != 7 {
		return fmt.Errorf("%w: expected 7 days, got %d", ErrInvalidSchedule, len(week))
	}

	var seen [7]bool
	for _, wh := range week {
		if err := ValidateDay(wh); err != nil {
			return err
		}
		if seen[wh.Weekday] {
			return fmt.Errorf("%w: %s listed twice", ErrInvalidSchedule, wh.Day())
		}
		seen[wh.Weekday] = true
	}
	return nil
}
