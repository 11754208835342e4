package waitinglist

import (
	"errors"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

var ErrNotFound = errors.New("waiting list entry not found")

type Status string

const (
	StatusPending  Status = "pending"
	StatusNotified Status = "notified"
	StatusBooked   Status = "booked"
	StatusExpired  Status = "expired"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusNotified, StatusBooked, StatusExpired:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

// IsOpen is true while the entry may still be matched or booked.
func (s Status) IsOpen() bool {
	return s == StatusPending || s == StatusNotified
}

const (
	Morning   = "morning"
	Afternoon = "afternoon"
	Evening   = "evening"
)

// TimeOfDay buckets an HH:mm slot: morning before 12:00, afternoon before
// 17:00, evening after.
func TimeOfDay(hm string) string {
	m, ok := schedule.ParseHM(hm)
	if !ok {
		return ""
	}
	switch {
	case m < 12*60:
		return Morning
	case m < 17*60:
		return Afternoon
	default:
		return Evening
	}
}

var weekdays = map[string]bool{
	"sunday": true, "monday": true, "tuesday": true, "wednesday": true,
	"thursday": true, "friday": true, "saturday": true,
}

// NormalizePreferences lowercases, de-duplicates and validates day and
// time-of-day preferences.
func NormalizePreferences(days, times []string) ([]string, []string, error) {
	outDays, err := normalize(days, func(s string) bool { return weekdays[s] })
	if err != nil {
		return nil, nil, err
	}
	outTimes, err := normalize(times, func(s string) bool {
		return s == Morning || s == Afternoon || s == Evening
	})
	if err != nil {
		return nil, nil, err
	}
	return outDays, outTimes, nil
}

func normalize(in []string, valid func(string) bool) ([]string, error) {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, raw := range in {
		v := strings.ToLower(strings.TrimSpace(raw))
		if !valid(v) {
			return nil, httperr.ErrValidation("invalid_preferences")
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// Opening describes a slot freed by a cancellation.
type Opening struct {
	BarberID  uint
	ServiceID uint
	Start     time.Time
	Time      string
}

// Matches reports whether a pending entry wants the opening. Empty preference
// lists match anything. Openings that already started never match.
func Matches(e models.WaitingListEntry, o Opening, now time.Time) bool {
	if Status(e.Status) != StatusPending {
		return false
	}
	if !o.Start.After(now) {
		return false
	}
	if !e.ExpiryDate.IsZero() && !e.ExpiryDate.After(now) {
		return false
	}
	if e.ServiceID != o.ServiceID {
		return false
	}
	if e.BarberID != nil && *e.BarberID != o.BarberID {
		return false
	}
	if len(e.PreferredDays) > 0 && !contains(e.PreferredDays, schedule.DayName(o.Start.In(timezone.Shop()))) {
		return false
	}
	if len(e.PreferredTimes) > 0 && !contains(e.PreferredTimes, TimeOfDay(o.Time)) {
		return false
	}
	return true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
