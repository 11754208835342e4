package schedule

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func slotMap(slots []Slot) map[string]Slot {
	m := make(map[string]Slot, len(slots))
	for _, s := range slots {
		m[s.Time] = s
	}
	return m
}

func TestOverlaps_HalfOpen(t *testing.T) {
	base := time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC)
	a := Interval{Start: base, End: base.Add(30 * time.Minute)}

	if !Overlaps(a, Interval{Start: base.Add(15 * time.Minute), End: base.Add(45 * time.Minute)}) {
		t.Fatalf("expected overlap")
	}
	if Overlaps(a, Interval{Start: base.Add(30 * time.Minute), End: base.Add(60 * time.Minute)}) {
		t.Fatalf("adjacent intervals must not overlap")
	}
	if Overlaps(a, Interval{Start: base.Add(-30 * time.Minute), End: base}) {
		t.Fatalf("adjacent intervals must not overlap")
	}
}

func TestResolveSlots_BreakAndBooking(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	existing := []models.Appointment{{
		ID:          7,
		StartTime:   time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC),
		DurationMin: 30,
	}}

	slots := ResolveSlots(date, monday(), Busy(existing, 0), 30*time.Minute, now)
	if len(slots) != 40 {
		t.Fatalf("expected 40 slots, got %d", len(slots))
	}
	m := slotMap(slots)

	if !m["11:45"].Available {
		t.Fatalf("11:45 should be available: %+v", m["11:45"])
	}
	for _, s := range []string{"12:00", "12:15"} {
		if m[s].Available || !m[s].IsBreak {
			t.Fatalf("%s should be a break: %+v", s, m[s])
		}
	}
	if !m["12:30"].Available {
		t.Fatalf("12:30 should be available again")
	}

	// 13:45 + 30min overlaps 14:00-14:30; 14:00 and 14:15 overlap directly.
	for _, s := range []string{"13:45", "14:00", "14:15"} {
		if m[s].Available || !m[s].IsBooked {
			t.Fatalf("%s should be booked: %+v", s, m[s])
		}
	}
	if !m["14:30"].Available {
		t.Fatalf("14:30 should be available")
	}
	if !m["13:30"].Available {
		t.Fatalf("13:30 should be available")
	}
}

func TestResolveSlots_ExcludesEditedAppointment(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	existing := []models.Appointment{{
		ID:          7,
		StartTime:   time.Date(2024, 6, 10, 14, 0, 0, 0, time.UTC),
		DurationMin: 30,
	}}

	m := slotMap(ResolveSlots(date, monday(), Busy(existing, 7), 30*time.Minute, now))
	if !m["14:00"].Available {
		t.Fatalf("excluded appointment must not block its own slot")
	}
}

func TestResolveSlots_Past(t *testing.T) {
	date := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

	m := slotMap(ResolveSlots(date, monday(), nil, 30*time.Minute, now))

	if m["09:45"].Available || !m["09:45"].IsPast {
		t.Fatalf("09:45 should be past")
	}
	if m["10:00"].Available || !m["10:00"].IsPast {
		t.Fatalf("slot equal to now should be past")
	}
	if !m["10:15"].Available {
		t.Fatalf("10:15 should be available")
	}
}
