package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCancelled}:   true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCancelled}: true,
	}

	all := []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled}
	for _, from := range all {
		for _, to := range all {
			err := CanTransition(from, to)
			if allowed[[2]Status{from, to}] {
				if err != nil {
					t.Fatalf("%s -> %s should be allowed: %v", from, to, err)
				}
				continue
			}
			if httperr.KindOf(err) != httperr.KindInvalidState {
				t.Fatalf("%s -> %s should be rejected, got %v", from, to, err)
			}
		}
	}
}

func TestTransition_SetsTimestamps(t *testing.T) {
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)
	ap := &models.Appointment{Status: string(StatusPending)}

	if err := Transition(ap, StatusConfirmed, now, ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if ap.ConfirmedAt == nil || !ap.ConfirmedAt.Equal(now) {
		t.Fatalf("confirmed_at not set")
	}

	if err := Transition(ap, StatusCancelled, now, "barber sick"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if ap.CancelReason != "barber sick" || ap.CancelledAt == nil {
		t.Fatalf("cancel fields not set: %+v", ap)
	}

	if err := Transition(ap, StatusCompleted, now, ""); err == nil {
		t.Fatalf("cancelled appointments cannot complete")
	}
	if err := Transition(ap, StatusPending, now, ""); err == nil {
		t.Fatalf("pending is not a staff transition")
	}
}

func TestCheckClientCutoff(t *testing.T) {
	start := time.Date(2024, 6, 11, 14, 0, 0, 0, time.UTC)
	cutoff := 24 * time.Hour

	cases := []struct {
		now  time.Time
		okay bool
	}{
		{start.Add(-48 * time.Hour), true},
		{start.Add(-24*time.Hour - time.Nanosecond), true},
		{start.Add(-24 * time.Hour), false},
		{start.Add(-24*time.Hour + time.Nanosecond), false},
		{start.Add(-23 * time.Hour), false},
		{start.Add(time.Hour), false},
	}

	for _, tc := range cases {
		err := CheckClientCutoff(start, tc.now, cutoff)
		if tc.okay && err != nil {
			t.Fatalf("now=%s: unexpected error %v", tc.now, err)
		}
		if !tc.okay && httperr.KindOf(err) != httperr.KindTooLate {
			t.Fatalf("now=%s: expected too late, got %v", tc.now, err)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if _, err := ParseStatus("confirmed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseStatus("scheduled"); httperr.KindOf(err) != httperr.KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestActor_CanManageBarber(t *testing.T) {
	id := uint(3)
	barber := Actor{UserID: 9, Role: models.RoleBarber, BarberID: &id}

	if !barber.CanManageBarber(3) {
		t.Fatalf("barber should manage own schedule")
	}
	if barber.CanManageBarber(4) {
		t.Fatalf("barber must not manage another barber")
	}
	if !(Actor{Role: models.RoleAdmin}).CanManageBarber(4) {
		t.Fatalf("admin manages every barber")
	}
	if (Actor{Role: models.RoleClient}).CanManageBarber(3) {
		t.Fatalf("clients manage no barber")
	}
}
