package appointment

import (
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment, now time.Time) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return nil
}

func Cancel(ap *models.Appointment, now time.Time, reason string) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	ap.CancelReason = reason
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// Transition applies a staff-requested status change.
func Transition(ap *models.Appointment, to Status, now time.Time, reason string) error {
	switch to {
	case StatusConfirmed:
		return Confirm(ap, now)
	case StatusCompleted:
		return Complete(ap, now)
	case StatusCancelled:
		return Cancel(ap, now, reason)
	}
	return httperr.ErrInvalidState("invalid_state")
}

// CheckClientCutoff allows client edits only while start - now > cutoff.
func CheckClientCutoff(start, now time.Time, cutoff time.Duration) error {
	if start.Sub(now) > cutoff {
		return nil
	}
	return httperr.ErrTooLate("too_late_to_modify")
}
