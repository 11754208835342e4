package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type GetAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetAvailability(
	repo domain.Repository,
	now func() time.Time,
) *GetAvailability {
	if now == nil {
		now = timezone.Now
	}
	return &GetAvailability{
		repo: repo,
		now:  now,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (*domain.AvailabilityResult, error) {

	date, err := timezone.ParseDate(in.Date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	barber, err := uc.repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, notFound(err, "barber_not_found")
	}

	duration := in.DurationMin
	if duration == 0 && in.ServiceID != 0 {
		svc, err := uc.repo.GetService(ctx, in.ServiceID)
		if err != nil {
			return nil, notFound(err, "service_not_found")
		}
		duration = svc.DurationMin
	}
	if duration <= 0 {
		return nil, httperr.ErrValidation("invalid_duration")
	}

	return uc.resolve(ctx, barber, date, duration, in.ExcludeAppointmentID)
}

// resolve runs the availability pipeline for a loaded barber: vacation,
// then working hours, then the grid with break, booking and past flags.
func (uc *GetAvailability) resolve(
	ctx context.Context,
	barber *models.Barber,
	date time.Time,
	durationMin int,
	excludeID uint,
) (*domain.AvailabilityResult, error) {

	res := &domain.AvailabilityResult{
		BarberID:    barber.ID,
		Date:        date.Format("2006-01-02"),
		Day:         schedule.DayName(date),
		DurationMin: durationMin,
		Slots:       []schedule.Slot{},
	}

	// --------------------------------------------------
	// Vacation wins over any working hours
	// --------------------------------------------------
	if _, on := schedule.OnVacation(barber.Vacations, date); on {
		res.Reason = domain.ReasonOnVacation
		return res, nil
	}

	// --------------------------------------------------
	// Working hours
	// --------------------------------------------------
	wh, ok := schedule.DayFor(barber.WorkingHours, date)
	if !ok || !wh.IsWorking {
		res.Reason = domain.ReasonClosed
		return res, nil
	}
	if err := schedule.ValidateDay(wh); err != nil {
		return nil, fmt.Errorf("barber %d: %w", barber.ID, err)
	}

	// --------------------------------------------------
	// Existing bookings
	// --------------------------------------------------
	appointments, err := uc.repo.ListActiveAppointmentsForDay(ctx, barber.ID, res.Date)
	if err != nil {
		return nil, err
	}

	res.Slots = schedule.ResolveSlots(
		date,
		wh,
		schedule.Busy(appointments, excludeID),
		time.Duration(durationMin)*time.Minute,
		uc.now(),
	)
	return res, nil
}

// checkSlot turns an unavailable slot into the error a booking attempt gets.
func checkSlot(res *domain.AvailabilityResult, hm string) error {
	switch res.Reason {
	case domain.ReasonOnVacation:
		return httperr.ErrValidation("barber_on_vacation")
	case domain.ReasonClosed:
		return httperr.ErrValidation("barber_closed")
	}

	slot, ok := res.Slot(hm)
	if !ok {
		return httperr.ErrValidation("slot_unavailable")
	}

	switch {
	case slot.IsPast:
		return httperr.ErrValidation("slot_in_past")
	case slot.IsBreak:
		return httperr.ErrValidation("slot_unavailable")
	case slot.IsBooked:
		return httperr.ErrConflict("time_conflict")
	}
	return nil
}

// parseSlot validates a booking date and HH:mm start. Whether the start is
// on the barber's grid is decided by checkSlot.
func parseSlot(date, hm string) (time.Time, time.Time, error) {
	day, err := timezone.ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, httperr.ErrValidation("invalid_date")
	}

	start, ok := schedule.At(day, hm)
	if !ok {
		return time.Time{}, time.Time{}, httperr.ErrValidation("invalid_time")
	}
	return day, start, nil
}
