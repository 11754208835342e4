package appointment

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
)

type UpdateAppointmentInput struct {
	Actor         domain.Actor
	AppointmentID uint

	Date string
	Time string

	// ServiceID switches the service when non-zero.
	ServiceID uint
	Notes     *string
}

// UpdateAppointment moves a client's own appointment to a new slot. The
// edit goes back to pending for the barber to confirm again.
type UpdateAppointment struct {
	deps         Deps
	availability *GetAvailability
}

func NewUpdateAppointment(deps Deps) *UpdateAppointment {
	deps = deps.withDefaults()
	return &UpdateAppointment{
		deps:         deps,
		availability: NewGetAvailability(deps.Repo, deps.Now),
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	repo := uc.deps.Repo

	ap, err := loadOwned(ctx, repo, in.Actor, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanEdit(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	if err := domain.CheckClientCutoff(ap.StartTime, now, uc.deps.Cutoff); err != nil {
		return nil, err
	}

	day, start, err := parseSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	barber, err := repo.GetBarber(ctx, ap.BarberID)
	if err != nil {
		return nil, notFound(err, "barber_not_found")
	}

	// Without a service change the booked snapshot is kept.
	durationMin := ap.DurationMin

	var svc *models.Service
	if in.ServiceID != 0 && in.ServiceID != ap.ServiceID {
		svc, err = repo.GetService(ctx, in.ServiceID)
		if err != nil {
			return nil, notFound(err, "service_not_found")
		}
		if !svc.Active {
			return nil, httperr.ErrValidation("service_inactive")
		}
		if !barber.Offers(svc.ID) {
			return nil, httperr.ErrValidation("service_not_offered")
		}
		durationMin = svc.DurationMin
	}

	// --------------------------------------------------
	// Lock both the old and the new day
	// --------------------------------------------------
	date := day.Format("2006-01-02")

	release, err := lock.AcquireAll(ctx, uc.deps.Locker,
		lock.BookingKey(ap.BarberID, ap.Date),
		lock.BookingKey(ap.BarberID, date),
	)
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()

	res, err := uc.availability.resolve(ctx, barber, day, durationMin, ap.ID)
	if err != nil {
		return nil, err
	}
	if err := checkSlot(res, in.Time); err != nil {
		return nil, err
	}

	freed := openingFor(ap)
	moved := ap.Date != date || ap.Time != in.Time || svc != nil

	if svc != nil {
		ap.ServiceID = svc.ID
		ap.Service = *svc
		ap.ServiceName = svc.Name
		ap.DurationMin = svc.DurationMin
		ap.Price = svc.Price
	}
	ap.Date = date
	ap.Time = in.Time
	ap.StartTime = start
	ap.EndTime = start.Add(time.Duration(ap.DurationMin) * time.Minute)
	ap.Status = string(domain.InitialStatus())
	ap.ConfirmedAt = nil
	if in.Notes != nil {
		ap.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := repo.RescheduleAppointment(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return nil, httperr.ErrConflict("time_conflict")
		}
		return nil, err
	}
	ap.Barber = *barber

	uc.deps.Audit.Dispatch(auditFor("appointment_updated", &in.Actor, ap, map[string]string{
		"from": freed.Start.Format(time.RFC3339),
		"to":   ap.StartTime.Format(time.RFC3339),
	}))
	uc.deps.Notifier.Notify(eventFor(notification.EventAppointmentUpdated, ap))
	if moved {
		uc.deps.freeSlot(ctx, freed)
	}

	return ap, nil
}
