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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	// Actor is nil for guest bookings.
	Actor *domain.Actor

	BarberID  uint
	ServiceID uint

	Client domain.ClientContact

	Date  string
	Time  string
	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	deps         Deps
	availability *GetAvailability
}

func NewCreateAppointment(deps Deps) *CreateAppointment {
	deps = deps.withDefaults()
	return &CreateAppointment{
		deps:         deps,
		availability: NewGetAvailability(deps.Repo, deps.Now),
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	repo := uc.deps.Repo

	// --------------------------------------------------
	// 1. Date / time in the shop timezone
	// --------------------------------------------------
	day, start, err := parseSlot(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	in.Client.Name = strings.TrimSpace(in.Client.Name)
	in.Client.Phone = strings.TrimSpace(in.Client.Phone)
	if in.Client.Name == "" || in.Client.Phone == "" {
		return nil, httperr.ErrValidation("missing_client")
	}

	// --------------------------------------------------
	// 2. Service and barber
	// --------------------------------------------------
	svc, err := repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, notFound(err, "service_not_found")
	}
	if !svc.Active {
		return nil, httperr.ErrValidation("service_inactive")
	}

	barber, err := repo.GetBarber(ctx, in.BarberID)
	if err != nil {
		return nil, notFound(err, "barber_not_found")
	}
	if !barber.Active {
		return nil, httperr.ErrValidation("barber_inactive")
	}
	if !barber.Offers(svc.ID) {
		return nil, httperr.ErrValidation("service_not_offered")
	}

	// --------------------------------------------------
	// 3. Client (get or create)
	// --------------------------------------------------
	client, err := repo.GetOrCreateClient(ctx, in.Client)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Serialize writers for this barber/day
	// --------------------------------------------------
	date := day.Format("2006-01-02")

	release, err := uc.deps.Locker.Acquire(ctx, lock.BookingKey(barber.ID, date))
	if err != nil {
		return nil, lockErr(err)
	}
	defer release()

	// --------------------------------------------------
	// 5. Re-check availability at write time
	// --------------------------------------------------
	res, err := uc.availability.resolve(ctx, barber, day, svc.DurationMin, 0)
	if err != nil {
		return nil, err
	}
	if err := checkSlot(res, in.Time); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6. Insert
	// --------------------------------------------------
	ap := &models.Appointment{
		BarberID:    barber.ID,
		ClientID:    client.ID,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		DurationMin: svc.DurationMin,
		Price:       svc.Price,
		Date:        date,
		Time:        in.Time,
		StartTime:   start,
		EndTime:     start.Add(time.Duration(svc.DurationMin) * time.Minute),
		Status:      string(domain.InitialStatus()),
		Notes:       strings.TrimSpace(in.Notes),
	}

	if err := repo.CreateAppointment(ctx, ap); err != nil {
		if errors.Is(err, domain.ErrSlotTaken) {
			return nil, httperr.ErrConflict("time_conflict")
		}
		return nil, err
	}

	ap.Barber = *barber
	ap.Client = *client
	ap.Service = *svc

	// --------------------------------------------------
	// 7. Side effects
	// --------------------------------------------------
	uc.deps.Audit.Dispatch(auditFor("appointment_created", in.Actor, ap, nil))
	uc.deps.Notifier.Notify(eventFor(notification.EventAppointmentCreated, ap))
	uc.deps.WaitingList.ClientBooked(ctx, client.ID, svc.ID)

	return ap, nil
}
