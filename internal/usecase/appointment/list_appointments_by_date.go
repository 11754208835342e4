package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(
	repo domain.Repository,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
	}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	actor domain.Actor,
	barberID uint,
	date string,
) ([]dto.AppointmentListDTO, error) {

	barberID, err := staffBarber(actor, barberID)
	if err != nil {
		return nil, err
	}

	day, err := timezone.ParseDate(date)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_date")
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barberID,
		day,
		day.AddDate(0, 0, 1),
	)
	if err != nil {
		return nil, err
	}

	return dto.AppointmentList(appointments), nil
}

// staffBarber resolves which barber's calendar the actor may read. Barbers
// default to their own; admins must name one.
func staffBarber(actor domain.Actor, barberID uint) (uint, error) {
	if barberID == 0 && actor.BarberID != nil {
		barberID = *actor.BarberID
	}
	if barberID == 0 {
		return 0, httperr.ErrValidation("invalid_request")
	}
	if !actor.CanManageBarber(barberID) {
		return 0, httperr.ErrForbidden("not_owner")
	}
	return barberID, nil
}
