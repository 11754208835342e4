package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type ListAppointmentsByMonth struct {
	repo appointment.Repository
}

func NewListAppointmentsByMonth(
	repo appointment.Repository,
) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{
		repo: repo,
	}
}

func (uc *ListAppointmentsByMonth) Execute(
	ctx context.Context,
	actor appointment.Actor,
	barberID uint,
	year int,
	month int,
) ([]dto.AppointmentListDTO, error) {

	barberID, err := staffBarber(actor, barberID)
	if err != nil {
		return nil, err
	}

	if year < 2000 || month < 1 || month > 12 {
		return nil, httperr.ErrValidation("invalid_date")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, timezone.Shop())
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		barberID,
		start,
		end,
	)
	if err != nil {
		return nil, err
	}

	return dto.AppointmentList(appointments), nil
}
