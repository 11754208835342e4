package appointment

import (
	"context"
	"errors"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/dto"
)

type ListMyAppointments struct {
	repo domain.Repository
}

func NewListMyAppointments(repo domain.Repository) *ListMyAppointments {
	return &ListMyAppointments{repo: repo}
}

func (uc *ListMyAppointments) Execute(
	ctx context.Context,
	actor domain.Actor,
) ([]dto.AppointmentListDTO, error) {

	client, err := uc.repo.FindClientByUser(ctx, actor.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return []dto.AppointmentListDTO{}, nil
	}
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListAppointmentsForClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	return dto.AppointmentList(appointments), nil
}
