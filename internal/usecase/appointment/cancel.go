package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
)

// CancelAppointment is the client's self-service cancel, bound by the
// cutoff before the start.
type CancelAppointment struct {
	deps Deps
}

func NewCancelAppointment(deps Deps) *CancelAppointment {
	return &CancelAppointment{deps: deps.withDefaults()}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	reason string,
) (*models.Appointment, error) {

	ap, err := loadOwned(ctx, uc.deps.Repo, actor, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return nil, err
	}

	now := uc.deps.Now()
	if err := domain.CheckClientCutoff(ap.StartTime, now, uc.deps.Cutoff); err != nil {
		return nil, err
	}

	if err := domain.Cancel(ap, now, strings.TrimSpace(reason)); err != nil {
		return nil, err
	}

	if err := uc.deps.Repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.deps.Audit.Dispatch(auditFor("appointment_cancelled", &actor, ap, nil))
	uc.deps.Notifier.Notify(eventFor(notification.EventAppointmentCancelled, ap))
	uc.deps.freeSlot(ctx, openingFor(ap))

	return ap, nil
}
