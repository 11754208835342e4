package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
)

// ChangeStatus is the staff transition: barbers on their own appointments,
// admins on any. The client cutoff does not apply.
type ChangeStatus struct {
	deps Deps
}

func NewChangeStatus(deps Deps) *ChangeStatus {
	return &ChangeStatus{deps: deps.withDefaults()}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uint,
	status string,
	reason string,
) (*models.Appointment, error) {

	to, err := domain.ParseStatus(status)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_status")
	}

	ap, err := uc.deps.Repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	if !actor.CanManageBarber(ap.BarberID) {
		return nil, httperr.ErrForbidden("not_owner")
	}

	if err := domain.Transition(ap, to, uc.deps.Now(), strings.TrimSpace(reason)); err != nil {
		return nil, err
	}

	if err := uc.deps.Repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.deps.Audit.Dispatch(auditFor("appointment_"+string(to), &actor, ap, nil))

	switch to {
	case domain.StatusConfirmed:
		uc.deps.Notifier.Notify(eventFor(notification.EventAppointmentConfirmed, ap))
	case domain.StatusCompleted:
		uc.deps.Notifier.Notify(eventFor(notification.EventAppointmentCompleted, ap))
	case domain.StatusCancelled:
		uc.deps.Notifier.Notify(eventFor(notification.EventAppointmentCancelled, ap))
		uc.deps.freeSlot(ctx, openingFor(ap))
	}

	return ap, nil
}
