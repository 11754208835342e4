package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/waitinglist"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ======================================================
// COLLABORATORS
// ======================================================

type Notifier interface {
	Notify(ev notification.Event)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

// WaitingList is told about freed and taken slots. Both calls are best
// effort and must not fail the lifecycle operation.
type WaitingList interface {
	SlotFreed(ctx context.Context, o waitinglist.Opening)
	ClientBooked(ctx context.Context, clientID, serviceID uint)
}

// Deps are shared by the lifecycle use cases. Nil collaborators are
// replaced with no-ops.
type Deps struct {
	Repo        domain.Repository
	Locker      lock.Locker
	Notifier    Notifier
	Audit       Auditor
	WaitingList WaitingList
	Now         func() time.Time
	Cutoff      time.Duration
}

const DefaultClientCutoff = 24 * time.Hour

func (d Deps) withDefaults() Deps {
	if d.Locker == nil {
		d.Locker = lock.NewMemoryLocker()
	}
	if d.Notifier == nil {
		d.Notifier = nopNotifier{}
	}
	if d.Audit == nil {
		d.Audit = nopAuditor{}
	}
	if d.WaitingList == nil {
		d.WaitingList = nopWaitingList{}
	}
	if d.Now == nil {
		d.Now = timezone.Now
	}
	if d.Cutoff <= 0 {
		d.Cutoff = DefaultClientCutoff
	}
	return d
}

type nopNotifier struct{}

func (nopNotifier) Notify(notification.Event) {}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

type nopWaitingList struct{}

func (nopWaitingList) SlotFreed(context.Context, waitinglist.Opening) {}
func (nopWaitingList) ClientBooked(context.Context, uint, uint)       {}

// ======================================================
// HELPERS
// ======================================================

func eventFor(typ string, ap *models.Appointment) notification.Event {
	return notification.Event{
		Type: typ,
		To: notification.Recipient{
			Name:  ap.Client.Name,
			Phone: ap.Client.Phone,
			Email: ap.Client.Email,
		},
		AppointmentID: ap.ID,
		BarberName:    ap.Barber.Name,
		ServiceName:   ap.ServiceName,
		Start:         ap.StartTime.In(timezone.Shop()),
		Reason:        ap.CancelReason,
	}
}

func auditFor(action string, actor *domain.Actor, ap *models.Appointment, meta any) audit.Event {
	ev := audit.Event{
		Action:   action,
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: meta,
	}
	if actor != nil {
		uid := actor.UserID
		ev.UserID = &uid
	}
	return ev
}

func openingFor(ap *models.Appointment) waitinglist.Opening {
	return waitinglist.Opening{
		BarberID:  ap.BarberID,
		ServiceID: ap.ServiceID,
		Start:     ap.StartTime.In(timezone.Shop()),
		Time:      ap.Time,
	}
}

// freeSlot offers a released slot to the waiting list unless it has
// already started.
func (d Deps) freeSlot(ctx context.Context, o waitinglist.Opening) {
	if !o.Start.After(d.Now()) {
		return
	}
	d.WaitingList.SlotFreed(ctx, o)
}

func notFound(err error, code string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}

func lockErr(err error) error {
	if errors.Is(err, lock.ErrLockTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return httperr.ErrConflict("booking_busy")
	}
	return err
}

// loadOwned returns the appointment when actor is the client who booked it.
func loadOwned(ctx context.Context, repo domain.Repository, actor domain.Actor, id uint) (*models.Appointment, error) {
	ap, err := repo.GetAppointment(ctx, id)
	if err != nil {
		return nil, notFound(err, "appointment_not_found")
	}

	client, err := repo.FindClientByUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrForbidden("not_owner")
		}
		return nil, err
	}
	if client.ID != ap.ClientID {
		return nil, httperr.ErrForbidden("not_owner")
	}

	return ap, nil
}
