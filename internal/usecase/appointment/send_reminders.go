package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// SendReminders notifies clients of the next day's open appointments.
type SendReminders struct {
	repo     domain.Repository
	notifier Notifier
	now      func() time.Time
}

func NewSendReminders(
	repo domain.Repository,
	notifier Notifier,
	now func() time.Time,
) *SendReminders {
	if now == nil {
		now = timezone.Now
	}
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &SendReminders{
		repo:     repo,
		notifier: notifier,
		now:      now,
	}
}

func (uc *SendReminders) Execute(ctx context.Context) (int, error) {
	tomorrow := uc.now().In(timezone.Shop()).AddDate(0, 0, 1).Format("2006-01-02")

	appointments, err := uc.repo.ListOpenAppointmentsOnDate(ctx, tomorrow)
	if err != nil {
		return 0, err
	}

	for i := range appointments {
		uc.notifier.Notify(eventFor(notification.EventAppointmentReminder, &appointments[i]))
	}
	return len(appointments), nil
}
