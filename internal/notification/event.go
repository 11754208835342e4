package notification

import (
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const (
	EventAppointmentCreated    = "appointment_created"
	EventAppointmentUpdated    = "appointment_updated"
	EventAppointmentCancelled  = "appointment_cancelled"
	EventAppointmentConfirmed  = "appointment_confirmed"
	EventAppointmentCompleted  = "appointment_completed"
	EventAppointmentReminder   = "appointment_reminder"
	EventWaitingListSlotOpened = "waiting_list_slot_opened"
)

type Recipient struct {
	Name  string
	Phone string
	Email string
}

type Event struct {
	Type          string
	To            Recipient
	AppointmentID uint
	BarberName    string
	ServiceName   string
	Start         time.Time
	Reason        string
}

// Message renders the text sent to the recipient.
func Message(ev Event) string {
	start := ev.Start.In(timezone.Shop())
	when := start.Format("02/01/2006 15:04")

	switch ev.Type {
	case EventAppointmentCreated:
		return fmt.Sprintf("Hi %s, your %s with %s on %s is booked.", ev.To.Name, ev.ServiceName, ev.BarberName, when)
	case EventAppointmentUpdated:
		return fmt.Sprintf("Hi %s, your %s with %s was moved to %s.", ev.To.Name, ev.ServiceName, ev.BarberName, when)
	case EventAppointmentConfirmed:
		return fmt.Sprintf("Hi %s, your %s with %s on %s is confirmed.", ev.To.Name, ev.ServiceName, ev.BarberName, when)
	case EventAppointmentCompleted:
		return fmt.Sprintf("Thanks for visiting us, %s!", ev.To.Name)
	case EventAppointmentCancelled:
		if ev.Reason != "" {
			return fmt.Sprintf("Hi %s, your %s on %s was cancelled: %s", ev.To.Name, ev.ServiceName, when, ev.Reason)
		}
		return fmt.Sprintf("Hi %s, your %s on %s was cancelled.", ev.To.Name, ev.ServiceName, when)
	case EventAppointmentReminder:
		return fmt.Sprintf("Reminder: %s with %s tomorrow at %s.", ev.ServiceName, ev.BarberName, start.Format("15:04"))
	case EventWaitingListSlotOpened:
		return fmt.Sprintf("Hi %s, a %s slot opened with %s on %s. Book it before someone else does!", ev.To.Name, ev.ServiceName, ev.BarberName, when)
	}
	return ""
}
