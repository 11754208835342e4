package appointment

import "github.com/BruksfildServices01/barber-booking/internal/domain/schedule"

const (
	ReasonOnVacation = "ON_VACATION"
	ReasonClosed     = "CLOSED"
)

type AvailabilityInput struct {
	BarberID    uint
	Date        string
	DurationMin int

	// ServiceID supplies the duration when DurationMin is zero.
	ServiceID uint

	// ExcludeAppointmentID leaves one appointment out of the conflict set,
	// used when an appointment is being moved.
	ExcludeAppointmentID uint
}

type AvailabilityResult struct {
	BarberID    uint            `json:"barber_id"`
	Date        string          `json:"date"`
	Day         string          `json:"day"`
	DurationMin int             `json:"duration_min"`
	Reason      string          `json:"reason,omitempty"`
	Slots       []schedule.Slot `json:"slots"`
}

// Slot returns the slot starting at hm, if it is on the grid.
func (r *AvailabilityResult) Slot(hm string) (schedule.Slot, bool) {
	for _, s := range r.Slots {
		if s.Time == hm {
			return s, true
		}
	}
	return schedule.Slot{}, false
}
