package appointment

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status")
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// ===============================
// Transitions
// ===============================

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) error {
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrInvalidState("invalid_state")
}

func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}

func CanComplete(current Status) error {
	return CanTransition(current, StatusCompleted)
}

func CanConfirm(current Status) error {
	return CanTransition(current, StatusConfirmed)
}

// CanEdit allows rescheduling while the appointment is still open.
func CanEdit(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrInvalidState("invalid_state")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
