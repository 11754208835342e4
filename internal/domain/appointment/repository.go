package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ClientContact struct {
	UserID *uint
	Name   string
	Phone  string
	Email  string
}

// Repository is the store the lifecycle and availability use cases run on.
// Lookups return ErrNotFound for missing rows; writes that would overlap a
// non-cancelled appointment of the same barber return ErrSlotTaken.
type Repository interface {
	// -------- Barber / Service --------
	GetBarber(
		ctx context.Context,
		id uint,
	) (*models.Barber, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Client --------
	GetOrCreateClient(
		ctx context.Context,
		contact ClientContact,
	) (*models.Client, error)

	FindClientByUser(
		ctx context.Context,
		userID uint,
	) (*models.Client, error)

	// -------- Appointment (availability) --------
	ListActiveAppointmentsForDay(
		ctx context.Context,
		barberID uint,
		date string,
	) ([]models.Appointment, error)

	// -------- Appointment (write) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	RescheduleAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// -------- Appointment (read) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		barberID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForClient(
		ctx context.Context,
		clientID uint,
	) ([]models.Appointment, error)

	ListOpenAppointmentsOnDate(
		ctx context.Context,
		date string,
	) ([]models.Appointment, error)
}
