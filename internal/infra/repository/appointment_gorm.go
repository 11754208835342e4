package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Barber / Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBarber(
	ctx context.Context,
	id uint,
) (*models.Barber, error) {

	var barber models.Barber
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Preload("WorkingHours", func(db *gorm.DB) *gorm.DB {
			return db.Order("weekday ASC")
		}).
		Preload("Vacations").
		First(&barber, id).Error; err != nil {
		return nil, translate(err)
	}
	return &barber, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &svc, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

// GetOrCreateClient finds registered clients by user and guests by phone.
func (r *AppointmentGormRepository) GetOrCreateClient(
	ctx context.Context,
	contact domain.ClientContact,
) (*models.Client, error) {

	q := r.db.WithContext(ctx)
	if contact.UserID != nil {
		q = q.Where("user_id = ?", *contact.UserID)
	} else {
		q = q.Where("user_id IS NULL AND phone = ?", contact.Phone)
	}

	var client models.Client
	err := q.First(&client).Error
	if err == nil {
		return &client, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	client = models.Client{
		UserID: contact.UserID,
		Name:   contact.Name,
		Phone:  contact.Phone,
		Email:  contact.Email,
	}

	// A concurrent first booking may create the same registered client.
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&client).Error; err != nil {
		return nil, err
	}
	if client.ID == 0 && contact.UserID != nil {
		return r.FindClientByUser(ctx, *contact.UserID)
	}

	return &client, nil
}

func (r *AppointmentGormRepository) FindClientByUser(
	ctx context.Context,
	userID uint,
) (*models.Client, error) {

	var client models.Client
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&client).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

// --------------------------------------------------
// Appointment (availability)
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveAppointmentsForDay(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "duration_min").
		Where(
			"barber_id = ? AND date = ? AND status <> ?",
			barberID, date, string(domain.StatusCancelled),
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

// --------------------------------------------------
// Appointment (write)
// --------------------------------------------------

// CreateAppointment inserts inside a transaction holding the per barber/day
// advisory lock, re-checking overlap first. The exclusion constraint catches
// anything that slips past.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.withBookingLock(ctx, ap, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Create(ap).Error
	})
}

func (r *AppointmentGormRepository) RescheduleAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.withBookingLock(ctx, ap, func(tx *gorm.DB) error {
		return tx.Omit(clause.Associations).Save(ap).Error
	})
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error)
}

func (r *AppointmentGormRepository) withBookingLock(
	ctx context.Context,
	ap *models.Appointment,
	write func(tx *gorm.DB) error,
) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		key := fmt.Sprintf("booking:%d:%s", ap.BarberID, ap.Date)
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Appointment{}).
			Where(
				"barber_id = ? AND id <> ? AND status <> ? AND start_time < ? AND end_time > ?",
				ap.BarberID, ap.ID, string(domain.StatusCancelled), ap.EndTime, ap.StartTime,
			).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrSlotTaken
		}

		return write(tx)
	})

	return translate(err)
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Preload("Service").
		First(&ap, id).Error; err != nil {
		return nil, translate(err)
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	barberID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment

	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Where(
			"barber_id = ? AND start_time >= ? AND start_time < ?",
			barberID,
			start,
			end,
		).
		Order("start_time ASC").
		Find(&apps).Error

	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForClient(
	ctx context.Context,
	clientID uint,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Where("client_id = ?", clientID).
		Order("start_time DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListOpenAppointmentsOnDate(
	ctx context.Context,
	date string,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Where(
			"date = ? AND status IN ?",
			date,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
