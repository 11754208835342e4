package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitinglist"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type WaitingListGormRepository struct {
	db *gorm.DB
}

func NewWaitingListGormRepository(db *gorm.DB) *WaitingListGormRepository {
	return &WaitingListGormRepository{db: db}
}

func (r *WaitingListGormRepository) CreateEntry(
	ctx context.Context,
	e *models.WaitingListEntry,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(e).Error
}

func (r *WaitingListGormRepository) GetEntry(
	ctx context.Context,
	id uint,
) (*models.WaitingListEntry, error) {

	var e models.WaitingListEntry
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		First(&e, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *WaitingListGormRepository) UpdateEntry(
	ctx context.Context,
	e *models.WaitingListEntry,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(e).Error
}

func (r *WaitingListGormRepository) ListByClient(
	ctx context.Context,
	clientID uint,
) ([]models.WaitingListEntry, error) {
	return r.list(ctx, r.db.Where("client_id = ?", clientID))
}

func (r *WaitingListGormRepository) ListAll(
	ctx context.Context,
	status string,
) ([]models.WaitingListEntry, error) {

	q := r.db.Model(&models.WaitingListEntry{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return r.list(ctx, q)
}

func (r *WaitingListGormRepository) ListPendingForService(
	ctx context.Context,
	serviceID uint,
) ([]models.WaitingListEntry, error) {
	return r.list(ctx, r.db.Where(
		"service_id = ? AND status = ?",
		serviceID, string(domain.StatusPending),
	))
}

func (r *WaitingListGormRepository) list(
	ctx context.Context,
	q *gorm.DB,
) ([]models.WaitingListEntry, error) {

	var entries []models.WaitingListEntry
	if err := q.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Order("request_date ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *WaitingListGormRepository) MarkBooked(
	ctx context.Context,
	clientID uint,
	serviceID uint,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.WaitingListEntry{}).
		Where(
			"client_id = ? AND service_id = ? AND status IN ?",
			clientID, serviceID, openStatuses(),
		).
		Update("status", string(domain.StatusBooked))
	return res.RowsAffected, res.Error
}

func (r *WaitingListGormRepository) ExpireBefore(
	ctx context.Context,
	now time.Time,
) (int64, error) {

	res := r.db.WithContext(ctx).
		Model(&models.WaitingListEntry{}).
		Where("expiry_date <= ? AND status IN ?", now, openStatuses()).
		Update("status", string(domain.StatusExpired))
	return res.RowsAffected, res.Error
}

func openStatuses() []string {
	return []string{string(domain.StatusPending), string(domain.StatusNotified)}
}

// Compile-time check
var _ domain.Repository = (*WaitingListGormRepository)(nil)
