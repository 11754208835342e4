package waitinglist

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type Repository interface {
	CreateEntry(ctx context.Context, e *models.WaitingListEntry) error
	GetEntry(ctx context.Context, id uint) (*models.WaitingListEntry, error)
	UpdateEntry(ctx context.Context, e *models.WaitingListEntry) error

	ListByClient(ctx context.Context, clientID uint) ([]models.WaitingListEntry, error)
	ListAll(ctx context.Context, status string) ([]models.WaitingListEntry, error)

	// ListPendingForService returns pending entries for the service.
	ListPendingForService(ctx context.Context, serviceID uint) ([]models.WaitingListEntry, error)

	// MarkBooked moves the client's open entries for the service to booked.
	MarkBooked(ctx context.Context, clientID, serviceID uint) (int64, error)

	// ExpireBefore moves open entries whose expiry is not after now to expired.
	ExpireBefore(ctx context.Context, now time.Time) (int64, error)
}
