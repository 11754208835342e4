package waitinglist

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	apptdomain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/waitinglist"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

const DefaultTTL = 30 * 24 * time.Hour

// Directory is the slice of the appointment store the waiting list needs.
type Directory interface {
	GetBarber(ctx context.Context, id uint) (*models.Barber, error)
	GetService(ctx context.Context, id uint) (*models.Service, error)
	GetOrCreateClient(ctx context.Context, contact apptdomain.ClientContact) (*models.Client, error)
	FindClientByUser(ctx context.Context, userID uint) (*models.Client, error)
}

type Notifier interface {
	Notify(ev notification.Event)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

type Config struct {
	Repo      domain.Repository
	Directory Directory
	Notifier  Notifier
	Audit     Auditor
	Log       *zap.Logger
	Now       func() time.Time
	TTL       time.Duration
}

// Service runs the waiting list: client self-service, admin review and the
// reactions to freed or booked slots.
type Service struct {
	repo     domain.Repository
	dir      Directory
	notifier Notifier
	audit    Auditor
	log      *zap.Logger
	now      func() time.Time
	ttl      time.Duration
}

func New(cfg Config) *Service {
	s := &Service{
		repo:     cfg.Repo,
		dir:      cfg.Directory,
		notifier: cfg.Notifier,
		audit:    cfg.Audit,
		log:      cfg.Log,
		now:      cfg.Now,
		ttl:      cfg.TTL,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = timezone.Now
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	return s
}

// ======================================================
// Client
// ======================================================

type JoinInput struct {
	Client         apptdomain.ClientContact
	BarberID       *uint
	ServiceID      uint
	PreferredDays  []string
	PreferredTimes []string
	Notes          string
}

func (s *Service) Join(ctx context.Context, in JoinInput) (*models.WaitingListEntry, error) {
	days, times, err := domain.NormalizePreferences(in.PreferredDays, in.PreferredTimes)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_preferences")
	}

	svc, err := s.dir.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, notFound(err, "service_not_found")
	}
	if !svc.Active {
		return nil, httperr.ErrValidation("service_inactive")
	}

	if in.BarberID != nil {
		barber, err := s.dir.GetBarber(ctx, *in.BarberID)
		if err != nil {
			return nil, notFound(err, "barber_not_found")
		}
		if !barber.Offers(svc.ID) {
			return nil, httperr.ErrValidation("service_not_offered")
		}
	}

	client, err := s.dir.GetOrCreateClient(ctx, in.Client)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByClient(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.ServiceID == svc.ID && domain.Status(e.Status).IsOpen() {
			return nil, httperr.ErrConflict("already_waiting")
		}
	}

	now := s.now()
	entry := &models.WaitingListEntry{
		ClientID:       client.ID,
		BarberID:       in.BarberID,
		ServiceID:      svc.ID,
		PreferredDays:  days,
		PreferredTimes: times,
		Notes:          strings.TrimSpace(in.Notes),
		Status:         string(domain.StatusPending),
		RequestDate:    now,
		ExpiryDate:     now.Add(s.ttl),
	}

	if err := s.repo.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}
	entry.Client = *client
	entry.Service = *svc

	s.dispatchAudit("waiting_list_joined", client.UserID, entry)
	return entry, nil
}

func (s *Service) ListMine(ctx context.Context, userID uint) ([]models.WaitingListEntry, error) {
	client, err := s.dir.FindClientByUser(ctx, userID)
	if errors.Is(err, apptdomain.ErrNotFound) {
		return []models.WaitingListEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListByClient(ctx, client.ID)
}

// Withdraw closes the caller's own open entry.
func (s *Service) Withdraw(ctx context.Context, userID, entryID uint) error {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return notFound(err, "entry_not_found")
	}

	client, err := s.dir.FindClientByUser(ctx, userID)
	if err != nil || client.ID != entry.ClientID {
		return httperr.ErrForbidden("not_owner")
	}

	if !domain.Status(entry.Status).IsOpen() {
		return httperr.ErrInvalidState("invalid_state")
	}

	entry.Status = string(domain.StatusExpired)
	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return err
	}

	s.dispatchAudit("waiting_list_withdrawn", &userID, entry)
	return nil
}

// ======================================================
// Admin
// ======================================================

func (s *Service) List(ctx context.Context, status string) ([]models.WaitingListEntry, error) {
	if status != "" {
		if _, err := domain.ParseStatus(status); err != nil {
			return nil, httperr.ErrValidation("invalid_status")
		}
	}
	return s.repo.ListAll(ctx, status)
}

func (s *Service) UpdateStatus(ctx context.Context, actorID, entryID uint, status string) (*models.WaitingListEntry, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_status")
	}

	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, notFound(err, "entry_not_found")
	}

	entry.Status = string(st)
	if st == domain.StatusNotified {
		now := s.now()
		entry.NotifiedAt = &now
	}

	if err := s.repo.UpdateEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.dispatchAudit("waiting_list_status_changed", &actorID, entry)
	return entry, nil
}

// ======================================================
// Reactions
// ======================================================

// SlotFreed notifies every pending entry that wants the opening, oldest
// request first, and marks them notified.
func (s *Service) SlotFreed(ctx context.Context, o domain.Opening) {
	entries, err := s.repo.ListPendingForService(ctx, o.ServiceID)
	if err != nil {
		s.log.Warn("waiting list lookup failed", zap.Uint("service_id", o.ServiceID), zap.Error(err))
		return
	}

	now := s.now()

	var barberName string
	if barber, err := s.dir.GetBarber(ctx, o.BarberID); err == nil {
		barberName = barber.Name
	}

	for i := range entries {
		e := &entries[i]
		if !domain.Matches(*e, o, now) {
			continue
		}

		e.Status = string(domain.StatusNotified)
		e.NotifiedAt = &now
		if err := s.repo.UpdateEntry(ctx, e); err != nil {
			s.log.Warn("waiting list update failed", zap.Uint("entry_id", e.ID), zap.Error(err))
			continue
		}

		if s.notifier != nil {
			s.notifier.Notify(notification.Event{
				Type: notification.EventWaitingListSlotOpened,
				To: notification.Recipient{
					Name:  e.Client.Name,
					Phone: e.Client.Phone,
					Email: e.Client.Email,
				},
				BarberName:  barberName,
				ServiceName: e.Service.Name,
				Start:       o.Start,
			})
		}
	}
}

// ClientBooked closes the client's open entries for the service.
func (s *Service) ClientBooked(ctx context.Context, clientID, serviceID uint) {
	if _, err := s.repo.MarkBooked(ctx, clientID, serviceID); err != nil {
		s.log.Warn("waiting list booking update failed",
			zap.Uint("client_id", clientID),
			zap.Uint("service_id", serviceID),
			zap.Error(err),
		)
	}
}

// ExpireDue closes entries past their expiry date.
func (s *Service) ExpireDue(ctx context.Context) (int64, error) {
	return s.repo.ExpireBefore(ctx, s.now())
}

// ======================================================
// Helpers
// ======================================================

func (s *Service) dispatchAudit(action string, userID *uint, e *models.WaitingListEntry) {
	if s.audit == nil {
		return
	}
	s.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   "waiting_list_entry",
		EntityID: &e.ID,
		Metadata: map[string]string{"status": e.Status},
	})
}

func notFound(err error, code string) error {
	if errors.Is(err, apptdomain.ErrNotFound) || errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrNotFound(code)
	}
	return err
}
