package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/domain/waitinglist"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// fakeRepo is an in-memory domain.Repository. CreateAppointment rejects
// overlapping rows the way the database constraint does.
type fakeRepo struct {
	mu sync.Mutex

	barbers      map[uint]models.Barber
	services     map[uint]models.Service
	clients      []models.Client
	appointments []models.Appointment
	nextID       uint

	dayListCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		barbers:  map[uint]models.Barber{},
		services: map[uint]models.Service{},
		nextID:   100,
	}
}

func (r *fakeRepo) GetBarber(_ context.Context, id uint) (*models.Barber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.barbers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *fakeRepo) GetOrCreateClient(_ context.Context, c domain.ClientContact) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.clients {
		if c.UserID != nil && existing.UserID != nil && *existing.UserID == *c.UserID {
			return &existing, nil
		}
		if c.UserID == nil && existing.UserID == nil && existing.Phone == c.Phone {
			return &existing, nil
		}
	}

	r.nextID++
	client := models.Client{ID: r.nextID, UserID: c.UserID, Name: c.Name, Phone: c.Phone, Email: c.Email}
	r.clients = append(r.clients, client)
	return &client, nil
}

func (r *fakeRepo) FindClientByUser(_ context.Context, userID uint) (*models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.clients {
		if c.UserID != nil && *c.UserID == userID {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) ListActiveAppointmentsForDay(_ context.Context, barberID uint, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dayListCalls++

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BarberID == barberID && ap.Date == date && ap.Status != string(domain.StatusCancelled) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (r *fakeRepo) overlaps(ap *models.Appointment) bool {
	for _, other := range r.appointments {
		if other.ID == ap.ID || other.BarberID != ap.BarberID || other.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartTime.Before(other.EndTime) && other.StartTime.Before(ap.EndTime) {
			return true
		}
	}
	return false
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlaps(ap) {
		return domain.ErrSlotTaken
	}
	r.nextID++
	ap.ID = r.nextID
	r.appointments = append(r.appointments, *ap)
	return nil
}

func (r *fakeRepo) RescheduleAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlaps(ap) {
		return domain.ErrSlotTaken
	}
	return r.replace(ap)
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replace(ap)
}

func (r *fakeRepo) replace(ap *models.Appointment) error {
	for i := range r.appointments {
		if r.appointments[i].ID == ap.ID {
			r.appointments[i] = *ap
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ap := range r.appointments {
		if ap.ID == id {
			ap.Barber = r.barbers[ap.BarberID]
			ap.Service = r.services[ap.ServiceID]
			for _, c := range r.clients {
				if c.ID == ap.ClientID {
					ap.Client = c
				}
			}
			return &ap, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, barberID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.BarberID == barberID && !ap.StartTime.Before(start) && ap.StartTime.Before(end) {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAppointmentsForClient(_ context.Context, clientID uint) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.ClientID == clientID {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListOpenAppointmentsOnDate(_ context.Context, date string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Date == date && !domain.Status(ap.Status).IsTerminal() {
			out = append(out, ap)
		}
	}
	return out, nil
}

// seed adds a raw appointment row, bypassing availability.
func (r *fakeRepo) seed(ap models.Appointment) uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ap.ID = r.nextID
	if ap.EndTime.IsZero() {
		ap.EndTime = ap.StartTime.Add(time.Duration(ap.DurationMin) * time.Minute)
	}
	r.appointments = append(r.appointments, ap)
	return ap.ID
}

// ======================================================
// Recording collaborators
// ======================================================

type recordingNotifier struct {
	mu     sync.Mutex
	events []notification.Event
}

func (n *recordingNotifier) Notify(ev notification.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, ev := range n.events {
		out = append(out, ev.Type)
	}
	return out
}

type recordingWaitingList struct {
	mu     sync.Mutex
	freed  []waitinglist.Opening
	booked [][2]uint
}

func (w *recordingWaitingList) SlotFreed(_ context.Context, o waitinglist.Opening) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.freed = append(w.freed, o)
}

func (w *recordingWaitingList) ClientBooked(_ context.Context, clientID, serviceID uint) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.booked = append(w.booked, [2]uint{clientID, serviceID})
}

// ======================================================
// Fixtures
// ======================================================

const (
	barberID  = 1
	haircutID = 10
	beardID   = 11
)

func shopTime(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, timezone.Shop())
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// mondayBarber works Monday 09:00-19:00 with a 12:00-12:30 break and is
// closed the rest of the week.
func mondayBarber() models.Barber {
	week := make([]models.WorkingHours, 0, 7)
	for wd := 0; wd < 7; wd++ {
		week = append(week, models.WorkingHours{BarberID: barberID, Weekday: wd})
	}
	week[time.Monday] = models.WorkingHours{
		BarberID:   barberID,
		Weekday:    int(time.Monday),
		IsWorking:  true,
		StartTime:  "09:00",
		EndTime:    "19:00",
		HasBreak:   true,
		BreakStart: "12:00",
		BreakEnd:   "12:30",
	}

	return models.Barber{
		ID:           barberID,
		Name:         "Carlos",
		Active:       true,
		Services:     []models.Service{{ID: haircutID}},
		WorkingHours: week,
	}
}

func seededRepo() *fakeRepo {
	repo := newFakeRepo()
	repo.barbers[barberID] = mondayBarber()
	repo.services[haircutID] = models.Service{ID: haircutID, Name: "Haircut", DurationMin: 30, Price: 50, Active: true}
	repo.services[beardID] = models.Service{ID: beardID, Name: "Beard", DurationMin: 15, Price: 25, Active: true}
	return repo
}

func clientActor(userID uint) domain.Actor {
	return domain.Actor{UserID: userID, Role: models.RoleClient}
}

func clientContact(userID uint) domain.ClientContact {
	return domain.ClientContact{UserID: &userID, Name: "Ana", Phone: "+5511999990000"}
}
