package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type harness struct {
	repo     *fakeRepo
	notifier *recordingNotifier
	waiting  *recordingWaitingList
	deps     Deps
}

func newHarness(now time.Time) *harness {
	h := &harness{
		repo:     seededRepo(),
		notifier: &recordingNotifier{},
		waiting:  &recordingWaitingList{},
	}
	h.deps = Deps{
		Repo:        h.repo,
		Notifier:    h.notifier,
		WaitingList: h.waiting,
		Now:         fixedClock(now),
	}
	return h
}

func (h *harness) book(t *testing.T, userID uint, date, hm string) *models.Appointment {
	t.Helper()
	actor := clientActor(userID)
	ap, err := NewCreateAppointment(h.deps).Execute(context.Background(), CreateAppointmentInput{
		Actor:     &actor,
		BarberID:  barberID,
		ServiceID: haircutID,
		Client:    clientContact(userID),
		Date:      date,
		Time:      hm,
	})
	if err != nil {
		t.Fatalf("booking %s %s: %v", date, hm, err)
	}
	return ap
}

func expectCode(t *testing.T, err error, kind httperr.Kind, code string) {
	t.Helper()
	if httperr.KindOf(err) != kind || httperr.CodeOf(err) != code {
		t.Fatalf("expected %s (kind %d), got %v", code, kind, err)
	}
}

// ======================================================
// Create
// ======================================================

func TestCreate_SnapshotsServiceAndStartsPending(t *testing.T) {
	h := newHarness(saturdayMorning)

	ap := h.book(t, 7, "2024-06-10", "10:00")

	if ap.Status != string(domain.StatusPending) {
		t.Fatalf("expected pending, got %s", ap.Status)
	}
	if ap.DurationMin != 30 || ap.Price != 50 || ap.ServiceName != "Haircut" {
		t.Fatalf("service snapshot not copied: %+v", ap)
	}
	if !ap.StartTime.Equal(shopTime(2024, 6, 10, 10, 0)) || !ap.EndTime.Equal(shopTime(2024, 6, 10, 10, 30)) {
		t.Fatalf("unexpected interval %s - %s", ap.StartTime, ap.EndTime)
	}
	if got := h.notifier.types(); len(got) != 1 || got[0] != notification.EventAppointmentCreated {
		t.Fatalf("expected one created notification, got %v", got)
	}
	if len(h.waiting.booked) != 1 || h.waiting.booked[0][1] != haircutID {
		t.Fatalf("waiting list not told about the booking")
	}
}

func TestCreate_RejectsUnavailableSlots(t *testing.T) {
	h := newHarness(shopTime(2024, 6, 10, 10, 0))
	h.book(t, 7, "2024-06-10", "15:00")

	cases := []struct {
		name string
		date string
		hm   string
		kind httperr.Kind
		code string
	}{
		{"break", "2024-06-10", "12:15", httperr.KindValidation, "slot_unavailable"},
		{"past", "2024-06-10", "09:30", httperr.KindValidation, "slot_in_past"},
		{"closed day", "2024-06-11", "10:00", httperr.KindValidation, "barber_closed"},
		{"after closing", "2024-06-10", "19:00", httperr.KindValidation, "slot_unavailable"},
		{"off grid", "2024-06-10", "10:05", httperr.KindValidation, "slot_unavailable"},
		{"bad time", "2024-06-10", "25:00", httperr.KindValidation, "invalid_time"},
		{"bad date", "2024-13-10", "10:00", httperr.KindValidation, "invalid_date"},
		{"overlap", "2024-06-10", "14:45", httperr.KindConflict, "time_conflict"},
	}

	for _, tc := range cases {
		actor := clientActor(8)
		_, err := NewCreateAppointment(h.deps).Execute(context.Background(), CreateAppointmentInput{
			Actor:     &actor,
			BarberID:  barberID,
			ServiceID: haircutID,
			Client:    clientContact(8),
			Date:      tc.date,
			Time:      tc.hm,
		})
		if httperr.KindOf(err) != tc.kind || httperr.CodeOf(err) != tc.code {
			t.Fatalf("%s: expected %s, got %v", tc.name, tc.code, err)
		}
	}
}

func TestCreate_ServiceRules(t *testing.T) {
	h := newHarness(saturdayMorning)
	uc := NewCreateAppointment(h.deps)

	_, err := uc.Execute(context.Background(), CreateAppointmentInput{
		BarberID: barberID, ServiceID: beardID, Client: clientContact(7), Date: "2024-06-10", Time: "10:00",
	})
	expectCode(t, err, httperr.KindValidation, "service_not_offered")

	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		BarberID: barberID, ServiceID: 99, Client: clientContact(7), Date: "2024-06-10", Time: "10:00",
	})
	expectCode(t, err, httperr.KindNotFound, "service_not_found")

	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		BarberID: 99, ServiceID: haircutID, Client: clientContact(7), Date: "2024-06-10", Time: "10:00",
	})
	expectCode(t, err, httperr.KindNotFound, "barber_not_found")

	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		BarberID: barberID, ServiceID: haircutID, Client: domain.ClientContact{Name: "Guest"}, Date: "2024-06-10", Time: "10:00",
	})
	expectCode(t, err, httperr.KindValidation, "missing_client")
}

func TestCreate_GuestReusesContactByPhone(t *testing.T) {
	h := newHarness(saturdayMorning)
	uc := NewCreateAppointment(h.deps)
	guest := domain.ClientContact{Name: "Bruno", Phone: "11988887777"}

	first, err := uc.Execute(context.Background(), CreateAppointmentInput{BarberID: barberID, ServiceID: haircutID, Client: guest, Date: "2024-06-10", Time: "10:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), CreateAppointmentInput{BarberID: barberID, ServiceID: haircutID, Client: guest, Date: "2024-06-10", Time: "11:00"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.ClientID != second.ClientID || !first.Client.IsGuest() {
		t.Fatalf("guest bookings should share one contact record")
	}
}

func TestCreate_ConcurrentSameSlotBooksOnce(t *testing.T) {
	h := newHarness(saturdayMorning)
	uc := NewCreateAppointment(h.deps)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		ok        int
		conflicts int
	)

	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			<-start

			actor := clientActor(userID)
			_, err := uc.Execute(context.Background(), CreateAppointmentInput{
				Actor:     &actor,
				BarberID:  barberID,
				ServiceID: haircutID,
				Client:    clientContact(userID),
				Date:      "2024-06-10",
				Time:      "10:00",
			})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case httperr.KindOf(err) == httperr.KindConflict:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint(i + 1))
	}
	close(start)
	wg.Wait()

	if ok != 1 || conflicts != attempts-1 {
		t.Fatalf("expected 1 booking and %d conflicts, got %d and %d", attempts-1, ok, conflicts)
	}
}

// ======================================================
// Client edit / cancel
// ======================================================

func TestClientCancel_Cutoff(t *testing.T) {
	start := shopTime(2024, 6, 10, 10, 0)

	cases := []struct {
		name string
		now  time.Time
		ok   bool
	}{
		{"23 hours out", start.Add(-23 * time.Hour), false},
		{"exactly 24 hours", start.Add(-24 * time.Hour), false},
		{"24h minus epsilon", start.Add(-24*time.Hour + time.Nanosecond), false},
		{"24h plus a minute", start.Add(-24*time.Hour - time.Minute), true},
	}

	for _, tc := range cases {
		h := newHarness(saturdayMorning)
		ap := h.book(t, 7, "2024-06-10", "10:00")
		h.deps.Now = fixedClock(tc.now)

		got, err := NewCancelAppointment(h.deps).Execute(context.Background(), clientActor(7), ap.ID, "")
		if tc.ok {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			if got.Status != string(domain.StatusCancelled) || got.CancelledAt == nil {
				t.Fatalf("%s: appointment not cancelled", tc.name)
			}
			if len(h.waiting.freed) != 1 || h.waiting.freed[0].Time != "10:00" {
				t.Fatalf("%s: freed slot not offered to the waiting list", tc.name)
			}
			continue
		}
		expectCode(t, err, httperr.KindTooLate, "too_late_to_modify")
	}
}

func TestClientCancel_OwnerOnly(t *testing.T) {
	h := newHarness(saturdayMorning)
	ap := h.book(t, 7, "2024-06-10", "10:00")
	h.book(t, 8, "2024-06-10", "11:00")

	_, err := NewCancelAppointment(h.deps).Execute(context.Background(), clientActor(8), ap.ID, "")
	expectCode(t, err, httperr.KindForbidden, "not_owner")

	_, err = NewCancelAppointment(h.deps).Execute(context.Background(), clientActor(7), 9999, "")
	expectCode(t, err, httperr.KindNotFound, "appointment_not_found")
}

func TestClientCancel_TerminalState(t *testing.T) {
	h := newHarness(saturdayMorning)
	ap := h.book(t, 7, "2024-06-10", "10:00")

	uc := NewCancelAppointment(h.deps)
	if _, err := uc.Execute(context.Background(), clientActor(7), ap.ID, "changed plans"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := uc.Execute(context.Background(), clientActor(7), ap.ID, "")
	expectCode(t, err, httperr.KindInvalidState, "invalid_state")
}

func TestClientEdit_MovesAndResetsToPending(t *testing.T) {
	h := newHarness(saturdayMorning)
	ap := h.book(t, 7, "2024-06-10", "10:00")

	admin := domain.Actor{UserID: 1, Role: models.RoleAdmin}
	if _, err := NewChangeStatus(h.deps).Execute(context.Background(), admin, ap.ID, "confirmed", ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Overlaps only itself.
	got, err := NewUpdateAppointment(h.deps).Execute(context.Background(), UpdateAppointmentInput{
		Actor:         clientActor(7),
		AppointmentID: ap.ID,
		Date:          "2024-06-10",
		Time:          "10:15",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Time != "10:15" || !got.StartTime.Equal(shopTime(2024, 6, 10, 10, 15)) {
		t.Fatalf("appointment not moved: %+v", got)
	}
	if got.Status != string(domain.StatusPending) || got.ConfirmedAt != nil {
		t.Fatalf("edit must reset to pending, got %s", got.Status)
	}
	if len(h.waiting.freed) != 1 || h.waiting.freed[0].Time != "10:00" {
		t.Fatalf("old slot not released to the waiting list")
	}
}

func TestClientEdit_RejectsTakenSlotAndLateEdits(t *testing.T) {
	h := newHarness(saturdayMorning)
	ap := h.book(t, 7, "2024-06-10", "10:00")
	h.book(t, 8, "2024-06-10", "11:00")

	uc := NewUpdateAppointment(h.deps)
	_, err := uc.Execute(context.Background(), UpdateAppointmentInput{
		Actor: clientActor(7), AppointmentID: ap.ID, Date: "2024-06-10", Time: "10:45",
	})
	expectCode(t, err, httperr.KindConflict, "time_conflict")

	h.deps.Now = fixedClock(shopTime(2024, 6, 9, 11, 0))
	_, err = NewUpdateAppointment(h.deps).Execute(context.Background(), UpdateAppointmentInput{
		Actor: clientActor(7), AppointmentID: ap.ID, Date: "2024-06-10", Time: "15:00",
	})
	expectCode(t, err, httperr.KindTooLate, "too_late_to_modify")
}

// ======================================================
// Staff status changes
// ======================================================

func TestChangeStatus_StateMachine(t *testing.T) {
	h := newHarness(saturdayMorning)
	ap := h.book(t, 7, "2024-06-10", "10:00")

	own := uint(barberID)
	barber := domain.Actor{UserID: 2, Role: models.RoleBarber, BarberID: &own}
	other := uint(2)
	stranger := domain.Actor{UserID: 3, Role: models.RoleBarber, BarberID: &other}

	uc := NewChangeStatus(h.deps)

	_, err := uc.Execute(context.Background(), stranger, ap.ID, "confirmed", "")
	expectCode(t, err, httperr.KindForbidden, "not_owner")

	_, err = uc.Execute(context.Background(), barber, ap.ID, "completed", "")
	expectCode(t, err, httperr.KindInvalidState, "invalid_state")

	_, err = uc.Execute(context.Background(), barber, ap.ID, "done", "")
	expectCode(t, err, httperr.KindValidation, "invalid_status")

	if _, err := uc.Execute(context.Background(), barber, ap.ID, "confirmed", ""); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	got, err := uc.Execute(context.Background(), barber, ap.ID, "completed", "")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got.CompletedAt == nil {
		t.Fatalf("completed_at not set")
	}

	_, err = uc.Execute(context.Background(), barber, ap.ID, "cancelled", "")
	expectCode(t, err, httperr.KindInvalidState, "invalid_state")
}

func TestChangeStatus_StaffCancelIgnoresCutoff(t *testing.T) {
	h := newHarness(saturdayMorning)
	ap := h.book(t, 7, "2024-06-10", "10:00")
	h.deps.Now = fixedClock(shopTime(2024, 6, 10, 9, 0))

	admin := domain.Actor{UserID: 1, Role: models.RoleAdmin}
	got, err := NewChangeStatus(h.deps).Execute(context.Background(), admin, ap.ID, "cancelled", "barber sick")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CancelReason != "barber sick" {
		t.Fatalf("reason not stored")
	}

	types := h.notifier.types()
	if types[len(types)-1] != notification.EventAppointmentCancelled {
		t.Fatalf("expected a cancellation notification, got %v", types)
	}

	// The slot is free again.
	h.deps.Now = fixedClock(saturdayMorning)
	h.book(t, 8, "2024-06-10", "10:00")
}

func TestChangeStatus_NoShowCancelDoesNotFreeSlot(t *testing.T) {
	h := newHarness(saturdayMorning)
	ap := h.book(t, 7, "2024-06-10", "10:00")
	h.deps.Now = fixedClock(shopTime(2024, 6, 10, 18, 0))

	admin := domain.Actor{UserID: 1, Role: models.RoleAdmin}
	if _, err := NewChangeStatus(h.deps).Execute(context.Background(), admin, ap.ID, "cancelled", "no show"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(h.waiting.freed) != 0 {
		t.Fatalf("a slot in the past must not reach the waiting list, got %v", h.waiting.freed)
	}
}

func TestChangeStatus_CancelOffersFutureSlot(t *testing.T) {
	h := newHarness(saturdayMorning)
	ap := h.book(t, 7, "2024-06-10", "10:00")

	admin := domain.Actor{UserID: 1, Role: models.RoleAdmin}
	if _, err := NewChangeStatus(h.deps).Execute(context.Background(), admin, ap.ID, "cancelled", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(h.waiting.freed) != 1 || h.waiting.freed[0].Start.Location().String() != timezone.Shop().String() {
		t.Fatalf("expected one opening in the shop zone, got %v", h.waiting.freed)
	}
}

func TestCreate_LockDeadlineIsBookingBusy(t *testing.T) {
	h := newHarness(saturdayMorning)
	locker := lock.NewMemoryLocker()
	h.deps.Locker = locker

	release, err := locker.Acquire(context.Background(), lock.BookingKey(barberID, "2024-06-10"))
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	actor := clientActor(7)
	_, err = NewCreateAppointment(h.deps).Execute(ctx, CreateAppointmentInput{
		Actor:     &actor,
		BarberID:  barberID,
		ServiceID: haircutID,
		Client:    clientContact(7),
		Date:      "2024-06-10",
		Time:      "10:00",
	})
	expectCode(t, err, httperr.KindConflict, "booking_busy")
}

// ======================================================
// Listings / reminders
// ======================================================

func TestListings(t *testing.T) {
	h := newHarness(saturdayMorning)
	h.book(t, 7, "2024-06-10", "10:00")
	h.book(t, 7, "2024-06-10", "11:00")
	h.book(t, 8, "2024-06-10", "15:00")

	mine, err := NewListMyAppointments(h.repo).Execute(context.Background(), clientActor(7))
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected 2 own appointments, got %d (%v)", len(mine), err)
	}

	none, err := NewListMyAppointments(h.repo).Execute(context.Background(), clientActor(42))
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("unknown client should get an empty list")
	}

	own := uint(barberID)
	barber := domain.Actor{UserID: 2, Role: models.RoleBarber, BarberID: &own}

	day, err := NewListAppointmentsByDate(h.repo).Execute(context.Background(), barber, 0, "2024-06-10")
	if err != nil || len(day) != 3 {
		t.Fatalf("expected 3 appointments on the day, got %d (%v)", len(day), err)
	}

	month, err := NewListAppointmentsByMonth(h.repo).Execute(context.Background(), barber, 0, 2024, 6)
	if err != nil || len(month) != 3 {
		t.Fatalf("expected 3 appointments in the month, got %d (%v)", len(month), err)
	}

	_, err = NewListAppointmentsByDate(h.repo).Execute(context.Background(), clientActor(7), barberID, "2024-06-10")
	expectCode(t, err, httperr.KindForbidden, "not_owner")
}

func TestSendReminders(t *testing.T) {
	h := newHarness(saturdayMorning)
	h.book(t, 7, "2024-06-10", "10:00")
	cancelled := h.book(t, 8, "2024-06-10", "11:00")
	if _, err := NewCancelAppointment(h.deps).Execute(context.Background(), clientActor(8), cancelled.ID, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	rec := &recordingNotifier{}
	sent, err := NewSendReminders(h.repo, rec, fixedClock(shopTime(2024, 6, 9, 9, 0))).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sent != 1 || len(rec.events) != 1 || rec.events[0].Type != notification.EventAppointmentReminder {
		t.Fatalf("expected one reminder, got %d", sent)
	}
}
