package notification

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (r *recordingNotifier) Send(_ context.Context, ev Event) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func TestDispatcher_DeliversInBackground(t *testing.T) {
	rec := &recordingNotifier{err: errors.New("provider down")}
	d := NewDispatcher(rec, nil)

	d.Notify(Event{Type: EventAppointmentCreated, AppointmentID: 1})
	d.Notify(Event{Type: EventAppointmentCancelled, AppointmentID: 1})
	d.Close()

	if len(rec.events) != 2 {
		t.Fatalf("expected 2 deliveries, got %d", len(rec.events))
	}
	if rec.events[0].Type != EventAppointmentCreated {
		t.Fatalf("events delivered out of order")
	}
}

func TestDispatcher_NotifyNeverBlocks(t *testing.T) {
	rec := &recordingNotifier{block: make(chan struct{})}
	d := NewDispatcher(rec, nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 500; i++ {
			d.Notify(Event{Type: EventAppointmentReminder})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Notify blocked while the notifier was stuck")
	}

	close(rec.block)
	d.Close()

	// Notify after Close is dropped, not a panic.
	d.Notify(Event{Type: EventAppointmentReminder})
}

func TestMessage(t *testing.T) {
	ev := Event{
		Type:        EventAppointmentCancelled,
		To:          Recipient{Name: "Ana"},
		ServiceName: "Haircut",
		Start:       time.Date(2024, 6, 10, 14, 0, 0, 0, timezone.Shop()),
		Reason:      "barber sick",
	}
	msg := Message(ev)
	if !strings.Contains(msg, "Ana") || !strings.Contains(msg, "10/06/2024 14:00") || !strings.Contains(msg, "barber sick") {
		t.Fatalf("unexpected message %q", msg)
	}

	// Stored timestamps come back in UTC; the text shows shop wall-clock time.
	ev = Event{
		Type:        EventAppointmentConfirmed,
		To:          Recipient{Name: "Ana"},
		ServiceName: "Haircut",
		BarberName:  "Joe",
		Start:       time.Date(2024, 6, 10, 21, 0, 0, 0, timezone.Shop()).UTC(),
	}
	if msg := Message(ev); !strings.Contains(msg, "10/06/2024 21:00") {
		t.Fatalf("expected shop-local time, got %q", msg)
	}
	ev.Type = EventAppointmentReminder
	if msg := Message(ev); !strings.Contains(msg, "at 21:00") {
		t.Fatalf("expected shop-local reminder time, got %q", msg)
	}

	if Message(Event{Type: "unknown"}) != "" {
		t.Fatalf("unknown events render empty")
	}
}

func TestTwilioNotifier_RequiresPhone(t *testing.T) {
	n := NewTwilioNotifier("AC123", "token", "+15550000000", false, nil)
	if err := n.Send(context.Background(), Event{Type: EventAppointmentCreated}); !errors.Is(err, ErrNoPhone) {
		t.Fatalf("expected ErrNoPhone, got %v", err)
	}
}
