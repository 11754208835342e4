package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers one event to an external channel.
type Notifier interface {
	Send(ctx context.Context, ev Event) error
}

// Dispatcher queues events and delivers them in the background. Notify
// never blocks the caller and delivery errors are only logged.
type Dispatcher struct {
	notifier Notifier
	log      *zap.Logger
	queue    chan Event
	timeout  time.Duration
	wg       sync.WaitGroup
	once     sync.Once
}

func NewDispatcher(notifier Notifier, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		notifier: notifier,
		log:      log,
		queue:    make(chan Event, 100),
		timeout:  10 * time.Second,
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		d.deliver(ev)
	}
}

func (d *Dispatcher) deliver(ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification panic", zap.String("event", ev.Type), zap.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.notifier.Send(ctx, ev); err != nil {
		d.log.Warn("notification failed",
			zap.String("event", ev.Type),
			zap.Uint("appointment_id", ev.AppointmentID),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) Notify(ev Event) {
	defer func() {
		// Notify after Close must not bring the request down.
		if recover() != nil {
			d.log.Warn("notification dispatcher closed, dropping event", zap.String("event", ev.Type))
		}
	}()

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("notification queue full, dropping event", zap.String("event", ev.Type))
	}
}

// Close stops accepting events and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}
