package audit

import "go.uber.org/zap"

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Recorder persists a single audit event.
type Recorder interface {
	Record(ev Event) error
}

type Dispatcher struct {
	recorder Recorder
	log      *zap.Logger
	queue    chan Event
}

func NewDispatcher(recorder Recorder, log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Dispatcher{
		recorder: recorder,
		log:      log,
		queue:    make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.recorder.Record(ev); err != nil {
			d.log.Warn("audit error",
				zap.String("action", ev.Action),
				zap.String("entity", ev.Entity),
				zap.Error(err),
			)
		}
	}
}

// Dispatch drops the event when the queue is full; auditing never fails a
// request.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}
