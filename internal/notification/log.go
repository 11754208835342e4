package notification

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes events to the log. It is used when no SMS provider is
// configured.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, ev Event) error {
	n.log.Info("notification",
		zap.String("event", ev.Type),
		zap.String("to", ev.To.Phone),
		zap.Uint("appointment_id", ev.AppointmentID),
		zap.String("message", Message(ev)),
	)
	return nil
}
