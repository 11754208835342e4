package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// ReminderSender is satisfied by *appointment.SendReminders.
type ReminderSender interface {
	Execute(ctx context.Context) (int, error)
}

// WaitingListExpirer is satisfied by *waitinglist.Service.
type WaitingListExpirer interface {
	ExpireDue(ctx context.Context) (int64, error)
}

type Config struct {
	ReminderSpec    string
	WaitingListSpec string
	Timeout         time.Duration
}

// Scheduler runs the periodic jobs on a cron clock in the shop timezone.
type Scheduler struct {
	cron      *cron.Cron
	log       *zap.Logger
	timeout   time.Duration
	reminders ReminderSender
	expirer   WaitingListExpirer
}

func New(
	cfg Config,
	reminders ReminderSender,
	expirer WaitingListExpirer,
	log *zap.Logger,
) (*Scheduler, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}

	s := &Scheduler{
		cron: cron.New(
			cron.WithLocation(timezone.Shop()),
			cron.WithChain(cron.Recover(cronLogger{log.Sugar()})),
		),
		log:       log,
		timeout:   cfg.Timeout,
		reminders: reminders,
		expirer:   expirer,
	}

	if _, err := s.cron.AddFunc(cfg.ReminderSpec, s.RunReminders); err != nil {
		return nil, fmt.Errorf("reminder schedule %q: %w", cfg.ReminderSpec, err)
	}
	if _, err := s.cron.AddFunc(cfg.WaitingListSpec, s.RunWaitingListExpiry); err != nil {
		return nil, fmt.Errorf("waiting list schedule %q: %w", cfg.WaitingListSpec, err)
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.log.Warn("scheduler stop timed out")
	}
}

// RunReminders notifies clients of tomorrow's open appointments.
func (s *Scheduler) RunReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.reminders.Execute(ctx)
	if err != nil {
		s.log.Error("reminder job failed", zap.Error(err))
		return
	}
	s.log.Info("reminder job done",
		zap.Int("sent", n),
		zap.Duration("took", time.Since(start)),
	)
}

func (s *Scheduler) RunWaitingListExpiry() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	n, err := s.expirer.ExpireDue(ctx)
	if err != nil {
		s.log.Error("waiting list expiry failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("waiting list entries expired", zap.Int64("count", n))
	}
}

// cronLogger routes cron's own messages, including recovered panics, to zap.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
