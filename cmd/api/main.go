package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/auth"
	"github.com/BruksfildServices01/barber-booking/internal/config"
	dbpkg "github.com/BruksfildServices01/barber-booking/internal/db"
	"github.com/BruksfildServices01/barber-booking/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/barber-booking/internal/infra/repository"
	"github.com/BruksfildServices01/barber-booking/internal/jobs"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	"github.com/BruksfildServices01/barber-booking/internal/notification"
	"github.com/BruksfildServices01/barber-booking/internal/routes"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/usecase/waitinglist"
)

func main() {

	cfg := config.Load()

	zl, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	timezone.SetShop(cfg.ShopTimezone)

	db, err := dbpkg.NewDB(cfg, zl)
	if err != nil {
		zl.Fatal("database unavailable", zap.Error(err))
	}

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	waitingListRepo := infraRepo.NewWaitingListGormRepository(db)

	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisEnabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			zl.Fatal("redis unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		}

		locker = lock.NewRedisLocker(rdb, cfg.BookingLockTTL, zl)
		zl.Info("using redis booking locks", zap.String("addr", cfg.RedisAddr))
	}

	var sender notification.Notifier = notification.NewLogNotifier(zl)
	if cfg.TwilioEnabled() {
		sender = notification.NewTwilioNotifier(
			cfg.TwilioAccountSID,
			cfg.TwilioAuthToken,
			cfg.TwilioFromNumber,
			cfg.TwilioWhatsApp,
			zl,
		)
	}
	notifier := notification.NewDispatcher(sender, zl)
	defer notifier.Close()

	auditDispatcher := audit.NewDispatcher(audit.New(db), zl)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL, cfg.SessionRefreshAfter, timezone.Now)

	waitingList := waitinglist.New(waitinglist.Config{
		Repo:      waitingListRepo,
		Directory: appointmentRepo,
		Notifier:  notifier,
		Audit:     auditDispatcher,
		Log:       zl,
		TTL:       cfg.WaitingListTTL,
	})

	// ======================================================
	// JOBS
	// ======================================================
	scheduler, err := jobs.New(
		jobs.Config{
			ReminderSpec:    cfg.ReminderCron,
			WaitingListSpec: cfg.WaitingListCron,
		},
		ucAppointment.NewSendReminders(appointmentRepo, notifier, timezone.Now),
		waitingList,
		zl,
	)
	if err != nil {
		zl.Fatal("invalid job schedule", zap.Error(err))
	}
	scheduler.Start()

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(zl, 500*time.Millisecond))
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	routes.RegisterRoutes(r, routes.Deps{
		DB:              db,
		Config:          cfg,
		Log:             zl,
		Issuer:          issuer,
		AppointmentRepo: appointmentRepo,
		Locker:          locker,
		Notifier:        notifier,
		Audit:           auditDispatcher,
		WaitingList:     waitingList,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server running", zap.String("addr", cfg.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
	scheduler.Stop(ctx)

	zl.Info("server stopped")
}
