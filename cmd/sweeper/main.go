package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"qrenoo/cmd/bootstrap"
	"qrenoo/config"
	"qrenoo/internal/infrastructure/database"
	"qrenoo/internal/jobs"
	"qrenoo/internal/repository"
	"qrenoo/internal/usecase"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm/logger"
)

// The sweeper deletes pending rendezvous older than BOOKING_PENDING_TTL.
// Without -daemon it sweeps once and exits, for use from an external cron.
func main() {
	daemon := flag.Bool("daemon", false, "keep running and sweep every BOOKING_SWEEP_INTERVAL")
	flag.Parse()

	os.Exit(run(*daemon))
}

// run returns the process exit code once every connection is closed.
func run(daemon bool) int {
	cfg, err := config.LoadWorkerConfig()
	if err != nil {
		logrus.Errorf("Failed to load config: %v", err)
		return 1
	}
	log := bootstrap.SetupLogger(cfg.App)

	db, err := database.NewPostgresConnection(cfg.DB, logger.Error)
	if err != nil {
		log.Errorf("Failed to connect to database: %v", err)
		return 1
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	publisher := bootstrap.NewPublisher(cfg.RabbitMQ, log)
	defer publisher.Close()

	bookingUsecase := usecase.NewBookingUsecase(
		db,
		log,
		repository.NewRendezvousRepository(),
		repository.NewProfileRepository(),
		publisher,
		cfg.Booking.PendingTTL,
	)

	scheduler, err := jobs.NewSweepScheduler(bookingUsecase, cfg.Booking.SweepInterval, log)
	if err != nil {
		log.Errorf("Failed to create sweep scheduler: %v", err)
		return 1
	}

	if !daemon {
		if _, err := scheduler.RunOnce(context.Background()); err != nil {
			return 1
		}
		return 0
	}

	scheduler.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	if err := scheduler.Stop(); err != nil {
		log.Errorf("Sweep scheduler forced to stop: %v", err)
	}
	log.Info("Sweeper shutdown complete")
	return 0
}
