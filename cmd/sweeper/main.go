package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"stayhaven/internal/config"
	"stayhaven/internal/database"
	"stayhaven/internal/logger"
	"stayhaven/internal/modules/booking"
	"stayhaven/internal/modules/notification"
	"stayhaven/internal/repository"
	"stayhaven/internal/storage"
	"stayhaven/internal/sweep"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	slogger := logger.New(cfg.Env)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	blobs, err := storage.New(cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}

	bookingRepo := repository.NewBookingRequestRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	listingRepo := repository.NewListingRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	deletionRepo := repository.NewScheduledDeletionRepository(db)
	committer := repository.NewCommitter(db)

	notificationService := notification.NewService(notificationRepo)
	bookingService := booking.NewService(
		bookingRepo,
		reservationRepo,
		listingRepo,
		notificationService,
		committer,
	)

	jobs := sweep.NewJobs(
		bookingRepo,
		bookingService,
		deletionRepo,
		notificationRepo,
		blobs,
		committer,
		slogger,
		cfg.ExpiryInterval,
		cfg.MediaInterval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scheduler := sweep.NewScheduler(slogger)
	jobs.Register(scheduler)

	slogger.Info("sweeper started",
		"expiry_interval", cfg.ExpiryInterval.String(),
		"media_interval", cfg.MediaInterval.String())

	scheduler.Start(ctx)
	<-ctx.Done()
	slogger.Info("sweeper shutting down")
	scheduler.Wait()
}
