package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"stayhaven/internal/config"
	"stayhaven/internal/database"
	"stayhaven/internal/logger"
	"stayhaven/internal/middleware"
	"stayhaven/internal/modules/auth"
	"stayhaven/internal/modules/booking"
	"stayhaven/internal/modules/chat"
	"stayhaven/internal/modules/notification"
	"stayhaven/internal/modules/verification"
	jwtsvc "stayhaven/internal/pkg/jwt"
	"stayhaven/internal/repository"
	"stayhaven/internal/storage"
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

	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRequestRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)
	chatRepo := repository.NewChatRepository(db)
	deletionRepo := repository.NewScheduledDeletionRepository(db)
	committer := repository.NewCommitter(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	authService := auth.NewService(userRepo, j, slogger)
	authHandler := auth.NewHandler(authService)

	bookingService := booking.NewService(
		bookingRepo,
		reservationRepo,
		listingRepo,
		notificationService,
		committer,
	)
	bookingHandler := booking.NewHandler(bookingService)

	verificationService := verification.NewService(
		verificationRepo,
		userRepo,
		notificationService,
		committer,
	)
	verificationHandler := verification.NewHandler(verificationService)

	hub := chat.NewHub()
	defer hub.Close()

	chatService := chat.NewService(chatRepo, listingRepo, deletionRepo, notificationService, blobs, committer, slogger)
	chatHandler := chat.NewHandler(chatService, hub)
	wsHandler := chat.NewWSHandler(hub, j, slogger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	v1 := r.Group("/api/v1")
	{
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))

		admin := v1.Group("/admin")
		admin.Use(middleware.Auth(j), middleware.RequireRole("admin"))

		authHandler.RegisterRoutes(v1, protected)
		bookingHandler.RegisterRoutes(protected)
		notificationHandler.RegisterRoutes(protected)
		verificationHandler.RegisterRoutes(protected, admin)
		chatHandler.RegisterRoutes(protected)
	}
	r.GET("/ws/chat", wsHandler.HandleWebSocket)

	slogger.Info("api listening", "port", cfg.Port, "env", cfg.Env)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
