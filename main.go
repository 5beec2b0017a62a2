package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"garagelink/config"
	"garagelink/database"
	bookingRepoPkg "garagelink/database/repository/booking"
	catalogRepoPkg "garagelink/database/repository/catalog"
	garageRepoPkg "garagelink/database/repository/garage"
	recordRepoPkg "garagelink/database/repository/record"
	reviewRepoPkg "garagelink/database/repository/review"
	userRepoPkg "garagelink/database/repository/user"
	"garagelink/handlers"
	"garagelink/middleware"
	"garagelink/routes"
	"garagelink/services/booking"
	"garagelink/services/catalog"
	"garagelink/services/garage"
	"garagelink/services/identity"
	"garagelink/services/notification"
	"garagelink/services/record"
	"garagelink/services/review"
	"garagelink/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	cfg := &config.AppConfig
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoClient, err := database.Connect(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to MongoDB: %v", err)
	}
	db := mongoClient.Database(cfg.DatabaseName)

	cacheClient, err := utils.NewCacheClient(cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to connect to Redis: %v", err)
	}
	utils.StartHealthMonitor(cacheClient, mongoClient)

	verifier, err := identity.NewFirebaseVerifier(context.Background(), cfg.FirebaseCredentialsFile)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Firebase verifier: %v", err)
	}

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo(db)
	garageRepo := garageRepoPkg.NewMongoGarageRepo(db)
	catalogRepo := catalogRepoPkg.NewMongoCatalogRepo(db)
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo(db)
	recordRepo := recordRepoPkg.NewMongoServiceRecordRepo(db)
	reviewRepo := reviewRepoPkg.NewMongoReviewRepo(db)

	// Notification queue shares the Redis instance on its own DB.
	queueOpts := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	notifier := notification.NewAsynqNotificationService(queueOpts, cfg.NotifyEnabled)
	var notifyWorker *asynq.Server
	if cfg.NotifyEnabled {
		notifyWorker = notification.InitNotifyWorker(queueOpts)
	}

	// services.
	identityService := &identity.DefaultIdentityService{
		Repo:     userRepo,
		Verifier: verifier,
	}
	garageService := &garage.DefaultGarageService{
		Repo:        garageRepo,
		CacheClient: cacheClient,
	}
	catalogService := &catalog.DefaultCatalogService{
		Repo:    catalogRepo,
		Garages: garageRepo,
	}
	bookingService := &booking.DefaultBookingService{
		Repo:    bookingRepo,
		Garages: garageRepo,
	}
	recordService := &record.DefaultServiceRecordService{
		Repo:     recordRepo,
		Garages:  garageRepo,
		Identity: identityService,
		Notifier: notifier,
		Fees:     record.NewFeePolicy(cfg),
		OTPTTL:   time.Duration(cfg.OTPTTLMinutes) * time.Minute,
		EchoOTP:  cfg.OTPEchoEnabled,
	}
	reviewService := &review.DefaultReviewService{
		Reviews: reviewRepo,
		Garages: garageRepo,
		Records: recordRepo,
		Users:   userRepo,
	}

	authHandler := handlers.NewAuthHandler(identityService)
	garageHandler := handlers.NewGarageHandler(garageService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	recordHandler := handlers.NewServiceRecordHandler(recordService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: userRepo,

		// Auth endpoints.
		BridgeHandler:   authHandler.BridgeHandler,
		MeHandler:       authHandler.MeHandler,
		UpdateMeHandler: authHandler.UpdateMeHandler,

		// Garage endpoints.
		RegisterGarageHandler: garageHandler.RegisterGarageHandler,
		GetGarageByIDHandler:  garageHandler.GetGarageByIDHandler,
		UpdateGarageHandler:   garageHandler.UpdateGarageHandler,
		NearbyGaragesHandler:  garageHandler.NearbyGaragesHandler,

		// Catalog endpoints.
		CreateServiceHandler: catalogHandler.CreateServiceHandler,
		ListServicesHandler:  catalogHandler.ListServicesHandler,
		UpdateServiceHandler: catalogHandler.UpdateServiceHandler,
		DeleteServiceHandler: catalogHandler.DeleteServiceHandler,

		// Booking endpoints.
		CreateBookingHandler:       bookingHandler.CreateBookingHandler,
		ListBookingsHandler:        bookingHandler.ListBookingsHandler,
		UpdateBookingStatusHandler: bookingHandler.UpdateBookingStatusHandler,

		// Service record endpoints.
		InitiateServiceHandler: recordHandler.InitiateHandler,
		VerifyOTPHandler:       recordHandler.VerifyOTPHandler,
		CompleteServiceHandler: recordHandler.CompleteHandler,
		CancelServiceHandler:   recordHandler.CancelHandler,
		ListServiceRecords:     recordHandler.ListHandler,

		// Review endpoints.
		CreateReviewHandler:      reviewHandler.CreateReviewHandler,
		UpdateReviewHandler:      reviewHandler.UpdateReviewHandler,
		DeleteReviewHandler:      reviewHandler.DeleteReviewHandler,
		ListGarageReviewsHandler: reviewHandler.ListGarageReviewsHandler,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	if notifyWorker != nil {
		notifyWorker.Shutdown()
	}
	if err := database.Disconnect(mongoClient); err != nil {
		logger.Sugar().Errorf("main: failed to disconnect MongoDB: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
