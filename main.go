package main

import (
	"context"
	"log"

	api "jobtrack-backend/cmd/api"
	appdelivery "jobtrack-backend/internal/application/delivery"
	appdomain "jobtrack-backend/internal/application/domain"
	appRepo "jobtrack-backend/internal/application/repository"
	appUsecase "jobtrack-backend/internal/application/usecase"
	"jobtrack-backend/internal/extraction"
	"jobtrack-backend/internal/notification"
	"jobtrack-backend/internal/pipeline"
	"jobtrack-backend/internal/scheduler"
	"jobtrack-backend/pkg/ai"
	"jobtrack-backend/pkg/config"
	"jobtrack-backend/pkg/database"
	"jobtrack-backend/pkg/fcm"
	"jobtrack-backend/pkg/gmail"
	"jobtrack-backend/pkg/queue"
	"jobtrack-backend/pkg/retry"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&appdomain.Application{}, &notification.DeviceToken{}, &scheduler.SyncedMessage{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	applicationRepo := appRepo.NewApplicationRepository(db)
	deviceTokenRepo := notification.NewDeviceTokenRepository(db)

	// Initialize AI classifier
	classifierService, err := ai.NewClassifierService(ai.Config{
		Provider:      ai.ProviderType(cfg.AIProvider),
		GeminiAPIKey:  cfg.GeminiAPIKey,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
	})
	if err != nil {
		log.Printf("[WARN] AI classifier unavailable, running pattern-only: %v", err)
		classifierService = nil
	}

	// Build the extraction pipeline
	coordinator := extraction.NewCoordinator(
		extraction.NewExtractor(),
		extraction.NewClassifierAdapter(classifierService),
	)
	reconciler := appUsecase.NewReconciler(applicationRepo)

	retryCfg := retry.DefaultConfig()
	retryCfg.MaxAttempts = cfg.RetryMaxAttempts
	retryCfg.InitialDelay = cfg.RetryInitialDelay

	processor := pipeline.NewProcessor(coordinator, reconciler, retryCfg, cfg.WorkerConcurrency)

	// Initialize FCM client (optional, pipeline runs without it)
	if cfg.FirebaseCredentials != "" {
		fcmClient, err := fcm.NewClient(cfg.FirebaseCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize FCM client (push notifications disabled): %v", err)
		} else {
			processor.SetNotifier(notification.NewService(fcmClient, deviceTokenRepo))
		}
	}

	// Initialize Gmail service
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GmailAccessToken, cfg.GmailRefreshToken, nil)

	// Initialize work queue and scheduler (only with a configured project)
	var syncer appdelivery.Syncer
	if cfg.GoogleProjectID != "" {
		ctx := context.Background()

		workQueue, err := queue.NewPubSubQueue(ctx, cfg.GoogleProjectID, cfg.GooglePubSubTopic, cfg.WorkerConcurrency, cfg.GoogleCredentials)
		if err != nil {
			log.Fatal("Failed to initialize work queue:", err)
		}

		worker := pipeline.NewWorker(workQueue, processor)
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Printf("[ERROR] Queue consumer stopped: %v", err)
			}
		}()

		syncScheduler := scheduler.NewSyncScheduler(gmailService, workQueue, scheduler.NewSyncHistoryRepository(db), cfg.SyncInterval, cfg.FetchMaxResults, cfg.FetchDaysBack)
		syncScheduler.Start()
		defer syncScheduler.Stop()
		syncer = syncScheduler
	} else {
		log.Printf("[WARN] GOOGLE_PROJECT_ID not configured, background sync disabled")
	}

	// Initialize use cases and HTTP handler
	applicationUsecase := appUsecase.NewApplicationUsecase(applicationRepo)
	appHandler := appdelivery.NewApplicationHandler(applicationUsecase, processor, syncer, deviceTokenRepo)
	handler := api.NewHandler(appHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
