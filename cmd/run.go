package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"vpsboard/application"
	"vpsboard/config"
	"vpsboard/database"
	"vpsboard/domain/services"
	"vpsboard/infrastructure"
	"vpsboard/infrastructure/observability"
	"vpsboard/web"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting vpsboard...")

	// Load configuration
	cfg := config.Get()

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS
	log.Println("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	// Initialize unit of work factory
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Consume status updates from the provisioning workflow
	statusConsumer := infrastructure.NewProvisionStatusConsumer(natsClient, uowFactory)
	if err := statusConsumer.Start(); err != nil {
		return fmt.Errorf("failed to start provision status consumer: %w", err)
	}

	// Initialize session layer
	rateGuard := services.NewRateGuard(cfg.RateGuardWindow, cfg.RateGuardThreshold)
	sessions := application.NewSessionManager(uowFactory, rateGuard)

	// Start the trigger retry worker
	triggerWorker := application.NewTriggerWorker(uowFactory, eventPublisher, cfg.TriggerRetryInterval)
	stopWorker := triggerWorker.Start(ctx)

	// Start HTTP server
	server := web.NewServer(cfg, uowFactory, sessions)
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	log.Printf("vpsboard is running in %s mode...", cfg.Environment)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	case <-ctx.Done():
	}

	// Cleanup resources
	log.Println("Shutting down...")
	stopWorker()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}

	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	log.Println("Closing database connection...")
	db.Close()

	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	log.Println("Shutdown completed")
	return nil
}
