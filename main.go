package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"vpsboard/cmd"
	"vpsboard/config"
	"vpsboard/database"
	"vpsboard/domain/entities"
	"vpsboard/domain/services"
	"vpsboard/infrastructure"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Check for points adjustment subcommand
	if len(os.Args) > 1 && os.Args[1] == "grant-points" {
		if err := handlePointsGrant(); err != nil {
			log.Fatal("Points grant error:", err)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: vpsboard migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handlePointsGrant credits points to an account from the command line.
// Events are not published for admin grants.
func handlePointsGrant() error {
	if len(os.Args) < 4 {
		return fmt.Errorf("usage: vpsboard grant-points account-id amount")
	}
	accountID := os.Args[2]
	amount, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", os.Args[3], err)
	}

	ctx := context.Background()
	cfg := config.Get()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ledger := services.NewLedgerService(uow.AccountRepository(), uow.PointsActivityRepository(), uow.EventBus())
	activity, err := ledger.Credit(ctx, accountID, amount, entities.SourceAdminGrant, map[string]any{
		"admin": true,
	})
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Printf("Granted %d points to %s, new balance %d", amount, accountID, activity.BalanceAfter)
	return nil
}
