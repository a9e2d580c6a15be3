// File: cmd/server/main.go
package main

import (
	"context"
	"log" // Standard log for critical startup/shutdown messages before/after zap is active
	"os"
	"os/signal"
	"syscall"

	"leadgen_backend/internal/config"
	"leadgen_backend/internal/lead"
	"leadgen_backend/internal/platform/database"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// A missing secret is a configuration error: refuse to serve.
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	server, cleanup, err := initializeServer(cfg)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize server: %v", err)
	}
	defer cleanup()

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("FATAL: Server failed to start or crashed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	log.Printf("INFO: Received signal '%s'. Shutting down server...", sig)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ServerTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: Server forced to shutdown due to error: %v", err)
	} else {
		log.Println("INFO: Server shutdown complete.")
	}
	log.Println("INFO: Application exiting.")
}

// provideLeadRepository selects the lead store: the in-memory list for
// parity with the original deployment, or a GORM-backed table when
// LEAD_STORE=database.
func provideLeadRepository(cfg *config.Config, appLogger *zap.Logger) (lead.Repository, func(), error) {
	if cfg.LeadStore == "database" {
		db, err := database.NewGORM(cfg)
		if err != nil {
			return nil, nil, err
		}
		repo, err := lead.NewGORMRepository(db)
		if err != nil {
			database.CloseGORMDB(db)
			return nil, nil, err
		}
		appLogger.Info("Using database lead repository", zap.String("driver", cfg.DBDriver))
		return repo, func() { database.CloseGORMDB(db) }, nil
	}
	appLogger.Info("Using in-memory lead repository")
	return lead.NewMemoryRepository(), func() {}, nil
}
