// Package app wires the daemon together: the local archive, the optional
// PostgreSQL store, the periodic OMNIWeb fetcher and the REST server.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/radiation-belts/rbamlib/internal/archive"
	"github.com/radiation-belts/rbamlib/internal/database"
	"github.com/radiation-belts/rbamlib/internal/log"
	"github.com/radiation-belts/rbamlib/internal/server"
	"github.com/radiation-belts/rbamlib/pkg/config"
)

// App represents the main application.
type App struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// Run starts the application and blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	arc, err := archive.Open(a.cfg.Archive.Path)
	if err != nil {
		return err
	}
	defer arc.Close()

	var db *database.Client
	if a.cfg.Database.ConnectionString != "" {
		db = database.NewClient(a.cfg.Database.ConnectionString, a.logger)
		if err := db.Connect(); err != nil {
			return err
		}
	}

	fetcher := NewFetcher(a.cfg, arc, db)
	fetcher.Start(ctx, &wg)

	ctrl := server.NewController(ctx, &wg, a.cfg, arc, db, a.logger)
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	cancel()

	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
