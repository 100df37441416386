// Package server exposes the archived index data and the derived products
// (storm catalog, plasmapause position, magnetospheric model coefficients)
// over a REST API.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/radiation-belts/rbamlib/internal/archive"
	"github.com/radiation-belts/rbamlib/internal/database"
	"github.com/radiation-belts/rbamlib/internal/log"
	"github.com/radiation-belts/rbamlib/pkg/config"
)

// Controller represents the REST server controller.
type Controller struct {
	ctx       context.Context
	wg        *sync.WaitGroup
	cfg       *config.Config
	Archive   *archive.Archive
	DB        *database.Client
	DBEnabled bool
	Server    http.Server
	logger    *zap.SugaredLogger
	handlers  *Handlers
}

// NewController creates a new REST server controller.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.Config, arc *archive.Archive, db *database.Client, logger *zap.SugaredLogger) *Controller {
	ctrl := &Controller{
		ctx:       ctx,
		wg:        wg,
		cfg:       cfg,
		Archive:   arc,
		DB:        db,
		DBEnabled: db != nil,
		logger:    logger,
	}

	ctrl.handlers = NewHandlers(ctrl)
	ctrl.Server = http.Server{
		Addr:         cfg.Server.ListenAddr,
		Handler:      ctrl.setupRouter(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return ctrl
}

// StartController starts the REST server.
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints.
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", c.handlers.GetHealth)
	router.HandleFunc("/parameters", c.handlers.GetParameters)
	router.HandleFunc("/indices/{parameter}", c.handlers.GetIndexSeries)
	router.HandleFunc("/storms", c.handlers.GetStorms)
	router.HandleFunc("/plasmapause/{model}", c.handlers.GetPlasmapause)
	router.HandleFunc("/ts05", c.handlers.GetTS05Coefficients)

	return router
}
