// Package database persists index observations and detected storm events
// in PostgreSQL.
package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/radiation-belts/rbamlib/internal/log"
	"go.uber.org/zap"
)

// Client holds the connection to a PostgreSQL database.
type Client struct {
	connectionString string
	DB               *gorm.DB
	logger           *zap.SugaredLogger
}

// NewClient creates a new database client.
func NewClient(connectionString string, logger *zap.SugaredLogger) *Client {
	return &Client{
		connectionString: connectionString,
		logger:           logger,
	}
}

// Connect connects to the database and migrates the schema.
func (c *Client) Connect() error {
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)

	var err error
	log.Info("connecting to PostgreSQL...")
	c.DB, err = gorm.Open(postgres.Open(c.connectionString), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to create a PostgreSQL connection:", err)
		return err
	}
	log.Info("PostgreSQL connection successful")

	if err := c.DB.AutoMigrate(&IndexObservation{}, &StormEvent{}); err != nil {
		return fmt.Errorf("error migrating schema: %w", err)
	}

	return nil
}

// StoreObservations upserts a batch of index observations, replacing any
// values already stored for the same parameter and hour.
func (c *Client) StoreObservations(obs []IndexObservation) error {
	if len(obs) == 0 {
		return nil
	}
	err := c.DB.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "parameter"}, {Name: "observed_at"}},
			UpdateAll: true,
		}).
		CreateInBatches(&obs, 500).Error
	if err != nil {
		return fmt.Errorf("error storing observations: %w", err)
	}
	return nil
}

// GetObservations retrieves observations for one parameter in [start, end),
// in time order.
func (c *Client) GetObservations(parameter string, start, end time.Time) ([]IndexObservation, error) {
	var obs []IndexObservation
	err := c.DB.
		Where("parameter = ? AND observed_at >= ? AND observed_at < ?", parameter, start, end).
		Order("observed_at").
		Find(&obs).Error
	if err != nil {
		return nil, fmt.Errorf("error querying observations: %w", err)
	}
	return obs, nil
}

// StoreStormEvents saves a batch of storm events. Events whose onset is
// already catalogued are left untouched.
func (c *Client) StoreStormEvents(events []StormEvent) error {
	if len(events) == 0 {
		return nil
	}
	err := c.DB.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "onset_at"}},
			DoNothing: true,
		}).
		Create(&events).Error
	if err != nil {
		return fmt.Errorf("error storing storm events: %w", err)
	}
	return nil
}

// GetStormEvents retrieves storm events whose onset falls in [start, end),
// ordered by onset time.
func (c *Client) GetStormEvents(start, end time.Time) ([]StormEvent, error) {
	var events []StormEvent
	err := c.DB.
		Where("onset_at >= ? AND onset_at < ?", start, end).
		Order("onset_at").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("error querying storm events: %w", err)
	}
	return events, nil
}
