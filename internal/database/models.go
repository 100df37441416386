package database

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IndexObservation is one hourly sample of a geomagnetic or solar wind
// parameter. Value is nil when the upstream archive reported a fill value.
type IndexObservation struct {
	Parameter  string    `gorm:"primaryKey;size:32"`
	ObservedAt time.Time `gorm:"primaryKey"`
	Value      *float64
}

func (IndexObservation) TableName() string {
	return "index_observations"
}

// StormEvent is one detected geomagnetic storm: the onset time found by
// backtracking to the last quiet sample, the time and depth of the Dst
// minimum, and the detection parameters that produced it.
type StormEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OnsetAt     time.Time `gorm:"uniqueIndex"`
	MinimumAt   time.Time
	MinimumDst  float64
	Threshold   float64
	SampleCount int
	CreatedAt   time.Time
}

func (StormEvent) TableName() string {
	return "storm_events"
}

func (e *StormEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
