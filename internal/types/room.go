package types

import (
	"time"

	"github.com/google/uuid"
)

// Room is a discussion space joined by code. ActivityRunID is an opaque token
// regenerated on every activity (re)start: history written under an older run
// stays partitioned from the new run even for the same room and phase index.
// The current phase is always derived from ActivityStartedAt plus the
// activity's phase durations, never stored.
type Room struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Code              string     `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name              string     `gorm:"column:name" json:"name"`
	ActivityID        *uuid.UUID `gorm:"type:uuid;column:activity_id" json:"activity_id,omitempty"`
	ActivityStartedAt *time.Time `gorm:"column:activity_started_at" json:"activity_started_at,omitempty"`
	ActivityRunID     uuid.UUID  `gorm:"type:uuid;not null;column:activity_run_id" json:"activity_run_id"`
	CreatedAt         time.Time  `gorm:"not null" json:"created_at"`
}

func (Room) TableName() string { return "room" }
