package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Activity is a catalogue entry describing a structured group exercise as an
// ordered list of timed phases. Phases is a JSON array of
// {"prompt": string, "duration_seconds": int}.
type Activity struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Title       string         `gorm:"not null;column:title" json:"title"`
	Description string         `gorm:"type:text;column:description" json:"description"`
	Phases      datatypes.JSON `gorm:"type:jsonb;not null;default:'[]';column:phases" json:"phases"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
}

func (Activity) TableName() string { return "activity" }
