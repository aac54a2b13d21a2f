package types

import (
	"time"

	"github.com/google/uuid"
)

// NudgeState tracks evidence-nudge cadence per (room, user, phase). Created
// lazily on the first evidence-lacking post by the user in that phase and
// never deleted; the phase index in the key naturally partitions counts
// across phases. PhaseIndex follows the same nullable convention as posts.
type NudgeState struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_nudge_state_scope,priority:1" json:"room_id"`
	UserID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_nudge_state_scope,priority:2" json:"user_id"`
	PhaseIndex   *int       `gorm:"column:phase_index;uniqueIndex:idx_nudge_state_scope,priority:3" json:"phase_index"`
	FlaggedCount int        `gorm:"not null;default:0;column:flagged_count" json:"flagged_count"`
	LastNudgedAt *time.Time `gorm:"column:last_nudged_at" json:"last_nudged_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"not null" json:"updated_at"`
}

func (NudgeState) TableName() string { return "nudge_state" }
