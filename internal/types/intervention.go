package types

import (
	"time"

	"github.com/google/uuid"
)

// Intervention is a synthetic agent-authored message injected into a room's
// feed. Append-only. RuleName encodes enough specificity for deduplication:
// per-user rules embed the target user's id (for example
// "missing_evidence:user=<uuid>"), so cooldown lookups are precise.
// PhaseIndex is nullable; a nil value means the intervention is phase-less
// and must be matched with an explicit NULL check, never a phase value.
type Intervention struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AgentID       uuid.UUID `gorm:"type:uuid;not null;index" json:"agent_id"`
	AgentName     string    `gorm:"not null;column:agent_name" json:"agent_name"`
	RoomID        uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	RuleName      string    `gorm:"not null;index;column:rule_name" json:"rule_name"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	Explanation   string    `gorm:"type:text;not null" json:"explanation"`
	PhaseIndex    *int      `gorm:"column:phase_index;index" json:"phase_index"`
	ActivityRunID uuid.UUID `gorm:"type:uuid;not null;index;column:activity_run_id" json:"activity_run_id"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
}

func (Intervention) TableName() string { return "intervention" }
