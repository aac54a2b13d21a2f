package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Agent is a named facilitation personality bound to one or more rules.
// RoleKey is the stable key rule code resolves agents through; Name is the
// display name shown on interventions. IsActive=false suppresses intervention
// writes without disabling rule evaluation, so counters such as NudgeState
// keep advancing while the agent is muted.
type Agent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RoleKey     string         `gorm:"uniqueIndex;not null;column:role_key" json:"role_key"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active" json:"is_active"`
	Config      datatypes.JSON `gorm:"type:jsonb;not null;default:'{}';column:config" json:"config,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Agent) TableName() string { return "agent" }
