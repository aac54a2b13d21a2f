package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleLearner     = "learner"
	RoleFacilitator = "facilitator"
)

// User is a temporary session account. There is no registration flow;
// accounts are minted by the temp-login endpoint and carry no credentials.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	DisplayName string    `gorm:"not null;column:display_name" json:"display_name"`
	Role        string    `gorm:"not null;default:'learner';column:role" json:"role"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

func (User) TableName() string { return "user" }
