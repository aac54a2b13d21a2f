package types

import (
	"time"

	"github.com/google/uuid"
)

// Membership records when a user joined a room. Rows are unique per
// (room, user) and never deleted; JoinedAt feeds the inactivity-rule
// grace period.
type Membership struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_membership_room_user,priority:1" json:"room_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_membership_room_user,priority:2" json:"user_id"`
	JoinedAt time.Time `gorm:"not null;column:joined_at" json:"joined_at"`
}

func (Membership) TableName() string { return "membership" }
