package types

import (
	"time"

	"github.com/google/uuid"
)

// Post is an immutable chat message. PhaseIndex and ActivityRunID are stamped
// from the room's resolved state at creation time and are never re-derived:
// a post's phase attribution stays frozen even if the schedule is later
// recomputed. LacksEvidence is the stored result of the evidence classifier
// applied to Content at creation.
type Post struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoomID        uuid.UUID `gorm:"type:uuid;not null;index" json:"room_id"`
	AuthorID      uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	PhaseIndex    *int      `gorm:"column:phase_index;index" json:"phase_index"`
	ActivityRunID uuid.UUID `gorm:"type:uuid;not null;index;column:activity_run_id" json:"activity_run_id"`
	LacksEvidence bool      `gorm:"not null;default:false;column:lacks_evidence" json:"lacks_evidence"`
	CreatedAt     time.Time `gorm:"not null;index" json:"created_at"`
}

func (Post) TableName() string { return "post" }
