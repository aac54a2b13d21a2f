package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/types"
)

// RoomMember is the projection rule evaluators consume: identity, display
// name for message templating, and the join timestamp feeding the
// inactivity grace period.
type RoomMember struct {
	UserID      uuid.UUID `gorm:"column:user_id"`
	DisplayName string    `gorm:"column:display_name"`
	JoinedAt    time.Time `gorm:"column:joined_at"`
}

type MembershipRepo interface {
	// Ensure records a (room, user) membership with the given join time.
	// Re-joining is a no-op: the original joined_at is preserved.
	Ensure(dbc dbctx.Context, roomID, userID uuid.UUID, joinedAt time.Time) error
	ListByRoom(dbc dbctx.Context, roomID uuid.UUID) ([]RoomMember, error)
	Exists(dbc dbctx.Context, roomID, userID uuid.UUID) (bool, error)
}

type membershipRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMembershipRepo(db *gorm.DB, log *logger.Logger) MembershipRepo {
	return &membershipRepo{db: db, log: log.With("repo", "MembershipRepo")}
}

func (r *membershipRepo) Ensure(dbc dbctx.Context, roomID, userID uuid.UUID, joinedAt time.Time) error {
	if roomID == uuid.Nil || userID == uuid.Nil {
		return fmt.Errorf("missing room_id or user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	m := types.Membership{
		ID:       uuid.New(),
		RoomID:   roomID,
		UserID:   userID,
		JoinedAt: joinedAt,
	}
	return txx.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&m).Error
}

func (r *membershipRepo) ListByRoom(dbc dbctx.Context, roomID uuid.UUID) ([]RoomMember, error) {
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []RoomMember
	if err := txx.WithContext(dbc.Ctx).
		Table("membership").
		Select(`membership.user_id, "user".display_name, membership.joined_at`).
		Joins(`JOIN "user" ON "user".id = membership.user_id`).
		Where("membership.room_id = ?", roomID).
		Order("membership.joined_at ASC").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *membershipRepo) Exists(dbc dbctx.Context, roomID, userID uuid.UUID) (bool, error) {
	if roomID == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Membership{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
