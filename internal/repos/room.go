package repos

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/types"
)

type RoomRepo interface {
	Create(dbc dbctx.Context, room *types.Room) (*types.Room, error)
	GetByCode(dbc dbctx.Context, code string) (*types.Room, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error)
	// SetActivity stamps a new activity run onto the room: activity, start
	// timestamp, and a fresh run id in one update.
	SetActivity(dbc dbctx.Context, roomID uuid.UUID, activityID uuid.UUID, startedAt time.Time, runID uuid.UUID) error
}

type roomRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoomRepo(db *gorm.DB, log *logger.Logger) RoomRepo {
	return &roomRepo{db: db, log: log.With("repo", "RoomRepo")}
}

func (r *roomRepo) Create(dbc dbctx.Context, room *types.Room) (*types.Room, error) {
	if room == nil {
		return nil, fmt.Errorf("missing room")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (r *roomRepo) GetByCode(dbc dbctx.Context, code string) (*types.Room, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Room
	err := txx.WithContext(dbc.Ctx).
		Where("code = ?", code).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *roomRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Room, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Room
	err := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *roomRepo) SetActivity(dbc dbctx.Context, roomID uuid.UUID, activityID uuid.UUID, startedAt time.Time, runID uuid.UUID) error {
	if roomID == uuid.Nil {
		return fmt.Errorf("missing room_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Room{}).
		Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"activity_id":         activityID,
			"activity_started_at": startedAt,
			"activity_run_id":     runID,
		}).Error
}
