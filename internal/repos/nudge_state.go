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

type NudgeStateRepo interface {
	Get(dbc dbctx.Context, roomID, userID uuid.UUID, phase *int) (*types.NudgeState, error)
	Create(dbc dbctx.Context, state *types.NudgeState) (*types.NudgeState, error)
	// UpdateFields writes only the given columns; the nudge tracker relies
	// on this to persist flagged_count without touching last_nudged_at on
	// the non-firing path.
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type nudgeStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNudgeStateRepo(db *gorm.DB, log *logger.Logger) NudgeStateRepo {
	return &nudgeStateRepo{db: db, log: log.With("repo", "NudgeStateRepo")}
}

func (r *nudgeStateRepo) Get(dbc dbctx.Context, roomID, userID uuid.UUID, phase *int) (*types.NudgeState, error) {
	if roomID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing room_id or user_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.NudgeState
	q := txx.WithContext(dbc.Ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID)
	err := wherePhase(q, phase).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *nudgeStateRepo) Create(dbc dbctx.Context, state *types.NudgeState) (*types.NudgeState, error) {
	if state == nil {
		return nil, fmt.Errorf("missing nudge state")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(state).Error; err != nil {
		return nil, err
	}
	return state, nil
}

func (r *nudgeStateRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.NudgeState{}).
		Where("id = ?", id).
		Updates(updates).Error
}
