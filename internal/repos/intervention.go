package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/types"
)

type InterventionRepo interface {
	Create(dbc dbctx.Context, iv *types.Intervention) (*types.Intervention, error)
	ListByRoom(dbc dbctx.Context, roomID uuid.UUID, limit int) ([]*types.Intervention, error)
	// ExistsRecent reports whether an intervention with the exact rule name
	// exists for the room and phase since the given time. The phase filter
	// follows the nullable convention: nil matches only NULL phase rows.
	ExistsRecent(dbc dbctx.Context, roomID uuid.UUID, ruleName string, phase *int, since time.Time) (bool, error)
}

type interventionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterventionRepo(db *gorm.DB, log *logger.Logger) InterventionRepo {
	return &interventionRepo{db: db, log: log.With("repo", "InterventionRepo")}
}

func (r *interventionRepo) Create(dbc dbctx.Context, iv *types.Intervention) (*types.Intervention, error) {
	if iv == nil {
		return nil, fmt.Errorf("missing intervention")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(iv).Error; err != nil {
		return nil, err
	}
	return iv, nil
}

func (r *interventionRepo) ListByRoom(dbc dbctx.Context, roomID uuid.UUID, limit int) ([]*types.Intervention, error) {
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	if limit <= 0 || limit > 1000 {
		limit = 500
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Intervention
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Intervention{}).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *interventionRepo) ExistsRecent(dbc dbctx.Context, roomID uuid.UUID, ruleName string, phase *int, since time.Time) (bool, error) {
	if roomID == uuid.Nil {
		return false, fmt.Errorf("missing room_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var count int64
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Intervention{}).
		Where("room_id = ? AND rule_name = ? AND created_at >= ?", roomID, ruleName, since)
	if err := wherePhase(q, phase).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
