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

type PostRepo interface {
	Create(dbc dbctx.Context, post *types.Post) (*types.Post, error)
	ListByRoom(dbc dbctx.Context, roomID uuid.UUID, limit int) ([]*types.Post, error)
	// RecentAuthorIDs returns the set of authors with at least one post in
	// the room's phase since the given time.
	RecentAuthorIDs(dbc dbctx.Context, roomID uuid.UUID, phase *int, since time.Time) (map[uuid.UUID]bool, error)
	// CountByAuthor returns per-author post counts for the room's phase.
	CountByAuthor(dbc dbctx.Context, roomID uuid.UUID, phase *int) (map[uuid.UUID]int64, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, log *logger.Logger) PostRepo {
	return &postRepo{db: db, log: log.With("repo", "PostRepo")}
}

func (r *postRepo) Create(dbc dbctx.Context, post *types.Post) (*types.Post, error) {
	if post == nil {
		return nil, fmt.Errorf("missing post")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if err := txx.WithContext(dbc.Ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *postRepo) ListByRoom(dbc dbctx.Context, roomID uuid.UUID, limit int) ([]*types.Post, error) {
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
	var out []*types.Post
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Post{}).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *postRepo) RecentAuthorIDs(dbc dbctx.Context, roomID uuid.UUID, phase *int, since time.Time) (map[uuid.UUID]bool, error) {
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var ids []uuid.UUID
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Post{}).
		Distinct("author_id").
		Where("room_id = ? AND created_at >= ?", roomID, since)
	if err := wherePhase(q, phase).Pluck("author_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *postRepo) CountByAuthor(dbc dbctx.Context, roomID uuid.UUID, phase *int) (map[uuid.UUID]int64, error) {
	if roomID == uuid.Nil {
		return nil, fmt.Errorf("missing room_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	type row struct {
		AuthorID uuid.UUID `gorm:"column:author_id"`
		N        int64     `gorm:"column:n"`
	}
	var rows []row
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Post{}).
		Select("author_id, COUNT(*) AS n").
		Where("room_id = ?", roomID).
		Group("author_id")
	if err := wherePhase(q, phase).Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]int64, len(rows))
	for _, rw := range rows {
		out[rw.AuthorID] = rw.N
	}
	return out, nil
}
