package repos

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/types"
)

type AgentRepo interface {
	GetByRoleKey(dbc dbctx.Context, roleKey string) (*types.Agent, error)
	List(dbc dbctx.Context) ([]*types.Agent, error)
	SetActive(dbc dbctx.Context, roleKey string, active bool) error
}

type agentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAgentRepo(db *gorm.DB, log *logger.Logger) AgentRepo {
	return &agentRepo{db: db, log: log.With("repo", "AgentRepo")}
}

func (r *agentRepo) GetByRoleKey(dbc dbctx.Context, roleKey string) (*types.Agent, error) {
	if roleKey == "" {
		return nil, fmt.Errorf("missing role_key")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Agent
	err := txx.WithContext(dbc.Ctx).
		Where("role_key = ?", roleKey).
		First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *agentRepo) List(dbc dbctx.Context) ([]*types.Agent, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Agent
	if err := txx.WithContext(dbc.Ctx).
		Order("role_key ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *agentRepo) SetActive(dbc dbctx.Context, roleKey string, active bool) error {
	if roleKey == "" {
		return fmt.Errorf("missing role_key")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	return txx.WithContext(dbc.Ctx).
		Model(&types.Agent{}).
		Where("role_key = ?", roleKey).
		Update("is_active", active).Error
}
