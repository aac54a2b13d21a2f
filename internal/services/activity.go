package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos"
	"github.com/davidcw/studyhall-backend/internal/schedule"
	"github.com/davidcw/studyhall-backend/internal/sse"
	"github.com/davidcw/studyhall-backend/internal/types"
)

type ActivityService interface {
	List(ctx context.Context) ([]*types.Activity, error)
	// Start (re)starts an activity in the room: it stamps a fresh start
	// timestamp and a brand-new activity run id, partitioning everything
	// written under the previous run as history.
	Start(ctx context.Context, room *types.Room, activitySlug string) (*types.Room, error)
	// CurrentPhase resolves the phase index active right now, or nil.
	// The resolved value is for stamping and display only; stored records
	// keep the index they were stamped with.
	CurrentPhase(ctx context.Context, room *types.Room) (*int, error)
}

type activityService struct {
	db         *gorm.DB
	log        *logger.Logger
	activities repos.ActivityRepo
	rooms      repos.RoomRepo
	notifier   *FeedNotifier
}

func NewActivityService(
	db *gorm.DB,
	log *logger.Logger,
	activities repos.ActivityRepo,
	rooms repos.RoomRepo,
	notifier *FeedNotifier,
) ActivityService {
	return &activityService{
		db:         db,
		log:        log.With("service", "ActivityService"),
		activities: activities,
		rooms:      rooms,
		notifier:   notifier,
	}
}

func (s *activityService) List(ctx context.Context) ([]*types.Activity, error) {
	return s.activities.List(dbctx.Context{Ctx: ctx})
}

func (s *activityService) Start(ctx context.Context, room *types.Room, activitySlug string) (*types.Room, error) {
	if room == nil {
		return nil, ErrRoomNotFound
	}
	dbc := dbctx.Context{Ctx: ctx}
	activity, err := s.activities.GetBySlug(dbc, activitySlug)
	if err != nil {
		return nil, fmt.Errorf("lookup activity: %w", err)
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	startedAt := time.Now().UTC()
	runID := uuid.New()
	if err := s.rooms.SetActivity(dbc, room.ID, activity.ID, startedAt, runID); err != nil {
		return nil, fmt.Errorf("start activity: %w", err)
	}

	room.ActivityID = &activity.ID
	room.ActivityStartedAt = &startedAt
	room.ActivityRunID = runID

	s.log.Info("Activity started", "room_id", room.ID, "activity", activity.Slug, "run_id", runID)
	s.notifier.Notify(ctx, room.Code, sse.EventRoomActivityStarted, map[string]any{
		"room_code":       room.Code,
		"activity_slug":   activity.Slug,
		"activity_run_id": runID,
		"started_at":      startedAt,
	})
	return room, nil
}

func (s *activityService) CurrentPhase(ctx context.Context, room *types.Room) (*int, error) {
	if room == nil || room.ActivityID == nil || room.ActivityStartedAt == nil {
		return nil, nil
	}
	activity, err := s.activities.GetByID(dbctx.Context{Ctx: ctx}, *room.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("lookup activity: %w", err)
	}
	if activity == nil {
		return nil, nil
	}
	phases, err := schedule.ParsePhases(activity.Phases)
	if err != nil {
		return nil, err
	}
	return schedule.ResolveIndex(room.ActivityStartedAt, phases, time.Now().UTC()), nil
}
