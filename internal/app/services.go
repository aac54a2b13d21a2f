package app

import (
	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/agents"
	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/realtime/bus"
	"github.com/davidcw/studyhall-backend/internal/services"
	"github.com/davidcw/studyhall-backend/internal/sse"
)

type Services struct {
	Auth     services.AuthService
	Room     services.RoomService
	Activity services.ActivityService
	Post     services.PostService

	Dispatcher *agents.Dispatcher
	Notifier   *services.FeedNotifier
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos, hub *sse.Hub, feedBus bus.Bus) Services {
	log.Info("Wiring services...")

	notifier := services.NewFeedNotifier(hub, feedBus, log)

	registry := agents.NewRegistry(reposet.Agent, log)
	tracker := agents.NewNudgeTracker(reposet.NudgeState, log)
	inactivity := agents.NewInactivityRule(reposet.Membership, reposet.Post, reposet.Intervention, registry, log)
	equity := agents.NewEquityRule(reposet.Membership, reposet.Post, reposet.Intervention, registry, log)
	evidence := agents.NewEvidenceRule(reposet.User, reposet.Intervention, tracker, registry, log)
	dispatcher := agents.NewDispatcher(inactivity, equity, evidence, log)

	authService := services.NewAuthService(
		db, log,
		reposet.User,
		reposet.UserToken,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)
	roomService := services.NewRoomService(db, log, reposet.Room, reposet.Membership)
	activityService := services.NewActivityService(db, log, reposet.Activity, reposet.Room, notifier)
	postService := services.NewPostService(
		db, log,
		reposet.Post,
		reposet.Intervention,
		reposet.User,
		activityService,
		dispatcher,
		notifier,
	)

	return Services{
		Auth:       authService,
		Room:       roomService,
		Activity:   activityService,
		Post:       postService,
		Dispatcher: dispatcher,
		Notifier:   notifier,
	}
}
