package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos"
	"github.com/davidcw/studyhall-backend/internal/types"
	"github.com/davidcw/studyhall-backend/internal/utils"
)

const roomCodeLength = 6

type RoomService interface {
	CreateRoom(ctx context.Context, name string, creatorID uuid.UUID) (*types.Room, error)
	JoinRoom(ctx context.Context, code string, userID uuid.UUID) (*types.Room, error)
	GetByCode(ctx context.Context, code string) (*types.Room, error)
	Members(ctx context.Context, roomID uuid.UUID) ([]repos.RoomMember, error)
	RequireMember(ctx context.Context, roomID, userID uuid.UUID) error
}

type roomService struct {
	db          *gorm.DB
	log         *logger.Logger
	rooms       repos.RoomRepo
	memberships repos.MembershipRepo
}

func NewRoomService(
	db *gorm.DB,
	log *logger.Logger,
	rooms repos.RoomRepo,
	memberships repos.MembershipRepo,
) RoomService {
	return &roomService{
		db:          db,
		log:         log.With("service", "RoomService"),
		rooms:       rooms,
		memberships: memberships,
	}
}

func (s *roomService) CreateRoom(ctx context.Context, name string, creatorID uuid.UUID) (*types.Room, error) {
	if creatorID == uuid.Nil {
		return nil, fmt.Errorf("missing creator")
	}
	now := time.Now().UTC()

	var room *types.Room
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		// Retry a few times on the unlikely code collision.
		for attempt := 0; attempt < 5; attempt++ {
			code := utils.RandomRoomCode(roomCodeLength)
			existing, err := s.rooms.GetByCode(dbc, code)
			if err != nil {
				return fmt.Errorf("check room code: %w", err)
			}
			if existing != nil {
				continue
			}
			room = &types.Room{
				ID:            uuid.New(),
				Code:          code,
				Name:          strings.TrimSpace(name),
				ActivityRunID: uuid.New(),
				CreatedAt:     now,
			}
			break
		}
		if room == nil {
			return fmt.Errorf("could not allocate a room code")
		}
		if _, err := s.rooms.Create(dbc, room); err != nil {
			return fmt.Errorf("create room: %w", err)
		}
		if err := s.memberships.Ensure(dbc, room.ID, creatorID, now); err != nil {
			return fmt.Errorf("create creator membership: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Room created", "room_id", room.ID, "code", room.Code)
	return room, nil
}

func (s *roomService) JoinRoom(ctx context.Context, code string, userID uuid.UUID) (*types.Room, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user")
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("code is required")
	}

	dbc := dbctx.Context{Ctx: ctx}
	room, err := s.rooms.GetByCode(dbc, code)
	if err != nil {
		return nil, fmt.Errorf("lookup room: %w", err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	if err := s.memberships.Ensure(dbc, room.ID, userID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("join room: %w", err)
	}
	return room, nil
}

func (s *roomService) GetByCode(ctx context.Context, code string) (*types.Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	room, err := s.rooms.GetByCode(dbctx.Context{Ctx: ctx}, code)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *roomService) Members(ctx context.Context, roomID uuid.UUID) ([]repos.RoomMember, error) {
	return s.memberships.ListByRoom(dbctx.Context{Ctx: ctx}, roomID)
}

func (s *roomService) RequireMember(ctx context.Context, roomID, userID uuid.UUID) error {
	ok, err := s.memberships.Exists(dbctx.Context{Ctx: ctx}, roomID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotAMember
	}
	return nil
}
