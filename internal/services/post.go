package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/davidcw/studyhall-backend/internal/agents"
	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos"
	"github.com/davidcw/studyhall-backend/internal/sse"
	"github.com/davidcw/studyhall-backend/internal/types"
)

// FeedItem is one entry of a room's merged feed: a participant post or an
// agent intervention, ordered by creation time.
type FeedItem struct {
	Kind          string     `json:"kind"`
	ID            uuid.UUID  `json:"id"`
	AuthorID      *uuid.UUID `json:"author_id,omitempty"`
	AuthorName    string     `json:"author_name,omitempty"`
	AgentName     string     `json:"agent_name,omitempty"`
	RuleName      string     `json:"rule_name,omitempty"`
	Content       string     `json:"content,omitempty"`
	Message       string     `json:"message,omitempty"`
	Explanation   string     `json:"explanation,omitempty"`
	PhaseIndex    *int       `json:"phase_index"`
	ActivityRunID uuid.UUID  `json:"activity_run_id"`
	CreatedAt     time.Time  `json:"created_at"`
}

const (
	FeedKindPost         = "post"
	FeedKindIntervention = "intervention"
)

type PostService interface {
	// CreatePost stamps the room's current phase and run id onto the new
	// post, classifies its evidence, persists it, and dispatches the
	// post-triggered rules. Returns the post and the fired rule labels.
	CreatePost(ctx context.Context, room *types.Room, authorID uuid.UUID, content string) (*types.Post, []string, error)
	// Feed runs the poll-triggered rules for the current phase, then
	// returns posts and interventions merged ascending by created_at.
	Feed(ctx context.Context, room *types.Room) ([]FeedItem, []string, error)
}

type postService struct {
	db         *gorm.DB
	log        *logger.Logger
	posts      repos.PostRepo
	ivs        repos.InterventionRepo
	users      repos.UserRepo
	activities ActivityService
	dispatcher *agents.Dispatcher
	notifier   *FeedNotifier
}

func NewPostService(
	db *gorm.DB,
	log *logger.Logger,
	posts repos.PostRepo,
	ivs repos.InterventionRepo,
	users repos.UserRepo,
	activities ActivityService,
	dispatcher *agents.Dispatcher,
	notifier *FeedNotifier,
) PostService {
	return &postService{
		db:         db,
		log:        log.With("service", "PostService"),
		posts:      posts,
		ivs:        ivs,
		users:      users,
		activities: activities,
		dispatcher: dispatcher,
		notifier:   notifier,
	}
}

func (s *postService) CreatePost(ctx context.Context, room *types.Room, authorID uuid.UUID, content string) (*types.Post, []string, error) {
	if room == nil {
		return nil, nil, ErrRoomNotFound
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, nil, fmt.Errorf("content is required")
	}

	phase, err := s.activities.CurrentPhase(ctx, room)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve phase: %w", err)
	}

	dbc := dbctx.Context{Ctx: ctx}
	post := &types.Post{
		ID:            uuid.New(),
		RoomID:        room.ID,
		AuthorID:      authorID,
		Content:       content,
		PhaseIndex:    phase,
		ActivityRunID: room.ActivityRunID,
		LacksEvidence: agents.LacksEvidence(content),
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := s.posts.Create(dbc, post); err != nil {
		return nil, nil, fmt.Errorf("create post: %w", err)
	}

	fired := s.dispatcher.RunOnPost(dbc, room, post)

	s.notifier.Notify(ctx, room.Code, sse.EventRoomPostCreated, map[string]any{
		"post_id":   post.ID,
		"author_id": post.AuthorID,
	})
	if len(fired) > 0 {
		s.notifier.Notify(ctx, room.Code, sse.EventRoomInterventionCreated, map[string]any{
			"fired": fired,
		})
	}
	return post, fired, nil
}

func (s *postService) Feed(ctx context.Context, room *types.Room) ([]FeedItem, []string, error) {
	if room == nil {
		return nil, nil, ErrRoomNotFound
	}
	dbc := dbctx.Context{Ctx: ctx}

	phase, err := s.activities.CurrentPhase(ctx, room)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve phase: %w", err)
	}

	// Poll-triggered rules piggyback on feed reads.
	fired := s.dispatcher.RunOnPoll(dbc, room, phase)
	if len(fired) > 0 {
		s.notifier.Notify(ctx, room.Code, sse.EventRoomInterventionCreated, map[string]any{
			"fired": fired,
		})
	}

	posts, err := s.posts.ListByRoom(dbc, room.ID, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("list posts: %w", err)
	}
	ivs, err := s.ivs.ListByRoom(dbc, room.ID, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("list interventions: %w", err)
	}

	names, err := s.authorNames(dbc, posts)
	if err != nil {
		return nil, nil, err
	}

	items := make([]FeedItem, 0, len(posts)+len(ivs))
	for _, p := range posts {
		authorID := p.AuthorID
		items = append(items, FeedItem{
			Kind:          FeedKindPost,
			ID:            p.ID,
			AuthorID:      &authorID,
			AuthorName:    names[p.AuthorID],
			Content:       p.Content,
			PhaseIndex:    p.PhaseIndex,
			ActivityRunID: p.ActivityRunID,
			CreatedAt:     p.CreatedAt,
		})
	}
	for _, iv := range ivs {
		items = append(items, FeedItem{
			Kind:          FeedKindIntervention,
			ID:            iv.ID,
			AgentName:     iv.AgentName,
			RuleName:      iv.RuleName,
			Message:       iv.Message,
			Explanation:   iv.Explanation,
			PhaseIndex:    iv.PhaseIndex,
			ActivityRunID: iv.ActivityRunID,
			CreatedAt:     iv.CreatedAt,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, fired, nil
}

func (s *postService) authorNames(dbc dbctx.Context, posts []*types.Post) (map[uuid.UUID]string, error) {
	idSet := make(map[uuid.UUID]bool, len(posts))
	ids := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		if !idSet[p.AuthorID] {
			idSet[p.AuthorID] = true
			ids = append(ids, p.AuthorID)
		}
	}
	users, err := s.users.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve author names: %w", err)
	}
	out := make(map[uuid.UUID]string, len(users))
	for _, u := range users {
		out[u.ID] = u.DisplayName
	}
	return out, nil
}
