package agents

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos"
	"github.com/davidcw/studyhall-backend/internal/types"
)

func testLogger() *logger.Logger {
	log, err := logger.New("test")
	if err != nil {
		panic(err)
	}
	return log
}

func testDBC() dbctx.Context {
	return dbctx.Context{}
}

func phaseKey(p *int) string {
	if p == nil {
		return "null"
	}
	return fmt.Sprintf("%d", *p)
}

type fakeNudgeStateRepo struct {
	states map[string]*types.NudgeState
	getErr error
}

func newFakeNudgeStateRepo() *fakeNudgeStateRepo {
	return &fakeNudgeStateRepo{states: make(map[string]*types.NudgeState)}
}

func nudgeKey(roomID, userID uuid.UUID, phase *int) string {
	return roomID.String() + "|" + userID.String() + "|" + phaseKey(phase)
}

func (f *fakeNudgeStateRepo) Get(_ dbctx.Context, roomID, userID uuid.UUID, phase *int) (*types.NudgeState, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.states[nudgeKey(roomID, userID, phase)]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeNudgeStateRepo) Create(_ dbctx.Context, state *types.NudgeState) (*types.NudgeState, error) {
	cp := *state
	f.states[nudgeKey(state.RoomID, state.UserID, state.PhaseIndex)] = &cp
	return state, nil
}

func (f *fakeNudgeStateRepo) UpdateFields(_ dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	for _, s := range f.states {
		if s.ID != id {
			continue
		}
		if v, ok := updates["flagged_count"]; ok {
			s.FlaggedCount = v.(int)
		}
		if v, ok := updates["last_nudged_at"]; ok {
			ts := v.(time.Time)
			s.LastNudgedAt = &ts
		}
		return nil
	}
	return fmt.Errorf("nudge state %s not found", id)
}

func (f *fakeNudgeStateRepo) stored(roomID, userID uuid.UUID, phase *int) *types.NudgeState {
	return f.states[nudgeKey(roomID, userID, phase)]
}

type fakeMembershipRepo struct {
	members []repos.RoomMember
	listErr error
}

func (f *fakeMembershipRepo) Ensure(_ dbctx.Context, _, _ uuid.UUID, _ time.Time) error {
	return nil
}

func (f *fakeMembershipRepo) ListByRoom(_ dbctx.Context, _ uuid.UUID) ([]repos.RoomMember, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.members, nil
}

func (f *fakeMembershipRepo) Exists(_ dbctx.Context, _, _ uuid.UUID) (bool, error) {
	return true, nil
}

type fakePostRepo struct {
	recentAuthors map[uuid.UUID]bool
	counts        map[uuid.UUID]int64
	countErr      error
	recentErr     error
}

func (f *fakePostRepo) Create(_ dbctx.Context, post *types.Post) (*types.Post, error) {
	return post, nil
}

func (f *fakePostRepo) ListByRoom(_ dbctx.Context, _ uuid.UUID, _ int) ([]*types.Post, error) {
	return nil, nil
}

func (f *fakePostRepo) RecentAuthorIDs(_ dbctx.Context, _ uuid.UUID, _ *int, _ time.Time) (map[uuid.UUID]bool, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if f.recentAuthors == nil {
		return map[uuid.UUID]bool{}, nil
	}
	return f.recentAuthors, nil
}

func (f *fakePostRepo) CountByAuthor(_ dbctx.Context, _ uuid.UUID, _ *int) (map[uuid.UUID]int64, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	if f.counts == nil {
		return map[uuid.UUID]int64{}, nil
	}
	return f.counts, nil
}

type fakeInterventionRepo struct {
	created   []*types.Intervention
	createErr error
}

func (f *fakeInterventionRepo) Create(_ dbctx.Context, iv *types.Intervention) (*types.Intervention, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *iv
	f.created = append(f.created, &cp)
	return iv, nil
}

func (f *fakeInterventionRepo) ListByRoom(_ dbctx.Context, _ uuid.UUID, _ int) ([]*types.Intervention, error) {
	out := make([]*types.Intervention, len(f.created))
	copy(out, f.created)
	return out, nil
}

func (f *fakeInterventionRepo) ExistsRecent(_ dbctx.Context, roomID uuid.UUID, ruleName string, phase *int, since time.Time) (bool, error) {
	for _, iv := range f.created {
		if iv.RoomID != roomID || iv.RuleName != ruleName {
			continue
		}
		if phaseKey(iv.PhaseIndex) != phaseKey(phase) {
			continue
		}
		if !iv.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeInterventionRepo) byRule(ruleName string) []*types.Intervention {
	var out []*types.Intervention
	for _, iv := range f.created {
		if iv.RuleName == ruleName {
			out = append(out, iv)
		}
	}
	return out
}

type fakeAgentRepo struct {
	byRole map[string]*types.Agent
	getErr error
}

func (f *fakeAgentRepo) GetByRoleKey(_ dbctx.Context, roleKey string) (*types.Agent, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.byRole[roleKey], nil
}

func (f *fakeAgentRepo) List(_ dbctx.Context) ([]*types.Agent, error) {
	var out []*types.Agent
	for _, a := range f.byRole {
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAgentRepo) SetActive(_ dbctx.Context, roleKey string, active bool) error {
	if a, ok := f.byRole[roleKey]; ok {
		a.IsActive = active
	}
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*types.User
}

func (f *fakeUserRepo) Create(_ dbctx.Context, users []*types.User) ([]*types.User, error) {
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(_ dbctx.Context, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func activeAgents() *fakeAgentRepo {
	return &fakeAgentRepo{byRole: map[string]*types.Agent{
		string(RoleFacilitator): {ID: uuid.New(), RoleKey: string(RoleFacilitator), Name: "Facilitator Agent", IsActive: true},
		string(RoleSocratic):    {ID: uuid.New(), RoleKey: string(RoleSocratic), Name: "Socratic Agent", IsActive: true},
	}}
}

func testRoom() *types.Room {
	return &types.Room{
		ID:            uuid.New(),
		Code:          "ABCDEF",
		Name:          "Test Room",
		ActivityRunID: uuid.New(),
		CreatedAt:     time.Now().UTC().Add(-time.Hour),
	}
}
