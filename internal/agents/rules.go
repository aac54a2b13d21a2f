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

// Rule labels as reported by the dispatcher.
const (
	RuleIndividualInactivity = "individual_inactivity"
	RuleUnequalParticipation = "unequal_participation"
	RuleMissingEvidence      = "missing_evidence"
)

const (
	// No post from a member within this window makes them nudge-eligible.
	inactivityWindow = 2 * time.Minute
	// Members who joined within the window are exempt.
	inactivityGrace = 2 * time.Minute
	// Suppression window for a repeated per-member inactivity nudge.
	inactivityCooldown = 2 * time.Minute

	// Equity preconditions: below either floor there is too little signal.
	equityMinPosts   = 3
	equityMinMembers = 2
	// A member under half the expected per-member average is flagged.
	equityShareFactor = 0.5
	equityCooldown    = 5 * time.Minute
)

// Per-user rule names embed the target user id so cooldown lookups are
// precise. These formats are load-bearing for deduplication; changing them
// invalidates every cooldown row already written.
func inactivityRuleName(userID uuid.UUID) string {
	return fmt.Sprintf("%s:user=%s", RuleIndividualInactivity, userID)
}

func equityRuleName(userID uuid.UUID) string {
	return fmt.Sprintf("%s:user=%s", RuleUnequalParticipation, userID)
}

func evidenceRuleName(userID uuid.UUID) string {
	return fmt.Sprintf("%s:user=%s", RuleMissingEvidence, userID)
}

// InactivityRule nudges members who have gone quiet in the current phase.
// Runs on poll, not on post.
type InactivityRule struct {
	members       repos.MembershipRepo
	posts         repos.PostRepo
	interventions repos.InterventionRepo
	registry      *Registry
	log           *logger.Logger
	now           func() time.Time
}

func NewInactivityRule(
	members repos.MembershipRepo,
	posts repos.PostRepo,
	interventions repos.InterventionRepo,
	registry *Registry,
	log *logger.Logger,
) *InactivityRule {
	return &InactivityRule{
		members:       members,
		posts:         posts,
		interventions: interventions,
		registry:      registry,
		log:           log.With("rule", RuleIndividualInactivity),
		now:           time.Now,
	}
}

// Evaluate visits every current member and nudges those who are silent,
// past their join grace period, and not already nudged within the cooldown
// window. Each member is an independent decision: a store failure for one
// member is logged and does not undo or block interventions for others.
func (r *InactivityRule) Evaluate(dbc dbctx.Context, room *types.Room, phase *int) (bool, error) {
	agent, err := r.registry.Active(dbc, RoleFacilitator)
	if err != nil {
		return false, err
	}
	if agent == nil {
		return false, nil
	}

	members, err := r.members.ListByRoom(dbc, room.ID)
	if err != nil {
		return false, err
	}
	if len(members) == 0 {
		return false, nil
	}

	now := r.now().UTC()
	recentAuthors, err := r.posts.RecentAuthorIDs(dbc, room.ID, phase, now.Add(-inactivityWindow))
	if err != nil {
		return false, err
	}

	fired := false
	var lastErr error
	for _, m := range members {
		ok, err := r.evaluateMember(dbc, room, agent, phase, m, recentAuthors, now)
		if err != nil {
			r.log.Warn("Member inactivity check failed", "room_id", room.ID, "member", m.UserID, "error", err)
			lastErr = err
			continue
		}
		if ok {
			fired = true
		}
	}
	return fired, lastErr
}

func (r *InactivityRule) evaluateMember(
	dbc dbctx.Context,
	room *types.Room,
	agent *types.Agent,
	phase *int,
	m repos.RoomMember,
	recentAuthors map[uuid.UUID]bool,
	now time.Time,
) (bool, error) {
	if recentAuthors[m.UserID] {
		return false, nil
	}
	if now.Sub(m.JoinedAt) < inactivityGrace {
		return false, nil
	}
	ruleName := inactivityRuleName(m.UserID)
	exists, err := r.interventions.ExistsRecent(dbc, room.ID, ruleName, phase, now.Add(-inactivityCooldown))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	iv := &types.Intervention{
		ID:            uuid.New(),
		AgentID:       agent.ID,
		AgentName:     agent.Name,
		RoomID:        room.ID,
		RuleName:      ruleName,
		Message:       fmt.Sprintf("It's been quiet on your end, %s. What's your take so far?", m.DisplayName),
		Explanation:   fmt.Sprintf("%s has not posted in the last 2 minutes. The Facilitator is prompting participation.", m.DisplayName),
		PhaseIndex:    phase,
		ActivityRunID: room.ActivityRunID,
		CreatedAt:     now,
	}
	if _, err := r.interventions.Create(dbc, iv); err != nil {
		return false, err
	}
	return true, nil
}

// EquityRule flags members far below an even share of the phase's posts.
// Runs after every new post.
type EquityRule struct {
	members       repos.MembershipRepo
	posts         repos.PostRepo
	interventions repos.InterventionRepo
	registry      *Registry
	log           *logger.Logger
	now           func() time.Time
}

func NewEquityRule(
	members repos.MembershipRepo,
	posts repos.PostRepo,
	interventions repos.InterventionRepo,
	registry *Registry,
	log *logger.Logger,
) *EquityRule {
	return &EquityRule{
		members:       members,
		posts:         posts,
		interventions: interventions,
		registry:      registry,
		log:           log.With("rule", RuleUnequalParticipation),
		now:           time.Now,
	}
}

func (r *EquityRule) Evaluate(dbc dbctx.Context, room *types.Room, phase *int) (bool, error) {
	agent, err := r.registry.Active(dbc, RoleFacilitator)
	if err != nil {
		return false, err
	}
	if agent == nil {
		return false, nil
	}

	members, err := r.members.ListByRoom(dbc, room.ID)
	if err != nil {
		return false, err
	}
	if len(members) < equityMinMembers {
		return false, nil
	}

	counts, err := r.posts.CountByAuthor(dbc, room.ID, phase)
	if err != nil {
		return false, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	if total < equityMinPosts {
		return false, nil
	}

	expectedAverage := float64(total) / float64(len(members))
	threshold := expectedAverage * equityShareFactor

	now := r.now().UTC()
	fired := false
	var lastErr error
	for _, m := range members {
		count := counts[m.UserID]
		if float64(count) >= threshold {
			continue
		}
		ok, err := r.nudgeMember(dbc, room, agent, phase, m, count, threshold, now)
		if err != nil {
			r.log.Warn("Member equity check failed", "room_id", room.ID, "member", m.UserID, "error", err)
			lastErr = err
			continue
		}
		if ok {
			fired = true
		}
	}
	return fired, lastErr
}

func (r *EquityRule) nudgeMember(
	dbc dbctx.Context,
	room *types.Room,
	agent *types.Agent,
	phase *int,
	m repos.RoomMember,
	count int64,
	threshold float64,
	now time.Time,
) (bool, error) {
	ruleName := equityRuleName(m.UserID)
	exists, err := r.interventions.ExistsRecent(dbc, room.ID, ruleName, phase, now.Add(-equityCooldown))
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	iv := &types.Intervention{
		ID:            uuid.New(),
		AgentID:       agent.ID,
		AgentName:     agent.Name,
		RoomID:        room.ID,
		RuleName:      ruleName,
		Message:       fmt.Sprintf("%s, the group would love to hear more from you. You've posted %d times this phase; an even share would be at least %.1f.", m.DisplayName, count, threshold),
		Explanation:   fmt.Sprintf("%s has %d posts in this phase, below the balanced-participation threshold of %.2f. The Facilitator is encouraging a more even conversation.", m.DisplayName, count, threshold),
		PhaseIndex:    phase,
		ActivityRunID: room.ActivityRunID,
		CreatedAt:     now,
	}
	if _, err := r.interventions.Create(dbc, iv); err != nil {
		return false, err
	}
	return true, nil
}

// EvidenceRule asks the author of an unsupported claim for their reasoning.
// Runs only when a new post exists; the nudge-state counter advances even
// when the socratic agent is muted.
type EvidenceRule struct {
	users         repos.UserRepo
	interventions repos.InterventionRepo
	tracker       *NudgeTracker
	registry      *Registry
	log           *logger.Logger
	now           func() time.Time
}

func NewEvidenceRule(
	users repos.UserRepo,
	interventions repos.InterventionRepo,
	tracker *NudgeTracker,
	registry *Registry,
	log *logger.Logger,
) *EvidenceRule {
	return &EvidenceRule{
		users:         users,
		interventions: interventions,
		tracker:       tracker,
		registry:      registry,
		log:           log.With("rule", RuleMissingEvidence),
		now:           time.Now,
	}
}

func (r *EvidenceRule) Evaluate(dbc dbctx.Context, room *types.Room, post *types.Post) (bool, error) {
	// The stored flag is the classifier's verdict from post creation; the
	// two call sites share one classifier, so reading the flag here cannot
	// disagree with re-running it.
	if !post.LacksEvidence {
		return false, nil
	}

	due, err := r.tracker.RecordAndShouldNudge(dbc, room.ID, post.AuthorID, post.PhaseIndex)
	if err != nil {
		return false, err
	}
	if !due {
		return false, nil
	}

	agent, err := r.registry.Active(dbc, RoleSocratic)
	if err != nil {
		return false, err
	}
	if agent == nil {
		return false, nil
	}

	displayName := "there"
	if authors, err := r.users.GetByIDs(dbc, []uuid.UUID{post.AuthorID}); err == nil && len(authors) > 0 {
		displayName = authors[0].DisplayName
	}

	now := r.now().UTC()
	iv := &types.Intervention{
		ID:            uuid.New(),
		AgentID:       agent.ID,
		AgentName:     agent.Name,
		RoomID:        room.ID,
		RuleName:      evidenceRuleName(post.AuthorID),
		Message:       fmt.Sprintf("Interesting point, %s! Can you share what evidence or reasoning supports that idea?", displayName),
		Explanation:   "This message appears to make a claim without supporting evidence. The Socratic Agent is asking for clarification.",
		PhaseIndex:    post.PhaseIndex,
		ActivityRunID: room.ActivityRunID,
		CreatedAt:     now,
	}
	if _, err := r.interventions.Create(dbc, iv); err != nil {
		return false, err
	}
	return true, nil
}
