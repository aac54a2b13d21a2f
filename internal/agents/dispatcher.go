package agents

import (
	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/types"
)

// Dispatcher decides which rules run on which trigger and aggregates the
// fired labels. Rules are independent: one rule failing or declining never
// blocks the others, and no rule depends on another having fired in the
// same call.
type Dispatcher struct {
	inactivity *InactivityRule
	equity     *EquityRule
	evidence   *EvidenceRule
	log        *logger.Logger
}

func NewDispatcher(
	inactivity *InactivityRule,
	equity *EquityRule,
	evidence *EvidenceRule,
	log *logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		inactivity: inactivity,
		equity:     equity,
		evidence:   evidence,
		log:        log.With("component", "RuleDispatcher"),
	}
}

// RunOnPost evaluates the post-triggered rules: equity for the post's phase,
// then evidence for the post itself.
func (d *Dispatcher) RunOnPost(dbc dbctx.Context, room *types.Room, post *types.Post) []string {
	fired := []string{}

	ok, err := d.equity.Evaluate(dbc, room, post.PhaseIndex)
	if err != nil {
		d.log.Warn("Equity rule failed", "room_id", room.ID, "error", err)
	}
	if ok {
		fired = append(fired, RuleUnequalParticipation)
	}

	ok, err = d.evidence.Evaluate(dbc, room, post)
	if err != nil {
		d.log.Warn("Evidence rule failed", "room_id", room.ID, "error", err)
	}
	if ok {
		fired = append(fired, RuleMissingEvidence)
	}

	return fired
}

// RunOnPoll evaluates the read-triggered rules. There is no background
// scheduler; time-based nudges surface when a client fetches the feed.
func (d *Dispatcher) RunOnPoll(dbc dbctx.Context, room *types.Room, phase *int) []string {
	fired := []string{}

	ok, err := d.inactivity.Evaluate(dbc, room, phase)
	if err != nil {
		d.log.Warn("Inactivity rule failed", "room_id", room.ID, "error", err)
	}
	if ok {
		fired = append(fired, RuleIndividualInactivity)
	}

	return fired
}
