package agents

import (
	"time"

	"github.com/google/uuid"

	"github.com/davidcw/studyhall-backend/internal/logger"
	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos"
	"github.com/davidcw/studyhall-backend/internal/types"
)

const (
	// Every third flagged post is nudge-worthy on count alone.
	nudgeCountCadence = 3
	// A nudge also becomes due once 90 seconds have passed since the last
	// one (or since the state row was first created, when none has fired
	// yet), so sparse flagging still surfaces eventually.
	nudgeTimeFloor = 90 * time.Second
)

// NudgeTracker owns the per (room, user, phase) evidence-nudge cadence.
type NudgeTracker struct {
	states repos.NudgeStateRepo
	log    *logger.Logger
	now    func() time.Time
}

func NewNudgeTracker(states repos.NudgeStateRepo, log *logger.Logger) *NudgeTracker {
	return &NudgeTracker{
		states: states,
		log:    log.With("component", "NudgeTracker"),
		now:    time.Now,
	}
}

// RecordAndShouldNudge increments the flagged counter for the triple and
// reports whether a nudge is due now. The increment persists regardless of
// the outcome: only flagged_count is written on the non-firing path, both
// flagged_count and last_nudged_at when a nudge fires.
func (t *NudgeTracker) RecordAndShouldNudge(dbc dbctx.Context, roomID, userID uuid.UUID, phase *int) (bool, error) {
	state, err := t.states.Get(dbc, roomID, userID, phase)
	if err != nil {
		return false, err
	}
	now := t.now().UTC()
	if state == nil {
		state = &types.NudgeState{
			ID:         uuid.New(),
			RoomID:     roomID,
			UserID:     userID,
			PhaseIndex: phase,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := t.states.Create(dbc, state); err != nil {
			return false, err
		}
	}

	state.FlaggedCount++

	floorRef := state.CreatedAt
	if state.LastNudgedAt != nil {
		floorRef = *state.LastNudgedAt
	}
	due := state.FlaggedCount%nudgeCountCadence == 0 || now.Sub(floorRef) > nudgeTimeFloor

	if !due {
		if err := t.states.UpdateFields(dbc, state.ID, map[string]interface{}{
			"flagged_count": state.FlaggedCount,
		}); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := t.states.UpdateFields(dbc, state.ID, map[string]interface{}{
		"flagged_count":  state.FlaggedCount,
		"last_nudged_at": now,
	}); err != nil {
		return false, err
	}
	return true, nil
}
