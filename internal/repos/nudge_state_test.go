package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/davidcw/studyhall-backend/internal/pkg/dbctx"
	"github.com/davidcw/studyhall-backend/internal/repos/testutil"
	"github.com/davidcw/studyhall-backend/internal/types"
)

func TestNudgeStateRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewNudgeStateRepo(db, log)

	roomID, userID := uuid.New(), uuid.New()
	now := time.Now().UTC().Truncate(time.Microsecond)
	p0 := 0

	got, err := repo.Get(dbc, roomID, userID, &p0)
	if err != nil {
		t.Fatalf("Get (missing): %v", err)
	}
	if got != nil {
		t.Fatalf("Get (missing): want=nil got=%+v", got)
	}

	state := &types.NudgeState{
		ID:         uuid.New(),
		RoomID:     roomID,
		UserID:     userID,
		PhaseIndex: &p0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := repo.Create(dbc, state); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Partial update: only flagged_count moves, last_nudged_at stays NULL.
	if err := repo.UpdateFields(dbc, state.ID, map[string]interface{}{"flagged_count": 2}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.Get(dbc, roomID, userID, &p0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.FlaggedCount != 2 {
		t.Fatalf("flagged_count: want=2 got=%+v", got)
	}
	if got.LastNudgedAt != nil {
		t.Fatalf("last_nudged_at must stay unset, got=%v", got.LastNudgedAt)
	}

	nudgedAt := now.Add(time.Minute)
	if err := repo.UpdateFields(dbc, state.ID, map[string]interface{}{
		"flagged_count":  3,
		"last_nudged_at": nudgedAt,
	}); err != nil {
		t.Fatalf("UpdateFields (fire): %v", err)
	}
	got, err = repo.Get(dbc, roomID, userID, &p0)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FlaggedCount != 3 || got.LastNudgedAt == nil || !got.LastNudgedAt.Equal(nudgedAt) {
		t.Fatalf("after fire: got=%+v", got)
	}

	// Phase scoping: the phase-0 row is invisible to other scopes.
	if got, err = repo.Get(dbc, roomID, userID, nil); err != nil || got != nil {
		t.Fatalf("Get (null phase): want=nil got=%+v err=%v", got, err)
	}
	p1 := 1
	if got, err = repo.Get(dbc, roomID, userID, &p1); err != nil || got != nil {
		t.Fatalf("Get (phase 1): want=nil got=%+v err=%v", got, err)
	}
}
