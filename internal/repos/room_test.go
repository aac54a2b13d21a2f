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

func TestRoomRepoSetActivity(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewRoomRepo(db, log)

	room := &types.Room{
		ID:            uuid.New(),
		Code:          "RMTEST",
		Name:          "Repo Test",
		ActivityRunID: uuid.New(),
		CreatedAt:     time.Now().UTC(),
	}
	if _, err := repo.Create(dbc, room); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByCode(dbc, "RMTEST")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got == nil || got.ID != room.ID {
		t.Fatalf("GetByCode: want=%v got=%+v", room.ID, got)
	}
	if got.ActivityID != nil || got.ActivityStartedAt != nil {
		t.Fatalf("new room should have no activity: %+v", got)
	}

	if got, err = repo.GetByCode(dbc, "NOSUCH"); err != nil || got != nil {
		t.Fatalf("GetByCode (missing): want=nil got=%+v err=%v", got, err)
	}

	activityID := uuid.New()
	startedAt := time.Now().UTC().Truncate(time.Microsecond)
	runID := uuid.New()
	if err := repo.SetActivity(dbc, room.ID, activityID, startedAt, runID); err != nil {
		t.Fatalf("SetActivity: %v", err)
	}

	got, err = repo.GetByID(dbc, room.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ActivityID == nil || *got.ActivityID != activityID {
		t.Fatalf("activity_id: want=%v got=%v", activityID, got.ActivityID)
	}
	if got.ActivityStartedAt == nil || !got.ActivityStartedAt.Equal(startedAt) {
		t.Fatalf("activity_started_at: want=%v got=%v", startedAt, got.ActivityStartedAt)
	}
	if got.ActivityRunID != runID {
		t.Fatalf("activity_run_id: want=%v got=%v", runID, got.ActivityRunID)
	}

	// Restarting partitions history under a fresh run id.
	secondRun := uuid.New()
	if err := repo.SetActivity(dbc, room.ID, activityID, startedAt.Add(time.Minute), secondRun); err != nil {
		t.Fatalf("SetActivity (restart): %v", err)
	}
	got, _ = repo.GetByID(dbc, room.ID)
	if got.ActivityRunID != secondRun {
		t.Fatalf("run id after restart: want=%v got=%v", secondRun, got.ActivityRunID)
	}
}
