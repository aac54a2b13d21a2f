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

func TestInterventionRepoExistsRecent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	repo := NewInterventionRepo(db, log)

	roomID := uuid.New()
	agentID := uuid.New()
	runID := uuid.New()
	userID := uuid.New()
	now := time.Now().UTC()
	p0 := 0

	ruleName := "individual_inactivity:user=" + userID.String()
	iv := &types.Intervention{
		ID:            uuid.New(),
		AgentID:       agentID,
		AgentName:     "Facilitator Agent",
		RoomID:        roomID,
		RuleName:      ruleName,
		Message:       "m",
		Explanation:   "e",
		PhaseIndex:    &p0,
		ActivityRunID: runID,
		CreatedAt:     now.Add(-time.Minute),
	}
	if _, err := repo.Create(dbc, iv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := repo.ExistsRecent(dbc, roomID, ruleName, &p0, now.Add(-2*time.Minute))
	if err != nil {
		t.Fatalf("ExistsRecent: %v", err)
	}
	if !exists {
		t.Fatalf("want=true for matching rule, phase and window")
	}

	// Outside the window.
	exists, err = repo.ExistsRecent(dbc, roomID, ruleName, &p0, now.Add(-30*time.Second))
	if err != nil {
		t.Fatalf("ExistsRecent (window): %v", err)
	}
	if exists {
		t.Fatalf("want=false outside the window")
	}

	// Different phase does not match.
	p1 := 1
	exists, err = repo.ExistsRecent(dbc, roomID, ruleName, &p1, now.Add(-2*time.Minute))
	if err != nil {
		t.Fatalf("ExistsRecent (other phase): %v", err)
	}
	if exists {
		t.Fatalf("want=false for a different phase")
	}

	// The null phase matches only NULL rows, never the phase-0 row.
	exists, err = repo.ExistsRecent(dbc, roomID, ruleName, nil, now.Add(-2*time.Minute))
	if err != nil {
		t.Fatalf("ExistsRecent (null phase): %v", err)
	}
	if exists {
		t.Fatalf("want=false for the null phase against a phase-0 row")
	}

	// A different per-user rule name does not match.
	otherRule := "individual_inactivity:user=" + uuid.New().String()
	exists, err = repo.ExistsRecent(dbc, roomID, otherRule, &p0, now.Add(-2*time.Minute))
	if err != nil {
		t.Fatalf("ExistsRecent (other user): %v", err)
	}
	if exists {
		t.Fatalf("want=false for another user's rule name")
	}
}
