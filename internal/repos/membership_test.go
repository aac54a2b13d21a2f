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

func TestMembershipRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}

	userRepo := NewUserRepo(db, log)
	roomRepo := NewRoomRepo(db, log)
	repo := NewMembershipRepo(db, log)

	user := &types.User{ID: uuid.New(), DisplayName: "Asha", Role: types.RoleLearner, CreatedAt: time.Now().UTC()}
	if _, err := userRepo.Create(dbc, []*types.User{user}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	room := &types.Room{ID: uuid.New(), Code: "MEMTST", ActivityRunID: uuid.New(), CreatedAt: time.Now().UTC()}
	if _, err := roomRepo.Create(dbc, room); err != nil {
		t.Fatalf("create room: %v", err)
	}

	joinedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := repo.Ensure(dbc, room.ID, user.ID, joinedAt); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	// Re-joining keeps the original joined_at.
	if err := repo.Ensure(dbc, room.ID, user.ID, joinedAt.Add(time.Hour)); err != nil {
		t.Fatalf("Ensure (rejoin): %v", err)
	}

	members, err := repo.ListByRoom(dbc, room.ID)
	if err != nil {
		t.Fatalf("ListByRoom: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("member count: want=1 got=%d", len(members))
	}
	if members[0].UserID != user.ID || members[0].DisplayName != "Asha" {
		t.Fatalf("unexpected member: %+v", members[0])
	}
	if !members[0].JoinedAt.Equal(joinedAt) {
		t.Fatalf("joined_at: want=%v got=%v", joinedAt, members[0].JoinedAt)
	}

	exists, err := repo.Exists(dbc, room.ID, user.ID)
	if err != nil {
		t.Fatalf("Exists: %v", err)
	}
	if !exists {
		t.Fatalf("Exists: want=true")
	}
	exists, err = repo.Exists(dbc, room.ID, uuid.New())
	if err != nil {
		t.Fatalf("Exists (missing): %v", err)
	}
	if exists {
		t.Fatalf("Exists (missing): want=false")
	}
}
