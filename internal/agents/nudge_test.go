package agents

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestTracker(states *fakeNudgeStateRepo, now time.Time) (*NudgeTracker, *time.Time) {
	clock := now
	tracker := NewNudgeTracker(states, testLogger())
	tracker.now = func() time.Time { return clock }
	return tracker, &clock
}

func TestNudgeTrackerFiresOnThirdRapidFlag(t *testing.T) {
	states := newFakeNudgeStateRepo()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tracker, clock := newTestTracker(states, t0)

	roomID, userID := uuid.New(), uuid.New()
	phase := 0

	for i, want := range []bool{false, false, true} {
		*clock = t0.Add(time.Duration(i) * 10 * time.Second)
		due, err := tracker.RecordAndShouldNudge(testDBC(), roomID, userID, &phase)
		if err != nil {
			t.Fatalf("call %d: %v", i+1, err)
		}
		if due != want {
			t.Fatalf("call %d: due want=%v got=%v", i+1, want, due)
		}
	}

	stored := states.stored(roomID, userID, &phase)
	if stored == nil {
		t.Fatalf("expected nudge state row")
	}
	if stored.FlaggedCount != 3 {
		t.Fatalf("flagged_count: want=3 got=%d", stored.FlaggedCount)
	}
	if stored.LastNudgedAt == nil {
		t.Fatalf("last_nudged_at should be set after a fire")
	}
}

func TestNudgeTrackerTimeFloorFiresSecondFlag(t *testing.T) {
	states := newFakeNudgeStateRepo()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tracker, clock := newTestTracker(states, t0)

	roomID, userID := uuid.New(), uuid.New()

	due, err := tracker.RecordAndShouldNudge(testDBC(), roomID, userID, nil)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if due {
		t.Fatalf("first flag should not nudge")
	}

	*clock = t0.Add(91 * time.Second)
	due, err = tracker.RecordAndShouldNudge(testDBC(), roomID, userID, nil)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !due {
		t.Fatalf("second flag after 91s should nudge via the time floor")
	}
}

func TestNudgeTrackerTimeFloorNotReachedAtExactly90s(t *testing.T) {
	states := newFakeNudgeStateRepo()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tracker, clock := newTestTracker(states, t0)

	roomID, userID := uuid.New(), uuid.New()

	if due, _ := tracker.RecordAndShouldNudge(testDBC(), roomID, userID, nil); due {
		t.Fatalf("first flag should not nudge")
	}
	*clock = t0.Add(90 * time.Second)
	if due, _ := tracker.RecordAndShouldNudge(testDBC(), roomID, userID, nil); due {
		t.Fatalf("exactly 90s is not older than the floor")
	}
}

func TestNudgeTrackerPartialWriteOnNonFire(t *testing.T) {
	states := newFakeNudgeStateRepo()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tracker, _ := newTestTracker(states, t0)

	roomID, userID := uuid.New(), uuid.New()
	phase := 1

	if due, err := tracker.RecordAndShouldNudge(testDBC(), roomID, userID, &phase); err != nil || due {
		t.Fatalf("first call: due=%v err=%v", due, err)
	}

	stored := states.stored(roomID, userID, &phase)
	if stored.FlaggedCount != 1 {
		t.Fatalf("flagged_count: want=1 got=%d", stored.FlaggedCount)
	}
	if stored.LastNudgedAt != nil {
		t.Fatalf("last_nudged_at must stay unset on the non-firing path, got=%v", stored.LastNudgedAt)
	}
}

func TestNudgeTrackerFloorResetsAfterFire(t *testing.T) {
	states := newFakeNudgeStateRepo()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tracker, clock := newTestTracker(states, t0)

	roomID, userID := uuid.New(), uuid.New()

	// Three quick flags: third fires on cadence.
	for i := 0; i < 3; i++ {
		*clock = t0.Add(time.Duration(i) * 10 * time.Second)
		tracker.RecordAndShouldNudge(testDBC(), roomID, userID, nil)
	}
	// Fourth flag shortly after: count 4 misses the cadence and the floor
	// now measures from the nudge just fired.
	*clock = t0.Add(30 * time.Second)
	due, err := tracker.RecordAndShouldNudge(testDBC(), roomID, userID, nil)
	if err != nil {
		t.Fatalf("fourth call: %v", err)
	}
	if due {
		t.Fatalf("fourth flag 10s after a fire should not nudge")
	}

	// Past the floor again it fires even though 5%3 != 0.
	*clock = t0.Add(30 * time.Second).Add(95 * time.Second)
	due, err = tracker.RecordAndShouldNudge(testDBC(), roomID, userID, nil)
	if err != nil {
		t.Fatalf("fifth call: %v", err)
	}
	if !due {
		t.Fatalf("fifth flag past the floor should nudge")
	}
}

func TestNudgeTrackerPartitionsByPhase(t *testing.T) {
	states := newFakeNudgeStateRepo()
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tracker, _ := newTestTracker(states, t0)

	roomID, userID := uuid.New(), uuid.New()
	p0, p1 := 0, 1

	tracker.RecordAndShouldNudge(testDBC(), roomID, userID, &p0)
	tracker.RecordAndShouldNudge(testDBC(), roomID, userID, &p0)
	tracker.RecordAndShouldNudge(testDBC(), roomID, userID, &p1)
	tracker.RecordAndShouldNudge(testDBC(), roomID, userID, nil)

	if got := states.stored(roomID, userID, &p0).FlaggedCount; got != 2 {
		t.Fatalf("phase 0 count: want=2 got=%d", got)
	}
	if got := states.stored(roomID, userID, &p1).FlaggedCount; got != 1 {
		t.Fatalf("phase 1 count: want=1 got=%d", got)
	}
	if got := states.stored(roomID, userID, nil).FlaggedCount; got != 1 {
		t.Fatalf("null phase count: want=1 got=%d", got)
	}
}
