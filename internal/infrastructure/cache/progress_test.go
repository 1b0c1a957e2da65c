package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryStoreExpiration(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	if err := store.Set(ctx, "k", "v", 50*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || val != "v" {
		t.Fatalf("Get = (%q, %v, %v), want (v, true, nil)", val, ok, err)
	}

	time.Sleep(80 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Error("expected key to expire")
	}

	if _, ok, _ := store.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestProgressStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	defer store.Close()

	ps := NewProgressStore(store, time.Minute, time.Minute)
	meetingID := uuid.New()

	if err := ps.SetProgress(ctx, meetingID, ProgressSnapshot{
		Status:   "transcribing",
		Stage:    "transcribe",
		Progress: 35,
	}); err != nil {
		t.Fatalf("SetProgress: %v", err)
	}

	snapshot, ok, err := ps.GetProgress(ctx, meetingID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if snapshot.Status != "transcribing" || snapshot.Progress != 35 {
		t.Errorf("unexpected snapshot: %+v", snapshot)
	}
	if snapshot.MeetingID != meetingID.String() {
		t.Errorf("meeting id not set: %q", snapshot.MeetingID)
	}

	if err := ps.InvalidateProgress(ctx, meetingID); err != nil {
		t.Fatalf("InvalidateProgress: %v", err)
	}
	if _, ok, _ := ps.GetProgress(ctx, meetingID); ok {
		t.Error("expected miss after invalidation")
	}
}

func TestProgressStoreNilReceiver(t *testing.T) {
	ctx := context.Background()
	var ps *ProgressStore

	if err := ps.SetProgress(ctx, uuid.New(), ProgressSnapshot{Progress: 10}); err != nil {
		t.Errorf("nil store SetProgress: %v", err)
	}
	if _, ok, err := ps.GetProgress(ctx, uuid.New()); ok || err != nil {
		t.Errorf("nil store GetProgress = (%v, %v), want miss", ok, err)
	}
	if err := ps.InvalidateStats(ctx); err != nil {
		t.Errorf("nil store InvalidateStats: %v", err)
	}
}
