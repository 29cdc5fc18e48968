package status

import (
	"context"
	"testing"

	"server/internal/domain"
)

func TestMemoryStoreStatusLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	st, err := store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st != nil {
		t.Fatal("expected no status for unknown user")
	}

	if err := store.Set(ctx, domain.GenerationStatus{UserID: "user-1", IsRunning: true, TotalGenerated: 2}); err != nil {
		t.Fatalf("set: %v", err)
	}
	st, err = store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st == nil || !st.IsRunning || st.TotalGenerated != 2 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.UpdatedAt.IsZero() {
		t.Fatal("set must stamp UpdatedAt")
	}

	if err := store.Clear(ctx, "user-1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	st, _ = store.Get(ctx, "user-1")
	if st != nil {
		t.Fatal("expected cleared status")
	}
}

func TestMemoryStoreStopFlag(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	stopped, err := store.StopRequested(ctx, "user-1")
	if err != nil {
		t.Fatalf("stop requested: %v", err)
	}
	if stopped {
		t.Fatal("stop flag must default to false")
	}

	if err := store.RequestStop(ctx, "user-1"); err != nil {
		t.Fatalf("request stop: %v", err)
	}
	stopped, _ = store.StopRequested(ctx, "user-1")
	if !stopped {
		t.Fatal("stop flag not set")
	}
	// The flag is per user.
	if other, _ := store.StopRequested(ctx, "user-2"); other {
		t.Fatal("stop flag leaked across users")
	}

	if err := store.ClearStop(ctx, "user-1"); err != nil {
		t.Fatalf("clear stop: %v", err)
	}
	stopped, _ = store.StopRequested(ctx, "user-1")
	if stopped {
		t.Fatal("stop flag not cleared")
	}
}
