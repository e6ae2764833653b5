package storage

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	run := sampleRun("run-1", 0)
	if err := store.SaveRun(ctx, run); err != nil {
		t.Fatalf("save run: %v", err)
	}

	loaded, ok, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted run")
	}
	if loaded.Best.Total != 32 || len(loaded.Diagnostics) != 3 {
		t.Fatalf("unexpected run: %+v", loaded)
	}

	loaded.BestByGeneration[0] = -1
	again, _, _ := store.GetRun(ctx, "run-1")
	if again.BestByGeneration[0] != 12 {
		t.Fatal("store shares slices with callers")
	}

	if _, ok, err := store.GetRun(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing run, got ok=%v err=%v", ok, err)
	}
}

func TestMemoryStoreListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	for i, id := range []string{"old", "new", "mid"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		if err := store.SaveRun(ctx, sampleRun(id, offsets[i])); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 || runs[0].ID != "new" || runs[1].ID != "mid" || runs[2].ID != "old" {
		t.Fatalf("unexpected order: %+v", runs)
	}
	if runs[0].Generations != 3 || runs[0].BestTotal != 32 {
		t.Fatalf("unexpected summary: %+v", runs[0])
	}

	if err := store.DeleteRun(ctx, "mid"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	runs, _ = store.ListRuns(ctx)
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs after delete, got %d", len(runs))
	}
}
