package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := store.Record(ctx, Run{
		SourcePath:  "/media/ep01.mkv",
		OutputPath:  "/media/ep01 generated.srt",
		Mode:        "with_chinese_and_pinyin",
		ChineseID:   "2",
		SecondaryID: "3",
		CueCount:    420,
		FusedCount:  390,
		Duration:    1500 * time.Millisecond,
		CreatedAt:   base,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == "" {
		t.Fatal("expected generated id")
	}
	if first.Status != StatusSucceeded {
		t.Fatalf("status = %q, want succeeded", first.Status)
	}

	if _, err := store.Record(ctx, Run{
		SourcePath: "/media/ep02.mkv",
		Mode:       "pinyin",
		ChineseID:  "ext-0",
		Status:     StatusFailed,
		Error:      "no chinese subtitle found",
		CreatedAt:  base.Add(time.Hour),
	}); err != nil {
		t.Fatalf("Record failed run: %v", err)
	}

	runs, err := store.List(ctx, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].SourcePath != "/media/ep02.mkv" || runs[0].Status != StatusFailed || runs[0].OutputPath != "" {
		t.Fatalf("unexpected newest run: %+v", runs[0])
	}
	got := runs[1]
	if got.ID != first.ID || got.CueCount != 420 || got.FusedCount != 390 || got.SecondaryID != "3" {
		t.Fatalf("unexpected stored run: %+v", got)
	}
	if got.Duration != 1500*time.Millisecond || !got.CreatedAt.Equal(base) {
		t.Fatalf("unexpected duration/time: %s %s", got.Duration, got.CreatedAt)
	}

	limited, err := store.List(ctx, 1)
	if err != nil {
		t.Fatalf("List limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("expected 1 run, got %d", len(limited))
	}
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	now := time.Now()

	for _, age := range []time.Duration{100 * 24 * time.Hour, 10 * 24 * time.Hour} {
		if _, err := store.Record(ctx, Run{SourcePath: "/x.mkv", Mode: "pinyin", ChineseID: "1", CreatedAt: now.Add(-age)}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	removed, err := store.Prune(ctx, now.Add(-90*24*time.Hour))
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 remaining run, got %d", len(runs))
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.db.ExecContext(ctx, "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	if _, err := Open(ctx, path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}
