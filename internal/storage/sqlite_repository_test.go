package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pomodo-test.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := MigrateUp(db); err != nil {
		t.Fatalf("migrate up: %v", err)
	}

	repo, err := NewSQLiteRepository(db)
	if err != nil {
		t.Fatalf("new repo: %v", err)
	}
	return repo
}

func parseRFC3339(t *testing.T, value string) time.Time {
	t.Helper()
	out, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return out
}

func TestKVPutGetDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	now := parseRFC3339(t, "2026-02-09T12:00:00Z")
	repo.now = func() time.Time { return now }

	if err := repo.Put(ctx, "alpha", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := repo.Get(ctx, "alpha")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(got.Value) != `{"v":1}` || !got.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected entry: %#v", got)
	}

	later := now.Add(time.Minute)
	repo.now = func() time.Time { return later }
	if err := repo.Put(ctx, "alpha", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err = repo.Get(ctx, "alpha")
	if err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if string(got.Value) != `{"v":2}` || !got.UpdatedAt.Equal(later) {
		t.Fatalf("overwrite not applied: %#v", got)
	}

	if err := repo.Put(ctx, "beta", nil); err != nil {
		t.Fatalf("put beta: %v", err)
	}
	keys, err := repo.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "alpha" || keys[1] != "beta" {
		t.Fatalf("unexpected keys: %v", keys)
	}

	if err := repo.Delete(ctx, "alpha"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = repo.Get(ctx, "alpha")
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
	if err := repo.Delete(ctx, "alpha"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on second delete, got: %v", err)
	}
	if err := repo.Put(ctx, "  ", []byte("x")); err == nil {
		t.Fatal("expected error for blank key")
	}
}

func TestCycleLogAppendListCount(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	base := parseRFC3339(t, "2026-02-09T09:00:00Z")

	records := []CycleRecord{
		{ID: "c-1", Kind: "work", TaskText: "Write docs", DurationSec: 1500, EndedAt: base},
		{ID: "c-2", Kind: "break", DurationSec: 300, EndedAt: base.Add(30 * time.Minute)},
		{ID: "c-3", Kind: "work", TaskText: "Review", DurationSec: 900, EndedAt: base.Add(24 * time.Hour)},
	}
	for _, rec := range records {
		if err := repo.AppendCycle(ctx, rec); err != nil {
			t.Fatalf("append %s: %v", rec.ID, err)
		}
	}

	all, err := repo.ListCycles(ctx, CycleListFilter{})
	if err != nil {
		t.Fatalf("list cycles: %v", err)
	}
	if len(all) != 3 || all[0].ID != "c-3" || all[2].ID != "c-1" {
		t.Fatalf("unexpected order: %#v", all)
	}

	work, err := repo.ListCycles(ctx, CycleListFilter{Kind: "work", Limit: 1})
	if err != nil {
		t.Fatalf("list work: %v", err)
	}
	if len(work) != 1 || work[0].TaskText != "Review" {
		t.Fatalf("unexpected work page: %#v", work)
	}

	skipped, err := repo.ListCycles(ctx, CycleListFilter{Offset: 2})
	if err != nil {
		t.Fatalf("list with offset: %v", err)
	}
	if len(skipped) != 1 || skipped[0].ID != "c-1" {
		t.Fatalf("unexpected offset page: %#v", skipped)
	}

	since := base.Add(time.Hour)
	n, err := repo.CountCycles(ctx, CycleListFilter{Since: &since})
	if err != nil {
		t.Fatalf("count since: %v", err)
	}
	if n != 1 {
		t.Fatalf("count since = %d, want 1", n)
	}
	n, err = repo.CountCycles(ctx, CycleListFilter{Kind: "work"})
	if err != nil {
		t.Fatalf("count work: %v", err)
	}
	if n != 2 {
		t.Fatalf("count work = %d, want 2", n)
	}

	if err := repo.AppendCycle(ctx, CycleRecord{ID: "bad", Kind: "nap", EndedAt: base}); err == nil {
		t.Fatal("expected check constraint failure for unknown kind")
	}
}
