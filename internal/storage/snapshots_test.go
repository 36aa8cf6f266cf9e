package storage

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/sandeepkv93/pomodo/internal/cycle"
	"github.com/sandeepkv93/pomodo/internal/model"
	"github.com/sandeepkv93/pomodo/internal/settings"
)

func TestLoadOnFirstRunReportsNotFound(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	_, found, err := LoadCycleState(ctx, repo)
	if err != nil || found {
		t.Fatalf("load cycle state on empty db: found=%v err=%v", found, err)
	}
	_, found, err = LoadSettings(ctx, repo)
	if err != nil || found {
		t.Fatalf("load settings on empty db: found=%v err=%v", found, err)
	}
}

func TestCycleStatePersistReloadRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	prefs := settings.New(model.DefaultSettings(25, 5))

	store := cycle.New(prefs)
	store.Observe(func(st model.CycleState) {
		if err := SaveCycleState(ctx, repo, st); err != nil {
			t.Fatalf("save cycle state: %v", err)
		}
	})
	a, _ := store.AddTask("A")
	store.AddTask("B")
	store.StartEdit(a.ID)
	store.SetEditBuffer(a.ID, "A2")
	store.RecomputeCurrentTask()
	store.Tick()
	store.CompleteTask(a.ID)

	loaded, found, err := LoadCycleState(ctx, repo)
	if err != nil || !found {
		t.Fatalf("load cycle state: found=%v err=%v", found, err)
	}
	if !reflect.DeepEqual(store.State(), loaded) {
		t.Fatalf("persisted state mismatch:\nwant %+v\ngot  %+v", store.State(), loaded)
	}

	reloaded := cycle.New(prefs, cycle.WithSnapshot(loaded))
	if !reflect.DeepEqual(store.State(), reloaded.State()) {
		t.Fatalf("rehydrated state mismatch: %+v", reloaded.State())
	}
	if reloaded.Repaired() {
		t.Fatal("a clean record must not be reported as repaired")
	}
}

func TestCorruptedRecordIsRepairedOnReload(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	raw := `{"items":[{"id":3,"text":"a","edit":false,"model":"a"},{"id":3,"text":"b","edit":false,"model":"b"}],` +
		`"finishedTasks":[],"currentTask":"","timeleft":1500,"isBreak":false,"nextId":4}`
	if err := repo.Put(ctx, KeyTasks, []byte(raw)); err != nil {
		t.Fatalf("put raw record: %v", err)
	}

	loaded, found, err := LoadCycleState(ctx, repo)
	if err != nil || !found {
		t.Fatalf("load cycle state: found=%v err=%v", found, err)
	}

	store := cycle.New(settings.New(model.DefaultSettings(25, 5)), cycle.WithSnapshot(loaded))
	state := store.State()
	if state.Pending[0].ID != 1 || state.Pending[1].ID != 2 || state.NextID != 3 {
		t.Fatalf("ids not renumbered: %+v next=%d", state.Pending, state.NextID)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	want := model.Settings{SelectedAlarmID: 2, Volume: 0.25, WorkMinutes: 40, BreakMinutes: 8}

	if err := SaveSettings(ctx, repo, want); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	got, found, err := LoadSettings(ctx, repo)
	if err != nil || !found {
		t.Fatalf("load settings: found=%v err=%v", found, err)
	}
	if got != want {
		t.Fatalf("settings mismatch: want %+v got %+v", want, got)
	}
}

func TestDecodeErrorsAreReported(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	if err := repo.Put(ctx, KeyTasks, []byte("{not json")); err != nil {
		t.Fatalf("put: %v", err)
	}

	_, _, err := LoadCycleState(ctx, repo)
	if err == nil || !strings.Contains(err.Error(), "decode cycle state") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
