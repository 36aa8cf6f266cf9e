package cycle

import (
	"bytes"
	"log"
	"math/rand"
	"testing"

	"github.com/sandeepkv93/pomodo/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDurations struct {
	work, brk int
}

func (d fixedDurations) WorkMinutes() int  { return d.work }
func (d fixedDurations) BreakMinutes() int { return d.brk }

type adjustableDurations struct {
	work, brk int
}

func (d *adjustableDurations) WorkMinutes() int  { return d.work }
func (d *adjustableDurations) BreakMinutes() int { return d.brk }

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	return New(fixedDurations{work: 25, brk: 5}, opts...)
}

func pendingTexts(s *Store) []string {
	out := []string{}
	for _, task := range s.State().Pending {
		out = append(out, task.Text)
	}
	return out
}

func runDown(s *Store) {
	for !s.Tick() {
	}
}

func TestNewStartsWorkingAndEmpty(t *testing.T) {
	s := newTestStore(t)

	assert.Equal(t, model.PhaseWorking, s.Phase())
	assert.Equal(t, 1500, s.SecondsRemaining())
	assert.Equal(t, 1, s.NextID())
	assert.Empty(t, s.State().Pending)
	assert.Empty(t, s.State().Finished)
	assert.Equal(t, "", s.CurrentLabel())
	assert.False(t, s.StopSignal())
}

func TestAddTaskAllocatesIncreasingIDs(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.AddTask("   ")
	assert.False(t, ok, "blank text must be rejected")

	var last int
	for _, text := range []string{"a", "b", " c ", "d"} {
		task, ok := s.AddTask(text)
		require.True(t, ok)
		assert.Greater(t, task.ID, last)
		last = task.ID
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, pendingTexts(s))
	assert.Equal(t, 5, s.NextID())
	assert.Equal(t, "", s.CurrentLabel(), "adding must not select a current task")
}

func TestEditLifecycle(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.AddTask("draft")

	require.True(t, s.StartEdit(task.ID))
	require.True(t, s.SetEditBuffer(task.ID, "final"))
	assert.True(t, s.State().Pending[0].Editing)
	assert.Equal(t, "draft", s.State().Pending[0].Text)

	require.True(t, s.CommitEdit(task.ID))
	got := s.State().Pending[0]
	assert.Equal(t, "final", got.Text)
	assert.False(t, got.Editing)

	s.StartEdit(task.ID)
	s.SetEditBuffer(task.ID, "discarded")
	require.True(t, s.CancelEdit(task.ID))
	got = s.State().Pending[0]
	assert.Equal(t, "final", got.Text)
	assert.Equal(t, "final", got.EditBuffer)

	s.StartEdit(task.ID)
	s.SetEditBuffer(task.ID, "  ")
	assert.False(t, s.CommitEdit(task.ID), "blank commit behaves like cancel")
	assert.Equal(t, "final", s.State().Pending[0].Text)

	assert.False(t, s.StartEdit(99))
	assert.False(t, s.CommitEdit(99))
	assert.False(t, s.CancelEdit(99))
	assert.False(t, s.SetEditBuffer(99, "x"))
}

func TestCommitEditKeepsShowingLabelInSync(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.AddTask("old")
	s.RecomputeCurrentTask()

	s.StartEdit(task.ID)
	s.SetEditBuffer(task.ID, "new")
	s.CommitEdit(task.ID)

	assert.Equal(t, "new", s.CurrentLabel())
}

func TestRecomputeCurrentTask(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "", s.RecomputeCurrentTask())

	s.AddTask("A")
	s.AddTask("B")
	first := s.RecomputeCurrentTask()
	second := s.RecomputeCurrentTask()
	assert.Equal(t, "A", first)
	assert.Equal(t, first, second, "recompute must be idempotent")

	s.RecomputeCurrentTask()
	s.CompleteTask(s.State().Pending[0].ID)
	require.True(t, s.IsBreak())
	assert.Equal(t, model.BreakLabel, s.RecomputeCurrentTask())
}

func TestTickNeverGoesNegative(t *testing.T) {
	s := newTestStore(t)
	for i := 0; i < 1499; i++ {
		require.False(t, s.Tick())
	}
	assert.True(t, s.Tick())
	assert.Equal(t, 0, s.SecondsRemaining())
	assert.True(t, s.Tick())
	assert.Equal(t, 0, s.SecondsRemaining())
}

// Scenario: a single task expires at zero.
func TestOnExpireArchivesOnlyTask(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	s.RecomputeCurrentTask()
	runDown(s)

	s.OnExpire()

	state := s.State()
	assert.Empty(t, state.Pending)
	require.Len(t, state.Finished, 1)
	assert.Equal(t, "A", state.Finished[0].Text)
	// Expiry allocates a fresh id for the archived record instead of keeping
	// the task's own id; CompleteTask keeps it.
	assert.NotEqual(t, a.ID, state.Finished[0].ID)
	assert.Equal(t, 2, state.Finished[0].ID)
	assert.Equal(t, model.PhaseWorking, s.Phase())
	assert.Equal(t, 1500, s.SecondsRemaining())
	assert.Equal(t, "", s.CurrentLabel())
}

func TestOnExpireEntersBreakWhenTasksRemain(t *testing.T) {
	s := newTestStore(t)
	s.AddTask("A")
	s.AddTask("B")
	s.RecomputeCurrentTask()
	runDown(s)

	var periods []Period
	s.OnPeriod(func(p Period) { periods = append(periods, p) })
	s.OnExpire()

	assert.True(t, s.IsBreak())
	assert.Equal(t, 300, s.SecondsRemaining())
	assert.Equal(t, []string{"B"}, pendingTexts(s))
	require.Len(t, periods, 1)
	assert.Equal(t, Period{Kind: KindWork, TaskText: "A", Seconds: 1500}, periods[0])

	runDown(s)
	s.OnExpire()
	assert.False(t, s.IsBreak())
	assert.Equal(t, 1500, s.SecondsRemaining())
	assert.Equal(t, []string{"B"}, pendingTexts(s), "a finished break touches no task")
	require.Len(t, periods, 2)
	assert.Equal(t, KindBreak, periods[1].Kind)
}

func TestOnExpireIdleRaisesStop(t *testing.T) {
	s := newTestStore(t)
	runDown(s)

	s.OnExpire()

	assert.Equal(t, model.PhaseWorking, s.Phase())
	assert.Equal(t, 1500, s.SecondsRemaining())
	assert.True(t, s.StopSignal())
	s.ClearStopSignal()
	assert.False(t, s.StopSignal())
}

// Scenario: completing the active task starts a break.
func TestCompleteActiveTaskStartsBreak(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	s.AddTask("B")
	s.RecomputeCurrentTask()

	require.True(t, s.CompleteTask(a.ID))

	state := s.State()
	assert.Equal(t, []model.FinishedTask{{ID: a.ID, Text: "A"}}, state.Finished)
	assert.Equal(t, []string{"B"}, pendingTexts(s))
	assert.True(t, s.IsBreak())
	assert.Equal(t, 5*60, s.SecondsRemaining())
	assert.True(t, s.StopSignal())
	assert.Equal(t, "", s.CurrentLabel())
}

func TestCompleteLastActiveTaskStaysWorking(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	s.RecomputeCurrentTask()
	s.Tick()

	require.True(t, s.CompleteTask(a.ID))

	assert.False(t, s.IsBreak())
	assert.Equal(t, 1500, s.SecondsRemaining())
	assert.True(t, s.StopSignal())
}

func TestCompleteInactiveTaskLeavesTimerAlone(t *testing.T) {
	s := newTestStore(t)
	s.AddTask("A")
	b, _ := s.AddTask("B")
	s.RecomputeCurrentTask()
	s.Tick()

	require.True(t, s.CompleteTask(b.ID))

	assert.False(t, s.StopSignal())
	assert.False(t, s.IsBreak())
	assert.Equal(t, 1499, s.SecondsRemaining())
	assert.Equal(t, "A", s.CurrentLabel())
	assert.Equal(t, b.ID, s.State().Finished[0].ID)
	assert.False(t, s.CompleteTask(b.ID), "second completion is a no-op")
}

// Scenario: skipping a break.
func TestDeferDuringBreakSkipsIt(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	b, _ := s.AddTask("B")
	s.RecomputeCurrentTask()
	s.CompleteTask(a.ID)
	s.ClearStopSignal()
	s.RecomputeCurrentTask()
	require.True(t, s.IsBreak())

	require.True(t, s.DeferCurrentTask())

	assert.False(t, s.IsBreak())
	assert.Equal(t, 1500, s.SecondsRemaining())
	assert.Equal(t, "", s.CurrentLabel())
	state := s.State()
	require.Len(t, state.Pending, 1)
	assert.Equal(t, model.Task{ID: b.ID, Text: "B", EditBuffer: "B"}, state.Pending[0])
	assert.Len(t, state.Finished, 1)
}

func TestDeferWhileWorkingRequeuesFrontTask(t *testing.T) {
	s := newTestStore(t)
	s.AddTask("A")
	s.AddTask("B")
	s.AddTask("C")
	s.RecomputeCurrentTask()
	s.Tick()

	require.True(t, s.DeferCurrentTask())

	assert.Equal(t, []string{"B", "C", "A"}, pendingTexts(s))
	assert.Equal(t, 1500, s.SecondsRemaining())
	assert.Equal(t, "", s.CurrentLabel())
	assert.False(t, s.IsBreak())

	empty := newTestStore(t)
	assert.False(t, empty.DeferCurrentTask())
}

// Scenario: deleting the active task interrupts the cycle.
func TestDeleteActiveTaskInterrupts(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	b, _ := s.AddTask("B")
	require.Equal(t, 1, a.ID)
	require.Equal(t, 2, b.ID)
	s.RecomputeCurrentTask()
	s.Tick()
	s.Tick()

	require.True(t, s.DeleteTask(a.ID))

	assert.True(t, s.StopSignal())
	assert.Equal(t, "", s.CurrentLabel())
	assert.Equal(t, 1500, s.SecondsRemaining())
	assert.Equal(t, []string{"B"}, pendingTexts(s))
	assert.Empty(t, s.State().Finished)
}

func TestDeleteOtherTaskKeepsTimer(t *testing.T) {
	s := newTestStore(t)
	s.AddTask("A")
	b, _ := s.AddTask("B")
	s.RecomputeCurrentTask()
	s.Tick()

	require.True(t, s.DeleteTask(b.ID))
	assert.False(t, s.StopSignal())
	assert.Equal(t, 1499, s.SecondsRemaining())
	assert.Equal(t, "A", s.CurrentLabel())

	assert.False(t, s.DeleteTask(b.ID))
}

func TestDeleteFrontTaskWithoutLabelIsNotAnInterruption(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	s.Tick()

	require.True(t, s.DeleteTask(a.ID))
	assert.False(t, s.StopSignal())
	assert.Equal(t, 1499, s.SecondsRemaining())
}

// Scenario: restoring a finished task.
func TestRestoreTaskAllocatesNewID(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	s.AddTask("B")
	s.CompleteTask(a.ID)

	restored, ok := s.RestoreTask(a.ID)
	require.True(t, ok)

	state := s.State()
	assert.Empty(t, state.Finished)
	assert.Equal(t, []string{"B", "A"}, pendingTexts(s))
	assert.Greater(t, restored.ID, state.MaxID()-1)
	assert.Equal(t, state.MaxID(), restored.ID)
	assert.Greater(t, s.NextID(), restored.ID)

	_, ok = s.RestoreTask(a.ID)
	assert.False(t, ok)
}

func TestDeleteFinished(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	s.CompleteTask(a.ID)

	assert.True(t, s.DeleteFinished(a.ID))
	assert.Empty(t, s.State().Finished)
	assert.False(t, s.DeleteFinished(a.ID))
}

func TestResetAll(t *testing.T) {
	s := newTestStore(t)
	a, _ := s.AddTask("A")
	s.AddTask("B")
	s.RecomputeCurrentTask()
	s.CompleteTask(a.ID)

	s.ResetAll()

	state := s.State()
	assert.Empty(t, state.Pending)
	assert.Empty(t, state.Finished)
	assert.Equal(t, "", state.CurrentLabel)
	assert.Equal(t, 1, state.NextID)
	assert.False(t, state.IsBreak)

	task, _ := s.AddTask("again")
	assert.Equal(t, 1, task.ID)
}

// Scenario: a corrupted snapshot with colliding ids is renumbered.
func TestSnapshotWithDuplicateIDsIsRepaired(t *testing.T) {
	var logs bytes.Buffer
	corrupted := model.CycleState{
		Pending: []model.Task{
			{ID: 3, Text: "a"},
			{ID: 3, Text: "b"},
		},
		Finished:         []model.FinishedTask{{ID: 9, Text: "c"}},
		SecondsRemaining: 42,
		NextID:           4,
	}

	s := newTestStore(t, WithSnapshot(corrupted), WithLogger(log.New(&logs, "", 0)))

	state := s.State()
	assert.Equal(t, 1, state.Pending[0].ID)
	assert.Equal(t, 2, state.Pending[1].ID)
	assert.Equal(t, 3, state.Finished[0].ID)
	assert.Equal(t, 4, state.NextID)
	assert.Equal(t, 42, state.SecondsRemaining)
	assert.False(t, state.HasDuplicateIDs())
	assert.True(t, s.Repaired())
	assert.Contains(t, logs.String(), "warning: duplicate task ids")
}

func TestSnapshotWithStaleAllocatorIsAdvanced(t *testing.T) {
	s := newTestStore(t, WithSnapshot(model.CycleState{
		Pending:  []model.Task{{ID: 5, Text: "a"}},
		Finished: []model.FinishedTask{{ID: 8, Text: "b"}},
		NextID:   2,
	}))

	assert.Equal(t, 9, s.NextID())
	assert.Equal(t, 5, s.State().Pending[0].ID, "unique ids are kept")
	assert.True(t, s.Repaired())
}

func TestSnapshotRestoredVerbatim(t *testing.T) {
	snap := model.CycleState{
		Pending:          []model.Task{{ID: 1, Text: "a", EditBuffer: "a"}},
		Finished:         []model.FinishedTask{{ID: 2, Text: "b"}},
		CurrentLabel:     model.BreakLabel,
		SecondsRemaining: 120,
		IsBreak:          true,
		NextID:           3,
	}
	s := newTestStore(t, WithSnapshot(snap))

	assert.Equal(t, snap, s.State())
	assert.False(t, s.Repaired())
}

func TestObserversSeeEveryMutation(t *testing.T) {
	s := newTestStore(t)
	var seen []model.CycleState
	s.Observe(func(st model.CycleState) { seen = append(seen, st) })

	s.AddTask("A")
	s.AddTask("")
	s.Tick()
	s.DeleteTask(42)

	require.Len(t, seen, 2)
	assert.Len(t, seen[0].Pending, 1)
	assert.Equal(t, 1499, seen[1].SecondsRemaining)

	seen[1].Pending[0].Text = "mutated"
	assert.Equal(t, "A", s.State().Pending[0].Text, "observers receive copies")
}

func TestAllocatorInvariantHoldsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := newTestStore(t)

	pick := func(ids []int) int {
		if len(ids) == 0 {
			return rng.Intn(5) + 1
		}
		return ids[rng.Intn(len(ids))]
	}

	for i := 0; i < 2000; i++ {
		state := s.State()
		pendingIDs := make([]int, 0, len(state.Pending))
		for _, task := range state.Pending {
			pendingIDs = append(pendingIDs, task.ID)
		}
		finishedIDs := make([]int, 0, len(state.Finished))
		for _, f := range state.Finished {
			finishedIDs = append(finishedIDs, f.ID)
		}

		switch rng.Intn(11) {
		case 0, 1, 2:
			s.AddTask("task")
		case 3:
			s.CompleteTask(pick(pendingIDs))
		case 4:
			s.DeleteTask(pick(pendingIDs))
		case 5:
			s.RestoreTask(pick(finishedIDs))
		case 6:
			s.DeleteFinished(pick(finishedIDs))
		case 7:
			s.RecomputeCurrentTask()
		case 8:
			runDown(s)
			s.OnExpire()
		case 9:
			s.DeferCurrentTask()
		case 10:
			if rng.Intn(20) == 0 {
				s.ResetAll()
			}
		}

		after := s.State()
		require.False(t, after.HasDuplicateIDs(), "step %d", i)
		if len(after.Pending)+len(after.Finished) == 0 {
			require.GreaterOrEqual(t, after.NextID, 1, "step %d", i)
		} else {
			require.Greater(t, after.NextID, after.MaxID(), "step %d", i)
		}
		require.GreaterOrEqual(t, after.SecondsRemaining, 0, "step %d", i)
	}
}

func TestSyncIdleDurationPicksUpNewWorkLength(t *testing.T) {
	durations := &adjustableDurations{work: 25, brk: 5}
	s := New(durations)
	s.AddTask("A")
	var seen int
	s.Observe(func(model.CycleState) { seen++ })

	durations.work = 10
	assert.True(t, s.SyncIdleDuration())
	assert.Equal(t, 600, s.SecondsRemaining())
	assert.Equal(t, s.PhaseSeconds(), s.SecondsRemaining())
	assert.Equal(t, 1, seen)
	assert.False(t, s.SyncIdleDuration(), "already in step")

	assert.Equal(t, "A", s.RecomputeCurrentTask())
	s.Tick()
	durations.work = 40
	assert.False(t, s.SyncIdleDuration(), "a running period keeps its length")
	assert.Equal(t, 599, s.SecondsRemaining())
}

func TestSyncIdleDurationLeavesBreakAlone(t *testing.T) {
	durations := &adjustableDurations{work: 1, brk: 1}
	s := New(durations)
	s.AddTask("A")
	s.AddTask("B")
	s.RecomputeCurrentTask()
	runDown(s)
	s.OnExpire()
	require.True(t, s.IsBreak())

	durations.work = 30
	assert.False(t, s.SyncIdleDuration())
	assert.Equal(t, 60, s.SecondsRemaining())
}

func TestSnapshotFixUpsAreReportedAsRepaired(t *testing.T) {
	var logs bytes.Buffer
	s := newTestStore(t, WithSnapshot(model.CycleState{
		Pending:          []model.Task{{ID: 1, Text: "a", EditBuffer: "a"}},
		SecondsRemaining: -5,
		NextID:           2,
	}), WithLogger(log.New(&logs, "", 0)))

	state := s.State()
	assert.Equal(t, 0, state.SecondsRemaining)
	assert.NotNil(t, state.Finished)
	assert.True(t, s.Repaired())
	assert.Contains(t, logs.String(), "warning: negative remaining time")
}
