// Package cycle implements the task list and work/break timer state machine.
//
// The store never schedules time itself. A driver calls Tick once per second
// and OnExpire when Tick reports zero; front ends call the task operations
// directly. All operations run to completion synchronously and the store is
// not safe for concurrent use: callers serialize access.
package cycle

import (
	"io"
	"log"
	"slices"
	"strings"

	"github.com/sandeepkv93/pomodo/internal/model"
)

// Durations is the read handle on the configured period lengths.
type Durations interface {
	WorkMinutes() int
	BreakMinutes() int
}

type Kind string

const (
	KindWork  Kind = "work"
	KindBreak Kind = "break"
)

// Period describes a finished work or break period.
type Period struct {
	Kind     Kind
	TaskText string
	Seconds  int
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSnapshot rehydrates a persisted state instead of starting empty.
func WithSnapshot(state model.CycleState) Option {
	return func(s *Store) {
		s.restored = true
		s.state = state.Clone()
	}
}

type Store struct {
	state     model.CycleState
	durations Durations
	logger    *log.Logger
	stop      bool
	restored  bool
	repaired  bool
	observers []func(model.CycleState)
	periods   []func(Period)
}

func New(durations Durations, opts ...Option) *Store {
	s := &Store{
		durations: durations,
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.restored {
		s.state = model.CycleState{
			Pending:          []model.Task{},
			Finished:         []model.FinishedTask{},
			SecondsRemaining: s.workSeconds(),
			NextID:           1,
		}
		return s
	}
	if s.state.Pending == nil {
		s.state.Pending = []model.Task{}
		s.repaired = true
	}
	if s.state.Finished == nil {
		s.state.Finished = []model.FinishedTask{}
		s.repaired = true
	}
	if s.state.SecondsRemaining < 0 {
		s.logger.Printf("warning: negative remaining time %d in persisted state; clamped to 0", s.state.SecondsRemaining)
		s.state.SecondsRemaining = 0
		s.repaired = true
	}
	s.repairIDs()
	return s
}

// Observe registers fn to run with a copy of the state after every
// effective mutation.
func (s *Store) Observe(fn func(model.CycleState)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// OnPeriod registers fn to run whenever a work or break period is finished.
func (s *Store) OnPeriod(fn func(Period)) {
	if fn != nil {
		s.periods = append(s.periods, fn)
	}
}

func (s *Store) State() model.CycleState { return s.state.Clone() }
func (s *Store) CurrentLabel() string    { return s.state.CurrentLabel }
func (s *Store) SecondsRemaining() int   { return s.state.SecondsRemaining }
func (s *Store) IsBreak() bool           { return s.state.IsBreak }
func (s *Store) Phase() model.Phase      { return s.state.Phase() }
func (s *Store) NextID() int             { return s.state.NextID }

// Repaired reports whether construction had to fix up the snapshot, so the
// caller should write the cleaned record back.
func (s *Store) Repaired() bool { return s.repaired }

// PhaseSeconds is the full length of the current phase.
func (s *Store) PhaseSeconds() int {
	if s.state.IsBreak {
		return s.breakSeconds()
	}
	return s.workSeconds()
}

// StopSignal reports whether the running timer must halt. The flag stays
// raised until the driver acknowledges it with ClearStopSignal.
func (s *Store) StopSignal() bool { return s.stop }

func (s *Store) ClearStopSignal() { s.stop = false }

func (s *Store) AddTask(text string) (model.Task, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return model.Task{}, false
	}
	task := model.Task{ID: s.allocID(), Text: trimmed, EditBuffer: trimmed}
	s.state.Pending = append(s.state.Pending, task)
	s.changed()
	return task, true
}

func (s *Store) StartEdit(id int) bool {
	idx := s.pendingIndex(id)
	if idx < 0 {
		return false
	}
	t := &s.state.Pending[idx]
	t.Editing = true
	t.EditBuffer = t.Text
	s.changed()
	return true
}

func (s *Store) SetEditBuffer(id int, text string) bool {
	idx := s.pendingIndex(id)
	if idx < 0 {
		return false
	}
	s.state.Pending[idx].EditBuffer = text
	s.changed()
	return true
}

// CommitEdit copies the edit buffer into the task text. A blank buffer is
// treated as a cancel.
func (s *Store) CommitEdit(id int) bool {
	idx := s.pendingIndex(id)
	if idx < 0 {
		return false
	}
	t := &s.state.Pending[idx]
	next := strings.TrimSpace(t.EditBuffer)
	if next == "" {
		t.Editing = false
		t.EditBuffer = t.Text
		s.changed()
		return false
	}
	t.Text = next
	t.EditBuffer = next
	t.Editing = false
	s.syncLabel()
	s.changed()
	return true
}

func (s *Store) CancelEdit(id int) bool {
	idx := s.pendingIndex(id)
	if idx < 0 {
		return false
	}
	t := &s.state.Pending[idx]
	t.Editing = false
	t.EditBuffer = t.Text
	s.changed()
	return true
}

// DeleteTask discards a pending task. Deleting the task being timed
// interrupts the cycle.
func (s *Store) DeleteTask(id int) bool {
	idx := s.pendingIndex(id)
	if idx < 0 {
		return false
	}
	active := s.isActive(idx)
	s.state.Pending = slices.Delete(s.state.Pending, idx, idx+1)
	if active {
		s.interrupt()
		s.state.SecondsRemaining = s.workSeconds()
	} else {
		s.syncLabel()
	}
	s.changed()
	return true
}

// CompleteTask moves a pending task to the finished list under its own id.
// Completing the task being timed ends the work period early.
func (s *Store) CompleteTask(id int) bool {
	idx := s.pendingIndex(id)
	if idx < 0 {
		return false
	}
	task := s.state.Pending[idx]
	active := s.isActive(idx)
	elapsed := s.workSeconds() - s.state.SecondsRemaining
	s.state.Pending = slices.Delete(s.state.Pending, idx, idx+1)
	s.state.Finished = append(s.state.Finished, model.FinishedTask{ID: task.ID, Text: task.Text})
	if !active {
		s.syncLabel()
		s.changed()
		return true
	}
	s.interrupt()
	if len(s.state.Pending) > 0 {
		s.state.IsBreak = true
		s.state.SecondsRemaining = s.breakSeconds()
	} else {
		s.state.IsBreak = false
		s.state.SecondsRemaining = s.workSeconds()
	}
	s.changed()
	s.finished(Period{Kind: KindWork, TaskText: task.Text, Seconds: max(elapsed, 0)})
	return true
}

// RecomputeCurrentTask derives the label of the current task. It is
// idempotent and is what a driver calls when a period starts.
func (s *Store) RecomputeCurrentTask() string {
	label := s.deriveLabel()
	if label != s.state.CurrentLabel {
		s.state.CurrentLabel = label
		s.changed()
	}
	return label
}

// SyncIdleDuration resets an idle work countdown to the configured work
// length. It is a no-op during a break or while a label is showing, and
// reports whether the countdown changed.
func (s *Store) SyncIdleDuration() bool {
	if s.state.IsBreak || s.state.CurrentLabel != "" {
		return false
	}
	want := s.workSeconds()
	if s.state.SecondsRemaining == want {
		return false
	}
	s.state.SecondsRemaining = want
	s.changed()
	return true
}

// Tick counts one second down and reports whether the period reached zero.
// It never goes below zero.
func (s *Store) Tick() bool {
	if s.state.SecondsRemaining > 0 {
		s.state.SecondsRemaining--
		s.changed()
	}
	return s.state.SecondsRemaining == 0
}

// OnExpire runs the cycle transition once the countdown reaches zero.
//
// The archived record of an expired work period gets a freshly allocated id
// rather than the task's own id, unlike CompleteTask.
func (s *Store) OnExpire() {
	switch {
	case !s.state.IsBreak && len(s.state.Pending) > 0:
		head := s.state.Pending[0]
		s.state.Finished = append(s.state.Finished, model.FinishedTask{ID: s.allocID(), Text: head.Text})
		s.state.Pending = slices.Delete(s.state.Pending, 0, 1)
		s.state.CurrentLabel = ""
		if len(s.state.Pending) > 0 {
			s.state.IsBreak = true
			s.state.SecondsRemaining = s.breakSeconds()
		} else {
			s.state.SecondsRemaining = s.workSeconds()
		}
		s.changed()
		s.finished(Period{Kind: KindWork, TaskText: head.Text, Seconds: s.workSeconds()})
	case s.state.IsBreak:
		s.state.IsBreak = false
		s.state.CurrentLabel = ""
		s.state.SecondsRemaining = s.workSeconds()
		s.changed()
		s.finished(Period{Kind: KindBreak, Seconds: s.breakSeconds()})
	default:
		// idle: nothing is being timed
		s.stop = true
		s.state.SecondsRemaining = s.workSeconds()
		s.changed()
	}
}

// DeferCurrentTask skips the running break, or re-queues the current task at
// the end of the list without completing it.
func (s *Store) DeferCurrentTask() bool {
	if s.state.IsBreak {
		s.state.IsBreak = false
		s.interrupt()
		s.state.SecondsRemaining = s.workSeconds()
		s.changed()
		return true
	}
	if len(s.state.Pending) == 0 {
		return false
	}
	head := s.state.Pending[0]
	rotated := make([]model.Task, 0, len(s.state.Pending))
	rotated = append(rotated, s.state.Pending[1:]...)
	s.state.Pending = append(rotated, head)
	s.interrupt()
	s.state.SecondsRemaining = s.workSeconds()
	s.changed()
	return true
}

// RestoreTask moves a finished record back to the end of the pending list
// under a new id.
func (s *Store) RestoreTask(finishedID int) (model.Task, bool) {
	idx := s.finishedIndex(finishedID)
	if idx < 0 {
		return model.Task{}, false
	}
	rec := s.state.Finished[idx]
	s.state.Finished = slices.Delete(s.state.Finished, idx, idx+1)
	task := model.Task{ID: s.allocID(), Text: rec.Text, EditBuffer: rec.Text}
	s.state.Pending = append(s.state.Pending, task)
	s.syncLabel()
	s.changed()
	return task, true
}

func (s *Store) DeleteFinished(finishedID int) bool {
	idx := s.finishedIndex(finishedID)
	if idx < 0 {
		return false
	}
	s.state.Finished = slices.Delete(s.state.Finished, idx, idx+1)
	s.changed()
	return true
}

// ResetAll empties both lists and restarts id allocation. Settings are not
// touched.
func (s *Store) ResetAll() {
	s.state.Pending = []model.Task{}
	s.state.Finished = []model.FinishedTask{}
	s.state.NextID = 1
	s.state.IsBreak = false
	s.interrupt()
	s.state.SecondsRemaining = s.workSeconds()
	s.changed()
}

func (s *Store) allocID() int {
	id := s.state.NextID
	s.state.NextID++
	return id
}

func (s *Store) pendingIndex(id int) int {
	return slices.IndexFunc(s.state.Pending, func(t model.Task) bool { return t.ID == id })
}

func (s *Store) finishedIndex(id int) int {
	return slices.IndexFunc(s.state.Finished, func(f model.FinishedTask) bool { return f.ID == id })
}

// isActive reports whether the pending task at idx is the one on the clock.
func (s *Store) isActive(idx int) bool {
	if idx != 0 || s.state.IsBreak || s.state.CurrentLabel == "" {
		return false
	}
	return s.state.CurrentLabel == s.state.Pending[0].Text
}

func (s *Store) interrupt() {
	s.stop = true
	s.state.CurrentLabel = ""
}

func (s *Store) deriveLabel() string {
	switch {
	case s.state.IsBreak:
		return model.BreakLabel
	case len(s.state.Pending) > 0:
		return s.state.Pending[0].Text
	default:
		return ""
	}
}

// syncLabel keeps a showing label in step with the list. An empty label
// means nothing is on the clock and stays empty.
func (s *Store) syncLabel() {
	if s.state.CurrentLabel != "" {
		s.state.CurrentLabel = s.deriveLabel()
	}
}

// repairIDs renumbers both lists when persisted ids collide or are not
// positive, and keeps the allocator ahead of every id in use.
func (s *Store) repairIDs() {
	if s.state.HasDuplicateIDs() || s.hasInvalidIDs() {
		next := 1
		for i := range s.state.Pending {
			s.state.Pending[i].ID = next
			next++
		}
		for i := range s.state.Finished {
			s.state.Finished[i].ID = next
			next++
		}
		s.state.NextID = next
		s.repaired = true
		s.logger.Printf("warning: duplicate task ids in persisted state; reassigned %d ids", next-1)
		return
	}
	if maxID := s.state.MaxID(); s.state.NextID <= maxID {
		s.logger.Printf("warning: id allocator %d behind max id %d; advancing", s.state.NextID, maxID)
		s.state.NextID = maxID + 1
		s.repaired = true
	}
}

func (s *Store) hasInvalidIDs() bool {
	for _, t := range s.state.Pending {
		if t.ID <= 0 {
			return true
		}
	}
	for _, f := range s.state.Finished {
		if f.ID <= 0 {
			return true
		}
	}
	return false
}

func (s *Store) workSeconds() int {
	return minutesToSeconds(s.durations.WorkMinutes(), model.DefaultSettings(0, 0).WorkMinutes)
}

func (s *Store) breakSeconds() int {
	return minutesToSeconds(s.durations.BreakMinutes(), model.DefaultSettings(0, 0).BreakMinutes)
}

func minutesToSeconds(minutes, fallback int) int {
	if minutes <= 0 {
		minutes = fallback
	}
	return minutes * 60
}

func (s *Store) changed() {
	if len(s.observers) == 0 {
		return
	}
	snap := s.state.Clone()
	for _, fn := range s.observers {
		fn(snap)
	}
}

func (s *Store) finished(p Period) {
	for _, fn := range s.periods {
		fn(p)
	}
}
