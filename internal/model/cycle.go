package model

import "slices"

// Phase names the two states of the work/break cycle.
type Phase string

const (
	PhaseWorking Phase = "working"
	PhaseOnBreak Phase = "break"
)

// BreakLabel is shown as the current task while a break runs.
const BreakLabel = "Break time"

// CycleState is the full persisted record of the task list and timer.
type CycleState struct {
	Pending          []Task         `json:"items"`
	Finished         []FinishedTask `json:"finishedTasks"`
	CurrentLabel     string         `json:"currentTask"`
	SecondsRemaining int            `json:"timeleft"`
	IsBreak          bool           `json:"isBreak"`
	NextID           int            `json:"nextId"`
}

func (c CycleState) Phase() Phase {
	if c.IsBreak {
		return PhaseOnBreak
	}
	return PhaseWorking
}

// MaxID returns the largest id over pending and finished tasks, 0 if none.
func (c CycleState) MaxID() int {
	highest := 0
	for _, t := range c.Pending {
		highest = max(highest, t.ID)
	}
	for _, f := range c.Finished {
		highest = max(highest, f.ID)
	}
	return highest
}

// HasDuplicateIDs reports whether any id appears twice across both lists.
func (c CycleState) HasDuplicateIDs() bool {
	seen := make(map[int]bool, len(c.Pending)+len(c.Finished))
	for _, t := range c.Pending {
		if seen[t.ID] {
			return true
		}
		seen[t.ID] = true
	}
	for _, f := range c.Finished {
		if seen[f.ID] {
			return true
		}
		seen[f.ID] = true
	}
	return false
}

// Clone returns a deep copy so callers cannot alias store internals.
func (c CycleState) Clone() CycleState {
	out := c
	out.Pending = slices.Clone(c.Pending)
	out.Finished = slices.Clone(c.Finished)
	return out
}
