package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidTaskID = errors.New("model: invalid task id")
	ErrEmptyTaskText = errors.New("model: task text is required")
)

// Task is a pending to-do item. Text is the committed value; EditBuffer holds
// an in-progress edit while Editing is set.
type Task struct {
	ID         int    `json:"id"`
	Text       string `json:"text"`
	Editing    bool   `json:"edit"`
	EditBuffer string `json:"model"`
}

// FinishedTask is the history record left behind by a completed task.
type FinishedTask struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

func (t Task) Validate() error {
	if t.ID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTaskID, t.ID)
	}
	if strings.TrimSpace(t.Text) == "" {
		return ErrEmptyTaskText
	}
	return nil
}

func (f FinishedTask) Validate() error {
	if f.ID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTaskID, f.ID)
	}
	return nil
}
