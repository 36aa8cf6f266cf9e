package storage

import "time"

// Record keys shared by the stores.
const (
	KeySettings = "pomodoro-settings"
	KeyTasks    = "pomodoro-list"
)

type Entry struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

// CycleRecord is one finished work or break period.
type CycleRecord struct {
	ID          string
	Kind        string
	TaskText    string
	DurationSec int
	EndedAt     time.Time
}

type CycleListFilter struct {
	Kind   string
	Since  *time.Time
	Limit  int
	Offset int
}
