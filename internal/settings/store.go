// Package settings holds the user preferences consumed by the timer.
package settings

import (
	"fmt"
	"math"

	"github.com/sandeepkv93/pomodo/internal/model"
)

// Store owns the mutable preferences. It is not safe for concurrent use.
type Store struct {
	current   model.Settings
	repaired  bool
	observers []func(model.Settings)
}

func New(initial model.Settings) *Store {
	s := &Store{current: initial}
	if _, ok := model.LookupAlarm(s.current.SelectedAlarmID); !ok {
		s.current.SelectedAlarmID = model.Alarms()[0].ID
	}
	s.current.Volume = clampVolume(s.current.Volume)
	defaults := model.DefaultSettings(0, 0)
	if s.current.WorkMinutes <= 0 {
		s.current.WorkMinutes = defaults.WorkMinutes
	}
	if s.current.BreakMinutes <= 0 {
		s.current.BreakMinutes = defaults.BreakMinutes
	}
	s.repaired = s.current != initial
	return s
}

// Repaired reports whether New had to replace invalid initial values.
func (s *Store) Repaired() bool { return s.repaired }

// Observe registers fn to run after every effective mutation.
func (s *Store) Observe(fn func(model.Settings)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

func (s *Store) Snapshot() model.Settings { return s.current }

func (s *Store) SelectedAlarm() model.Alarm {
	return model.AlarmOrDefault(s.current.SelectedAlarmID)
}

func (s *Store) WorkMinutes() int           { return s.current.WorkMinutes }
func (s *Store) BreakMinutes() int          { return s.current.BreakMinutes }
func (s *Store) Volume() float64            { return s.current.Volume }
func (s *Store) NotificationsEnabled() bool { return s.current.NotificationsEnabled }

func (s *Store) SelectAlarm(id int) bool {
	if _, ok := model.LookupAlarm(id); !ok {
		return false
	}
	if s.current.SelectedAlarmID == id {
		return true
	}
	s.current.SelectedAlarmID = id
	s.changed()
	return true
}

func (s *Store) SetVolume(v float64) bool {
	if math.IsNaN(v) {
		return false
	}
	v = clampVolume(v)
	if s.current.Volume != v {
		s.current.Volume = v
		s.changed()
	}
	return true
}

func (s *Store) SetWorkMinutes(n int) bool {
	if n <= 0 {
		return false
	}
	if s.current.WorkMinutes != n {
		s.current.WorkMinutes = n
		s.changed()
	}
	return true
}

func (s *Store) SetBreakMinutes(n int) bool {
	if n <= 0 {
		return false
	}
	if s.current.BreakMinutes != n {
		s.current.BreakMinutes = n
		s.changed()
	}
	return true
}

func (s *Store) ToggleNotifications() bool {
	s.current.NotificationsEnabled = !s.current.NotificationsEnabled
	s.changed()
	return s.current.NotificationsEnabled
}

// Replace swaps in a whole settings record, used by import.
func (s *Store) Replace(next model.Settings) error {
	if err := next.Validate(); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	s.current = next
	s.changed()
	return nil
}

func (s *Store) changed() {
	snap := s.current
	for _, fn := range s.observers {
		fn(snap)
	}
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
