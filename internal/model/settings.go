package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownAlarm    = errors.New("model: unknown alarm")
	ErrInvalidVolume   = errors.New("model: volume must be within [0,1]")
	ErrInvalidDuration = errors.New("model: duration minutes must be positive")
)

// Alarm is one entry of the fixed alarm catalog. Resource locates the sound
// file; playback is left to the front end.
type Alarm struct {
	ID       int
	Name     string
	Resource string
}

var alarmCatalog = []Alarm{
	{ID: 1, Name: "Alarm clock", Resource: "assets/alarm.mp3"},
	{ID: 2, Name: "Yay", Resource: "assets/yay.mp3"},
}

// Alarms returns a copy of the alarm catalog.
func Alarms() []Alarm {
	out := make([]Alarm, len(alarmCatalog))
	copy(out, alarmCatalog)
	return out
}

// LookupAlarm finds a catalog entry by id.
func LookupAlarm(id int) (Alarm, bool) {
	for _, a := range alarmCatalog {
		if a.ID == id {
			return a, true
		}
	}
	return Alarm{}, false
}

// AlarmOrDefault returns the catalog entry for id, or the first entry.
func AlarmOrDefault(id int) Alarm {
	if a, ok := LookupAlarm(id); ok {
		return a
	}
	return alarmCatalog[0]
}

type Settings struct {
	SelectedAlarmID      int     `json:"selected" yaml:"selected_alarm_id"`
	Volume               float64 `json:"volume" yaml:"volume"`
	WorkMinutes          int     `json:"workMinutes" yaml:"work_minutes"`
	BreakMinutes         int     `json:"breakMinutes" yaml:"break_minutes"`
	NotificationsEnabled bool    `json:"notifications" yaml:"notifications_enabled"`
}

func DefaultSettings(workMinutes, breakMinutes int) Settings {
	if workMinutes <= 0 {
		workMinutes = 25
	}
	if breakMinutes <= 0 {
		breakMinutes = 5
	}
	return Settings{
		SelectedAlarmID:      alarmCatalog[0].ID,
		Volume:               1,
		WorkMinutes:          workMinutes,
		BreakMinutes:         breakMinutes,
		NotificationsEnabled: true,
	}
}

func (s Settings) Validate() error {
	if _, ok := LookupAlarm(s.SelectedAlarmID); !ok {
		return fmt.Errorf("%w: %d", ErrUnknownAlarm, s.SelectedAlarmID)
	}
	if math.IsNaN(s.Volume) || s.Volume < 0 || s.Volume > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidVolume, s.Volume)
	}
	if s.WorkMinutes <= 0 {
		return fmt.Errorf("%w: work=%d", ErrInvalidDuration, s.WorkMinutes)
	}
	if s.BreakMinutes <= 0 {
		return fmt.Errorf("%w: break=%d", ErrInvalidDuration, s.BreakMinutes)
	}
	return nil
}
