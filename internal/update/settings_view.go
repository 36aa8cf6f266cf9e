package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/pomodo/internal/model"
	"github.com/sandeepkv93/pomodo/internal/views"
)

const (
	settingAlarm = iota
	settingVolume
	settingWork
	settingBreak
	settingNotify
	settingCount
)

const volumeStep = 0.1

func (m Model) handleSettingsKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.SettingsCursor = clampCursor(m.SettingsCursor+1, settingCount)
	case "k", "up":
		m.SettingsCursor = clampCursor(m.SettingsCursor-1, settingCount)
	case "h", "left", "-":
		m.adjustSetting(-1)
	case "l", "right", "+", "enter":
		m.adjustSetting(1)
	}
	return m
}

func (m *Model) adjustSetting(dir int) {
	switch m.SettingsCursor {
	case settingAlarm:
		alarms := model.Alarms()
		idx := 0
		for i, a := range alarms {
			if a.ID == m.Prefs.SelectedAlarm().ID {
				idx = i
			}
		}
		next := alarms[(idx+dir+len(alarms))%len(alarms)]
		m.Prefs.SelectAlarm(next.ID)
		m.Status = StatusBar{Text: "alarm: " + next.Name}
	case settingVolume:
		m.Prefs.SetVolume(m.Prefs.Volume() + float64(dir)*volumeStep)
		m.Status = StatusBar{Text: fmt.Sprintf("volume: %d%%", volumePct(m.Prefs.Volume()))}
	case settingWork:
		if !m.Prefs.SetWorkMinutes(m.Prefs.WorkMinutes() + dir) {
			m.Status = StatusBar{Text: "work period must be at least 1 minute", IsError: true}
			return
		}
		m.Status = StatusBar{Text: fmt.Sprintf("work period: %d min", m.Prefs.WorkMinutes())}
	case settingBreak:
		if !m.Prefs.SetBreakMinutes(m.Prefs.BreakMinutes() + dir) {
			m.Status = StatusBar{Text: "break period must be at least 1 minute", IsError: true}
			return
		}
		m.Status = StatusBar{Text: fmt.Sprintf("break period: %d min", m.Prefs.BreakMinutes())}
	case settingNotify:
		on := m.Prefs.ToggleNotifications()
		m.Status = StatusBar{Text: "notifications: " + onOff(on)}
	}
}

func (m Model) renderSettingsView() string {
	alarms := make([]string, 0)
	for _, a := range model.Alarms() {
		alarms = append(alarms, fmt.Sprintf("%d=%s", a.ID, a.Name))
	}
	return views.RenderSettingsPanel(views.SettingsPanelData{
		Rows: []views.SettingRowData{
			{Name: "Alarm", Value: m.Prefs.SelectedAlarm().Name},
			{Name: "Volume", Value: fmt.Sprintf("%d%%", volumePct(m.Prefs.Volume()))},
			{Name: "Work", Value: fmt.Sprintf("%d min", m.Prefs.WorkMinutes())},
			{Name: "Break", Value: fmt.Sprintf("%d min", m.Prefs.BreakMinutes())},
			{Name: "Notifications", Value: onOff(m.Prefs.NotificationsEnabled())},
		},
		Cursor: m.SettingsCursor,
		Alarms: alarms,
	})
}

func volumePct(v float64) int {
	return int(v*100 + 0.5)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
