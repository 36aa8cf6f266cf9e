package views

import (
	"fmt"
	"strings"
)

type TaskItemData struct {
	ID      int
	Text    string
	Editing bool
	Active  bool
}

type TasksPanelData struct {
	ListView  string
	InputView string
	InputMode string
	Items     []TaskItemData
	Cursor    int
}

type TimerPanelData struct {
	Label        string
	Phase        string
	IsBreak      bool
	Timer        string
	ProgressView string
	ProgressPct  int
	Running      bool
	SpinnerView  string
	UpNext       string
	TodayCount   int
}

type FinishedPanelData struct {
	TableView string
	Count     int
}

type SettingRowData struct {
	Name  string
	Value string
}

type SettingsPanelData struct {
	Rows   []SettingRowData
	Cursor int
	Alarms []string
}

type HelpPanelData struct {
	CurrentView  string
	Bindings     []string
	HelpView     string
	MarkdownView string
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	b.WriteString("actions: [a]add [e]edit [enter]done [x]delete [s]skip [j/k]move\n")
	if data.InputMode != "" {
		b.WriteString(fmt.Sprintf("%s: %s\n", data.InputMode, data.InputView))
	}
	if len(data.Items) == 0 {
		b.WriteString("(no pending tasks)")
		return b.String()
	}
	b.WriteString(data.ListView + "\n")
	for i, item := range data.Items {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		badge := ""
		switch {
		case item.Active:
			badge = " [NOW]"
		case item.Editing:
			badge = " [EDITING]"
		}
		b.WriteString(fmt.Sprintf("%s #%d %s%s\n", cursor, item.ID, item.Text, badge))
	}
	return strings.TrimSpace(b.String())
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	b.WriteString("timer:\n")
	label := data.Label
	if label == "" {
		label = "(idle)"
	}
	b.WriteString(fmt.Sprintf("now: %s\n", label))
	phase := timerStyle.Render(strings.ToUpper(data.Phase))
	if data.IsBreak {
		phase = breakStyle.Render(strings.ToUpper(data.Phase))
	}
	b.WriteString(fmt.Sprintf("phase: %s\n", phase))
	state := "paused"
	if data.Running {
		state = data.SpinnerView + " running"
	}
	b.WriteString(fmt.Sprintf("timer: %s (%s)\n", data.Timer, state))
	b.WriteString(fmt.Sprintf("progress: %s %d%%\n", data.ProgressView, data.ProgressPct))
	if data.UpNext != "" {
		b.WriteString(fmt.Sprintf("up next: %s\n", data.UpNext))
	}
	b.WriteString(fmt.Sprintf("pomodoros today: %d\n", data.TodayCount))
	b.WriteString("actions: [space]start/pause [n]skip")
	return b.String()
}

func RenderFinishedPanel(data FinishedPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("finished (%d):\n", data.Count))
	b.WriteString("actions: [r]restore [x]purge [j/k]move\n")
	if data.Count == 0 {
		b.WriteString("(nothing finished yet)")
		return b.String()
	}
	b.WriteString(data.TableView)
	return strings.TrimSpace(b.String())
}

func RenderSettingsPanel(data SettingsPanelData) string {
	var b strings.Builder
	b.WriteString("settings:\n")
	b.WriteString("actions: [j/k]move [h/l]adjust [space]toggle\n")
	for i, row := range data.Rows {
		cursor := " "
		if i == data.Cursor {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-14s %s\n", cursor, row.Name+":", row.Value))
	}
	if len(data.Alarms) > 0 {
		b.WriteString("alarms: " + strings.Join(data.Alarms, ", "))
	}
	return strings.TrimSpace(b.String())
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderHelpPanel(data HelpPanelData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("help:\n%s view:\n", strings.ToLower(data.CurrentView)))
	b.WriteString(strings.Join(data.Bindings, "\n"))
	b.WriteString("\n" + data.HelpView)
	if data.MarkdownView != "" {
		b.WriteString("\n\n" + data.MarkdownView)
	}
	return b.String()
}
