package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/pomodo/internal/notify"
	"github.com/sandeepkv93/pomodo/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			next := m.handlePaletteKey(typed)
			next.haltOnStopSignal()
			return next, nil
		}
		if m.Input != InputNone {
			next := m.handleInputKey(typed)
			next.haltOnStopSignal()
			return next, nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.Focus()
			m.commandInput.SetValue("")
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			return m, nil
		case m.Keys.Timer:
			m.CurrentView = ViewTimer
			return m, nil
		case m.Keys.Finished:
			m.CurrentView = ViewFinished
			return m, nil
		case m.Keys.Settings:
			m.CurrentView = ViewSettings
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown"}
			} else {
				m.Status = StatusBar{Text: "help hidden"}
			}
			return m, nil
		case " ":
			return m.toggleTimer()
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		var next Model
		var cmd tea.Cmd
		switch m.CurrentView {
		case ViewTasks:
			next = m.handleTasksKey(typed)
		case ViewTimer:
			next, cmd = m.handleTimerKey(typed)
		case ViewFinished:
			next = m.handleFinishedKey(typed)
		case ViewSettings:
			next = m.handleSettingsKey(typed)
		default:
			return m, nil
		}
		next.haltOnStopSignal()
		return next, cmd
	case TimerTickMsg:
		return m.onTimerTick(typed)
	case spinner.TickMsg:
		if m.Running {
			var cmd tea.Cmd
			m.runSpinner, cmd = m.runSpinner.Update(typed)
			return m, cmd
		}
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	m.syncBubbleData()
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksView()
	case ViewTimer:
		leftPane = m.renderTimerView()
	case ViewFinished:
		leftPane = m.renderFinishedView()
	case ViewSettings:
		leftPane = m.renderSettingsView()
	}
	rightPane := strings.TrimSpace(m.renderCommandPalette() + m.renderHelpIfVisible())
	if rightPane == "" && m.CurrentView != ViewTimer {
		rightPane = m.renderTimerView()
	}

	label := m.Store.CurrentLabel()
	if label == "" {
		label = "-"
	}
	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("pomodo | view: %s | %s %s | now: %s", m.CurrentView, m.Store.Phase(), notify.FormatDuration(m.Store.SecondsRemaining()), label),
		LeftPane:   leftPane,
		RightPane:  rightPane,
		StatusLine: status,
		Footer:     fmt.Sprintf("keys: %s tasks | %s timer | %s finished | %s settings | space start/pause | / cmd | %s help | %s quit", m.Keys.Tasks, m.Keys.Timer, m.Keys.Finished, m.Keys.Settings, m.Keys.Help, m.Keys.Quit),
	})
}

func (m *Model) syncBubbleData() {
	state := m.Store.State()
	m.TaskCursor = clampCursor(m.TaskCursor, len(state.Pending))
	m.FinishedCursor = clampCursor(m.FinishedCursor, len(state.Finished))

	items := make([]list.Item, 0, len(state.Pending))
	for _, task := range state.Pending {
		desc := fmt.Sprintf("#%d", task.ID)
		if task.Editing {
			desc += " | draft: " + task.EditBuffer
		}
		items = append(items, listItem{title: task.Text, description: desc})
	}
	m.taskList.SetItems(items)
	if len(items) > 0 {
		m.taskList.Select(m.TaskCursor)
	}

	rows := make([]table.Row, 0, len(state.Finished))
	for _, rec := range state.Finished {
		rows = append(rows, table.Row{fmt.Sprintf("%d", rec.ID), rec.Text})
	}
	m.finishedTable.SetRows(rows)
	if len(rows) > 0 {
		m.finishedTable.SetCursor(m.FinishedCursor)
	}

	m.commandInput.SetValue(m.Palette.Input)
	if m.Palette.Active {
		m.commandInput.Focus()
	}
	if m.Input != InputNone {
		m.taskInput.Focus()
	} else {
		m.taskInput.Blur()
	}

	_ = m.timerProgress.SetPercent(m.progress())
}

func (m Model) progress() float64 {
	total := m.Store.PhaseSeconds()
	if total <= 0 {
		return 0
	}
	pct := float64(total-m.Store.SecondsRemaining()) / float64(total)
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

func (m Model) renderCommandPalette() string {
	return views.RenderCommandPalette(m.Palette.Active, m.Palette.Input)
}

func isKnownView(v View) bool {
	switch v {
	case ViewTasks, ViewTimer, ViewFinished, ViewSettings:
		return true
	default:
		return false
	}
}

func clampCursor(cursor, n int) int {
	if n == 0 || cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
