package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/pomodo/internal/model"
	"github.com/sandeepkv93/pomodo/internal/views"
)

func (m Model) handleTasksKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.TaskCursor = clampCursor(m.TaskCursor+1, len(m.Store.State().Pending))
	case "k", "up":
		m.TaskCursor = clampCursor(m.TaskCursor-1, len(m.Store.State().Pending))
	case "a":
		m.Input = InputAdd
		m.taskInput.SetValue("")
		m.taskInput.Focus()
		m.Status = StatusBar{Text: "new task: type and press enter"}
	case "e":
		task, ok := m.currentTask()
		if !ok || !m.Store.StartEdit(task.ID) {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m
		}
		m.Input = InputEdit
		m.EditingID = task.ID
		m.taskInput.SetValue(task.EditBuffer)
		m.taskInput.Focus()
		m.Status = StatusBar{Text: fmt.Sprintf("editing #%d", task.ID)}
	case "enter", "d":
		task, ok := m.currentTask()
		if !ok || !m.Store.CompleteTask(task.ID) {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m
		}
		m.TodayCount = m.countToday()
		m.Status = StatusBar{Text: fmt.Sprintf("completed #%d %s", task.ID, task.Text)}
	case "x":
		task, ok := m.currentTask()
		if !ok || !m.Store.DeleteTask(task.ID) {
			m.Status = StatusBar{Text: "no task selected", IsError: true}
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("deleted #%d", task.ID)}
	case "s":
		next, _ := m.handleTimerKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'n'}})
		return next
	}
	m.TaskCursor = clampCursor(m.TaskCursor, len(m.Store.State().Pending))
	return m
}

// handleInputKey feeds the add or edit prompt. Edit keystrokes are mirrored
// into the task's draft so an unfinished edit survives a restart.
func (m Model) handleInputKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		if m.Input == InputEdit {
			m.Store.CancelEdit(m.EditingID)
			m.Status = StatusBar{Text: "edit cancelled"}
		} else {
			m.Status = StatusBar{Text: "add cancelled"}
		}
		return m.closeInput()
	case "enter":
		value := m.taskInput.Value()
		if m.Input == InputEdit {
			m.Store.SetEditBuffer(m.EditingID, value)
			if m.Store.CommitEdit(m.EditingID) {
				m.Status = StatusBar{Text: fmt.Sprintf("renamed #%d", m.EditingID)}
			} else {
				m.Status = StatusBar{Text: "empty text; edit discarded", IsError: true}
			}
			return m.closeInput()
		}
		task, ok := m.Store.AddTask(value)
		if !ok {
			m.Status = StatusBar{Text: "task text is empty", IsError: true}
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("added #%d %s", task.ID, task.Text)}
		return m.closeInput()
	}

	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.taskInput.SetValue(m.taskInput.Value() + string(msg.Runes))
	} else {
		var cmd tea.Cmd
		m.taskInput, cmd = m.taskInput.Update(msg)
		_ = cmd
	}
	if m.Input == InputEdit {
		m.Store.SetEditBuffer(m.EditingID, m.taskInput.Value())
	}
	return m
}

func (m Model) closeInput() Model {
	m.Input = InputNone
	m.EditingID = 0
	m.taskInput.SetValue("")
	m.taskInput.Blur()
	return m
}

func (m Model) currentTask() (model.Task, bool) {
	pending := m.Store.State().Pending
	if len(pending) == 0 {
		return model.Task{}, false
	}
	return pending[clampCursor(m.TaskCursor, len(pending))], true
}

func (m Model) renderTasksView() string {
	state := m.Store.State()
	items := make([]views.TaskItemData, 0, len(state.Pending))
	for i, task := range state.Pending {
		items = append(items, views.TaskItemData{
			ID:      task.ID,
			Text:    task.Text,
			Editing: task.Editing,
			Active:  i == 0 && !state.IsBreak && state.CurrentLabel != "" && state.CurrentLabel == task.Text,
		})
	}
	return views.RenderTasksPanel(views.TasksPanelData{
		ListView:  m.taskList.View(),
		InputView: m.taskInput.View(),
		InputMode: string(m.Input),
		Items:     items,
		Cursor:    clampCursor(m.TaskCursor, len(state.Pending)),
	})
}
