package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/pomodo/internal/model"
	"github.com/sandeepkv93/pomodo/internal/views"
)

func (m Model) handleFinishedKey(msg tea.KeyMsg) Model {
	finished := m.Store.State().Finished
	switch msg.String() {
	case "j", "down":
		m.FinishedCursor = clampCursor(m.FinishedCursor+1, len(finished))
	case "k", "up":
		m.FinishedCursor = clampCursor(m.FinishedCursor-1, len(finished))
	case "r":
		rec, ok := m.currentFinished()
		if !ok {
			m.Status = StatusBar{Text: "no finished task selected", IsError: true}
			return m
		}
		task, _ := m.Store.RestoreTask(rec.ID)
		m.Status = StatusBar{Text: fmt.Sprintf("restored as #%d %s", task.ID, task.Text)}
	case "x":
		rec, ok := m.currentFinished()
		if !ok || !m.Store.DeleteFinished(rec.ID) {
			m.Status = StatusBar{Text: "no finished task selected", IsError: true}
			return m
		}
		m.Status = StatusBar{Text: fmt.Sprintf("purged #%d", rec.ID)}
	}
	m.FinishedCursor = clampCursor(m.FinishedCursor, len(m.Store.State().Finished))
	return m
}

func (m Model) currentFinished() (model.FinishedTask, bool) {
	finished := m.Store.State().Finished
	if len(finished) == 0 {
		return model.FinishedTask{}, false
	}
	return finished[clampCursor(m.FinishedCursor, len(finished))], true
}

func (m Model) renderFinishedView() string {
	return views.RenderFinishedPanel(views.FinishedPanelData{
		TableView: m.finishedTable.View(),
		Count:     len(m.Store.State().Finished),
	})
}
