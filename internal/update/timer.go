package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/pomodo/internal/notify"
	"github.com/sandeepkv93/pomodo/internal/views"
)

func (m Model) handleTimerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "n":
		wasBreak := m.Store.IsBreak()
		if !m.Store.DeferCurrentTask() {
			m.Status = StatusBar{Text: "nothing to skip", IsError: true}
			return m, nil
		}
		if wasBreak {
			m.Status = StatusBar{Text: "break skipped"}
		} else {
			m.Status = StatusBar{Text: "task moved to the end of the list"}
		}
	}
	return m, nil
}

// toggleTimer pauses a running countdown or starts the current period.
func (m Model) toggleTimer() (tea.Model, tea.Cmd) {
	if m.Running {
		m.Running = false
		m.tickGen++
		m.Status = StatusBar{Text: "timer paused"}
		return m, nil
	}
	m.Store.ClearStopSignal()
	m.Store.SyncIdleDuration()
	label := m.Store.RecomputeCurrentTask()
	if !m.Store.IsBreak() && label == "" {
		m.Status = StatusBar{Text: "add a task before starting the timer", IsError: true}
		return m, nil
	}
	m.Running = true
	m.tickGen++
	m.Status = StatusBar{Text: "timer running: " + label}
	return m, tea.Batch(timerTickCmd(m.tickGen), m.runSpinner.Tick)
}

func (m Model) onTimerTick(msg TimerTickMsg) (tea.Model, tea.Cmd) {
	if !m.Running || msg.Gen != m.tickGen {
		return m, nil
	}
	if !m.Store.Tick() {
		return m, timerTickCmd(m.tickGen)
	}

	wasBreak := m.Store.IsBreak()
	m.Store.OnExpire()
	m.Store.ClearStopSignal()
	m.Running = false
	m.tickGen++
	m.TodayCount = m.countToday()
	switch {
	case wasBreak:
		m.Status = StatusBar{Text: "break over; press space to start the next task"}
	case m.Store.IsBreak():
		m.Status = StatusBar{Text: "pomodoro complete; press space to start the break"}
	default:
		m.Status = StatusBar{Text: "pomodoro complete; the list is empty"}
	}
	return m, nil
}

// haltOnStopSignal pauses the countdown when the last operation interrupted
// the period on the clock.
func (m *Model) haltOnStopSignal() {
	if !m.Store.StopSignal() {
		return
	}
	m.Store.ClearStopSignal()
	if m.Running {
		m.Running = false
		m.tickGen++
		m.Status = StatusBar{Text: m.Status.Text + " (timer stopped)", IsError: m.Status.IsError}
	}
}

func (m Model) renderTimerView() string {
	pct := m.progress()
	upNext := ""
	state := m.Store.State()
	if len(state.Pending) > 0 && (m.Store.IsBreak() || m.Store.CurrentLabel() == "") {
		upNext = state.Pending[0].Text
	}
	return views.RenderTimerPanel(views.TimerPanelData{
		Label:        m.Store.CurrentLabel(),
		Phase:        string(m.Store.Phase()),
		IsBreak:      m.Store.IsBreak(),
		Timer:        notify.FormatDuration(m.Store.SecondsRemaining()),
		ProgressView: m.timerProgress.ViewAs(pct),
		ProgressPct:  int(pct * 100),
		Running:      m.Running,
		SpinnerView:  m.runSpinner.View(),
		UpNext:       upNext,
		TodayCount:   m.TodayCount,
	})
}

func timerTickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return TimerTickMsg{Gen: gen} })
}
