// Package update holds the bubbletea model for the terminal front end. The
// model drives the cycle store from keyboard input and a one-second tea.Tick.
package update

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/pomodo/internal/cycle"
	"github.com/sandeepkv93/pomodo/internal/settings"
)

type View string

const (
	ViewTasks    View = "Tasks"
	ViewTimer    View = "Timer"
	ViewFinished View = "Finished"
	ViewSettings View = "Settings"
)

type InputMode string

const (
	InputNone InputMode = ""
	InputAdd  InputMode = "add"
	InputEdit InputMode = "edit"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks    string
	Timer    string
	Finished string
	Settings string
	Help     string
	Quit     string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type Model struct {
	CurrentView    View
	Store          *cycle.Store
	Prefs          *settings.Store
	Running        bool
	TodayCount     int
	TaskCursor     int
	FinishedCursor int
	SettingsCursor int
	Input          InputMode
	EditingID      int
	Palette        CommandPaletteState
	HelpVisible    bool
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	// tickGen invalidates tick messages scheduled before a pause
	tickGen    int
	countToday func() int
	// Bubble components used for rich TUI controls
	taskList      list.Model
	finishedTable table.Model
	taskInput     textinput.Model
	commandInput  textinput.Model
	timerProgress progress.Model
	runSpinner    spinner.Model
	helpModel     help.Model
	helpViewport  viewport.Model
}

type listItem struct {
	title       string
	description string
}

func (i listItem) FilterValue() string { return i.title }
func (i listItem) Title() string       { return i.title }
func (i listItem) Description() string { return i.description }

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TimerTickMsg is one second of countdown. Gen ties it to the run that
// scheduled it.
type TimerTickMsg struct {
	Gen int
}

type Option func(*Model)

// WithTodayCounter supplies the count of work periods finished today.
func WithTodayCounter(fn func() int) Option {
	return func(m *Model) {
		if fn != nil {
			m.countToday = fn
		}
	}
}

func NewModel(store *cycle.Store, prefs *settings.Store, opts ...Option) Model {
	m := Model{
		CurrentView: ViewTasks,
		Store:       store,
		Prefs:       prefs,
		countToday:  func() int { return 0 },
		Keys: GlobalKeyMap{
			Tasks:    "1",
			Timer:    "2",
			Finished: "3",
			Settings: "4",
			Help:     "?",
			Quit:     "q",
		},
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.TodayCount = m.countToday()
	m.initBubbleComponents()
	m.syncBubbleData()
	return m
}

func (m *Model) initBubbleComponents() {
	m.taskList = list.New([]list.Item{}, list.NewDefaultDelegate(), 56, 12)
	m.taskList.Title = "Pending"
	m.taskList.SetShowHelp(false)
	m.taskList.SetFilteringEnabled(false)

	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Task", Width: 44},
	}
	m.finishedTable = table.New(table.WithColumns(cols), table.WithRows([]table.Row{}), table.WithFocused(true), table.WithHeight(10))

	m.taskInput = textinput.New()
	m.taskInput.Prompt = "> "
	m.taskInput.CharLimit = 256
	m.taskInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.timerProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(30))

	m.runSpinner = spinner.New()
	m.runSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.helpViewport = viewport.New(44, 12)
	m.helpViewport.SetContent(renderHelpMarkdown())
}
