package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/pomodo/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

const commandHelp = `## Commands

Open the palette with **/** and type one of:

| command | effect |
|---|---|
| ` + "`add <text>`" + ` | append a task |
| ` + "`done <id>`" + ` | finish a pending task |
| ` + "`del <id>`" + ` | discard a pending task |
| ` + "`edit <id> <text>`" + ` | rename a pending task |
| ` + "`restore <id>`" + ` | move a finished task back |
| ` + "`purge <id>`" + ` | drop a finished task |
| ` + "`skip`" + ` | defer the current task or end the break |
| ` + "`reset`" + ` | clear both lists |
| ` + "`set volume\\|work\\|break\\|alarm\\|notify <v>`" + ` | change a setting |
`

func renderHelpMarkdown() string {
	return views.RenderMarkdown(commandHelp)
}

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.viewBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(views.HelpPanelData{
		CurrentView: string(m.CurrentView),
		Bindings:    plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		MarkdownView: strings.TrimSpace(m.helpViewport.View()),
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Tasks, Action: "switch to Tasks"},
		{Key: m.Keys.Timer, Action: "switch to Timer"},
		{Key: m.Keys.Finished, Action: "switch to Finished"},
		{Key: m.Keys.Settings, Action: "switch to Settings"},
		{Key: "space", Action: "start/pause timer"},
		{Key: "/", Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewTasks:
		return []KeyBinding{
			{Key: "a", Action: "add task"},
			{Key: "e", Action: "edit selected task"},
			{Key: "enter/d", Action: "complete selected task"},
			{Key: "x", Action: "delete selected task"},
			{Key: "s", Action: "skip current task or break"},
			{Key: "j/k", Action: "move cursor"},
		}
	case ViewTimer:
		return []KeyBinding{
			{Key: "space", Action: "start/pause timer"},
			{Key: "n", Action: "skip current task or break"},
		}
	case ViewFinished:
		return []KeyBinding{
			{Key: "r", Action: "restore to pending"},
			{Key: "x", Action: "purge record"},
			{Key: "j/k", Action: "move cursor"},
		}
	case ViewSettings:
		return []KeyBinding{
			{Key: "j/k", Action: "select setting"},
			{Key: "h/l", Action: "decrease/increase"},
			{Key: "enter", Action: "next value"},
		}
	default:
		return []KeyBinding{{Key: "-", Action: "no contextual bindings"}}
	}
}

func (m Model) helpBindings() []key.Binding {
	out := make([]key.Binding, 0, len(m.globalBindings())+len(m.viewBindings()))
	for _, kb := range m.globalBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	for _, kb := range m.viewBindings() {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
