package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"

	"github.com/sandeepkv93/routined/internal/views"
)

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

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
	})
}

func (m Model) globalBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Day, Action: "switch to Day"},
		{Key: m.Keys.Habits, Action: "switch to Habits"},
		{Key: m.Keys.Focus, Action: "switch to Focus"},
		{Key: "[/]", Action: "previous/next day"},
		{Key: "t", Action: "jump to today"},
		{Key: "/", Action: "open command palette"},
		{Key: "D", Action: "cycle density"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) viewBindings() []KeyBinding {
	switch m.CurrentView {
	case ViewDay:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter/x", Action: "mark occurrence done"},
			{Key: "f", Action: "send occurrence to focus"},
		}
	case ViewHabits:
		return []KeyBinding{
			{Key: "j/k", Action: "move selection"},
			{Key: "enter/+", Action: "record habit occurrence"},
		}
	case ViewFocus:
		return []KeyBinding{
			{Key: "space", Action: "start/pause stopwatch"},
			{Key: "r", Action: "reset stopwatch"},
			{Key: "enter/d", Action: "finish and mark done"},
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
