package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/chmouel/lazystage/internal/config"
	"github.com/chmouel/lazystage/internal/status"
)

// keyMap holds the bindings shown in the footer and the help overlay.
type keyMap struct {
	Quit     key.Binding
	Next     key.Binding
	Previous key.Binding
	Clear    key.Binding
	Switch   key.Binding
	Stage    key.Binding
	Discard  key.Binding
	Unstage  key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Confirm  key.Binding
	Cancel   key.Binding
}

func binding(keys map[string][]string, action, desc string) key.Binding {
	names := keys[action]
	if len(names) == 0 {
		names = config.DefaultKeys()[action]
	}
	return key.NewBinding(
		key.WithKeys(names...),
		key.WithHelp(displayKeys(names), desc),
	)
}

// displayKeys renders key names the way the footer shows them.
func displayKeys(names []string) string {
	shown := make([]string, 0, len(names))
	for _, n := range names {
		switch n {
		case "up":
			n = "↑"
		case "down":
			n = "↓"
		case "left":
			n = "←"
		case "right":
			n = "→"
		}
		shown = append(shown, n)
	}
	return strings.Join(shown, "/")
}

func newKeyMap(keys map[string][]string) keyMap {
	return keyMap{
		Quit:     binding(keys, config.KeyQuit, "quit"),
		Next:     binding(keys, config.KeyNext, "down"),
		Previous: binding(keys, config.KeyPrevious, "up"),
		Clear:    binding(keys, config.KeyClear, "unselect"),
		Switch:   binding(keys, config.KeySwitch, "switch view"),
		Stage:    binding(keys, config.KeyStage, "stage"),
		Discard:  binding(keys, config.KeyDiscard, "discard"),
		Unstage:  binding(keys, config.KeyUnstage, "unstage"),
		Refresh:  binding(keys, config.KeyRefresh, "refresh"),
		Help:     binding(keys, config.KeyHelp, "help"),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y", "enter"),
			key.WithHelp("y", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "cancel"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.Switch, k.Stage, k.Discard, k.Unstage, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Previous, k.Next, k.Clear, k.Switch},
		{k.Stage, k.Discard, k.Unstage},
		{k.Refresh, k.Help, k.Quit},
	}
}

// syncKeys disables the bindings the active view rejects so the footer
// only lists what can run.
func (m *Model) syncKeys() {
	m.keys.Stage.SetEnabled(m.controller.Allowed(status.ActionStage))
	m.keys.Discard.SetEnabled(m.controller.Allowed(status.ActionDiscard))
	m.keys.Unstage.SetEnabled(m.controller.Allowed(status.ActionUnstage))
}
