package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pders01/ghscout/internal/config"
)

type keyMap struct {
	Quit        key.Binding
	NextPage    key.Binding
	PrevPage    key.Binding
	ToggleTheme key.Binding
	Open        key.Binding
	Activity    key.Binding
	Back        key.Binding
	Up          key.Binding
	Down        key.Binding
}

// helpKeys adapts a binding list to help.KeyMap.
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding  { return h }
func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

type KeyHandler struct {
	app         *App
	config      *config.Config
	modifierKey string
	keys        keyMap
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	modifierKey := cfg.Keys.Modifier + "+"
	return &KeyHandler{
		app:         app,
		config:      cfg,
		modifierKey: modifierKey,
		keys:        newKeyMap(modifierKey, cfg.Keys.Bindings),
	}
}

// bindingKey prefixes single-character bindings with the modifier. Named
// keys such as esc or explicit combinations are used as written.
func bindingKey(modifierKey, binding string) string {
	binding = strings.TrimSpace(binding)
	if len([]rune(binding)) != 1 {
		return binding
	}
	return modifierKey + binding
}

func newKeyMap(modifierKey string, b config.KeyBindings) keyMap {
	bind := func(name, fallback, desc string, extra ...string) key.Binding {
		k := bindingKey(modifierKey, name)
		if k == "" {
			k = bindingKey(modifierKey, fallback)
		}
		return key.NewBinding(
			key.WithKeys(append([]string{k}, extra...)...),
			key.WithHelp(k, desc),
		)
	}

	return keyMap{
		Quit:        bind(b.Quit, "c", "quit"),
		NextPage:    bind(b.NextPage, "n", "next page", "pgdown"),
		PrevPage:    bind(b.PrevPage, "p", "prev page", "pgup"),
		ToggleTheme: bind(b.ToggleTheme, "t", "theme"),
		Open:        bind(b.Open, "o", "open"),
		Activity:    bind(b.Activity, "a", "activity"),
		Back:        bind(b.Back, "esc", "clear"),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "select"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
		),
	}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kh.app.clearStatus()

	if key.Matches(msg, kh.keys.Quit) || msg.String() == "ctrl+c" {
		return kh.app, tea.Quit
	}

	switch kh.app.view {
	case ViewActivity:
		return kh.handleActivityKeys(msg)
	default:
		return kh.handleSearchKeys(msg)
	}
}

func (kh *KeyHandler) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch {
	case key.Matches(msg, kh.keys.NextPage):
		if !a.pagingEnabled() {
			return a, nil
		}
		return a, a.changePage(a.session.NextPage())
	case key.Matches(msg, kh.keys.PrevPage):
		if !a.pagingEnabled() {
			return a, nil
		}
		return a, a.changePage(a.session.PrevPage())
	case key.Matches(msg, kh.keys.ToggleTheme):
		a.toggleTheme()
		return a, nil
	case key.Matches(msg, kh.keys.Open):
		return a, a.openSelected()
	case key.Matches(msg, kh.keys.Activity):
		return a, a.showActivity()
	case key.Matches(msg, kh.keys.Up):
		a.moveSelection(-1)
		return a, nil
	case key.Matches(msg, kh.keys.Down):
		a.moveSelection(1)
		return a, nil
	case key.Matches(msg, kh.keys.Back):
		a.clearSearch()
		return a, nil
	}

	return kh.delegateToTextInput(msg)
}

func (kh *KeyHandler) handleActivityKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch {
	case key.Matches(msg, kh.keys.Back):
		a.closeActivity()
		return a, nil
	case key.Matches(msg, kh.keys.ToggleTheme):
		a.toggleTheme()
		return a, nil
	case key.Matches(msg, kh.keys.Open):
		if p := a.session.Profile(); p != nil {
			return a, a.openLink(p.HTMLURL)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

// delegateToTextInput passes the key to the search box and reports any
// change of its value.
func (kh *KeyHandler) delegateToTextInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	newInput, cmd := a.searchInput.Update(msg)
	a.searchInput = newInput
	return a, tea.Batch(cmd, a.queryChanged(a.searchInput.Value()))
}

// HelpForCurrentView lists the bindings shown in the status bar.
func (kh *KeyHandler) HelpForCurrentView() helpKeys {
	k := kh.keys
	switch kh.app.view {
	case ViewActivity:
		back := key.NewBinding(key.WithKeys(k.Back.Keys()...), key.WithHelp(k.Back.Help().Key, "back"))
		return helpKeys{back, k.Open, k.ToggleTheme, k.Quit}
	default:
		return helpKeys{k.NextPage, k.PrevPage, k.Up, k.Open, k.Activity, k.ToggleTheme, k.Back, k.Quit}
	}
}
