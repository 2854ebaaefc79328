// Package tui implements the --tui interactive file selector: a thin
// bubbletea shell over the Walker/Selector's already-computed file
// list, letting the operator toggle individual files in or out before
// the Transformer/Writer stages run. It never reimplements ranking or
// selection logic; it only edits the admit set.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kj114022/abyss/internal/model"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// keyMap is the picker's key bindings, rendered via bubbles/help so the
// footer stays in sync with what Update actually handles.
type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	None   key.Binding
	Accept key.Binding
	Cancel key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle")),
		All:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "all")),
		None:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "none")),
		Accept: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "cancel")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.All, k.None, k.Accept, k.Cancel}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, k.ShortHelp()}
}

// Item is one selectable row: a file's path and whether it starts
// checked (every Selector-admitted file does).
type Item struct {
	Path    string
	Tokens  int
	Checked bool
}

// Select runs the interactive picker over files and returns the
// subset the operator left checked, in their original order. Pressing
// q or esc cancels and returns the original files unmodified.
func Select(files []model.File) ([]model.File, error) {
	items := make([]Item, len(files))
	for i, f := range files {
		items[i] = Item{Path: f.Path, Tokens: f.Tokens, Checked: true}
	}

	m := model_{items: items, byPath: index(files), keys: defaultKeyMap(), help: help.New()}

	program := tea.NewProgram(m)

	final, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("run tui: %w", err)
	}

	result, ok := final.(model_)
	if !ok || result.cancelled {
		return files, nil
	}

	var out []model.File

	for _, item := range result.items {
		if item.Checked {
			out = append(out, result.byPath[item.Path])
		}
	}

	return out, nil
}

func index(files []model.File) map[string]model.File {
	m := make(map[string]model.File, len(files))
	for _, f := range files {
		m[f.Path] = f
	}

	return m
}

type model_ struct {
	items     []Item
	byPath    map[string]model.File
	cursor    int
	cancelled bool
	keys      keyMap
	help      help.Model
}

func (m model_) Init() tea.Cmd {
	return nil
}

func (m model_) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true

		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.items[m.cursor].Checked = !m.items[m.cursor].Checked
	case key.Matches(keyMsg, m.keys.All):
		m.setAll(true)
	case key.Matches(keyMsg, m.keys.None):
		m.setAll(false)
	case key.Matches(keyMsg, m.keys.Accept):
		return m, tea.Quit
	}

	return m, nil
}

func (m *model_) setAll(checked bool) {
	for i := range m.items {
		m.items[i].Checked = checked
	}
}

func (m model_) View() string {
	var b strings.Builder

	fmt.Fprintf(&b, "abyss file selector — %d files\n\n", len(m.items))

	sorted := make([]int, len(m.items))
	for i := range sorted {
		sorted[i] = i
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return m.items[sorted[i]].Path < m.items[sorted[j]].Path
	})

	for _, i := range sorted {
		item := m.items[i]

		box := "[ ]"
		if item.Checked {
			box = selectedStyle.Render("[x]")
		}

		line := fmt.Sprintf("%s %s (%d tok)", box, item.Path, item.Tokens)

		if i == m.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
