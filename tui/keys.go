package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up, Down, Top, Bottom, HalfDown, HalfUp key.Binding

	Filter, Escape key.Binding

	Toggle, SelectAll key.Binding

	Run, Rescan, Rerun, Open, CopyPath key.Binding

	Help, Quit key.Binding
}

func bind(label, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, desc))
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       bind("↑/k", "move up", "up", "k"),
		Down:     bind("↓/j", "move down", "down", "j"),
		Top:      bind("g", "first repository", "home", "g"),
		Bottom:   bind("G", "last repository", "end", "G"),
		HalfDown: bind("ctrl+d", "half page down", "ctrl+d"),
		HalfUp:   bind("ctrl+u", "half page up", "ctrl+u"),

		Filter: bind("/", "filter by name or path", "/"),
		Escape: bind("esc", "clear filter / back", "esc"),

		Toggle:    bind("space", "pick repository", " "),
		SelectAll: bind("a", "pick all / none", "a"),

		Run:      bind("enter", "analyze picked (or current)", "enter"),
		Rescan:   bind("R", "rescan workspace", "R"),
		Rerun:    bind("r", "run the last analysis again", "r"),
		Open:     bind("o", "open chart", "o"),
		CopyPath: bind("y", "copy path", "y"),

		Help: bind("?", "toggle help", "?"),
		Quit: bind("q", "quit", "q", "ctrl+c"),
	}
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

func (k keyMap) sections() []helpSection {
	return []helpSection{
		{"Repositories", []key.Binding{k.Up, k.Down, k.Top, k.Bottom, k.HalfDown, k.HalfUp, k.Filter, k.Escape}},
		{"Analysis", []key.Binding{k.Toggle, k.SelectAll, k.Run, k.Rescan}},
		{"Chart", []key.Binding{k.Open, k.CopyPath, k.Rerun}},
		{"", []key.Binding{k.Help, k.Quit}},
	}
}

func (k keyMap) helpText() string {
	var b strings.Builder
	for i, s := range k.sections() {
		if i > 0 {
			b.WriteString("\n")
		}
		if s.title != "" {
			b.WriteString(styleTitle.Render(s.title) + "\n")
		}
		for _, kb := range s.bindings {
			h := kb.Help()
			b.WriteString("  " + styleKey.Render(padRight(h.Key, 8)) + " " + h.Desc + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
