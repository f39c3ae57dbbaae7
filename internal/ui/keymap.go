package ui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	SwitchMode     key.Binding
	Demand         key.Binding
	Tasks          key.Binding
	Category       key.Binding
	Scan           key.Binding
	Notify         key.Binding
	StartScheduler key.Binding
	StopScheduler  key.Binding
	ClearCache     key.Binding
	Health         key.Binding
	Params         key.Binding
	Search         key.Binding
	Expr           key.Binding
	ClearFilter    key.Binding
	Up             key.Binding
	Down           key.Binding
	Top            key.Binding
	Bottom         key.Binding
	Explain        key.Binding
	CopyURL        key.Binding
	Open           key.Binding
	Export         key.Binding
	Snapshot       key.Binding
	AppLogs        key.Binding
	Help           key.Binding
	Quit           key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		SwitchMode:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "mode")),
		Demand:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "Demand Radar")),
		Tasks:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Task Hunter")),
		Category:       key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "filter")),
		Scan:           key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "scan")),
		Notify:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "notify")),
		StartScheduler: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "start auto-scan")),
		StopScheduler:  key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "stop auto-scan")),
		ClearCache:     key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear cache")),
		Health:         key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "health")),
		Params:         key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "parameters")),
		Search:         key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Expr:           key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "expression")),
		ClearFilter:    key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear search")),
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:            key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Bottom:         key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "bottom")),
		Explain:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "explain")),
		CopyURL:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Open:           key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open")),
		Export:         key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		Snapshot:       key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "html snapshot")),
		AppLogs:        key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logs")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp is the footer line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SwitchMode, k.Category, k.Scan, k.Notify, k.Search, k.Explain, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SwitchMode, k.Demand, k.Tasks, k.Category},
		{k.Scan, k.Notify, k.StartScheduler, k.StopScheduler, k.ClearCache, k.Health, k.Params},
		{k.Search, k.Expr, k.ClearFilter},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.Explain, k.CopyURL, k.Open, k.Export, k.Snapshot},
		{k.AppLogs, k.Help, k.Quit},
	}
}

func keyLabel(b key.Binding) string { return b.Help().Key }

type helpItem struct {
	group string
	text  string
	key   key.Binding
}

func (m *Model) buildHelpItems() []helpItem {
	km := m.keymap
	return []helpItem{
		{group: "Modes", text: "Switch mode", key: km.SwitchMode},
		{group: "Modes", text: "Demand Radar", key: km.Demand},
		{group: "Modes", text: "Task Hunter", key: km.Tasks},
		{group: "Modes", text: "Filter category (1 = all)", key: km.Category},

		{group: "Backend", text: "Scan / Hunt tasks", key: km.Scan},
		{group: "Backend", text: "Scan & Notify", key: km.Notify},
		{group: "Backend", text: "Start auto-scan", key: km.StartScheduler},
		{group: "Backend", text: "Stop auto-scan", key: km.StopScheduler},
		{group: "Backend", text: "Clear notification cache", key: km.ClearCache},
		{group: "Backend", text: "Health check", key: km.Health},
		{group: "Backend", text: "Edit scan parameters", key: km.Params},

		{group: "Refine", text: "Search text or /regex/", key: km.Search},
		{group: "Refine", text: "Filter expression", key: km.Expr},
		{group: "Refine", text: "Clear search and expression", key: km.ClearFilter},

		{group: "Navigation", text: "Previous card", key: km.Up},
		{group: "Navigation", text: "Next card", key: km.Down},
		{group: "Navigation", text: "First card", key: km.Top},
		{group: "Navigation", text: "Last card", key: km.Bottom},

		{group: "Actions", text: "Explain post (OpenAI)", key: km.Explain},
		{group: "Actions", text: "Copy post URL", key: km.CopyURL},
		{group: "Actions", text: "Open post in browser", key: km.Open},
		{group: "Actions", text: "Export visible posts", key: km.Export},
		{group: "Actions", text: "Write HTML snapshot", key: km.Snapshot},

		{group: "Control", text: "Application logs", key: km.AppLogs},
		{group: "Control", text: "Help", key: km.Help},
		{group: "Control", text: "Quit", key: km.Quit},
	}
}
