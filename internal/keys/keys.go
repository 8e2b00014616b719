package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Switch between the tasks and travel tabs
	SwitchTab key.Binding

	// Search
	Search key.Binding

	// Help toggle
	Help key.Binding

	// Task actions
	New            key.Binding
	Edit           key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	ClearCompleted key.Binding

	// Filters
	FilterCategory key.Binding
	FilterPriority key.Binding
	ClearFilters   key.Binding

	// Sort
	CycleSort key.Binding

	// Travel actions
	AddItem   key.Binding
	AddTip    key.Binding
	Bookmark  key.Binding
	CycleTips key.Binding

	// Sample data
	Sample key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "tasks/travel"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("x", " "),
			key.WithHelp("x", "complete / activate"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		ClearCompleted: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear completed"),
		),
		FilterCategory: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "cycle category"),
		),
		FilterPriority: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "cycle priority"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "clear filters"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "cycle sort"),
		),
		AddItem: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "add itinerary item"),
		),
		AddTip: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "add local tip"),
		),
		Bookmark: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bookmark tip"),
		),
		CycleTips: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next tip"),
		),
		Sample: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "load sample data"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search, k.SwitchTab,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit, k.SwitchTab},
		{k.New, k.Edit, k.Toggle, k.Delete, k.ClearCompleted},
		{k.Search, k.FilterCategory, k.FilterPriority, k.ClearFilters, k.CycleSort},
		{k.AddItem, k.AddTip, k.CycleTips, k.Bookmark, k.Sample, k.Help},
	}
}
