package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pairgrid/pairgrid/internal/progress"
)

// MenuChoice identifies a main menu entry.
type MenuChoice int

const (
	MenuChoiceNone MenuChoice = iota
	MenuChoicePlay
	MenuChoiceNewRun
	MenuChoiceLevels
	MenuChoiceScores
	MenuChoiceSettings
	MenuChoiceQuit
)

// menuItem is one selectable row of the main menu.
type menuItem struct {
	choice MenuChoice
	title  string
}

// MenuModel is the Bubble Tea model for the main menu.
type MenuModel struct {
	items     []menuItem
	cursor    int
	width     int
	height    int
	store     *progress.Store
	keyMapper *KeyMapper
	quitting  bool
	selected  MenuChoice
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *progress.Store, width, height int) MenuModel {
	items := []menuItem{
		{MenuChoicePlay, "Play"},
		{MenuChoiceNewRun, "New Run"},
		{MenuChoiceLevels, "Select Level"},
		{MenuChoiceScores, "High Scores"},
		{MenuChoiceSettings, "Settings"},
		{MenuChoiceQuit, "Quit"},
	}

	return MenuModel{
		items:     items,
		cursor:    0,
		width:     width,
		height:    height,
		store:     store,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		selected := m.items[m.cursor].choice
		if selected == MenuChoiceQuit {
			m.quitting = true
		} else {
			m.selected = selected
		}
		return m, tea.Quit // Exit menu to run the chosen screen
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	// Title
	title := "  P A I R G R I D  "
	b.WriteString("\n")
	b.WriteString(centerText(title, m.width))
	b.WriteString("\n\n")

	// Progress line
	subtitle := fmt.Sprintf("Level %d of %d unlocked", m.store.Unlocked(), progress.NumLevels)
	if m.store.DevMode() {
		subtitle = "Dev mode: all levels unlocked"
	}
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n\n")

	// Menu entries
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := fmt.Sprintf("%s%s", cursor, item.title)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Choice returns the selected menu entry, MenuChoiceNone while choosing.
func (m MenuModel) Choice() MenuChoice {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Choice MenuChoice
	Quit   bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *progress.Store, width, height int) (MenuResult, error) {
	model := NewMenuModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	if m.IsQuitting() {
		return MenuResult{Quit: true}, nil
	}

	return MenuResult{Choice: m.Choice()}, nil
}
