package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/progress"
)

// LevelSelection holds the user's selection from the level picker.
type LevelSelection struct {
	Level int // 1-based
}

// LevelsModel lets the player pick an unlocked level or enter an unlock
// code on the keypad sub-view.
type LevelsModel struct {
	store     *progress.Store
	cfg       config.GameConfig
	cursor    int
	inKeypad  bool
	codeInput textinput.Model
	status    string
	width     int
	height    int
	keyMapper *KeyMapper
	selection LevelSelection
	choosing  bool
	quitting  bool
	back      bool
}

// NewLevelsModel creates a new level picker model.
func NewLevelsModel(store *progress.Store, cfg config.GameConfig, width, height int) LevelsModel {
	return LevelsModel{
		store:     store,
		cfg:       cfg,
		cursor:    store.Current() - 1,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// rowCount returns the number of picker rows: one per level plus the
// keypad entry.
func (m LevelsModel) rowCount() int {
	return m.cfg.NumLevels() + 1
}

// Init initializes the model.
func (m LevelsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m LevelsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m LevelsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inKeypad {
		return m.handleKeypadKey(msg)
	}

	if msg.String() == "#" {
		return m.openKeypad()
	}

	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < m.rowCount()-1 {
			m.cursor++
		}
	case MenuActionSelect:
		if m.cursor == m.cfg.NumLevels() {
			return m.openKeypad()
		}
		level := m.cursor + 1
		if level > m.store.Unlocked() {
			m.status = fmt.Sprintf("Level %d is locked", level)
			return m, nil
		}
		m.choosing = false
		m.selection = LevelSelection{Level: level}
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// openKeypad switches to the unlock code sub-view with a fresh field.
func (m LevelsModel) openKeypad() (tea.Model, tea.Cmd) {
	m.inKeypad = true
	m.codeInput = newCodeInput()
	m.status = ""
	return m, textinput.Blink
}

// handleKeypadKey drives the unlock code field. The code toggles dev mode;
// it is not a per-level password.
func (m LevelsModel) handleKeypadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.inKeypad = false
		return m, nil

	case "enter":
		code := m.codeInput.Value()
		m.inKeypad = false
		if code != progress.DevCode {
			m.status = "Unknown code"
			return m, nil
		}
		if m.store.DevMode() {
			m.store.ExitDevMode()
			m.status = "Dev mode off"
		} else {
			m.store.EnterDevMode()
			m.status = "Dev mode on"
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.codeInput, cmd = m.codeInput.Update(msg)
	return m, cmd
}

// newCodeInput builds the focused digits-only keypad field.
func newCodeInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Code"
	ti.CharLimit = 8
	ti.Width = 10
	ti.Validate = func(s string) error {
		for _, r := range s {
			if r < '0' || r > '9' {
				return fmt.Errorf("digits only")
			}
		}
		return nil
	}
	ti.Focus()
	return ti
}

// View renders the level list or the keypad.
func (m LevelsModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inKeypad {
		return m.viewKeypad()
	}
	return m.viewLevels()
}

func (m LevelsModel) viewLevels() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT LEVEL", m.width))
	b.WriteString("\n\n")

	unlocked := m.store.Unlocked()
	for i, spec := range m.cfg.Levels {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		var line string
		if i+1 <= unlocked {
			line = fmt.Sprintf("%s%2d. %dx%d grid, %ds", cursor, i+1, spec.Rows, spec.Cols, spec.TimeLimit)
		} else {
			line = fmt.Sprintf("%s%2d. locked", cursor, i+1)
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	cursor := "  "
	if m.cursor == m.cfg.NumLevels() {
		cursor = "> "
	}
	b.WriteString(centerText(cursor+"Unlock...", m.width))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.status, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  #: Code  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m LevelsModel) viewKeypad() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("ENTER CODE", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.codeInput.View(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Submit  |  Esc: Back", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m LevelsModel) Selected() *LevelSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m LevelsModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m LevelsModel) WantsBack() bool {
	return m.back
}

// RunLevelSelector runs the level picker and returns the selection,
// nil when the user backed out.
func RunLevelSelector(store *progress.Store, cfg config.GameConfig, width, height int) (*LevelSelection, error) {
	model := NewLevelsModel(store, cfg, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := finalModel.(LevelsModel)
	if !ok {
		return nil, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, nil
	}

	return m.Selected(), nil
}
