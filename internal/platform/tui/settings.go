package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pairgrid/pairgrid/internal/core"
	"github.com/pairgrid/pairgrid/internal/progress"
	"github.com/pairgrid/pairgrid/internal/themes"
)

// Settings rows, in display order.
const (
	settingTheme = iota
	settingWordColor
	settingBackground
	settingBgStyle
	settingTimer
	settingMusicVolume
	settingSfxVolume
	settingCount
)

// SettingsModel is the Bubble Tea model for the settings screen.
// Every change is persisted immediately through the progress store.
type SettingsModel struct {
	store     *progress.Store
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	status    string
	quitting  bool
	back      bool
}

// NewSettingsModel creates a new settings model.
func NewSettingsModel(store *progress.Store, width, height int) SettingsModel {
	return SettingsModel{
		store:     store,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the settings model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

func (m SettingsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < settingCount-1 {
			m.cursor++
		}
	case MenuActionLeft:
		m.adjust(-1)
	case MenuActionRight, MenuActionSelect:
		m.adjust(1)
	}

	return m, nil
}

// adjust changes the setting under the cursor by one step in dir.
func (m *SettingsModel) adjust(dir int) {
	switch m.cursor {
	case settingTheme:
		m.apply(func(s *progress.Settings) {
			s.Theme = cycleTheme(s.Theme, dir)
		})
	case settingWordColor:
		m.apply(func(s *progress.Settings) {
			s.WordColor = cycleName(core.ColorNames(), s.WordColor, dir)
		})
	case settingBackground:
		m.apply(func(s *progress.Settings) {
			s.Background = cycleName(core.ColorNames(), s.Background, dir)
		})
	case settingBgStyle:
		m.apply(func(s *progress.Settings) {
			s.BgStyle = cycleName(progress.BackgroundStyles(), s.BgStyle, dir)
		})
	case settingTimer:
		m.apply(func(s *progress.Settings) {
			s.TimerEnabled = !s.TimerEnabled
		})
	case settingMusicVolume:
		m.apply(func(s *progress.Settings) {
			s.MusicVolume = core.ClampF(s.MusicVolume+0.1*float64(dir), 0, 1)
		})
	case settingSfxVolume:
		m.apply(func(s *progress.Settings) {
			s.SfxVolume = core.ClampF(s.SfxVolume+0.1*float64(dir), 0, 1)
		})
	}
}

// apply mutates the settings and persists them.
func (m *SettingsModel) apply(fn func(*progress.Settings)) {
	m.status = ""
	if err := m.store.UpdateSettings(fn); err != nil {
		m.status = "Could not save settings"
	}
}

// cycleTheme steps through the theme catalog in either direction.
func cycleTheme(id string, dir int) string {
	if dir > 0 {
		return themes.Next(id)
	}
	ids := make([]string, 0)
	for _, t := range themes.List() {
		ids = append(ids, t.ID)
	}
	return cycleName(ids, id, dir)
}

// cycleName steps through names by dir, wrapping at both ends. An unknown
// current name lands on the first entry.
func cycleName(names []string, current string, dir int) string {
	if len(names) == 0 {
		return current
	}
	for i, n := range names {
		if n == current {
			return names[(i+dir+len(names))%len(names)]
		}
	}
	return names[0]
}

// View renders the settings rows.
func (m SettingsModel) View() string {
	if m.quitting {
		return ""
	}

	st := m.store.Settings()
	timer := "Off"
	if st.TimerEnabled {
		timer = "On"
	}

	rows := []string{
		fmt.Sprintf("Theme:         < %s >", themes.GetOrDefault(st.Theme).Title),
		fmt.Sprintf("Word color:    < %s >", st.WordColor),
		fmt.Sprintf("Background:    < %s >", st.Background),
		fmt.Sprintf("Bg style:      < %s >", st.BgStyle),
		fmt.Sprintf("Timer:         < %s >", timer),
		fmt.Sprintf("Music volume:  < %d%% >", volumePercent(st.MusicVolume)),
		fmt.Sprintf("SFX volume:    < %d%% >", volumePercent(st.SfxVolume)),
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText("SETTINGS", m.width))
	b.WriteString("\n\n")

	for i, row := range rows {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+row, m.width))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(centerText(m.status, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Left/Right: Change  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// volumePercent converts a 0..1 volume to a display percentage.
func volumePercent(v float64) int {
	return int(v*100 + 0.5)
}

// IsQuitting returns true if user wants to quit.
func (m SettingsModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m SettingsModel) WantsBack() bool {
	return m.back
}

// RunSettings runs the settings screen. Returns true if the user wants to
// go back to the menu, false if quitting.
func RunSettings(store *progress.Store, width, height int) (goBack bool, err error) {
	model := NewSettingsModel(store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(SettingsModel)
	if !ok {
		return false, nil
	}

	return m.WantsBack(), nil
}
