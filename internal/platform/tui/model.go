package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/pairgrid/pairgrid/internal/core"
	"github.com/pairgrid/pairgrid/internal/history"
	"github.com/pairgrid/pairgrid/internal/memory"
	"github.com/pairgrid/pairgrid/internal/rank"
)

// Model is the Bubble Tea model for a running game session.
type Model struct {
	game       *memory.Game
	screen     *core.Screen
	hist       *history.Store
	logger     *log.Logger
	config     core.RuntimeConfig
	width      int
	height     int
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper

	// prevPhase tracks lifecycle transitions so each attempt is logged to
	// the history database exactly once.
	prevPhase memory.Phase

	nameInput   textinput.Model
	inNameEntry bool

	quitting bool
	done     bool // session went idle, leave the game view
}

// NewModel creates a new Bubble Tea model for the given game.
// width and height are the terminal dimensions; the game itself runs in
// virtual pixels and is projected onto whatever size the terminal has.
func NewModel(game *memory.Game, hist *history.Store, logger *log.Logger, cfg core.RuntimeConfig, width, height int) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(width, height),
		hist:       hist,
		logger:     logger,
		config:     cfg,
		width:      width,
		height:     height,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inNameEntry {
		return m.handleNameEntryKey(msg)
	}

	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleNameEntryKey routes keys to the leaderboard name field.
func (m Model) handleNameEntryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "enter":
		if strings.TrimSpace(m.nameInput.Value()) == "" {
			return m, nil
		}
		if err := m.game.SubmitName(m.nameInput.Value()); err != nil {
			m.logger.Warn("could not record rank", "error", err)
		}
		m.inNameEntry = false
		return m, nil

	case "esc":
		// Discard the ranks and abandon on the next tick.
		m.inputFrame.Set(core.ActionBack)
		return m, nil
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

// handleMouse turns left clicks into card flips.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	if m.inNameEntry {
		return m, nil
	}

	// Clicks arrive in terminal cells; the game wants virtual pixels.
	p := m.game.VirtualPoint(msg.X, msg.Y, m.width, m.height)
	m.inputFrame.AddClick(p)
	return m, nil
}

// handleResize processes window resize events.
// Gameplay geometry lives in virtual pixels, so a resize only changes the
// projection and the session keeps running.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.screen.Resize(msg.Width, msg.Height)
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if err := m.game.TakeErr(); err != nil {
		m.logger.Warn("gameplay error", "error", err)
	}

	snap := m.game.Snapshot()
	m.logAttempt(m.prevPhase, snap)
	m.prevPhase = snap.Phase

	// Swap the name entry view in and out with the phase.
	var entered bool
	if snap.Phase == memory.PhaseNameEntry && !m.inNameEntry {
		m.nameInput = newNameInput()
		m.inNameEntry = true
		entered = true
	}
	if snap.Phase != memory.PhaseNameEntry {
		m.inNameEntry = false
	}

	m.inputFrame.Clear()

	if m.gameState.GameOver {
		m.done = true
		return m, tea.Quit
	}

	if entered {
		return m, tea.Batch(tickCmd(m.config.TickRate), textinput.Blink)
	}
	return m, tickCmd(m.config.TickRate)
}

// logAttempt records a finished attempt when the phase leaves playing.
func (m Model) logAttempt(prev memory.Phase, snap memory.Snapshot) {
	if m.hist == nil || prev != memory.PhasePlaying {
		return
	}

	var outcome string
	elapsed := snap.TimeTaken
	switch snap.Phase {
	case memory.PhaseNameEntry, memory.PhaseLevelComplete, memory.PhaseRunComplete:
		outcome = history.OutcomeCompleted
	case memory.PhaseFailed:
		outcome = history.OutcomeFailed
		elapsed = snap.TimeLimit
	case memory.PhaseIdle:
		outcome = history.OutcomeAbandoned
		elapsed = snap.TimeLimit - snap.Remaining
	default:
		return
	}

	if _, err := m.hist.SaveAttempt(snap.Level, outcome, elapsed, snap.Moves); err != nil {
		m.logger.Warn("could not record attempt", "error", err)
	}
}

// newNameInput builds the focused leaderboard name field.
func newNameInput() textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "Your name"
	ti.CharLimit = rank.MaxNameLen
	ti.Width = rank.MaxNameLen + 2
	ti.Focus()
	return ti
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".pairgrid", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("pairgrid_%s.txt", timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.inNameEntry {
		return m.viewNameEntry()
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	// Convert screen to string
	return RenderScreen(m.screen)
}

// viewNameEntry renders the full-screen leaderboard name prompt.
func (m Model) viewNameEntry() string {
	snap := m.game.Snapshot()

	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(centerText("NEW RECORD", m.width))
	b.WriteString("\n\n")

	summary := fmt.Sprintf("Level %d cleared in %ds with %d moves", snap.Level, snap.TimeTaken, snap.Moves)
	b.WriteString(centerText(summary, m.width))
	b.WriteString("\n\n")

	for _, r := range snap.Ranks {
		b.WriteString(centerText(rankText(r), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter your name:", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.nameInput.View(), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Enter: Save  |  Esc: Discard", m.width))

	return b.String()
}

// rankText describes one qualifying rank for the name prompt.
func rankText(r memory.RankView) string {
	if r.Metric == rank.BestTime {
		return fmt.Sprintf("Best time: #%d (%ds)", r.Index+1, r.Score)
	}
	return fmt.Sprintf("Fewest moves: #%d (%d)", r.Index+1, r.Score)
}

// IsQuitting returns true if the user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// Done returns true once the session has ended and the caller should
// return to the menu.
func (m Model) Done() bool {
	return m.done
}

// Run starts the Bubble Tea program for a single game session.
func Run(game *memory.Game, hist *history.Store, logger *log.Logger, cfg core.RuntimeConfig, width, height int) error {
	model := NewModel(game, hist, logger, cfg, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Card flips are mouse driven
	)

	_, err := p.Run()
	return err
}
