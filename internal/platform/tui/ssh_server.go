package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/core"
	"github.com/pairgrid/pairgrid/internal/history"
	"github.com/pairgrid/pairgrid/internal/memory"
	"github.com/pairgrid/pairgrid/internal/progress"
	"github.com/pairgrid/pairgrid/internal/themes"
)

// SSHServerConfig holds configuration for the SSH server.
// Environment variables override the defaults; command-line flags override
// both.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string `env:"PAIRGRID_SSH_ADDRESS"`

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at <DataDir>/host_key.
	HostKeyPath string `env:"PAIRGRID_SSH_HOST_KEY"`

	// DataDir holds the per-user save files and the host key.
	DataDir string `env:"PAIRGRID_DATA_DIR"`

	// DBPath is the path to the attempt history database, shared by all
	// connected players.
	DBPath string `env:"PAIRGRID_HISTORY_DB"`

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration `env:"PAIRGRID_SSH_IDLE_TIMEOUT"`
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DataDir:     "~/.pairgrid",
		DBPath:      "~/.pairgrid/history.db",
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for remote play. Every connection gets
// its own session flow; progress is kept per SSH user under DataDir.
type SSHServer struct {
	config  SSHServerConfig
	gameCfg config.GameConfig
	server  *ssh.Server
	hist    *history.Store
	logger  *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pairgrid-ssh",
	})

	gameCfg, err := config.LoadGame("")
	if err != nil {
		return nil, fmt.Errorf("cannot load game config: %w", err)
	}

	// Open the shared attempt history
	hist, err := history.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		// Continue without history
	}

	srv := &SSHServer{
		config:  cfg,
		gameCfg: gameCfg,
		hist:    hist,
		logger:  logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(cfg.DataDir, "host_key")
	}
	if strings.HasPrefix(hostKeyPath, "~") {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, hostKeyPath[1:])
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if hist != nil {
			hist.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	// Each SSH user plays against their own save file.
	user := safeUser(sshSession.User())
	store, err := progress.NewStore(filepath.Join(s.config.DataDir, "ssh", user+".json"))
	if err != nil {
		s.logger.Error("cannot create progress store", "user", user, "error", err)
		return nil, nil
	}
	if loadErr := store.Load(); loadErr != nil {
		s.logger.Warn("saved progress discarded", "user", user, "error", loadErr)
	}

	model := NewSessionModel(store, s.hist, s.gameCfg, s.logger, pty.Window.Width, pty.Window.Height)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
}

// safeUser reduces an SSH username to a filename-safe form. Anything else
// would let a username escape the saves directory.
func safeUser(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "guest"
	}
	return b.String()
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.hist != nil {
		s.hist.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// sessionScreen identifies the active view of an SSH session.
type sessionScreen int

const (
	screenMenu sessionScreen = iota
	screenLevels
	screenScores
	screenSettings
	screenGame
)

// SessionModel manages the full session flow for one SSH connection:
// menu, level picker, scores, settings, and the game itself live inside a
// single Bubble Tea program.
type SessionModel struct {
	store   *progress.Store
	hist    *history.Store
	gameCfg config.GameConfig
	logger  *log.Logger
	width   int
	height  int

	screen   sessionScreen
	menu     MenuModel
	levels   LevelsModel
	scores   ScoreboardModel
	settings SettingsModel
	game     *Model

	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *progress.Store, hist *history.Store, gameCfg config.GameConfig, logger *log.Logger, width, height int) SessionModel {
	return SessionModel{
		store:   store,
		hist:    hist,
		gameCfg: gameCfg,
		logger:  logger,
		width:   width,
		height:  height,
		screen:  screenMenu,
		menu:    NewMenuModel(store, width, height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Track window size globally so freshly created screens start at the
	// right dimensions.
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
	}

	switch m.screen {
	case screenGame:
		return m.updateGame(msg)
	case screenLevels:
		return m.updateLevels(msg)
	case screenScores:
		return m.updateScores(msg)
	case screenSettings:
		return m.updateSettings(msg)
	default:
		return m.updateMenu(msg)
	}
}

// toMenu returns to a fresh main menu.
func (m *SessionModel) toMenu() tea.Cmd {
	m.screen = screenMenu
	m.menu = NewMenuModel(m.store, m.width, m.height)
	return m.menu.Init()
}

// newGame builds a game model from the player's current settings.
func (m *SessionModel) newGame() *Model {
	st := m.store.Settings()
	opts := memory.Options{
		Theme:        themes.GetOrDefault(st.Theme),
		TimerEnabled: st.TimerEnabled,
		WordColor:    core.ColorByName(st.WordColor),
	}
	game := memory.New(m.gameCfg, m.store, opts)

	rt := core.RuntimeConfig{
		PixelW:   m.gameCfg.Layout.VirtualW,
		PixelH:   m.gameCfg.Layout.VirtualH,
		TickRate: 60,
	}

	gm := NewModel(game, m.hist, m.logger, rt, m.width, m.height)
	return &gm
}

// updateMenu handles updates when the main menu is active.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// The menu quits its own program on selection; inside the session that
	// Quit is dropped and replaced by the chosen screen's Init.
	switch m.menu.Choice() {
	case MenuChoicePlay:
		m.screen = screenGame
		m.game = m.newGame()
		return m, m.game.Init()

	case MenuChoiceNewRun:
		memory.SetStartLevel(1)
		m.screen = screenGame
		m.game = m.newGame()
		return m, m.game.Init()

	case MenuChoiceLevels:
		m.screen = screenLevels
		m.levels = NewLevelsModel(m.store, m.gameCfg, m.width, m.height)
		return m, m.levels.Init()

	case MenuChoiceScores:
		m.screen = screenScores
		m.scores = NewScoreboardModel(m.store, m.width, m.height)
		return m, m.scores.Init()

	case MenuChoiceSettings:
		m.screen = screenSettings
		m.settings = NewSettingsModel(m.store, m.width, m.height)
		return m, m.settings.Init()
	}

	return m, cmd
}

// updateLevels handles updates when the level picker is active.
func (m SessionModel) updateLevels(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLevels, cmd := m.levels.Update(msg)
	if levelsModel, ok := newLevels.(LevelsModel); ok {
		m.levels = levelsModel
	}

	if m.levels.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.levels.WantsBack() {
		return m, m.toMenu()
	}
	if sel := m.levels.Selected(); sel != nil {
		memory.SetStartLevel(sel.Level)
		m.screen = screenGame
		m.game = m.newGame()
		return m, m.game.Init()
	}

	return m, cmd
}

// updateScores handles updates when the scoreboard is active.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	if scoresModel, ok := newScores.(ScoreboardModel); ok {
		m.scores = scoresModel
	}

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m, m.toMenu()
	}

	return m, cmd
}

// updateSettings handles updates when the settings screen is active.
func (m SessionModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	newSettings, cmd := m.settings.Update(msg)
	if settingsModel, ok := newSettings.(SettingsModel); ok {
		m.settings = settingsModel
	}

	if m.settings.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.settings.WantsBack() {
		return m, m.toMenu()
	}

	return m, cmd
}

// updateGame handles updates when the game is active.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if gameModel, ok := newModel.(Model); ok {
		m.game = &gameModel
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.Done() {
		// Session went idle; drop the game's Quit and return to the menu.
		m.game = nil
		return m, m.toMenu()
	}

	return m, cmd
}

// View renders the active screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenGame:
		if m.game != nil {
			return m.game.View()
		}
		return ""
	case screenLevels:
		return m.levels.View()
	case screenScores:
		return m.scores.View()
	case screenSettings:
		return m.settings.View()
	default:
		return m.menu.View()
	}
}
