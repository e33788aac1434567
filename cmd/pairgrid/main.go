// pairgrid is a memory matching game for the terminal: flip cards, find the
// pairs, and beat the clock across a ten level ladder.
//
// Usage:
//
//	pairgrid play [level]    - Play from your current level or a specific one
//	pairgrid menu            - Interactive menu: play, levels, scores, settings
//	pairgrid levels          - Show the level ladder and your progress
//	pairgrid scores <level>  - Show a level's leaderboards
//	pairgrid stats           - Show attempt history
//	pairgrid serve           - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible boards
//	--save <path>   - Set save file path (default: ~/.pairgrid/save.json)
//	--db <path>     - Set history database path (default: ~/.pairgrid/history.db)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/core"
	"github.com/pairgrid/pairgrid/internal/history"
	"github.com/pairgrid/pairgrid/internal/memory"
	"github.com/pairgrid/pairgrid/internal/progress"
	"github.com/pairgrid/pairgrid/internal/themes"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagSavePath string
	flagDBPath   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pairgrid",
	Short: "Pairgrid - a memory matching game in your terminal",
	Long: `Pairgrid is a terminal memory game. Cards lie face down on a grid;
flip two at a time to find matching pairs before the timer runs out.
Clear a level to unlock the next one and chase the per-level leaderboards.

Available commands:
  play     - Play from your current level (or a specific one)
  menu     - Interactive menu with level select, scores, and settings
  levels   - Show the level ladder and your progress
  scores   - View a level's leaderboards
  stats    - View attempt history
  serve    - Start SSH server for remote play

Examples:
  pairgrid play
  pairgrid play 3
  pairgrid menu
  pairgrid scores 3
  pairgrid serve --ssh :2222`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagSavePath, "save", "~/.pairgrid/save.json", "Path to save file")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.pairgrid/history.db", "Path to history database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
}

// openProgress opens and loads the save file. A save that fails validation
// is discarded with a warning; the game starts fresh either way.
func openProgress() (*progress.Store, error) {
	store, err := progress.NewStore(flagSavePath)
	if err != nil {
		return nil, err
	}
	if err := store.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: saved progress discarded: %v\n", err)
	}
	return store, nil
}

// terminalSize returns the current terminal dimensions, with defaults when
// stdout is not a terminal.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

// newLogger opens the session log file. The terminal is owned by the UI, so
// warnings go to ~/.pairgrid/pairgrid.log; if the file cannot be opened the
// logger falls back to stderr.
func newLogger() *log.Logger {
	out := os.Stderr
	if home, err := os.UserHomeDir(); err == nil {
		dir := filepath.Join(home, ".pairgrid")
		if err := os.MkdirAll(dir, 0o755); err == nil {
			path := filepath.Join(dir, "pairgrid.log")
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				out = f
			}
		}
	}
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "pairgrid",
	})
}

// gameOptions builds the display options from player settings.
func gameOptions(st progress.Settings) memory.Options {
	return memory.Options{
		Theme:        themes.GetOrDefault(st.Theme),
		TimerEnabled: st.TimerEnabled,
		WordColor:    core.ColorByName(st.WordColor),
	}
}

// runtimeConfig assembles the game's runtime config from the layout and the
// global flags.
func runtimeConfig(gameCfg config.GameConfig) core.RuntimeConfig {
	return core.RuntimeConfig{
		PixelW:   gameCfg.Layout.VirtualW,
		PixelH:   gameCfg.Layout.VirtualH,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openHistory opens the attempt database, or returns nil with a warning so
// the game still runs without it.
func openHistory() *history.Store {
	hist, err := history.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open history database: %v\n", err)
		return nil
	}
	return hist
}
