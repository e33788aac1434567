package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/memory"
	"github.com/pairgrid/pairgrid/internal/platform/tui"
)

var flagConfig string

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play from your current level",
	Long: `Start playing. Without an argument the game resumes at your current
level; with one it starts at that level, which must be unlocked.

Controls:
  Mouse        - Flip a card
  Arrows/WASD  - Move the card cursor
  Space        - Flip the card under the cursor
  Enter        - Continue after a level
  P            - Pause
  R            - Retry after a failure
  Esc          - Abandon the attempt
  Q/Ctrl+C     - Quit

Examples:
  pairgrid play
  pairgrid play 3
  pairgrid play --config ./my-levels.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
}

func runPlay(cmd *cobra.Command, args []string) {
	// Load gameplay config
	gameCfg, err := config.LoadGame(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Open progress store
	store, err := openProgress()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Optional start level
	if len(args) == 1 {
		level, convErr := strconv.Atoi(args[0])
		if convErr != nil || level < 1 || level > gameCfg.NumLevels() {
			fmt.Fprintf(os.Stderr, "Error: invalid level %q (expected 1..%d)\n", args[0], gameCfg.NumLevels())
			os.Exit(1)
		}
		if level > store.Unlocked() {
			fmt.Fprintf(os.Stderr, "Error: level %d is locked (unlocked through %d)\n", level, store.Unlocked())
			fmt.Fprintln(os.Stderr, "Clear the previous levels first, or use the menu's keypad.")
			os.Exit(1)
		}
		memory.SetStartLevel(level)
	}

	// Open attempt history
	hist := openHistory()

	// Build the game from the player's settings
	game := memory.New(gameCfg, store, gameOptions(store.Settings()))

	width, height := terminalSize()
	logger := newLogger()

	// Run the game
	runErr := tui.Run(game, hist, logger, runtimeConfig(gameCfg), width, height)

	// Close history before potential exit
	if hist != nil {
		hist.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
