package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pairgrid/pairgrid/internal/config"
	"github.com/pairgrid/pairgrid/internal/history"
	"github.com/pairgrid/pairgrid/internal/memory"
	"github.com/pairgrid/pairgrid/internal/platform/tui"
	"github.com/pairgrid/pairgrid/internal/progress"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the interactive menu",
	Long: `Start the game in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select. After a game ends you
return to the menu. The level picker's keypad accepts unlock codes.

Examples:
  pairgrid menu
  pairgrid menu --fps 30
  pairgrid menu --save ./save.json`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
}

func runMenu(_ *cobra.Command, _ []string) {
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

	// Open attempt history
	hist := openHistory()
	logger := newLogger()

	// Menu loop
	for {
		width, height := terminalSize()

		result, err := tui.RunMenu(store, width, height)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}
		if result.Quit {
			break
		}

		switch result.Choice {
		case tui.MenuChoicePlay:
			runGame(gameCfg, store, hist, logger)

		case tui.MenuChoiceNewRun:
			memory.SetStartLevel(1)
			runGame(gameCfg, store, hist, logger)

		case tui.MenuChoiceLevels:
			selection, selErr := tui.RunLevelSelector(store, gameCfg, width, height)
			if selErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
				continue
			}
			// User pressed back or quit
			if selection == nil {
				continue
			}
			memory.SetStartLevel(selection.Level)
			runGame(gameCfg, store, hist, logger)

		case tui.MenuChoiceScores:
			goBack, sbErr := tui.RunScoreboard(store, width, height)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if !goBack {
				// User quit from the scoreboard
				if hist != nil {
					hist.Close()
				}
				return
			}

		case tui.MenuChoiceSettings:
			if _, setErr := tui.RunSettings(store, width, height); setErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", setErr)
			}
		}

		// Loop back to menu
	}

	// Cleanup
	if hist != nil {
		hist.Close()
	}
}

// runGame runs one game session and returns when the player leaves it.
func runGame(gameCfg config.GameConfig, store *progress.Store, hist *history.Store, logger *log.Logger) {
	game := memory.New(gameCfg, store, gameOptions(store.Settings()))
	width, height := terminalSize()

	if err := tui.Run(game, hist, logger, runtimeConfig(gameCfg), width, height); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
	}
}
