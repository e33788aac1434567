package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pairgrid/pairgrid/internal/config"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Show the level ladder and your progress",
	Long:  `Lists every level with its grid size, time limit, and lock status.`,
	Run:   runLevels,
}

func runLevels(cmd *cobra.Command, args []string) {
	gameCfg, err := config.LoadGame("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := openProgress()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	unlocked := store.Unlocked()
	current := store.Current()

	fmt.Println("Level ladder:")
	fmt.Println()
	fmt.Printf("  %-5s  %-6s  %-5s  %s\n", "Level", "Grid", "Time", "Status")
	fmt.Printf("  %-5s  %-6s  %-5s  %s\n", "-----", "----", "----", "------")

	for i, spec := range gameCfg.Levels {
		level := i + 1
		status := "locked"
		if level <= unlocked {
			status = "unlocked"
		}
		if level == current {
			status += " (current)"
		}
		grid := fmt.Sprintf("%dx%d", spec.Rows, spec.Cols)
		fmt.Printf("  %-5d  %-6s  %3ds  %s\n", level, grid, spec.TimeLimit, status)
	}

	fmt.Println()
	fmt.Printf("Unlocked through level %d of %d.\n", unlocked, gameCfg.NumLevels())
	fmt.Println("Run 'pairgrid play' to continue.")
}
