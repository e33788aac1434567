package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pairgrid/pairgrid/internal/progress"
	"github.com/pairgrid/pairgrid/internal/rank"
)

var scoresCmd = &cobra.Command{
	Use:   "scores <level>",
	Short: "Show a level's leaderboards",
	Long: `Display the best-time and fewest-moves leaderboards for a level.

Examples:
  pairgrid scores 1
  pairgrid scores 10`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func runScores(cmd *cobra.Command, args []string) {
	level, err := strconv.Atoi(args[0])
	if err != nil || level < 1 || level > progress.NumLevels {
		fmt.Fprintf(os.Stderr, "Error: invalid level %q (expected 1..%d)\n", args[0], progress.NumLevels)
		os.Exit(1)
	}

	store, err := openProgress()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	lb, err := store.Leaderboard(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("High Scores - Level %d\n", level)
	fmt.Println()

	printTable("Best times", lb.BestTime, "s")
	fmt.Println()
	printTable("Fewest moves", lb.LeastMoves, "")
}

// printTable prints one ranking table with a unit suffix on the scores.
func printTable(title string, t rank.Table, unit string) {
	fmt.Printf("%s:\n", title)

	if len(t) == 0 {
		fmt.Println("  No scores recorded yet.")
		return
	}

	fmt.Printf("  %-4s  %-*s  %s\n", "Rank", rank.MaxNameLen, "Name", "Score")
	fmt.Printf("  %-4s  %-*s  %s\n", "----", rank.MaxNameLen, "----", "-----")
	for i, e := range t {
		fmt.Printf("  %-4d  %-*s  %d%s\n", i+1, rank.MaxNameLen, e.Name, e.Score, unit)
	}
}
