package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagRecent int
	flagReset  bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show attempt history",
	Long: `Display per-level attempt statistics and the most recent attempts
from the local history database.

Examples:
  pairgrid stats
  pairgrid stats --recent 20
  pairgrid stats --reset`,
	Run: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagRecent, "recent", 10, "Number of recent attempts to show")
	statsCmd.Flags().BoolVar(&flagReset, "reset", false, "Clear all recorded attempts")
}

func runStats(cmd *cobra.Command, args []string) {
	hist := openHistory()
	if hist == nil {
		os.Exit(1)
	}
	defer hist.Close()

	if flagReset {
		if err := hist.Clear(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Attempt history cleared.")
		return
	}

	all, err := hist.AllStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(all) == 0 {
		fmt.Println("No attempts recorded yet.")
		fmt.Println()
		fmt.Println("Run 'pairgrid play' to record your first attempt.")
		return
	}

	fmt.Println("Per-level statistics:")
	fmt.Println()
	fmt.Printf("  %-5s  %-8s  %-9s  %-9s  %-6s  %s\n", "Level", "Attempts", "Completed", "Best Time", "Moves", "Last Played")
	fmt.Printf("  %-5s  %-8s  %-9s  %-9s  %-6s  %s\n", "-----", "--------", "---------", "---------", "-----", "-----------")

	for _, s := range all {
		best := "-"
		if s.BestTime > 0 {
			best = fmt.Sprintf("%ds", s.BestTime)
		}
		moves := "-"
		if s.FewestMoves > 0 {
			moves = fmt.Sprintf("%d", s.FewestMoves)
		}
		last := "-"
		if !s.LastPlayed.IsZero() {
			last = s.LastPlayed.Format("2006-01-02 15:04")
		}
		fmt.Printf("  %-5d  %-8d  %-9d  %-9s  %-6s  %s\n", s.Level, s.Attempts, s.Completions, best, moves, last)
	}

	recent, err := hist.RecentAttempts(flagRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(recent) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Recent attempts:")
	fmt.Println()
	for _, a := range recent {
		fmt.Printf("  %s  level %-2d  %-9s  %3ds  %d moves\n",
			a.CreatedAt.Format("2006-01-02 15:04"), a.Level, a.Outcome, a.TimeTaken, a.Moves)
	}
}
