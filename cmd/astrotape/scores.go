package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/astrotape/internal/storage"
)

var (
	flagScoresLimit    int
	flagScoresVerdicts bool
	flagScoresClear    bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the local leaderboard",
	Long: `Display the top recorded runs. Every listed run has its full tape in
the database, so any entry can be re-verified with
'astrotape verify' after exporting it.

Examples:
  astrotape scores
  astrotape scores --limit 25
  astrotape scores --verdicts
  astrotape scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "How many runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresVerdicts, "verdicts", false, "Show recent verification verdicts instead of runs")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded runs")
}

func runScores(_ *cobra.Command, _ []string) {
	cfg := loadConfig()

	store, err := storage.Open(cfg.Database.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing runs: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("All runs cleared.")
		return
	}

	if flagScoresVerdicts {
		printVerdicts(store)
		return
	}

	runs, err := store.TopRuns(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Top Runs")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'astrotape play' to set the first score!")
		return
	}

	fmt.Printf("  %-4s  %-18s  %-8s  %-7s  %-9s  %s\n", "Rank", "Pilot", "Score", "Frames", "Tape", "Date")
	fmt.Printf("  %-4s  %-18s  %-8s  %-7s  %-9s  %s\n", "----", "-----", "-----", "------", "----", "----")
	for i, run := range runs {
		fmt.Printf("  %-4d  %-18s  %-8d  %-7d  %08x   %s\n",
			i+1, run.Claimant, run.Score, run.FrameCount, run.Checksum,
			run.CreatedAt.Format("2006-01-02 15:04"))
	}

	high, err := store.HighScore()
	if err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", high)
	}
}

func printVerdicts(store *storage.Store) {
	verdicts, err := store.RecentVerifications(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving verdicts: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent Verifications")
	fmt.Println()

	if len(verdicts) == 0 {
		fmt.Println("No verifications recorded yet.")
		return
	}

	for _, v := range verdicts {
		verdict := "VERIFIED"
		if !v.Verified {
			verdict = "REJECTED"
		}
		fmt.Printf("  %-8s  tape %08x  score %-8d  %s", verdict, v.Checksum, v.Score,
			v.CreatedAt.Format("2006-01-02 15:04"))
		if v.Reason != "" {
			fmt.Printf("  (%s)", v.Reason)
		}
		fmt.Println()
	}
}
