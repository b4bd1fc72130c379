package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snuake/internal/storage"
)

var (
	flagLimit   int
	flagClear   bool
	flagSession string
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the leaderboard",
	Long: `Display the best recorded scores. A score is saved whenever a
session leaves the arena or the arena shuts down.

Examples:
  snuake scores
  snuake scores --limit 20
  snuake scores --session 2Bq0l4xS1tLZfY3kWJd6Rk1jvBf
  snuake scores --clear`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every recorded score")
	scoresCmd.Flags().StringVar(&flagSession, "session", "", "Only show scores for this session id")
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if flagClear {
		if err := store.ClearScores(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Scores cleared.")
		return nil
	}

	var scores []storage.ScoreEntry
	if flagSession != "" {
		scores, err = store.SessionScores(flagSession)
	} else {
		scores, err = store.TopScores(flagLimit)
	}
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Fprintln(out, "High Scores - Snuake")
	fmt.Fprintln(out)

	if len(scores) == 0 {
		fmt.Fprintln(out, "No scores recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'snuake sim' to play a round.")
		return nil
	}

	// Print header
	fmt.Fprintf(out, "  %-4s  %-8s  %-27s  %-5s  %s\n", "Rank", "Score", "Session", "Snake", "Date")
	fmt.Fprintf(out, "  %-4s  %-8s  %-27s  %-5s  %s\n", "----", "-----", "-------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Fprintf(out, "  %-4d  %-8d  %-27s  %-5d  %s\n", i+1, entry.Score, entry.SessionID, entry.SnakeID, dateStr)
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Best: %d  Games: %d  Sessions: %d  Average: %.1f\n",
			stats.HighScore, stats.Count, stats.Sessions, stats.AvgScore)
	}
	return nil
}
