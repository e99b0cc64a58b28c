package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/poppy/internal/config"
	"github.com/vovakirdan/poppy/internal/storage"
)

var flagScoresDuration int

var scoresCmd = &cobra.Command{
	Use:   "scores <mode>",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 high scores for the specified mode.

Timed modes keep a table per round length; --duration picks one and
defaults to the mode's configured length.

Examples:
  poppy scores classic
  poppy scores classic --duration 60
  poppy scores copy`,
	Args: cobra.ExactArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresDuration, "duration", 0, "Round length in seconds")
}

func runScores(_ *cobra.Command, args []string) {
	modeID := args[0]

	modes, err := config.Load(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := modes.Mode(modeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", modeID)
		fmt.Fprintln(os.Stderr, "Run 'poppy list' to see available modes.")
		os.Exit(1)
	}

	duration := 0
	if cfg.Timed() {
		duration = cfg.Duration
		if flagScoresDuration > 0 {
			duration = flagScoresDuration
		}
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	scores, err := store.TopScores(modeID, duration, 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		return
	}

	if duration > 0 {
		fmt.Printf("High Scores - %s (%ds)\n", cfg.Title, duration)
	} else {
		fmt.Printf("High Scores - %s\n", cfg.Title)
	}
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'poppy play %s' to set the first high score!\n", modeID)
		return
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %s\n", "Rank", "Player", "Score", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %s\n", "----", "------", "-----", "----")

	for i, entry := range scores {
		dateStr := entry.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-4d  %-12s  %-8d  %s\n", i+1, entry.Player, entry.Score, dateStr)
	}

	fmt.Println()
	if highScore, err := store.HighScore(modeID, duration); err == nil {
		fmt.Printf("Best: %d\n", highScore)
	}
}
