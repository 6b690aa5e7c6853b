package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/registry"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var scoresCmd = &cobra.Command{
	Use:   "scores [variant]",
	Short: "Show high scores",
	Long: `Display the top 10 scores for a variant (default: snake).
With --all every recorded run is listed.

Examples:
  snake scores
  snake scores snake_classic --all
  snake scores --db postgres://snake@localhost/snake?sslmode=disable`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

var flagAllScores bool

func init() {
	scoresCmd.Flags().BoolVar(&flagAllScores, "all", false, "List every recorded run instead of the top 10")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := "snake"
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'snake list' to see available variants.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}
	title := game.Title()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}

	var scores []storage.ScoreRecord
	if flagAllScores {
		scores, err = store.AllScores(gameID)
	} else {
		scores, err = store.TopScores(gameID, 10)
	}
	if err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'snake play %s' to set the first high score!\n", gameID)
		return
	}

	fmt.Printf("  %-4s  %-7s  %-6s  %-12s  %-10s  %s\n", "Rank", "Score", "Length", "Player", "End", "Date")
	fmt.Printf("  %-4s  %-7s  %-6s  %-12s  %-10s  %s\n", "----", "-----", "------", "------", "---", "----")

	for i, entry := range scores {
		player := entry.Player
		if player == "" {
			player = "-"
		}
		fmt.Printf("  %-4d  %-7d  %-6d  %-12s  %-10s  %s\n",
			i+1, entry.Score, entry.Length, player, entry.EndReason,
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.GetGameStats(gameID); err == nil && stats != nil {
		fmt.Printf("Best: %d  |  Games: %d  |  Average: %.1f  |  Longest snake: %d\n",
			stats.HighScore, stats.GamesCount, stats.AvgScore, stats.BestLength)
	}
}
