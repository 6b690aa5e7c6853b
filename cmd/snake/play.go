package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/tui"
	"github.com/vovakirdan/tui-snake/internal/registry"
)

var playCmd = &cobra.Command{
	Use:   "play [variant]",
	Short: "Play Snake",
	Long: `Start playing Snake in this terminal.

Without a variant a selector asks for the variant and difficulty.

Controls:
  Arrows/WASD/HJKL - Steer
  R                - Restart (after game over)
  Esc/B            - Back (after game over)
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Variants:
  snake          - Apples are worth 10 to 50 points
  snake_classic  - Every apple is worth 10 points

Difficulty options:
  easy   - 200ms per move, speeds up every 100 points
  normal - 150ms per move, speeds up every 100 points
  hard   - 100ms per move, speeds up every 100 points
  fixed  - Configured speed, never speeds up

Examples:
  snake play
  snake play snake_classic
  snake play snake --difficulty hard
  snake play --seed 42 --config ./my-snake.yaml`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(_ *cobra.Command, args []string) {
	cfg := runtimeConfig()
	applyGameFlags()

	var gameID string
	if len(args) == 1 {
		gameID = args[0]
		if !registry.Exists(gameID) {
			fmt.Fprintf(os.Stderr, "Error: unknown variant %q\n", gameID)
			fmt.Fprintln(os.Stderr, "Run 'snake list' to see available variants.")
			os.Exit(1)
		}
	} else {
		selection, err := tui.RunSnakeModeSelector(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		// User pressed back or quit
		if selection == nil {
			return
		}
		gameID = selection.GameID
		if flagDifficulty == "" {
			snake.SetDifficultyPreset(selection.Difficulty)
		}
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := tuiLogger()
	store, closeStore := openStore()

	runErr := tui.Run(game, store, cfg, logger.With("game", gameID))

	// Close before potential exit
	closeStore()
	closeLog()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
