// snake is a terminal Snake game with SSH and WebSocket front ends.
//
// Usage:
//
//	snake play [variant]     - Play Snake in this terminal
//	snake menu               - Pick a variant or the scoreboard interactively
//	snake serve              - Start SSH server for remote play
//	snake web                - Serve one shared game over WebSockets
//	snake scores [variant]   - Show high scores
//	snake list               - List available variants
//	snake config             - Print the effective configuration
//
// Global flags:
//
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Scores database path or postgres:// URL (default: ~/.arcade/scores.db)
//	--config <path>       - Custom snake.yaml
//	--difficulty <preset> - easy, normal, hard or fixed
//	--log-level <level>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-snake/internal/core"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

var (
	// Global flags
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snake",
	Short: "Snake - the classic game in your terminal",
	Long: `Snake is a terminal version of the classic game: steer the snake,
eat apples, grow longer and don't hit the walls or yourself.

Available commands:
  play     - Play in this terminal
  menu     - Interactive variant picker
  serve    - Start SSH server for remote play
  web      - Serve a shared game over WebSockets
  scores   - View high scores
  list     - Show available variants
  config   - Print the effective configuration

Examples:
  snake play
  snake play snake_classic --difficulty hard
  snake serve --ssh :2222
  snake web --addr :8080 --db postgres://snake@localhost/snake
  snake scores`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Scores database: SQLite path or postgres:// URL")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom snake config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write game logs to this file (play and menu only)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(configCmd)
}

// newLogger builds a stderr logger at --log-level.
func newLogger(prefix string) *log.Logger {
	return newLoggerTo(os.Stderr, prefix)
}

func newLoggerTo(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// tuiLogger logs to --log-file, or nowhere, so the terminal UI owns the screen.
// The returned function closes the file.
func tuiLogger() (*log.Logger, func()) {
	if flagLogFile == "" {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return log.New(io.Discard), func() {}
	}
	return newLoggerTo(f, "snake"), func() { f.Close() }
}

// applyGameFlags hands --config and --difficulty to games created afterwards.
func applyGameFlags() {
	snake.SetConfigPath(flagConfig)
	snake.SetDifficultyPreset(flagDifficulty)
}

// runtimeConfig sizes the game to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW: width,
		ScreenH: height,
		Seed:    flagSeed,
		Player:  os.Getenv("USER"),
	}
}

// openStore opens --db. Games still work without it, so failures only warn.
// The returned function closes the store.
func openStore() (storage.ScoreStore, func()) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil, func() {}
	}
	return store, func() { store.Close() }
}
