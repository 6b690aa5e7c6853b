package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-snake/internal/config"
	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/platform/web"
)

var (
	flagWebAddr string
	flagClassic bool
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Serve one shared game over WebSockets",
	Long: `Run a single real-time game and stream it to WebSocket clients.

Every client connected to /ws receives a JSON snapshot after each tick and
may steer with {"type":"direction","direction":"up"} or start a new game
after game over with {"type":"restart"}.

Endpoints:
  /ws      - WebSocket feed
  /state   - Current snapshot as JSON
  /scores  - Top 10 scores as JSON

Examples:
  snake web
  snake web --addr :9000 --difficulty fixed
  snake web --classic --db postgres://snake@localhost/snake?sslmode=disable`,
	Run: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().BoolVar(&flagClassic, "classic", false, "Every apple is worth the fixed value")
}

func runWeb(_ *cobra.Command, _ []string) {
	logger := newLogger("snake-web")

	cfg, source, err := config.LoadSnake(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if preset, ok := config.ParsePreset(flagDifficulty); ok {
		config.ApplySnakePreset(&cfg, preset)
	}
	gameID := "snake"
	if flagClassic {
		cfg.Apples.Variable = false
		gameID = "snake_classic"
	}
	logger.Info("config loaded", "source", source, "game", gameID)

	settings, err := snake.SettingsFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine, err := snake.NewEngine(settings, rand.New(rand.NewSource(seed)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, closeStore := openStore()
	defer closeStore()

	server := web.NewServer(engine,
		web.WithLogger(logger),
		web.WithStore(store),
		web.WithGameID(gameID),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving snake on %s (ws://localhost%s/ws)\n", flagWebAddr, flagWebAddr)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(ctx, flagWebAddr); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		closeStore()
		os.Exit(1)
	}
}
