// Package web serves one shared snake game over WebSockets.
// Every connected browser sees the same board; any of them may steer.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
	"github.com/vovakirdan/tui-snake/internal/scheduler"
	"github.com/vovakirdan/tui-snake/internal/storage"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStore records finished games. store may be nil.
func WithStore(store storage.ScoreStore) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithGameID sets the game ID finished games are recorded under.
func WithGameID(id string) Option {
	return func(s *Server) {
		s.gameID = id
	}
}

// WithTimer replaces the scheduler's wall-clock timer.
func WithTimer(t scheduler.Timer) Option {
	return func(s *Server) {
		s.timer = t
	}
}

// Server bridges a scheduler.Runner and WebSocket clients.
type Server struct {
	runner   *scheduler.Runner
	hub      *Hub
	store    storage.ScoreStore
	logger   *log.Logger
	gameID   string
	timer    scheduler.Timer
	upgrader websocket.Upgrader

	// Closed once Run is broadcasting frames
	ready chan struct{}
}

// NewServer creates a server driving engine.
func NewServer(engine *snake.Engine, opts ...Option) *Server {
	s := &Server{
		logger: log.New(io.Discard),
		gameID: "snake",
		timer:  scheduler.RealTimer,
		ready:  make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers on any origin may join the shared game
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hub = NewHub(s.logger)
	s.runner = scheduler.New(engine,
		scheduler.WithLogger(s.logger),
		scheduler.WithTimer(s.timer),
		scheduler.WithGameOverHook(s.recordGame),
	)
	return s
}

// Runner exposes the scheduler, e.g. for tests.
func (s *Server) Runner() *scheduler.Runner {
	return s.runner
}

// Handler returns the HTTP routes: /ws, /state and /scores.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/scores", s.handleScores)
	return mux
}

// Run drives the game and broadcasts every frame until ctx is canceled.
// It must be called once; /ws clients wait for it.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		errc <- s.runner.Run(ctx)
	}()

	frames, unsubscribe, err := s.runner.Subscribe(16)
	if err != nil {
		return <-errc
	}
	defer unsubscribe()
	close(s.ready)

	for {
		select {
		case snap, ok := <-frames:
			if !ok {
				s.hub.CloseAll()
				return <-errc
			}
			s.hub.Broadcast(snapshotMessage(snap))
		case err := <-errc:
			s.hub.CloseAll()
			return err
		}
	}
}

// ListenAndServe runs the game and the HTTP server until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	gameErr := make(chan error, 1)
	go func() {
		gameErr <- s.Run(ctx)
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		//nolint:errcheck // Best-effort shutdown
		httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting web server", "address", addr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-gameErr; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	select {
	case <-s.ready:
	case <-r.Context().Done():
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger)
	snap, err := s.runner.Snapshot()
	if err != nil {
		ws.Close()
		return
	}

	s.hub.Add(conn)
	s.logger.Info("client connected", "client", conn.ID(), "remote", r.RemoteAddr, "clients", s.hub.Len())

	//nolint:errcheck // A fresh queue cannot be full
	conn.SendMessage(snapshotMessage(snap))

	go conn.WritePump()
	conn.ReadPump(s)

	s.hub.Remove(conn)
	s.logger.Info("client disconnected", "client", conn.ID(), "clients", s.hub.Len())
}

// HandleMessage applies a client's direction or restart request.
func (s *Server) HandleMessage(conn *Connection, msg ClientMessage) {
	switch msg.Type {
	case TypeDirection:
		dir, err := snake.ParseDirection(msg.Direction)
		if err != nil {
			//nolint:errcheck // Best-effort reply
			conn.SendMessage(errorMessage(err.Error()))
			return
		}
		//nolint:errcheck // Only fails once the runner has stopped
		s.runner.RequestDirection(dir)

	case TypeRestart:
		restarted, err := s.runner.RequestRestart()
		if err == nil && restarted {
			s.logger.Info("game restarted", "client", conn.ID())
		}

	default:
		//nolint:errcheck // Best-effort reply
		conn.SendMessage(errorMessage("unknown message type " + msg.Type))
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	snap, err := s.runner.Snapshot()
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, snap)
}

// scoreEntry is the JSON shape of a leaderboard row.
type scoreEntry struct {
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	Length    int       `json:"length"`
	EndReason string    `json:"end_reason"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, []scoreEntry{})
		return
	}
	records, err := s.store.TopScores(s.gameID, 10)
	if err != nil {
		s.logger.Error("cannot load scores", "error", err)
		http.Error(w, "cannot load scores", http.StatusInternalServerError)
		return
	}

	entries := make([]scoreEntry, len(records))
	for i, rec := range records {
		entries[i] = scoreEntry{
			Player:    rec.Player,
			Score:     rec.Score,
			Length:    rec.Length,
			EndReason: rec.EndReason,
			CreatedAt: rec.CreatedAt,
		}
	}
	writeJSON(w, entries)
}

// recordGame runs on the scheduler goroutine when a game ends.
func (s *Server) recordGame(snap snake.Snapshot) {
	if s.store == nil || snap.Score <= 0 {
		return
	}
	_, err := s.store.SaveScore(storage.ScoreRecord{
		GameID:    s.gameID,
		Player:    "web",
		Score:     snap.Score,
		Length:    snap.Length,
		EndReason: string(snap.Reason),
	})
	if err != nil {
		s.logger.Warn("could not save score", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
