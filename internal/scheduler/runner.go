// Package scheduler drives a snake engine in real time outside Bubble Tea.
// A single goroutine owns the engine; ticks, direction changes, restarts and
// reads are all serialized through it, so callers on other goroutines never
// race the simulation.
package scheduler

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-snake/internal/games/snake"
)

// ErrStopped is returned by requests made after Run has returned.
var ErrStopped = errors.New("scheduler: runner stopped")

// Timer arms a one-shot timer. It returns the channel that fires after d and
// a function that stops the timer.
type Timer func(d time.Duration) (<-chan time.Time, func() bool)

// RealTimer is the wall-clock Timer.
func RealTimer(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger for game lifecycle events.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithTimer replaces the wall-clock timer, e.g. with a manual one in tests.
func WithTimer(t Timer) Option {
	return func(r *Runner) {
		r.timer = t
	}
}

// WithGameOverHook registers a callback invoked on the runner goroutine
// with the final snapshot of every finished game.
func WithGameOverHook(fn func(snake.Snapshot)) Option {
	return func(r *Runner) {
		r.onGameOver = fn
	}
}

// Runner schedules engine ticks at the interval each tick returns.
type Runner struct {
	engine     *snake.Engine
	logger     *log.Logger
	timer      Timer
	onGameOver func(snake.Snapshot)

	requests chan request
	done     chan struct{}

	// Owned by the Run goroutine
	subs   map[int]chan snake.Snapshot
	nextID int
}

// request runs on the Run goroutine. It returns true when the tick timer
// must be re-armed (the engine was restarted).
type request func() bool

// New creates a runner for engine. The engine must not be used directly
// once Run has started.
func New(engine *snake.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:   engine,
		logger:   log.New(io.Discard),
		timer:    RealTimer,
		requests: make(chan request),
		done:     make(chan struct{}),
		subs:     make(map[int]chan snake.Snapshot),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives the game until ctx is canceled. It must be called once.
// After game over no tick is scheduled until a restart request arrives.
func (r *Runner) Run(ctx context.Context) error {
	defer close(r.done)
	defer r.closeSubscribers()

	var (
		tick <-chan time.Time
		stop func() bool
	)
	arm := func(d time.Duration) {
		if stop != nil {
			stop()
		}
		tick, stop = r.timer(d)
	}
	disarm := func() {
		if stop != nil {
			stop()
		}
		tick, stop = nil, nil
	}

	if r.engine.Running() {
		arm(r.engine.Interval())
	}
	r.logger.Info("game started", "interval", r.engine.Interval())

	for {
		select {
		case <-ctx.Done():
			disarm()
			return ctx.Err()

		case req := <-r.requests:
			if req() {
				arm(r.engine.Interval())
				r.logger.Info("game restarted")
				r.broadcast(r.engine.Snapshot())
			}

		case <-tick:
			out := r.engine.Tick()
			snap := r.engine.Snapshot()

			// Arm before publishing so subscribers never observe an unscheduled game
			if out.Continue {
				tick, stop = r.timer(out.Interval)
			} else {
				tick, stop = nil, nil
			}
			r.broadcast(snap)

			if out.SpedUp {
				r.logger.Debug("speed up", "score", snap.Score, "interval", out.Interval)
			}
			if out.Continue {
				continue
			}

			r.logger.Info("game over",
				"reason", out.Reason,
				"score", snap.Score,
				"length", snap.Length,
			)
			if r.onGameOver != nil {
				r.onGameOver(snap)
			}
		}
	}
}

// do hands req to the Run goroutine and waits until it is accepted.
func (r *Runner) do(req request) error {
	select {
	case r.requests <- req:
		return nil
	case <-r.done:
		return ErrStopped
	}
}

// RequestDirection buffers a direction change for the next tick. Returns
// whether the engine accepted it.
func (r *Runner) RequestDirection(d snake.Direction) (bool, error) {
	result := make(chan bool, 1)
	err := r.do(func() bool {
		result <- r.engine.ChangeDirection(d)
		return false
	})
	if err != nil {
		return false, err
	}
	return <-result, nil
}

// RequestRestart starts a new game if the current one is over. Returns
// whether a restart happened.
func (r *Runner) RequestRestart() (bool, error) {
	result := make(chan bool, 1)
	err := r.do(func() bool {
		restarted, err := r.engine.Restart()
		if err != nil {
			r.logger.Error("restart failed", "error", err)
		}
		result <- restarted
		return restarted
	})
	if err != nil {
		return false, err
	}
	return <-result, nil
}

// Snapshot returns the current game snapshot.
func (r *Runner) Snapshot() (snake.Snapshot, error) {
	result := make(chan snake.Snapshot, 1)
	err := r.do(func() bool {
		result <- r.engine.Snapshot()
		return false
	})
	if err != nil {
		return snake.Snapshot{}, err
	}
	return <-result, nil
}

// Subscribe returns a channel receiving a snapshot after every tick and
// restart. Slow subscribers miss frames rather than stall the game. The
// returned function unsubscribes; the channel is closed when Run returns.
func (r *Runner) Subscribe(buffer int) (<-chan snake.Snapshot, func(), error) {
	ch := make(chan snake.Snapshot, max(buffer, 1))
	ids := make(chan int, 1)
	err := r.do(func() bool {
		id := r.nextID
		r.nextID++
		r.subs[id] = ch
		ids <- id
		return false
	})
	if err != nil {
		return nil, nil, err
	}
	id := <-ids

	cancel := func() {
		//nolint:errcheck // Nothing to unsubscribe from once stopped
		r.do(func() bool {
			if sub, ok := r.subs[id]; ok {
				delete(r.subs, id)
				close(sub)
			}
			return false
		})
	}
	return ch, cancel, nil
}

// Done is closed when Run returns.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) broadcast(snap snake.Snapshot) {
	for id, ch := range r.subs {
		select {
		case ch <- snap:
		default:
			r.logger.Debug("subscriber lagging, frame dropped", "subscriber", id, "tick", snap.Tick)
		}
	}
}

func (r *Runner) closeSubscribers() {
	for id, ch := range r.subs {
		close(ch)
		delete(r.subs, id)
	}
}
