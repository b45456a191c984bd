package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/log"
)

var ErrRunnerClosed = errors.New("session is closed")

// Update is pushed to observers after anything changes.
type Update struct {
	State         *State
	Events        []log.GameEvent // events since the previous delivered update
	TimerProgress float64
}

// RunnerOptions tunes a Runner. Zero values use the wall clock, the default
// tick interval and no extra log sinks.
type RunnerOptions struct {
	Clock        func() time.Time
	TickInterval time.Duration
	Sinks        []log.EventLogger
}

// Runner owns one Engine on its own goroutine and serializes player
// intents with clock ticks.
type Runner struct {
	reqs    chan request
	updates chan Update
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once

	clock    func() time.Time
	interval time.Duration
	logger   *log.MultiLogger
	lastSeq  int
}

type request struct {
	fn    func(*Engine, time.Time) error
	reply chan error
}

// StartRunner creates the engine and starts its loop. The loop stops when
// ctx is cancelled, Close is called, or the player returns home.
func StartRunner(ctx context.Context, topic *content.Topic, cfg Config, opts RunnerOptions) (*Runner, error) {
	r := &Runner{
		reqs:     make(chan request),
		updates:  make(chan Update, 16),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		clock:    opts.Clock,
		interval: opts.TickInterval,
		logger:   log.NewMultiLogger(opts.Sinks...),
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	if r.interval <= 0 {
		r.interval = TickInterval
	}

	eng, err := NewEngine(topic, cfg, r.logger, r.clock())
	if err != nil {
		return nil, err
	}
	r.publish(eng, r.clock(), true)
	go r.loop(ctx, eng)
	return r, nil
}

// Updates delivers state changes. It is closed when the runner stops.
func (r *Runner) Updates() <-chan Update {
	return r.updates
}

// Done is closed when the runner has stopped.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}

func (r *Runner) SelectCard(ctx context.Context, cardID string) error {
	return r.do(ctx, func(e *Engine, now time.Time) error {
		return e.SelectCard(cardID, now)
	})
}

func (r *Runner) Undo(ctx context.Context) error {
	return r.do(ctx, func(e *Engine, now time.Time) error {
		return e.Undo(now)
	})
}

// Snapshot returns the current state and timer progress.
func (r *Runner) Snapshot(ctx context.Context) (*State, float64, error) {
	var st *State
	var progress float64
	err := r.do(ctx, func(e *Engine, now time.Time) error {
		e.Tick(now)
		st = e.State()
		progress = e.TimerProgress(now)
		return nil
	})
	return st, progress, err
}

// EventsSince returns the session events after seq. It reads the log on the
// runner's goroutine, so it is safe alongside ticks.
func (r *Runner) EventsSince(ctx context.Context, seq int) ([]log.GameEvent, error) {
	var events []log.GameEvent
	err := r.do(ctx, func(*Engine, time.Time) error {
		events = r.logger.Since(seq)
		return nil
	})
	return events, err
}

// ReturnHome resets the session and stops the runner.
func (r *Runner) ReturnHome(ctx context.Context) error {
	err := r.do(ctx, func(e *Engine, now time.Time) error {
		e.ReturnHome(now)
		return nil
	})
	r.Close()
	return err
}

// Close stops the loop and waits for it to exit. Pending transitions die
// with it.
func (r *Runner) Close() {
	r.once.Do(func() { close(r.quit) })
	<-r.done
}

func (r *Runner) do(ctx context.Context, fn func(*Engine, time.Time) error) error {
	req := request{fn: fn, reply: make(chan error, 1)}
	select {
	case r.reqs <- req:
	case <-r.done:
		return ErrRunnerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) loop(ctx context.Context, eng *Engine) {
	defer close(r.done)
	defer close(r.updates)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	ticks := ticker.C

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.quit:
			return
		case req := <-r.reqs:
			now := r.clock()
			req.reply <- req.fn(eng, now)
			r.publish(eng, now, true)
		case <-ticks:
			now := r.clock()
			eng.Tick(now)
			r.publish(eng, now, false)
		}

		// A finished session has nothing left to tick. Feedback expiry is
		// then applied by the next request.
		if eng.state.Settled() {
			if ticks != nil {
				ticker.Stop()
				ticks = nil
			}
		} else if ticks == nil {
			ticker.Reset(r.interval)
			ticks = ticker.C
		}
	}
}

// publish sends an update without blocking. Events stay queued until an
// update carrying them is accepted. Idle ticks publish only while the turn
// timer is visibly running.
func (r *Runner) publish(eng *Engine, now time.Time, force bool) {
	events := r.logger.Since(r.lastSeq)
	progress := eng.TimerProgress(now)
	if !force && len(events) == 0 && progress == 0 {
		return
	}
	u := Update{State: eng.State(), Events: events, TimerProgress: progress}
	select {
	case r.updates <- u:
		if len(events) > 0 {
			r.lastSeq = events[len(events)-1].Seq
		}
	default:
	}
}
