package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"slices"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/game"
	"github.com/peterkuimelis/debatex/internal/log"
	"github.com/peterkuimelis/debatex/internal/view"
)

var (
	ErrNoSession   = errors.New("no active session")
	ErrRateLimited = errors.New("too many actions, slow down")
)

// Options configures the sessions handed out to connections.
type Options struct {
	Store    *content.Store
	Defaults game.Config
	Lang     language.Tag

	// IntentRate limits player messages per second. Zero disables limiting.
	IntentRate  float64
	IntentBurst int

	Runner game.RunnerOptions

	// EventLog, when set, also receives each session's events as text.
	EventLog io.Writer
}

// Controller drives debate sessions for one connected player. It owns at
// most one game.Runner at a time.
type Controller struct {
	t       Transport
	opts    Options
	id      string
	lang    language.Tag
	limiter *rate.Limiter

	runner    *game.Runner
	topic     *content.Topic
	announced bool
}

// NewController creates a controller for the given transport.
func NewController(t Transport, opts Options) *Controller {
	c := &Controller{
		t:    t,
		opts: opts,
		id:   uuid.NewString(),
		lang: opts.Lang,
	}
	if c.lang == (language.Tag{}) {
		c.lang = view.DefaultLanguage()
	}
	if opts.IntentRate > 0 {
		burst := opts.IntentBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.IntentRate), burst)
	}
	return c
}

// ID identifies the connection in logs and messages.
func (c *Controller) ID() string {
	return c.id
}

// Run serves the connection until the client disconnects or ctx ends.
// A clean disconnect returns nil.
func (c *Controller) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer c.stop()

	msgs := make(chan ClientMessage)
	errs := make(chan error, 1)
	go func() {
		for {
			msg, err := c.t.Receive(ctx)
			if err != nil {
				errs <- err
				return
			}
			select {
			case msgs <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := c.sendTopics(ctx); err != nil {
		return err
	}

	for {
		var updates <-chan game.Update
		if c.runner != nil {
			updates = c.runner.Updates()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-errs:
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("receive: %w", err)

		case msg := <-msgs:
			if err := c.handle(ctx, msg); err != nil {
				return err
			}

		case u, ok := <-updates:
			if !ok {
				// The runner stopped after returning home.
				c.runner, c.topic = nil, nil
				if err := c.sendTopics(ctx); err != nil {
					return err
				}
				continue
			}
			if err := c.forward(ctx, u); err != nil {
				return err
			}
		}
	}
}

// handle applies one client message. Game errors are reported to the client;
// only transport failures are returned.
func (c *Controller) handle(ctx context.Context, msg ClientMessage) error {
	if msg.Lang != "" {
		if tag, ok := view.ParseLanguage(msg.Lang); ok {
			c.lang = tag
		}
	}
	if c.limiter != nil && !c.limiter.Allow() {
		return c.sendError(ctx, ErrRateLimited)
	}

	var err error
	switch msg.Type {
	case MsgList:
		return c.sendTopics(ctx)
	case MsgStart:
		err = c.start(ctx, msg)
	case MsgSelect:
		if c.runner == nil {
			err = ErrNoSession
			break
		}
		err = c.runner.SelectCard(ctx, msg.CardID)
	case MsgUndo:
		if c.runner == nil {
			err = ErrNoSession
			break
		}
		err = c.runner.Undo(ctx)
	case MsgHome:
		if c.runner == nil {
			return c.sendTopics(ctx)
		}
		err = c.runner.ReturnHome(ctx)
	case MsgSync:
		err = c.sync(ctx)
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	if err != nil {
		return c.sendError(ctx, err)
	}
	return nil
}

func (c *Controller) start(ctx context.Context, msg ClientMessage) error {
	if c.opts.Store == nil {
		return content.ErrNoTopics
	}
	setup := game.Setup{
		TopicID:    msg.TopicID,
		Stance:     msg.Stance,
		Difficulty: msg.Difficulty,
		Mode:       msg.Mode,
		Rounds:     msg.Rounds,
		Seed:       msg.Seed,
	}
	cfg, err := setup.Resolve(c.opts.Defaults)
	if err != nil {
		return err
	}

	var topic *content.Topic
	if cfg.TopicID == "" {
		topic = c.opts.Store.First()
	} else {
		topic, err = c.opts.Store.Topic(cfg.TopicID)
		if err != nil {
			return err
		}
	}

	ropts := c.opts.Runner
	if c.opts.EventLog != nil {
		ropts.Sinks = append(slices.Clone(ropts.Sinks), log.NewTextLogger(c.opts.EventLog))
	}

	c.stop()
	r, err := game.StartRunner(ctx, topic, cfg, ropts)
	if err != nil {
		return err
	}
	c.runner, c.topic, c.announced = r, topic, false
	return nil
}

func (c *Controller) sync(ctx context.Context) error {
	if c.runner == nil {
		return ErrNoSession
	}
	st, progress, err := c.runner.Snapshot(ctx)
	if err != nil {
		return err
	}
	return c.send(ctx, ServerMessage{
		Type:  MsgState,
		State: view.BuildSessionView(c.topic, st, progress, c.lang),
	})
}

// forward relays one runner update: its events, the new state, and a
// game_over notice the first time the session ends.
func (c *Controller) forward(ctx context.Context, u game.Update) error {
	for _, e := range u.Events {
		ev := view.BuildEventView(e)
		if err := c.send(ctx, ServerMessage{Type: MsgEvent, Event: &ev}); err != nil {
			return err
		}
	}

	sv := view.BuildSessionView(c.topic, u.State, u.TimerProgress, c.lang)
	if err := c.send(ctx, ServerMessage{Type: MsgState, State: sv}); err != nil {
		return err
	}

	if u.State.Phase.Terminal() && !c.announced {
		c.announced = true
		return c.send(ctx, ServerMessage{Type: MsgGameOver, State: sv, Result: ResultLine(u.State)})
	}
	return nil
}

func (c *Controller) sendTopics(ctx context.Context) error {
	msg := ServerMessage{Type: MsgTopics, Topics: []view.TopicSummary{}}
	if c.opts.Store != nil {
		msg.Topics = view.BuildTopicSummaries(c.opts.Store.Topics())
	}
	return c.send(ctx, msg)
}

func (c *Controller) sendError(ctx context.Context, err error) error {
	return c.send(ctx, ServerMessage{Type: MsgError, Error: err.Error()})
}

func (c *Controller) send(ctx context.Context, msg ServerMessage) error {
	msg.Session = c.id
	if err := c.t.Send(ctx, msg); err != nil {
		return fmt.Errorf("send %s: %w", msg.Type, err)
	}
	return nil
}

func (c *Controller) stop() {
	if c.runner != nil {
		c.runner.Close()
		c.runner, c.topic = nil, nil
	}
}

// ResultLine summarizes a finished session in one line.
func ResultLine(st *game.State) string {
	switch st.Outcome() {
	case "victory":
		return fmt.Sprintf("Victory! Score %d, rival HP %g", st.Score, st.OpponentHP)
	case "defeat":
		return fmt.Sprintf("Defeat. Score %d", st.Score)
	default:
		return ""
	}
}
