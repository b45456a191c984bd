package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/game"
	"github.com/peterkuimelis/debatex/internal/net"
	"github.com/peterkuimelis/debatex/internal/view"
)

// settleTimeout bounds how long a tool call waits for scheduled transitions
// (tower complete, battle feedback, rival attack) to play out.
const settleTimeout = 10 * time.Second

// ToolResponse is the JSON envelope returned by all MCP tools.
type ToolResponse struct {
	Session  string            `json:"session,omitempty"`
	Events   []view.EventView  `json:"events"`
	State    *view.SessionView `json:"state,omitempty"`
	GameOver bool              `json:"game_over"`
	Result   string            `json:"result,omitempty"`
	Home     bool              `json:"home,omitempty"`
}

// GameSession holds a single MCP debate session.
type GameSession struct {
	id     string
	runner *game.Runner
	topic  *content.Topic
	lang   language.Tag
	cancel context.CancelFunc

	lastSeq int
}

// NewGameSession starts a runner for the setup. The session outlives the
// tool call that created it, so it gets its own context.
func NewGameSession(store *content.Store, setup game.Setup, defaults game.Config, lang language.Tag, opts game.RunnerOptions) (*GameSession, error) {
	cfg, err := setup.Resolve(defaults)
	if err != nil {
		return nil, err
	}
	topic, err := store.Topic(cfg.TopicID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	r, err := game.StartRunner(ctx, topic, cfg, opts)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("start session: %w", err)
	}
	return &GameSession{
		id:     uuid.NewString(),
		runner: r,
		topic:  topic,
		lang:   lang,
		cancel: cancel,
	}, nil
}

// Close stops the runner.
func (s *GameSession) Close() {
	s.runner.Close()
	s.cancel()
}

// waitForPending polls until no transition is pending, then builds a
// ToolResponse with the events since the previous response.
func (s *GameSession) waitForPending(ctx context.Context) (*ToolResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, settleTimeout)
	defer cancel()

	ticker := time.NewTicker(game.TickInterval / 2)
	defer ticker.Stop()

	var st *game.State
	var progress float64
	for {
		var err error
		st, progress, err = s.runner.Snapshot(ctx)
		if err != nil {
			return nil, err
		}
		if st.Pending == nil {
			break
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			// Still pending; report what we have.
			return s.respond(context.Background(), st, progress)
		}
	}
	return s.respond(ctx, st, progress)
}

func (s *GameSession) respond(ctx context.Context, st *game.State, progress float64) (*ToolResponse, error) {
	events, err := s.drainEvents(ctx)
	if err != nil {
		return nil, err
	}
	resp := &ToolResponse{
		Session:  s.id,
		Events:   events,
		State:    view.BuildSessionView(s.topic, st, progress, s.lang),
		GameOver: st.Phase.Terminal(),
	}
	if resp.GameOver {
		resp.Result = net.ResultLine(st)
	}
	return resp, nil
}

// drainEvents returns the events logged since the previous call.
func (s *GameSession) drainEvents(ctx context.Context) ([]view.EventView, error) {
	events, err := s.runner.EventsSince(ctx, s.lastSeq)
	if err != nil {
		return nil, err
	}
	if len(events) > 0 {
		s.lastSeq = events[len(events)-1].Seq
	}
	return view.BuildEventViews(events), nil
}

// respondJSON marshals a tool response to a JSON string.
func respondJSON(resp any) string {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf(`{"error": "marshal error: %v"}`, err)
	}
	return string(data)
}
