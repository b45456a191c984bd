package mcp

import (
	"context"
)

// The agent's intents. Each one forwards to the runner and then reports the
// settled state together with the events it caused.

// Play selects a hand card.
func (s *GameSession) Play(ctx context.Context, cardID string) (*ToolResponse, error) {
	if err := s.runner.SelectCard(ctx, cardID); err != nil {
		return nil, err
	}
	return s.waitForPending(ctx)
}

// Undo takes back the last construct card.
func (s *GameSession) Undo(ctx context.Context) (*ToolResponse, error) {
	if err := s.runner.Undo(ctx); err != nil {
		return nil, err
	}
	return s.waitForPending(ctx)
}

// Observe reports the current state without waiting for transitions.
func (s *GameSession) Observe(ctx context.Context) (*ToolResponse, error) {
	st, progress, err := s.runner.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, st, progress)
}

// ReturnHome discards the session. The runner stops afterwards, so the
// response carries only the events logged before it.
func (s *GameSession) ReturnHome(ctx context.Context) (*ToolResponse, error) {
	events, err := s.drainEvents(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.runner.ReturnHome(ctx); err != nil {
		return nil, err
	}
	s.cancel()
	return &ToolResponse{Session: s.id, Events: events, Home: true}, nil
}
