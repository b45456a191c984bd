package game

import (
	"errors"
	"testing"
	"time"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/log"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// ScriptedSession drives an Engine with a fake clock. Used in tests to
// deterministically play through a session.
type ScriptedSession struct {
	t      *testing.T
	Engine *Engine
	Logger *log.MemoryLogger
	Now    time.Time
}

func newScriptedSession(t *testing.T, topic *content.Topic, cfg Config) *ScriptedSession {
	t.Helper()
	if cfg.Stance == "" {
		cfg.Stance = content.StanceAffirmative
	}
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	logger := log.NewMemoryLogger()
	e, err := NewEngine(topic, cfg, logger, t0)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return &ScriptedSession{t: t, Engine: e, Logger: logger, Now: t0}
}

func (ss *ScriptedSession) state() *State {
	return ss.Engine.state
}

// Play selects a card and fails the test on an intent error.
func (ss *ScriptedSession) Play(id string) *ScriptedSession {
	ss.t.Helper()
	if err := ss.Engine.SelectCard(id, ss.Now); err != nil {
		ss.t.Logf("Event log:\n%s", log.FormatAll(ss.Logger.Events()))
		ss.t.Fatalf("SelectCard(%s): %v", id, err)
	}
	return ss
}

// Wait advances the fake clock and ticks the engine.
func (ss *ScriptedSession) Wait(d time.Duration) *ScriptedSession {
	ss.Now = ss.Now.Add(d)
	ss.Engine.Tick(ss.Now)
	return ss
}

// PickWinning plays the winning option in a battle sub-phase.
func (ss *ScriptedSession) PickWinning() *ScriptedSession {
	ss.t.Helper()
	return ss.pick(true)
}

// PickWeak plays a losing option in a battle sub-phase.
func (ss *ScriptedSession) PickWeak() *ScriptedSession {
	ss.t.Helper()
	return ss.pick(false)
}

func (ss *ScriptedSession) pick(winning bool) *ScriptedSession {
	ss.t.Helper()
	for _, c := range ss.state().Hand {
		if c.Judgment.IsWinning() == winning {
			return ss.Play(c.ID)
		}
	}
	ss.t.Fatalf("no option with winning=%v in %s hand %v", winning, ss.state().Phase, handIDs(ss.state().Hand))
	return ss
}

func (ss *ScriptedSession) ExpectPhase(p Phase) *ScriptedSession {
	ss.t.Helper()
	if got := ss.state().Phase; got != p {
		ss.t.Logf("Event log:\n%s", log.FormatAll(ss.Logger.Events()))
		ss.t.Fatalf("phase = %s, want %s", got, p)
	}
	return ss
}

// BuildTower plays the given construct cards and waits out the completion
// delay.
func (ss *ScriptedSession) BuildTower(ids ...string) *ScriptedSession {
	ss.t.Helper()
	for _, id := range ids {
		ss.Play(id)
	}
	return ss.Wait(CompleteDelay)
}

func expectErr(t *testing.T, err, target error) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}

// --- Test content helpers ---

func deckCard(id string, typ content.CardType, stance content.Stance, group string) content.Card {
	return content.Card{ID: id, Type: typ, Stance: stance, Group: group, Text: content.Plain(id)}
}

func option(id string, typ content.CardType, j content.Judgment) content.Card {
	return content.Card{ID: id, Type: typ, Judgment: j, Text: content.Plain(id)}
}

func exchange(prompt string, options ...content.Card) content.Exchange {
	ex := content.Exchange{Options: options}
	if prompt != "" {
		ex.Prompt = &content.Prompt{Text: content.Plain(prompt)}
	}
	return ex
}

// newTestTopic returns a topic with two affirmative logic groups, two fake
// cards, one negative group, two cross-exam rounds, one rebuttal and a
// closing.
func newTestTopic() *content.Topic {
	aff, neg := content.StanceAffirmative, content.StanceNegative
	return &content.Topic{
		ID:    "test",
		Title: "Test motion",
		Deck: []content.Card{
			deckCard("a1", content.CardAssertion, aff, "g1"),
			deckCard("r1", content.CardReason, aff, "g1"),
			deckCard("e1", content.CardEvidence, aff, "g1"),
			deckCard("c1", content.CardMiniConclusion, aff, "g1"),
			deckCard("a2", content.CardAssertion, aff, "g2"),
			deckCard("r2", content.CardReason, aff, "g2"),
			deckCard("e2", content.CardEvidence, aff, "g2"),
			deckCard("c2", content.CardMiniConclusion, aff, "g2"),
			deckCard("fa", content.CardAssertion, aff, content.FakeGroup),
			deckCard("fr", content.CardReason, aff, content.FakeGroup),
			deckCard("a3", content.CardAssertion, neg, "g3"),
			deckCard("r3", content.CardReason, neg, "g3"),
			deckCard("e3", content.CardEvidence, neg, "g3"),
			deckCard("c3", content.CardMiniConclusion, neg, "g3"),
		},
		CrossExam: content.Stage{Shared: []content.Exchange{
			exchange("Q1",
				option("cx1-ok", content.CardAnswer, content.JudgmentCorrect),
				option("cx1-w1", content.CardAnswer, content.JudgmentWeak),
				option("cx1-w2", content.CardAnswer, content.JudgmentWeak),
				option("cx1-w3", content.CardAnswer, content.JudgmentWeak),
				option("cx1-w4", content.CardAnswer, content.JudgmentWeak),
			),
			exchange("Q2",
				option("cx2-ok", content.CardAnswer, content.JudgmentPerfect),
				option("cx2-w1", content.CardAnswer, content.JudgmentWeak),
			),
		}},
		Rebuttal: content.Stage{Shared: []content.Exchange{
			exchange("Attack!",
				option("reb-ok", content.CardDefense, content.JudgmentPerfect),
				option("reb-w1", content.CardDefense, content.JudgmentWeak),
				option("reb-w2", content.CardDefense, content.JudgmentWeak),
			),
		}},
		Closing: content.Stage{Shared: []content.Exchange{
			exchange("",
				option("close-ok", content.CardClosing, content.JudgmentCorrect),
				option("close-w1", content.CardClosing, content.JudgmentWeak),
			),
		}},
	}
}

// constructOnlyTopic has a single clean group and no battle material.
func constructOnlyTopic() *content.Topic {
	aff := content.StanceAffirmative
	return &content.Topic{
		ID: "bare",
		Deck: []content.Card{
			deckCard("A", content.CardAssertion, aff, "g1"),
			deckCard("R", content.CardReason, aff, "g1"),
			deckCard("E", content.CardEvidence, aff, "g1"),
			deckCard("C", content.CardMiniConclusion, aff, "g1"),
		},
	}
}

func handIDs(hand []content.Card) []string {
	ids := make([]string, len(hand))
	for i, c := range hand {
		ids[i] = c.ID
	}
	return ids
}

func containsID(hand []content.Card, id string) bool {
	for _, c := range hand {
		if c.ID == id {
			return true
		}
	}
	return false
}
