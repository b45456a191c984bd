package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging session events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// Since returns the events with a sequence number greater than seq.
func (l *MemoryLogger) Since(seq int) []GameEvent {
	for i, e := range l.events {
		if e.Seq > seq {
			out := make([]GameEvent, len(l.events)-i)
			copy(out, l.events[i:])
			return out
		}
	}
	return nil
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- MultiLogger: fans events out to several loggers ---

type MultiLogger struct {
	MemoryLogger
	sinks []EventLogger
}

// NewMultiLogger returns a logger that records events and forwards them to
// every sink.
func NewMultiLogger(sinks ...EventLogger) *MultiLogger {
	return &MultiLogger{sinks: sinks}
}

func (l *MultiLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	for _, s := range l.sinks {
		s.Log(event)
	}
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	// Pad phase to 16 chars for alignment
	for len(phase) < 16 {
		phase += " "
	}
	return fmt.Sprintf("R%-2d %s| %s", e.Round, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewSessionStartEvent(topic, stance, mode, difficulty string) GameEvent {
	return GameEvent{
		Type:    EventSessionStart,
		Details: fmt.Sprintf("=== %s (%s, %s, %s) ===", topic, stance, mode, difficulty),
	}
}

func NewPhaseChangeEvent(round int, phase string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewHandDealtEvent(round int, phase string, count int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventHandDealt,
		Details: fmt.Sprintf("You are dealt %d card(s)", count),
	}
}

func NewCardAcceptedEvent(round int, phase string, cardID, cardType, judgment string, slot int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventCardAccepted,
		Card:    cardID,
		Details: fmt.Sprintf("You play %s as %s (slot %d, %s)", cardID, cardType, slot+1, judgment),
	}
}

func NewCardRejectedEvent(round int, phase string, cardID string, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventCardRejected,
		Card:    cardID,
		Details: fmt.Sprintf("%s is rejected (%s)", cardID, reason),
	}
}

func NewLogicGroupSetEvent(round int, phase string, cardID, group string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventLogicGroupSet,
		Card:    cardID,
		Details: fmt.Sprintf("Line of argument committed: %s", group),
	}
}

func NewUndoEvent(round int, phase string, cardID string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventUndo,
		Card:    cardID,
		Details: fmt.Sprintf("You take back %s", cardID),
	}
}

func NewBattlePickEvent(round int, phase string, cardID, judgment string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventBattlePick,
		Card:    cardID,
		Details: fmt.Sprintf("You answer with %s (%s)", cardID, judgment),
	}
}

func NewRivalSpeechEvent(round int, phase string, kind, text string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Side:    SideOpponent,
		Type:    EventRivalSpeech,
		Details: fmt.Sprintf("Rival %s: %q", kind, text),
	}
}

func NewHPChangeEvent(round int, phase string, side Side, oldHP, newHP float64, reason string) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Side:    side,
		Type:    EventHPChange,
		Details: fmt.Sprintf("%s HP: %g → %g (%s)", side, oldHP, newHP, reason),
	}
}

func NewScoreEvent(round int, phase string, oldScore, newScore int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventScore,
		Details: fmt.Sprintf("Score: %d → %d", oldScore, newScore),
	}
}

func NewTimerPenaltyEvent(round int, phase string, amount float64) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventTimerPenalty,
		Details: fmt.Sprintf("Time is up: -%g HP", amount),
	}
}

func NewTransitionScheduledEvent(round int, phase string, delayMS int64) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventTransitionScheduled,
		Details: fmt.Sprintf("Leaving %s in %dms", phase, delayMS),
	}
}

func NewTowerCompleteEvent(round int, phase string, size int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventTowerComplete,
		Details: fmt.Sprintf("Argument complete (%d blocks)", size),
	}
}

func NewGameOverEvent(round int, phase string, score int) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   phase,
		Type:    EventGameOver,
		Details: fmt.Sprintf("DEFEAT: your HP reached 0 (score %d)", score),
	}
}

func NewResultEvent(round int, score int, opponentHP float64) GameEvent {
	return GameEvent{
		Round:   round,
		Phase:   "result",
		Type:    EventResult,
		Details: fmt.Sprintf("VICTORY: debate finished (score %d, rival HP %g)", score, opponentHP),
	}
}

func NewReturnHomeEvent() GameEvent {
	return GameEvent{
		Phase:   "start",
		Type:    EventReturnHome,
		Details: "Session reset",
	}
}
