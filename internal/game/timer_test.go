package game

import (
	"testing"
	"time"

	"github.com/peterkuimelis/debatex/internal/log"
)

func TestTimerPenaltyRepeats(t *testing.T) {
	ss := newScriptedSession(t, constructOnlyTopic(), Config{TimerEnabled: true})

	ss.Wait(TimeLimit / 2)
	if p := ss.Engine.TimerProgress(ss.Now); p != 0.5 {
		t.Errorf("progress = %g, want 0.5", p)
	}
	if ss.state().PlayerHP != MaxHP {
		t.Fatal("no penalty before the limit")
	}

	ss.Wait(TimeLimit / 2)
	if ss.state().PlayerHP != MaxHP-DamageTick {
		t.Errorf("HP = %g after one limit", ss.state().PlayerHP)
	}
	if p := ss.Engine.TimerProgress(ss.Now); p != 0 {
		t.Errorf("progress should restart, got %g", p)
	}

	// A long stall charges every elapsed limit.
	ss.Wait(25 * time.Second)
	if ss.state().PlayerHP != MaxHP-3*DamageTick {
		t.Errorf("HP = %g after three limits", ss.state().PlayerHP)
	}
	if got := len(ss.Logger.EventsOfType(log.EventTimerPenalty)); got != 3 {
		t.Errorf("timer penalties = %d, want 3", got)
	}

	// Any selection restarts the clock.
	ss.Play("A")
	ss.Wait(TimeLimit - time.Millisecond)
	if ss.state().PlayerHP != MaxHP-3*DamageTick {
		t.Errorf("selection should reset the timer, HP = %g", ss.state().PlayerHP)
	}
}

func TestTimerDisabled(t *testing.T) {
	ss := newScriptedSession(t, constructOnlyTopic(), Config{})
	ss.Wait(time.Minute)
	if ss.state().PlayerHP != MaxHP {
		t.Errorf("disabled timer dealt damage: HP = %g", ss.state().PlayerHP)
	}
	if p := ss.Engine.TimerProgress(ss.Now); p != 0 {
		t.Errorf("disabled timer progress = %g", p)
	}
}

func TestTimerPausedWhileTransitionPending(t *testing.T) {
	ss := newScriptedSession(t, newTestTopic(), Config{TimerEnabled: true})
	ss.Play("a1").Play("r1").Play("e1").Play("c1")
	if p := ss.Engine.TimerProgress(ss.Now.Add(time.Second)); p != 0 {
		t.Errorf("progress while pending = %g", p)
	}

	// Cross-exam opens at the due time; its limit counts from there.
	ss.Wait(CompleteDelay).ExpectPhase(PhaseCrossExam)
	ss.Wait(TimeLimit - time.Millisecond)
	if ss.state().PlayerHP != MaxHP {
		t.Fatalf("penalty before the cross-exam limit: HP = %g", ss.state().PlayerHP)
	}
	ss.Wait(time.Millisecond)
	if ss.state().PlayerHP != MaxHP-DamageTick {
		t.Errorf("HP = %g, want one tick", ss.state().PlayerHP)
	}
}

func TestTimerCanEndTheSession(t *testing.T) {
	ss := newScriptedSession(t, constructOnlyTopic(), Config{TimerEnabled: true})
	ss.Wait(20 * TimeLimit)
	ss.ExpectPhase(PhaseGameOver)
	if got := len(ss.Logger.EventsOfType(log.EventTimerPenalty)); got != 8 {
		t.Errorf("penalties = %d, want 8 (timer stops at gameover)", got)
	}
	if p := ss.Engine.TimerProgress(ss.Now); p != 0 {
		t.Errorf("progress after gameover = %g", p)
	}
}
