package game

import (
	"time"

	"github.com/peterkuimelis/debatex/internal/log"
)

// TimerProgress returns the fraction of the turn limit used, in [0, 1]. It is
// 0 when the timer is off, the phase is untimed, or a transition is pending.
func (s *State) TimerProgress(now time.Time) float64 {
	if !s.timerRunning() {
		return 0
	}
	p := float64(now.Sub(s.TimerOrigin)) / float64(TimeLimit)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func (s *State) timerRunning() bool {
	return s.Config.TimerEnabled && s.Phase.Timed() && s.Pending == nil
}

// expireTimer applies a tick of damage for every full limit elapsed since
// the origin, moving the origin forward each time.
func (e *Engine) expireTimer(now time.Time) {
	s := e.state
	for s.timerRunning() && now.Sub(s.TimerOrigin) >= TimeLimit {
		s.TimerOrigin = s.TimerOrigin.Add(TimeLimit)
		e.log(log.NewTimerPenaltyEvent(e.round(), e.phase(), DamageTick))
		if e.damagePlayer(DamageTick, "time up") {
			return
		}
	}
}
