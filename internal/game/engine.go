package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/log"
)

var (
	ErrCardNotInHand  = errors.New("card is not in hand")
	ErrNotInteractive = errors.New("phase does not accept this action")
	ErrNothingToUndo  = errors.New("nothing to undo")
)

// Engine is the battle session state machine. It is not safe for concurrent
// use; Runner serializes access to one. Every mutating call takes the time
// it happens at, so a session replays identically from the same seed and
// timestamps.
type Engine struct {
	topic  *content.Topic
	state  *State
	flow   []content.CardType
	rng    *rand.Rand
	logger log.EventLogger
}

// NewEngine validates cfg against the topic, deals the opening hand and
// enters the first phase. No session exists when it returns an error.
func NewEngine(topic *content.Topic, cfg Config, logger log.EventLogger, now time.Time) (*Engine, error) {
	if topic == nil {
		return nil, fmt.Errorf("%w: %q", content.ErrUnknownTopic, cfg.TopicID)
	}
	if cfg.Stance != content.StanceAffirmative && cfg.Stance != content.StanceNegative {
		return nil, fmt.Errorf("unknown stance %q", cfg.Stance)
	}
	if cfg.Difficulty == "" {
		cfg.Difficulty = DifficultyEasy
	}
	if _, err := ParseDifficulty(string(cfg.Difficulty)); err != nil {
		return nil, err
	}
	mode, err := ParseMode(string(cfg.Mode))
	if err != nil {
		return nil, err
	}
	cfg.Mode = mode
	if cfg.Rounds <= 0 {
		cfg.Rounds = DefaultRounds
	}
	cfg.TopicID = topic.ID
	if logger == nil {
		logger = log.NewMemoryLogger()
	}

	e := &Engine{
		topic:  topic,
		flow:   cfg.Mode.Flow(),
		rng:    newRand(cfg.Seed),
		logger: logger,
		state: &State{
			Config:     cfg,
			PlayerHP:   MaxHP,
			OpponentHP: MaxHP,
		},
	}

	if cfg.Mode == ModeReview {
		e.log(log.NewSessionStartEvent(topic.ID, string(cfg.Stance), string(cfg.Mode), string(cfg.Difficulty)))
		e.enter(PhaseReview, now)
		return e, nil
	}

	hand, err := BuildHand(topic, cfg.Stance, cfg.Mode, cfg.Difficulty, e.rng)
	if err != nil {
		return nil, err
	}
	e.state.Hand = hand
	e.state.BattlePlan = BuildBattlePlan(topic, cfg.Stance, cfg.Rounds)
	e.state.Closing = closingFor(topic, cfg.Stance)

	e.log(log.NewSessionStartEvent(topic.ID, string(cfg.Stance), string(cfg.Mode), string(cfg.Difficulty)))
	e.enter(PhaseConstruct, now)
	e.log(log.NewHandDealtEvent(e.round(), e.phase(), len(hand)))
	return e, nil
}

// State returns a snapshot of the session.
func (e *Engine) State() *State {
	return e.state.Clone()
}

func (e *Engine) Topic() *content.Topic {
	return e.topic
}

// TimerProgress returns the turn timer fill ratio at now.
func (e *Engine) TimerProgress(now time.Time) float64 {
	return e.state.TimerProgress(now)
}

// ExpectedType returns the type the next construct slot requires.
func (e *Engine) ExpectedType() (content.CardType, bool) {
	return e.state.ExpectedType()
}

// HintCardIDs lists hand cards that fit the next construct slot.
func (e *Engine) HintCardIDs() []string {
	return e.state.HintCardIDs()
}

// --- Intents ---

// SelectCard plays a hand card in the current phase. Rejected plays cost HP
// but are not errors; errors mean the intent itself was invalid and the
// state did not change.
func (e *Engine) SelectCard(cardID string, now time.Time) error {
	e.Tick(now)
	s := e.state
	if !s.Phase.Timed() || s.Pending != nil {
		return fmt.Errorf("%w: select in %s", ErrNotInteractive, s.Phase)
	}
	idx := s.handIndex(cardID)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrCardNotInHand, cardID)
	}

	s.TimerOrigin = now
	if s.Phase == PhaseConstruct {
		e.playConstruct(idx, now)
	} else {
		e.playBattle(idx, now)
	}
	return nil
}

// Undo takes the last construct card back into the hand.
func (e *Engine) Undo(now time.Time) error {
	e.Tick(now)
	s := e.state
	if s.Phase != PhaseConstruct || s.Pending != nil {
		return fmt.Errorf("%w: undo in %s", ErrNotInteractive, s.Phase)
	}
	if len(s.Tower) == 0 {
		return ErrNothingToUndo
	}

	last := s.Tower[len(s.Tower)-1]
	s.Tower = s.Tower[:len(s.Tower)-1]
	s.Hand = append(s.Hand, last.Card)
	if len(s.Tower) == 0 {
		s.ActiveLogicGroup = ""
	}
	e.log(log.NewUndoEvent(e.round(), e.phase(), last.Card.ID))
	return nil
}

// Tick advances the clock: it expires feedback, fires due transitions and
// charges the turn timer.
func (e *Engine) Tick(now time.Time) {
	s := e.state
	if s.Feedback != nil && !now.Before(s.Feedback.Expires) {
		s.Feedback = nil
	}
	for s.Pending != nil && !now.Before(s.Pending.Due) {
		t := *s.Pending
		s.Pending = nil
		if s.Phase != t.From {
			continue
		}
		e.advance(t.From, t.Due)
	}
	e.expireTimer(now)
}

// ReturnHome discards the session. Nothing scheduled survives it.
func (e *Engine) ReturnHome(now time.Time) {
	cfg := e.state.Config
	e.state = &State{Config: cfg, PlayerHP: MaxHP, OpponentHP: MaxHP, TimerOrigin: now}
	e.log(log.NewReturnHomeEvent())
}

// --- Construct ---

func (e *Engine) playConstruct(idx int, now time.Time) {
	s := e.state
	card := s.Hand[idx]
	slot := len(s.Tower)

	if card.Type != e.flow[slot] {
		e.reject(card, FailureWrongStructure, now)
		return
	}

	var judgment content.Judgment
	if slot == 0 {
		if card.IsFake() {
			e.reject(card, FailureWeakArgument, now)
			return
		}
		s.ActiveLogicGroup = card.Group
		e.log(log.NewLogicGroupSetEvent(e.round(), e.phase(), card.ID, card.Group))
		judgment = content.JudgmentCorrect
	} else {
		if card.Group != s.ActiveLogicGroup {
			e.reject(card, FailureLogicMismatch, now)
			return
		}
		judgment = content.JudgmentPerfect
	}

	s.Tower = append(s.Tower, PlayedCard{Card: card, Judgment: judgment})
	s.Hand = slices.Delete(s.Hand, idx, idx+1)
	e.log(log.NewCardAcceptedEvent(e.round(), e.phase(), card.ID, string(card.Type), string(judgment), slot))
	if judgment == content.JudgmentPerfect {
		e.addScore(ConstructScore)
		e.damageOpponent(ConstructHit, "consistent argument")
	}
	e.feedback(&Feedback{Success: true, Message: card.Type.Label() + " placed."}, now)

	if len(s.Tower) == len(e.flow) {
		e.log(log.NewTowerCompleteEvent(e.round(), e.phase(), len(s.Tower)))
		e.feedback(&Feedback{Success: true, Message: "Argument complete!"}, now)
		e.schedule(CompleteDelay, now)
	}
}

func (e *Engine) reject(card content.Card, f Failure, now time.Time) {
	e.log(log.NewCardRejectedEvent(e.round(), e.phase(), card.ID, f.String()))
	e.feedback(&Feedback{Failure: f, Message: f.Message()}, now)
	e.damagePlayer(f.Damage(), f.String())
}

// --- Battle sub-phases ---

func (e *Engine) playBattle(idx int, now time.Time) {
	s := e.state
	card := s.Hand[idx]
	s.Hand = nil

	judgment := card.Judgment
	if !judgment.IsWinning() {
		judgment = content.JudgmentWeak
	}
	s.Picks = append(s.Picks, PlayedCard{Card: card, Judgment: judgment})
	e.log(log.NewBattlePickEvent(e.round(), e.phase(), card.ID, string(judgment)))

	if judgment.IsWinning() {
		e.addScore(BattleScore)
		e.damageOpponent(BattleHit, "winning "+string(card.Type))
		e.feedback(&Feedback{Success: true, Message: "Great " + card.Type.Label() + "!"}, now)
	} else {
		e.feedback(&Feedback{Failure: FailureWeakAnswer, Message: FailureWeakAnswer.Message()}, now)
		if e.damagePlayer(FailureWeakAnswer.Damage(), FailureWeakAnswer.String()) {
			return
		}
	}
	e.schedule(AdvanceDelay, now)
}

// --- Transitions ---

// next returns the phase after p in the battle sequence, moving to the
// following round when a rebuttal ends with rounds left.
func (e *Engine) next(p Phase) Phase {
	s := e.state
	switch p {
	case PhaseConstruct:
		if s.Config.Mode == ModeLogicLink {
			return PhaseResult
		}
		return PhaseCrossExam
	case PhaseCrossExam:
		return PhaseRebuttalIntro
	case PhaseRebuttalIntro:
		return PhaseRebuttalAttack
	case PhaseRebuttalAttack:
		return PhaseRebuttalDefense
	case PhaseRebuttalDefense:
		if s.RoundIndex+1 < len(s.BattlePlan) {
			s.RoundIndex++
			return PhaseCrossExam
		}
		return PhaseClosing
	default:
		return PhaseResult
	}
}

// applicable reports whether the topic has material for p.
func (e *Engine) applicable(p Phase) bool {
	s := e.state
	round := s.CurrentRound()
	switch p {
	case PhaseCrossExam:
		return round != nil && round.CrossExam != nil
	case PhaseRebuttalIntro, PhaseRebuttalAttack, PhaseRebuttalDefense:
		return round != nil && round.Rebuttal != nil
	case PhaseClosing:
		return s.Closing != nil
	default:
		return true
	}
}

// advance leaves from, skipping phases without material.
func (e *Engine) advance(from Phase, now time.Time) {
	p := e.next(from)
	for !e.applicable(p) {
		p = e.next(p)
	}
	e.enter(p, now)
}

func (e *Engine) enter(p Phase, now time.Time) {
	s := e.state
	s.Phase = p
	s.Pending = nil
	s.TimerOrigin = now
	e.log(log.NewPhaseChangeEvent(e.round(), e.phase()))

	round := s.CurrentRound()
	switch p {
	case PhaseCrossExam:
		s.Rival = &Rival{Kind: RivalQuestion, Prompt: round.CrossExam.Prompt}
		e.speak()
		e.deal(round.CrossExam.Options)
	case PhaseRebuttalIntro:
		s.Rival = nil
		s.Hand = nil
		e.schedule(RebuttalIntroDelay, now)
	case PhaseRebuttalAttack:
		s.Rival = &Rival{Kind: RivalAttack, Prompt: round.Rebuttal.Prompt}
		e.speak()
		if s.Config.RebuttalDamage && e.damagePlayer(DamageTick, "rebuttal attack") {
			return
		}
		e.schedule(RebuttalAttackDelay, now)
	case PhaseRebuttalDefense:
		e.deal(round.Rebuttal.Options)
	case PhaseClosing:
		s.Rival = nil
		if s.Closing.Prompt != nil {
			s.Rival = &Rival{Kind: RivalQuestion, Prompt: s.Closing.Prompt}
			e.speak()
		}
		e.deal(s.Closing.Options)
	case PhaseResult:
		s.Rival = nil
		s.Hand = nil
		e.log(log.NewResultEvent(e.round(), s.Score, s.OpponentHP))
	}
}

func (e *Engine) deal(options []content.Card) {
	e.state.Hand = SampleOptions(options, e.state.Config.Difficulty, e.rng)
	e.log(log.NewHandDealtEvent(e.round(), e.phase(), len(e.state.Hand)))
}

func (e *Engine) speak() {
	r := e.state.Rival
	if r == nil || r.Prompt == nil {
		return
	}
	e.log(log.NewRivalSpeechEvent(e.round(), e.phase(), string(r.Kind), r.Prompt.Text.For(string(e.state.Config.Difficulty))))
}

func (e *Engine) schedule(delay time.Duration, now time.Time) {
	s := e.state
	s.Pending = &Transition{From: s.Phase, Due: now.Add(delay)}
	e.log(log.NewTransitionScheduledEvent(e.round(), e.phase(), delay.Milliseconds()))
}

// --- HP and score ---

// damagePlayer reduces player HP and reports whether the session ended.
func (e *Engine) damagePlayer(amount float64, reason string) bool {
	s := e.state
	old := s.PlayerHP
	s.PlayerHP = ApplyDamage(old, amount)
	e.log(log.NewHPChangeEvent(e.round(), e.phase(), log.SidePlayer, old, s.PlayerHP, reason))
	if s.PlayerHP > 0 {
		return false
	}
	s.Pending = nil
	s.Phase = PhaseGameOver
	s.Hand = nil
	e.log(log.NewPhaseChangeEvent(e.round(), e.phase()))
	e.log(log.NewGameOverEvent(e.round(), e.phase(), s.Score))
	return true
}

func (e *Engine) damageOpponent(amount float64, reason string) {
	s := e.state
	old := s.OpponentHP
	s.OpponentHP = ApplyDamage(old, amount)
	e.log(log.NewHPChangeEvent(e.round(), e.phase(), log.SideOpponent, old, s.OpponentHP, reason))
}

func (e *Engine) addScore(n int) {
	s := e.state
	old := s.Score
	s.Score += n
	e.log(log.NewScoreEvent(e.round(), e.phase(), old, s.Score))
}

func (e *Engine) feedback(f *Feedback, now time.Time) {
	f.Expires = now.Add(FeedbackTTL)
	e.state.Feedback = f
}

// --- Logging helpers ---

func (e *Engine) log(event log.GameEvent) {
	e.logger.Log(event)
}

func (e *Engine) round() int {
	return e.state.RoundIndex + 1
}

func (e *Engine) phase() string {
	return e.state.Phase.String()
}
