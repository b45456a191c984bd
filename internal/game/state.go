package game

import (
	"slices"
	"time"

	"github.com/peterkuimelis/debatex/internal/content"
)

// --- Phase ---

type Phase int

const (
	PhaseStart Phase = iota
	PhaseConstruct
	PhaseCrossExam
	PhaseRebuttalIntro
	PhaseRebuttalAttack
	PhaseRebuttalDefense
	PhaseClosing
	PhaseResult
	PhaseGameOver
	PhaseReview
)

func (p Phase) String() string {
	switch p {
	case PhaseConstruct:
		return "construct"
	case PhaseCrossExam:
		return "cross_exam"
	case PhaseRebuttalIntro:
		return "rebuttal_intro"
	case PhaseRebuttalAttack:
		return "rebuttal_attack"
	case PhaseRebuttalDefense:
		return "rebuttal_defense"
	case PhaseClosing:
		return "closing"
	case PhaseResult:
		return "result"
	case PhaseGameOver:
		return "gameover"
	case PhaseReview:
		return "review"
	default:
		return "start"
	}
}

// IsBattle reports whether the phase is a single-shot multiple-choice sub-phase.
func (p Phase) IsBattle() bool {
	return p == PhaseCrossExam || p == PhaseRebuttalDefense || p == PhaseClosing
}

// Timed reports whether the turn timer runs in this phase. These are also
// the only phases that accept card selection.
func (p Phase) Timed() bool {
	return p == PhaseConstruct || p.IsBattle()
}

func (p Phase) Terminal() bool {
	return p == PhaseResult || p == PhaseGameOver
}

// --- Session pieces ---

// PlayedCard is a card committed to the tower, or picked in a battle
// sub-phase, with the judgment it earned.
type PlayedCard struct {
	Card     content.Card
	Judgment content.Judgment
}

type RivalKind string

const (
	RivalQuestion RivalKind = "question"
	RivalAttack   RivalKind = "attack"
)

// Rival is the opponent line currently on screen.
type Rival struct {
	Kind   RivalKind
	Prompt *content.Prompt
}

// Feedback is a transient judgment message.
type Feedback struct {
	Success bool
	Failure Failure
	Message string
	Expires time.Time
}

// Transition is a scheduled advance out of From, due at Due.
type Transition struct {
	From Phase
	Due  time.Time
}

// Config is the setup the player confirms before a session starts.
type Config struct {
	TopicID        string
	Stance         content.Stance
	Difficulty     Difficulty
	Mode           Mode
	Rounds         int
	TimerEnabled   bool
	RebuttalDamage bool
	Seed           uint64 // 0 for random
}

// State is the whole mutable battle session.
type State struct {
	Phase  Phase
	Config Config

	Tower            []PlayedCard // construct blocks only
	Picks            []PlayedCard // battle sub-phase answers, in order
	Hand             []content.Card
	ActiveLogicGroup string // "" until the first commitment

	PlayerHP   float64
	OpponentHP float64
	Score      int

	RoundIndex int
	BattlePlan []Round
	Closing    *content.Exchange

	Rival    *Rival
	Feedback *Feedback
	Pending  *Transition

	TimerOrigin time.Time
}

// Clone returns a copy that shares no mutable slices with s.
func (s *State) Clone() *State {
	c := *s
	c.Tower = slices.Clone(s.Tower)
	c.Picks = slices.Clone(s.Picks)
	c.Hand = slices.Clone(s.Hand)
	c.BattlePlan = slices.Clone(s.BattlePlan)
	if s.Rival != nil {
		r := *s.Rival
		c.Rival = &r
	}
	if s.Feedback != nil {
		f := *s.Feedback
		c.Feedback = &f
	}
	if s.Pending != nil {
		p := *s.Pending
		c.Pending = &p
	}
	return &c
}

// Outcome is "victory" after result, "defeat" after gameover, else "".
func (s *State) Outcome() string {
	switch s.Phase {
	case PhaseResult:
		return "victory"
	case PhaseGameOver:
		return "defeat"
	default:
		return ""
	}
}

// Settled reports whether nothing can change without a player intent: the
// session is over or read-only and no transition is scheduled.
func (s *State) Settled() bool {
	return (s.Phase.Terminal() || s.Phase == PhaseReview) && s.Pending == nil
}

// CurrentRound returns the battle plan entry in play, or nil.
func (s *State) CurrentRound() *Round {
	if s.RoundIndex < 0 || s.RoundIndex >= len(s.BattlePlan) {
		return nil
	}
	return &s.BattlePlan[s.RoundIndex]
}

// ExpectedType returns the type the next construct slot requires.
func (s *State) ExpectedType() (content.CardType, bool) {
	flow := s.Config.Mode.Flow()
	if s.Phase != PhaseConstruct || len(s.Tower) >= len(flow) {
		return "", false
	}
	return flow[len(s.Tower)], true
}

// HintCardIDs lists hand cards of the expected type when the difficulty
// shows hints.
func (s *State) HintCardIDs() []string {
	if !s.Config.Difficulty.Settings().ShowHint {
		return nil
	}
	want, ok := s.ExpectedType()
	if !ok {
		return nil
	}
	var ids []string
	for _, c := range s.Hand {
		if c.Type == want {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func (s *State) handIndex(id string) int {
	return slices.IndexFunc(s.Hand, func(c content.Card) bool { return c.ID == id })
}
