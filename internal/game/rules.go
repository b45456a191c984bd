package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/peterkuimelis/debatex/internal/content"
)

const (
	MaxHP       = 100.0
	DamageBig   = 50.0 // wrong structure
	DamageSmall = 25.0 // weak argument, logic mismatch, weak battle pick
	DamageTick  = 12.5 // timer expiry, scripted rebuttal attack

	ConstructScore = 100
	ConstructHit   = 25.0
	BattleScore    = 50
	BattleHit      = 20.0

	DefaultRounds = 1
)

// Pacing of the scripted transitions and the turn timer.
const (
	TimeLimit           = 10 * time.Second
	TickInterval        = 100 * time.Millisecond
	CompleteDelay       = 1500 * time.Millisecond
	AdvanceDelay        = 1500 * time.Millisecond
	RebuttalIntroDelay  = 2 * time.Second
	RebuttalAttackDelay = 3 * time.Second
	FeedbackTTL         = 1500 * time.Millisecond
)

// --- Difficulty ---

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultySettings tunes hand noise and battle option counts.
type DifficultySettings struct {
	Label         string
	FakeCount     int // fake cards mixed into the construct hand
	BattleOptions int // options offered per battle sub-phase
	ShowHint      bool
}

var difficultySettings = map[Difficulty]DifficultySettings{
	DifficultyEasy:   {Label: "Easy", FakeCount: 4, BattleOptions: 4, ShowHint: true},
	DifficultyMedium: {Label: "Medium", FakeCount: 6, BattleOptions: 5},
	DifficultyHard:   {Label: "Hard", FakeCount: 8, BattleOptions: 6},
}

// Difficulties returns all difficulties from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := difficultySettings[d]; !ok {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}

// Settings returns the tuning for d. Unknown difficulties play as easy.
func (d Difficulty) Settings() DifficultySettings {
	if s, ok := difficultySettings[d]; ok {
		return s
	}
	return difficultySettings[DifficultyEasy]
}

// --- Mode ---

type Mode string

const (
	ModeArea      Mode = "area"
	ModeLogicLink Mode = "logic_link"
	ModeReview    Mode = "review"
)

func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeArea, ModeLogicLink, ModeReview:
		return m, nil
	case "":
		return ModeArea, nil
	default:
		return "", fmt.Errorf("unknown mode %q", s)
	}
}

// Flow returns the card types a construct tower must follow, in order.
func (m Mode) Flow() []content.CardType {
	switch m {
	case ModeLogicLink:
		return []content.CardType{content.CardReason, content.CardEvidence}
	case ModeReview:
		return nil
	default:
		return []content.CardType{content.CardAssertion, content.CardReason, content.CardEvidence, content.CardMiniConclusion}
	}
}
