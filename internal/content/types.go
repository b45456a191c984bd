package content

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// FakeGroup marks distractor cards that never belong to a valid argument chain.
const FakeGroup = "fake"

// --- Enums ---

type CardType string

const (
	CardAssertion      CardType = "assertion"
	CardReason         CardType = "reason"
	CardEvidence       CardType = "evidence"
	CardMiniConclusion CardType = "mini_conclusion"
	CardAnswer         CardType = "answer"
	CardDefense        CardType = "defense"
	CardClosing        CardType = "closing"
)

// ParseCardType normalizes a card type name. "example" is an older spelling
// of "evidence".
func ParseCardType(s string) (CardType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "assertion":
		return CardAssertion, nil
	case "reason":
		return CardReason, nil
	case "evidence", "example":
		return CardEvidence, nil
	case "mini_conclusion", "conclusion":
		return CardMiniConclusion, nil
	case "answer":
		return CardAnswer, nil
	case "defense":
		return CardDefense, nil
	case "closing":
		return CardClosing, nil
	case "":
		return "", nil
	default:
		return "", fmt.Errorf("unknown card type %q", s)
	}
}

// Label returns the display label for the card type.
func (t CardType) Label() string {
	switch t {
	case CardAssertion:
		return "Assertion"
	case CardReason:
		return "Reason"
	case CardEvidence:
		return "Evidence"
	case CardMiniConclusion:
		return "Summary"
	case CardAnswer:
		return "Answer"
	case CardDefense:
		return "Rebuttal"
	case CardClosing:
		return "Closing"
	default:
		return string(t)
	}
}

func (t *CardType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	ct, err := ParseCardType(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*t = ct
	return nil
}

type Stance string

const (
	StanceAffirmative Stance = "affirmative"
	StanceNegative    Stance = "negative"
)

// ParseStance accepts the full stance names and the aff/neg shorthands.
func ParseStance(s string) (Stance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "affirmative", "aff":
		return StanceAffirmative, nil
	case "negative", "neg":
		return StanceNegative, nil
	default:
		return "", fmt.Errorf("unknown stance %q", s)
	}
}

type Judgment string

const (
	JudgmentCorrect Judgment = "correct"
	JudgmentPerfect Judgment = "perfect"
	JudgmentWeak    Judgment = "weak"
)

// IsWinning reports whether an option with this judgment is the winning move.
func (j Judgment) IsWinning() bool {
	return j == JudgmentCorrect || j == JudgmentPerfect
}

// --- Text ---

// Text is card copy that is either a single string or a set of variants
// keyed by difficulty.
type Text struct {
	Default  string
	Variants map[string]string
}

// Plain returns a Text with a single default string.
func Plain(s string) Text {
	return Text{Default: s}
}

// For returns the variant for key, falling back to the default text, then the
// "medium" variant, then the first variant in key order.
func (t Text) For(key string) string {
	if v, ok := t.Variants[key]; ok && v != "" {
		return v
	}
	if t.Default != "" {
		return t.Default
	}
	if v, ok := t.Variants["medium"]; ok && v != "" {
		return v
	}
	keys := make([]string, 0, len(t.Variants))
	for k := range t.Variants {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if t.Variants[k] != "" {
			return t.Variants[k]
		}
	}
	return ""
}

// IsZero reports whether the text has no content at all.
func (t Text) IsZero() bool {
	return t.Default == "" && len(t.Variants) == 0
}

func (t *Text) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		return value.Decode(&t.Default)
	case yaml.MappingNode:
		var m map[string]string
		if err := value.Decode(&m); err != nil {
			return err
		}
		if d, ok := m["default"]; ok {
			t.Default = d
			delete(m, "default")
		}
		t.Variants = m
		return nil
	default:
		return fmt.Errorf("line %d: text must be a string or a mapping of difficulty to string", value.Line)
	}
}

// --- Cards and topics ---

// Card is a single argument card or battle option.
type Card struct {
	ID       string   `yaml:"id"`
	Type     CardType `yaml:"type"`
	Stance   Stance   `yaml:"stance"`
	Group    string   `yaml:"group"`
	Text     Text     `yaml:"text"`
	TextJP   Text     `yaml:"textJP"`
	ImageURL string   `yaml:"image_url"`

	// Judgment is only set on battle options.
	Judgment Judgment `yaml:"judgment"`
}

// IsFake reports whether the card is a distractor.
func (c Card) IsFake() bool {
	return c.Group == FakeGroup
}

// VocabEntry is one glossary word attached to a topic.
type VocabEntry struct {
	Word    string `yaml:"word"`
	Meaning string `yaml:"meaning"`
}

// Prompt is an opponent line: a cross-exam question or a rebuttal attack.
type Prompt struct {
	Text   Text    `yaml:"text"`
	TextJP Text    `yaml:"textJP"`
	Damage float64 `yaml:"damage"`
}

// Exchange is one authored opponent prompt with its scored response pool.
type Exchange struct {
	Prompt  *Prompt
	Options []Card
}

// Usable reports whether the exchange can drive a battle sub-phase.
func (e Exchange) Usable() bool {
	return e.Prompt != nil && len(e.Options) > 0
}

func (e *Exchange) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Question *Prompt `yaml:"question"`
		Attack   *Prompt `yaml:"attack"`
		Prompt   *Prompt `yaml:"prompt"`
		Options  []Card  `yaml:"options"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	switch {
	case raw.Question != nil:
		e.Prompt = raw.Question
	case raw.Attack != nil:
		e.Prompt = raw.Attack
	default:
		e.Prompt = raw.Prompt
	}
	e.Options = raw.Options
	return nil
}

// Stage holds the authored material for one battle sub-phase. Content is
// either shared by both stances or keyed per stance, with any number of
// exchanges per stance.
type Stage struct {
	Shared   []Exchange
	ByStance map[Stance][]Exchange
}

// Exchanges returns the exchanges available to the given stance.
func (s Stage) Exchanges(stance Stance) []Exchange {
	if ex := s.ByStance[stance]; len(ex) > 0 {
		return ex
	}
	return s.Shared
}

func (s *Stage) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		return value.Decode(&s.Shared)
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: stage must be a mapping or a list", value.Line)
	}

	perStance := false
	for i := 0; i+1 < len(value.Content); i += 2 {
		if _, err := ParseStance(value.Content[i].Value); err == nil {
			perStance = true
			break
		}
	}
	if !perStance {
		var ex Exchange
		if err := value.Decode(&ex); err != nil {
			return err
		}
		s.Shared = []Exchange{ex}
		return nil
	}

	s.ByStance = make(map[Stance][]Exchange)
	for i := 0; i+1 < len(value.Content); i += 2 {
		stance, err := ParseStance(value.Content[i].Value)
		if err != nil {
			continue
		}
		node := value.Content[i+1]
		var list []Exchange
		switch node.Kind {
		case yaml.SequenceNode:
			if err := node.Decode(&list); err != nil {
				return err
			}
		case yaml.MappingNode:
			var ex Exchange
			if err := node.Decode(&ex); err != nil {
				return err
			}
			list = []Exchange{ex}
		default:
			continue
		}
		s.ByStance[stance] = list
	}
	return nil
}

// Topic is one debate motion with its deck and battle material.
type Topic struct {
	ID         string       `yaml:"id"`
	Title      string       `yaml:"title"`
	TitleJP    string       `yaml:"titleJP"`
	ImageURL   string       `yaml:"image_url"`
	Vocabulary []VocabEntry `yaml:"vocabulary"`
	Deck       []Card       `yaml:"deck"`
	CrossExam  Stage        `yaml:"crossExam"`
	Rebuttal   Stage        `yaml:"rebuttal"`
	Closing    Stage        `yaml:"closing"`
}

// CardsFor returns the deck cards for one stance, in authored order.
func (t *Topic) CardsFor(stance Stance) []Card {
	var result []Card
	for _, c := range t.Deck {
		if c.Stance == stance {
			result = append(result, c)
		}
	}
	return result
}
