package view

import (
	"golang.org/x/text/language"

	"github.com/peterkuimelis/debatex/internal/content"
	"github.com/peterkuimelis/debatex/internal/game"
	"github.com/peterkuimelis/debatex/internal/log"
)

// SessionView is the JSON-ready session state for one player.
type SessionView struct {
	Phase       string `json:"phase"`
	Round       int    `json:"round"`
	Rounds      int    `json:"rounds"`
	TopicID     string `json:"topic_id"`
	TopicTitle  string `json:"topic_title,omitempty"`
	Stance      string `json:"stance,omitempty"`
	Mode        string `json:"mode,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Interactive bool   `json:"interactive"`

	PlayerHP   float64 `json:"player_hp"`
	OpponentHP float64 `json:"opponent_hp"`
	MaxHP      float64 `json:"max_hp"`
	Score      int     `json:"score"`

	Tower            []CardView `json:"tower"`
	Picks            []CardView `json:"picks"`
	Hand             []CardView `json:"hand"`
	ActiveLogicGroup string     `json:"active_logic_group,omitempty"`
	NextBlock        string     `json:"next_block,omitempty"`
	TimerProgress    float64    `json:"timer_progress"`

	Rival    *RivalView    `json:"rival,omitempty"`
	Feedback *FeedbackView `json:"feedback,omitempty"`

	Outcome     string            `json:"outcome,omitempty"`
	ModelAnswer []CardView        `json:"model_answer,omitempty"`
	Review      []ReviewGroupView `json:"review,omitempty"`
}

// CardView is a card with its text resolved for difficulty and language.
type CardView struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url,omitempty"`
	Judgment string `json:"judgment,omitempty"`
	Group    string `json:"group,omitempty"`
	Hint     bool   `json:"hint,omitempty"`
}

type RivalView struct {
	Kind   string  `json:"kind"`
	Text   string  `json:"text"`
	Damage float64 `json:"damage,omitempty"`
}

type FeedbackView struct {
	Success bool   `json:"success"`
	Failure string `json:"failure,omitempty"`
	Message string `json:"message"`
}

type ReviewGroupView struct {
	Group string     `json:"group"`
	Cards []CardView `json:"cards"`
}

// EventView is a game event for the client.
type EventView struct {
	Seq     int    `json:"seq"`
	Round   int    `json:"round"`
	Phase   string `json:"phase"`
	Side    string `json:"side"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Details string `json:"details"`
}

// Renderer resolves card text for one player.
type Renderer struct {
	Lang       language.Tag
	Difficulty game.Difficulty
}

// Text picks the copy for the renderer's language and difficulty. Japanese
// falls back to English when a card has no Japanese text.
func (r Renderer) Text(en, jp content.Text) string {
	key := string(r.Difficulty)
	if isJapanese(r.Lang) && !jp.IsZero() {
		return jp.For(key)
	}
	return en.For(key)
}

func (r Renderer) Card(c content.Card) CardView {
	return CardView{
		ID:       c.ID,
		Type:     string(c.Type),
		Label:    c.Type.Label(),
		Text:     r.Text(c.Text, c.TextJP),
		ImageURL: c.ImageURL,
	}
}

func (r Renderer) Cards(cards []content.Card, withGroup bool) []CardView {
	out := make([]CardView, 0, len(cards))
	for _, c := range cards {
		cv := r.Card(c)
		if withGroup {
			cv.Group = c.Group
		}
		out = append(out, cv)
	}
	return out
}

// BuildSessionView renders a state snapshot. topic may be nil after the
// session has returned home.
func BuildSessionView(topic *content.Topic, st *game.State, progress float64, lang language.Tag) *SessionView {
	r := Renderer{Lang: lang, Difficulty: st.Config.Difficulty}
	cfg := st.Config

	sv := &SessionView{
		Phase:            st.Phase.String(),
		Round:            st.RoundIndex + 1,
		Rounds:           len(st.BattlePlan),
		TopicID:          cfg.TopicID,
		Stance:           string(cfg.Stance),
		Mode:             string(cfg.Mode),
		Difficulty:       string(cfg.Difficulty),
		Interactive:      st.Phase.Timed() && st.Pending == nil,
		PlayerHP:         st.PlayerHP,
		OpponentHP:       st.OpponentHP,
		MaxHP:            game.MaxHP,
		Score:            st.Score,
		Tower:            make([]CardView, 0, len(st.Tower)),
		Picks:            make([]CardView, 0, len(st.Picks)),
		ActiveLogicGroup: st.ActiveLogicGroup,
		TimerProgress:    progress,
		Outcome:          st.Outcome(),
	}
	if topic != nil {
		sv.TopicTitle = topic.Title
		if isJapanese(lang) && topic.TitleJP != "" {
			sv.TopicTitle = topic.TitleJP
		}
	}

	for _, pc := range st.Tower {
		cv := r.Card(pc.Card)
		cv.Judgment = string(pc.Judgment)
		sv.Tower = append(sv.Tower, cv)
	}
	for _, pc := range st.Picks {
		cv := r.Card(pc.Card)
		cv.Judgment = string(pc.Judgment)
		sv.Picks = append(sv.Picks, cv)
	}

	hints := make(map[string]bool)
	for _, id := range st.HintCardIDs() {
		hints[id] = true
	}
	sv.Hand = make([]CardView, 0, len(st.Hand))
	for _, c := range st.Hand {
		cv := r.Card(c)
		cv.Hint = hints[c.ID]
		sv.Hand = append(sv.Hand, cv)
	}

	if t, ok := st.ExpectedType(); ok {
		sv.NextBlock = t.Label()
	}
	if st.Rival != nil && st.Rival.Prompt != nil {
		sv.Rival = &RivalView{
			Kind:   string(st.Rival.Kind),
			Text:   r.Text(st.Rival.Prompt.Text, st.Rival.Prompt.TextJP),
			Damage: st.Rival.Prompt.Damage,
		}
	}
	if st.Feedback != nil {
		sv.Feedback = &FeedbackView{
			Success: st.Feedback.Success,
			Failure: st.Feedback.Failure.String(),
			Message: st.Feedback.Message,
		}
	}

	if topic != nil {
		if st.Phase.Terminal() {
			sv.ModelAnswer = r.Cards(game.ModelAnswer(topic, cfg.Stance, st.ActiveLogicGroup), true)
		}
		if st.Phase == game.PhaseReview {
			sv.Review = BuildReview(topic, cfg.Stance, r)
		}
	}
	return sv
}

// BuildReview renders the review-mode groups for a stance.
func BuildReview(topic *content.Topic, stance content.Stance, r Renderer) []ReviewGroupView {
	groups := game.ReviewGroups(topic, stance)
	out := make([]ReviewGroupView, 0, len(groups))
	for _, g := range groups {
		out = append(out, ReviewGroupView{Group: g.Group, Cards: r.Cards(g.Cards, true)})
	}
	return out
}

func BuildEventView(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Round:   e.Round,
		Phase:   e.Phase,
		Side:    e.Side.String(),
		Type:    e.Type.String(),
		Card:    e.Card,
		Details: e.Details,
	}
}

func BuildEventViews(events []log.GameEvent) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, BuildEventView(e))
	}
	return out
}
