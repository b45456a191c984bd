package game

import (
	"errors"
	"fmt"
	"testing"

	"github.com/peterkuimelis/debatex/internal/content"
)

func topicWithFakes(n int) *content.Topic {
	topic := constructOnlyTopic()
	for i := 0; i < n; i++ {
		topic.Deck = append(topic.Deck, deckCard(fmt.Sprintf("f%d", i), content.CardReason, content.StanceAffirmative, content.FakeGroup))
	}
	return topic
}

func TestBuildHandSamplesFakes(t *testing.T) {
	tests := []struct {
		difficulty Difficulty
		fakes      int
		wantFakes  int
	}{
		{DifficultyEasy, 10, 4},
		{DifficultyMedium, 10, 6},
		{DifficultyHard, 10, 8},
		{DifficultyHard, 3, 3},
		{DifficultyEasy, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.difficulty, tt.fakes), func(t *testing.T) {
			hand, err := BuildHand(topicWithFakes(tt.fakes), content.StanceAffirmative, ModeArea, tt.difficulty, newRand(5))
			if err != nil {
				t.Fatalf("BuildHand: %v", err)
			}
			valid, fakes := 0, 0
			seen := make(map[string]bool)
			for _, c := range hand {
				if seen[c.ID] {
					t.Fatalf("duplicate card %s", c.ID)
				}
				seen[c.ID] = true
				if c.IsFake() {
					fakes++
				} else {
					valid++
				}
			}
			if valid != 4 {
				t.Errorf("valid cards = %d, want all 4", valid)
			}
			if fakes != tt.wantFakes {
				t.Errorf("fake cards = %d, want %d", fakes, tt.wantFakes)
			}
		})
	}
}

func TestBuildHandFiltersStanceAndMode(t *testing.T) {
	topic := newTestTopic()

	neg, err := BuildHand(topic, content.StanceNegative, ModeArea, DifficultyEasy, newRand(1))
	if err != nil {
		t.Fatalf("BuildHand: %v", err)
	}
	if len(neg) != 4 {
		t.Errorf("negative hand = %v", handIDs(neg))
	}
	for _, c := range neg {
		if c.Stance != content.StanceNegative {
			t.Errorf("%s has stance %s", c.ID, c.Stance)
		}
	}

	link, err := BuildHand(topic, content.StanceAffirmative, ModeLogicLink, DifficultyEasy, newRand(1))
	if err != nil {
		t.Fatalf("BuildHand: %v", err)
	}
	if len(link) != 5 { // r1 e1 r2 e2 fr
		t.Errorf("logic_link hand = %v", handIDs(link))
	}
}

func TestBuildHandNoPlayableCards(t *testing.T) {
	topic := &content.Topic{ID: "empty"}
	_, err := BuildHand(topic, content.StanceAffirmative, ModeArea, DifficultyEasy, newRand(1))
	if !errors.Is(err, ErrNoPlayableCards) {
		t.Errorf("expected ErrNoPlayableCards, got %v", err)
	}
}

func TestPickNAndShuffle(t *testing.T) {
	r := newRand(11)
	src := []int{1, 2, 3, 4, 5}

	got := pickN(r, src, 3)
	if len(got) != 3 {
		t.Fatalf("pickN(3) returned %d", len(got))
	}
	if src[0] != 1 || src[4] != 5 {
		t.Errorf("pickN modified its input: %v", src)
	}
	if got := pickN(r, src, 9); len(got) != 5 {
		t.Errorf("pickN beyond length returned %d", len(got))
	}
	if got := pickN(r, src, -1); len(got) != 0 {
		t.Errorf("pickN(-1) returned %d", len(got))
	}

	s := []int{1, 2, 3, 4, 5, 6}
	shuffle(r, s)
	sum := 0
	for _, v := range s {
		sum += v
	}
	if sum != 21 || len(s) != 6 {
		t.Errorf("shuffle lost elements: %v", s)
	}
}

func TestApplyDamage(t *testing.T) {
	tests := []struct {
		hp, amount, want float64
	}{
		{100, 50, 50},
		{25, 25, 0},
		{12.5, 25, 0},
		{100, 12.5, 87.5},
		{100, -30, MaxHP},
		{0, 12.5, 0},
	}
	for _, tt := range tests {
		if got := ApplyDamage(tt.hp, tt.amount); got != tt.want {
			t.Errorf("ApplyDamage(%g, %g) = %g, want %g", tt.hp, tt.amount, got, tt.want)
		}
	}
}

func TestParseDifficultyAndMode(t *testing.T) {
	if d, err := ParseDifficulty(" Hard "); err != nil || d != DifficultyHard {
		t.Errorf("ParseDifficulty = %q, %v", d, err)
	}
	if _, err := ParseDifficulty("nightmare"); err == nil {
		t.Error("expected an error")
	}
	if m, err := ParseMode(""); err != nil || m != ModeArea {
		t.Errorf("empty mode = %q, %v", m, err)
	}
	if _, err := ParseMode("blitz"); err == nil {
		t.Error("expected an error")
	}
	if got := len(ModeLogicLink.Flow()); got != 2 {
		t.Errorf("logic_link flow length = %d", got)
	}
}
