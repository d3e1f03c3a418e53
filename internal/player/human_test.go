package player

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/game"
)

func newTestHuman(input string) (*Human, *bytes.Buffer) {
	out := &bytes.Buffer{}
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewHuman(strings.NewReader(input), out, logger), out
}

func TestHumanPassThreeCards(t *testing.T) {
	human, _ := newTestHuman("♦10,♣2,♥A\n")
	hand := deck.MustParseCards("♦10,♣2,♥A,♠5,♠K")

	cards, err := human.PassThreeCards(context.Background(), hand, "Blanche")
	if err != nil {
		t.Fatalf("PassThreeCards error: %v", err)
	}
	want := deck.MustParseCards("♦10,♣2,♥A")
	if len(cards) != 3 || cards[0] != want[0] || cards[1] != want[1] || cards[2] != want[2] {
		t.Errorf("PassThreeCards = %v, want %v", cards, want)
	}
}

func TestHumanRepromptsOnBadInput(t *testing.T) {
	// Garbage, then a card not in hand, then too few, then valid.
	human, out := newTestHuman("not cards\n♠A,♠K,♠Q\n♦10\n♦10,♣2,♥A\n")
	hand := deck.MustParseCards("♦10,♣2,♥A,♠5,♠K")

	cards, err := human.PassThreeCards(context.Background(), hand, "Blanche")
	if err != nil {
		t.Fatalf("PassThreeCards error: %v", err)
	}
	if len(cards) != 3 {
		t.Errorf("got %d cards, want 3", len(cards))
	}
	if got := strings.Count(out.String(), "try again"); got != 3 {
		t.Errorf("re-prompted %d times, want 3", got)
	}
}

func TestHumanSelectCard(t *testing.T) {
	human, _ := newTestHuman("♠Q\n♦4\n")
	hand := deck.MustParseCards("♦4,♦9,♠Q")
	legal := deck.MustParseCards("♦4,♦9")
	trick := []game.Play{{Player: "Rose", Card: deck.MustParseCard("♦8")}}

	// First answer is in hand but illegal; must be re-prompted.
	card, err := human.SelectCard(context.Background(), hand, legal, trick, nil)
	if err != nil {
		t.Fatalf("SelectCard error: %v", err)
	}
	if want := deck.MustParseCard("♦4"); card != want {
		t.Errorf("SelectCard = %s, want %s", card, want)
	}
}

func TestHumanInputExhausted(t *testing.T) {
	human, _ := newTestHuman("")
	hand := deck.MustParseCards("♦10,♣2,♥A")

	if _, err := human.PassThreeCards(context.Background(), hand, "Blanche"); err == nil {
		t.Error("EOF on input should surface an error")
	}
}

func TestHumanHonoursCancellation(t *testing.T) {
	human, _ := newTestHuman("♦10,♣2,♥A\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := human.PassThreeCards(ctx, deck.MustParseCards("♦10,♣2,♥A"), "Blanche"); err == nil {
		t.Error("cancelled context should surface an error")
	}
}
