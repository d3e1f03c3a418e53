// Package player provides the strategy variants that sit behind the
// game.Player interface: a rule-based safe player, an interactive
// console player and an LLM-backed player.
package player

import (
	"context"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/game"
	"github.com/lox/hearts/internal/randutil"
)

// Safe is a rule-based strategy that always sheds the safest card: it
// follows the led suit when it can, avoids giving up the queen of
// spades and hearts for as long as possible, and passes at random.
type Safe struct {
	rng *rand.Rand
}

// NewSafe creates a safe player driven by the given RNG.
func NewSafe(rng *rand.Rand) *Safe {
	return &Safe{rng: rng}
}

// PassThreeCards picks 3 cards uniformly at random.
func (s *Safe) PassThreeCards(_ context.Context, hand []deck.Card, _ game.PlayerID) ([]deck.Card, error) {
	if len(hand) < 3 {
		return nil, fmt.Errorf("cannot pass 3 cards from a hand of %d", len(hand))
	}
	cards := make([]deck.Card, 0, 3)
	for _, idx := range randutil.SampleIndices(s.rng, len(hand), 3) {
		cards = append(cards, hand[idx])
	}
	return cards, nil
}

// SelectCard orders the legal cards led-suit first, then other
// pointless cards, with hearts and the queen of spades last, and plays
// the most preferred.
func (s *Safe) SelectCard(_ context.Context, _, legal []deck.Card, trick []game.Play, _ map[game.PlayerID][]deck.Card) (deck.Card, error) {
	if len(legal) == 0 {
		return deck.Card{}, fmt.Errorf("no legal cards to select from")
	}

	var ledSuit deck.Suit
	hasLed := false
	if len(trick) > 0 {
		ledSuit = trick[0].Card.Suit
		hasLed = true
	}

	var follows, neutral, bad []deck.Card
	for _, card := range legal {
		switch {
		case hasLed && card.Suit == ledSuit:
			follows = append(follows, card)
		case card.Suit == deck.Hearts || card == deck.QueenOfSpades:
			bad = append(bad, card)
		default:
			neutral = append(neutral, card)
		}
	}

	ordered := append(follows, neutral...)
	ordered = append(ordered, bad...)
	return ordered[0], nil
}
