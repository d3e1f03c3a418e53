package player

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/game"
)

// Human prompts a person for decisions over a line-oriented text
// interface. Malformed or illegal input is re-prompted indefinitely;
// the engine only ever sees a valid selection.
type Human struct {
	in     *bufio.Reader
	out    io.Writer
	logger *log.Logger
}

// NewHuman creates an interactive player reading from in and prompting
// on out (typically stdin/stdout).
func NewHuman(in io.Reader, out io.Writer, logger *log.Logger) *Human {
	return &Human{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger,
	}
}

// PassThreeCards prompts for a comma-separated 3-card selection.
func (h *Human) PassThreeCards(ctx context.Context, hand []deck.Card, recipient game.PlayerID) ([]deck.Card, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fmt.Fprintf(h.out, "Passing three cards to %s. Your hand is %s. List cards to pass like '♦10,♣2,♥A': ", recipient, deck.Format(hand))
		line, err := h.in.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("reading pass selection: %w", err)
		}

		cards, err := deck.ParseCards(line)
		if err != nil {
			h.logger.Debug("malformed pass input", "error", err)
			fmt.Fprintf(h.out, "That didn't work (%v), try again...\n", err)
			continue
		}
		if err := validateSelection(cards, hand, 3); err != nil {
			fmt.Fprintf(h.out, "That didn't work (%v), try again...\n", err)
			continue
		}
		return cards, nil
	}
}

// SelectCard prompts for a single card from the legal set.
func (h *Human) SelectCard(ctx context.Context, hand, legal []deck.Card, trick []game.Play, _ map[game.PlayerID][]deck.Card) (deck.Card, error) {
	for {
		if err := ctx.Err(); err != nil {
			return deck.Card{}, err
		}

		fmt.Fprintf(h.out, "Your turn. Hand: %s. Legal: %s. Trick so far: %v. Play a card like '♣J': ",
			deck.Format(hand), deck.Format(legal), trick)
		line, err := h.in.ReadString('\n')
		if err != nil {
			return deck.Card{}, fmt.Errorf("reading card selection: %w", err)
		}

		card, err := deck.ParseCard(line)
		if err != nil {
			h.logger.Debug("malformed play input", "error", err)
			fmt.Fprintf(h.out, "That didn't work (%v), try again...\n", err)
			continue
		}
		if !containsCard(legal, card) {
			fmt.Fprintf(h.out, "%s is not legal right now, try again...\n", card)
			continue
		}
		return card, nil
	}
}

// validateSelection checks that cards holds exactly n distinct members
// of hand.
func validateSelection(cards, hand []deck.Card, n int) error {
	if len(cards) != n {
		return fmt.Errorf("selected %d cards, want %d", len(cards), n)
	}
	seen := make(map[deck.Card]bool, n)
	for _, card := range cards {
		if seen[card] {
			return fmt.Errorf("duplicate card %s", card)
		}
		seen[card] = true
		if !containsCard(hand, card) {
			return fmt.Errorf("card %s is not in your hand", card)
		}
	}
	return nil
}

func containsCard(cards []deck.Card, card deck.Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}
