package game

import (
	"context"
	"fmt"

	"github.com/lox/hearts/internal/deck"
)

// PlayerID identifies a seat at the table.
type PlayerID string

// Play is one card played by one player within a trick.
type Play struct {
	Player PlayerID
	Card   deck.Card
}

func (p Play) String() string {
	return fmt.Sprintf("%s/%s", p.Player, p.Card)
}

// Player selects cards to pass and play. Implementations must only
// return valid selections: recoverable failures (bad input, bad LLM
// replies) are handled inside the implementation's own loop and never
// surface to the engine.
type Player interface {
	// PassThreeCards returns exactly 3 distinct cards from hand to send
	// to recipient at the start of a round.
	PassThreeCards(ctx context.Context, hand []deck.Card, recipient PlayerID) ([]deck.Card, error)

	// SelectCard returns one card from legal to play into the current
	// trick. taken holds every player's captured cards so far this round.
	SelectCard(ctx context.Context, hand, legal []deck.Card, trick []Play, taken map[PlayerID][]deck.Card) (deck.Card, error)
}
