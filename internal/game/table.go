package game

import (
	"errors"
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/randutil"
)

// ErrInvariantViolation signals a breach of the table's card-ownership
// contract. It marks a programming error in the caller, not a
// recoverable condition.
var ErrInvariantViolation = errors.New("table invariant violation")

// ErrDeckExhausted is returned when a deal asks for more cards than
// remain in the deck.
var ErrDeckExhausted = errors.New("deck exhausted")

// HandUpdate describes one player's side of an atomic hand mutation.
type HandUpdate struct {
	Added   []deck.Card
	Removed []deck.Card
}

// Table owns the deck, per-player hands and per-player captured cards
// for a single round. All hand mutations go through Deal and
// UpdateHands so card conservation can be checked in one place.
type Table struct {
	rng   *rand.Rand
	deck  []deck.Card
	hands map[PlayerID][]deck.Card
	taken map[PlayerID][]deck.Card
	order []PlayerID
}

// NewTable creates a table with a fresh 52-card deck and empty hands
// for the given seats.
func NewTable(rng *rand.Rand, players []PlayerID) *Table {
	t := &Table{
		rng:   rng,
		deck:  deck.New(),
		hands: make(map[PlayerID][]deck.Card, len(players)),
		taken: make(map[PlayerID][]deck.Card, len(players)),
		order: append([]PlayerID(nil), players...),
	}
	for _, id := range players {
		t.hands[id] = []deck.Card{}
		t.taken[id] = []deck.Card{}
	}
	return t
}

// Deal removes n cards uniformly at random from the remaining deck and
// adds them to the player's hand.
func (t *Table) Deal(n int, player PlayerID) error {
	if n > len(t.deck) {
		return fmt.Errorf("%w: dealing %d with %d remaining", ErrDeckExhausted, n, len(t.deck))
	}
	if _, ok := t.hands[player]; !ok {
		return fmt.Errorf("%w: unknown player %s", ErrInvariantViolation, player)
	}

	idxs := randutil.SampleIndices(t.rng, len(t.deck), n)
	picked := make(map[int]bool, n)
	for _, idx := range idxs {
		t.hands[player] = append(t.hands[player], t.deck[idx])
		picked[idx] = true
	}

	remaining := t.deck[:0]
	for i, card := range t.deck {
		if !picked[i] {
			remaining = append(remaining, card)
		}
	}
	t.deck = remaining
	return nil
}

// UpdateHands applies a batch of per-player additions and removals as a
// single logical step: every update is validated against the state
// before the call, so nothing is applied unless all of it can be. A
// player's hand must not already contain an added card and must contain
// every removed card.
func (t *Table) UpdateHands(updates map[PlayerID]HandUpdate) error {
	for player, update := range updates {
		hand, ok := t.hands[player]
		if !ok {
			return fmt.Errorf("%w: unknown player %s", ErrInvariantViolation, player)
		}
		for _, card := range update.Added {
			if containsCard(hand, card) {
				return fmt.Errorf("%w: %s already holds %s", ErrInvariantViolation, player, card)
			}
		}
		for _, card := range update.Removed {
			if !containsCard(hand, card) {
				return fmt.Errorf("%w: %s does not hold %s", ErrInvariantViolation, player, card)
			}
		}
	}

	for player, update := range updates {
		hand := t.hands[player]
		for _, card := range update.Removed {
			hand = removeCard(hand, card)
		}
		hand = append(hand, update.Added...)
		t.hands[player] = hand
	}
	return nil
}

// Hand returns a sorted copy of the player's current hand.
func (t *Table) Hand(player PlayerID) []deck.Card {
	hand := append([]deck.Card(nil), t.hands[player]...)
	deck.Sort(hand)
	return hand
}

// HandSize returns the number of cards the player holds.
func (t *Table) HandSize(player PlayerID) int {
	return len(t.hands[player])
}

// Holds reports whether the player currently holds the card.
func (t *Table) Holds(player PlayerID, card deck.Card) bool {
	return containsCard(t.hands[player], card)
}

// Taken returns a sorted copy of the cards the player has captured in
// completed tricks this round.
func (t *Table) Taken(player PlayerID) []deck.Card {
	taken := append([]deck.Card(nil), t.taken[player]...)
	deck.Sort(taken)
	return taken
}

// TakenByAll returns captured cards for every seat, keyed by player.
func (t *Table) TakenByAll() map[PlayerID][]deck.Card {
	all := make(map[PlayerID][]deck.Card, len(t.taken))
	for player := range t.taken {
		all[player] = t.Taken(player)
	}
	return all
}

// Remaining returns the number of undealt cards.
func (t *Table) Remaining() int {
	return len(t.deck)
}

// capture moves a completed trick's cards into the winner's taken pile.
func (t *Table) capture(winner PlayerID, cards []deck.Card) {
	t.taken[winner] = append(t.taken[winner], cards...)
}

func containsCard(cards []deck.Card, card deck.Card) bool {
	for _, c := range cards {
		if c == card {
			return true
		}
	}
	return false
}

func removeCard(cards []deck.Card, card deck.Card) []deck.Card {
	for i, c := range cards {
		if c == card {
			return append(cards[:i], cards[i+1:]...)
		}
	}
	return cards
}
