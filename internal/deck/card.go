package deck

import "fmt"

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Clubs
	Diamonds
	Hearts
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	default:
		return "?"
	}
}

// Rank represents a card rank. Two is lowest, Ace is highest.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// String returns the string representation of a rank
func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	default:
		if r >= Two && r <= Ten {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// The two cards with special roles in Hearts.
var (
	TwoOfClubs    = Card{Suit: Clubs, Rank: Two}
	QueenOfSpades = Card{Suit: Spades, Rank: Queen}
)

// String returns the string representation of a card (e.g., "♥A")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Suit, c.Rank)
}

// IsRed returns true for hearts and diamonds.
func (c Card) IsRed() bool {
	return c.Suit == Hearts || c.Suit == Diamonds
}

// Points returns the penalty points the card carries when captured:
// every heart is worth 1, the queen of spades 13, everything else 0.
func (c Card) Points() int {
	switch {
	case c.Suit == Hearts:
		return 1
	case c == QueenOfSpades:
		return 13
	default:
		return 0
	}
}

// Less orders cards suit-major, rank-minor. The ordering carries no
// game meaning; it exists so hands sort deterministically for display
// and seeded sampling.
func (c Card) Less(other Card) bool {
	if c.Suit != other.Suit {
		return c.Suit < other.Suit
	}
	return c.Rank < other.Rank
}

// New returns all 52 cards in deterministic order.
func New() []Card {
	cards := make([]Card, 0, 52)
	for suit := Spades; suit <= Hearts; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(suit, rank))
		}
	}
	return cards
}
