package deck

import (
	"fmt"
	"sort"
	"strings"
)

var suitRunes = map[rune]Suit{
	'♠': Spades,
	'♣': Clubs,
	'♦': Diamonds,
	'♥': Hearts,
}

var rankNames = map[string]Rank{
	"2": Two, "3": Three, "4": Four, "5": Five, "6": Six, "7": Seven,
	"8": Eight, "9": Nine, "10": Ten,
	"J": Jack, "Q": Queen, "K": King, "A": Ace,
}

// ParseCard parses a single card token like "♥A" or "♦10". The suit
// symbol comes first, matching how cards are displayed.
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) < 2 {
		return Card{}, fmt.Errorf("invalid card %q: want <suit><rank>", s)
	}

	suit, ok := suitRunes[runes[0]]
	if !ok {
		return Card{}, fmt.Errorf("invalid suit %q in card %q", string(runes[0]), s)
	}

	rank, ok := rankNames[strings.ToUpper(string(runes[1:]))]
	if !ok {
		return Card{}, fmt.Errorf("invalid rank %q in card %q", string(runes[1:]), s)
	}

	return Card{Suit: suit, Rank: rank}, nil
}

// ParseCards parses a comma-separated list of card tokens like
// "♦10,♣2,♥A". An empty string parses to no cards.
func ParseCards(s string) ([]Card, error) {
	if strings.TrimSpace(s) == "" {
		return []Card{}, nil
	}

	tokens := strings.Split(s, ",")
	cards := make([]Card, 0, len(tokens))
	for _, token := range tokens {
		card, err := ParseCard(token)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, nil
}

// MustParseCard parses a card token and panics on failure. For tests
// and fixed cards in code.
func MustParseCard(s string) Card {
	card, err := ParseCard(s)
	if err != nil {
		panic(err)
	}
	return card
}

// MustParseCards parses a card list and panics on failure.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// Format renders cards as a comma-separated list in the same form
// ParseCards accepts.
func Format(cards []Card) string {
	tokens := make([]string, len(cards))
	for i, card := range cards {
		tokens[i] = card.String()
	}
	return strings.Join(tokens, ",")
}

// Sort sorts cards in place suit-major, rank-minor.
func Sort(cards []Card) {
	sort.Slice(cards, func(i, j int) bool { return cards[i].Less(cards[j]) })
}
