package game

import "github.com/lox/hearts/internal/deck"

// LegalMoves computes the subset of hand that may be played given the
// round state. Rules apply in priority order: the club 2 must open,
// the led suit must be followed, and only then do the hearts
// restrictions kick in. The result is never empty for a non-empty hand.
func LegalMoves(hand []deck.Card, round *Round) []deck.Card {
	if containsCard(hand, deck.TwoOfClubs) {
		return []deck.Card{deck.TwoOfClubs}
	}

	if ledSuit, ok := round.LedSuit(); ok {
		var follow []deck.Card
		for _, card := range hand {
			if card.Suit == ledSuit {
				follow = append(follow, card)
			}
		}
		if len(follow) > 0 {
			return follow
		}
	}

	legal := append([]deck.Card(nil), hand...)

	// No points on the opening trick, unless the hand is nothing but
	// hearts and the queen.
	if round.TrickNo == 0 {
		var safe []deck.Card
		for _, card := range legal {
			if card.Suit != deck.Hearts && card != deck.QueenOfSpades {
				safe = append(safe, card)
			}
		}
		if len(safe) > 0 {
			legal = safe
		}
	}

	// Hearts cannot be led before they are broken, unless forced.
	if len(round.CurrentTrick) == 0 && !round.HeartsBroken {
		var safe []deck.Card
		for _, card := range legal {
			if card.Suit != deck.Hearts {
				safe = append(safe, card)
			}
		}
		if len(safe) > 0 {
			legal = safe
		}
	}

	return legal
}

// trickWinner returns the player who played the highest rank in the
// led suit. The trick must be complete.
func trickWinner(trick []Play) PlayerID {
	ledSuit := trick[0].Card.Suit
	winner := trick[0].Player
	best := trick[0].Card.Rank
	for _, play := range trick[1:] {
		if play.Card.Suit == ledSuit && play.Card.Rank > best {
			best = play.Card.Rank
			winner = play.Player
		}
	}
	return winner
}

// cardPoints sums the penalty points over a pile of cards.
func cardPoints(cards []deck.Card) int {
	total := 0
	for _, card := range cards {
		total += card.Points()
	}
	return total
}

// moonshotWinner reports the player who captured all 13 hearts and the
// queen of spades this round, if any.
func moonshotWinner(taken map[PlayerID][]deck.Card) (PlayerID, bool) {
	for player, cards := range taken {
		hearts := 0
		queen := false
		for _, card := range cards {
			if card.Suit == deck.Hearts {
				hearts++
			}
			if card == deck.QueenOfSpades {
				queen = true
			}
		}
		if hearts == 13 && queen {
			return player, true
		}
	}
	return "", false
}
