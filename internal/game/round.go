package game

import "github.com/lox/hearts/internal/deck"

// Round holds the transient state for one deal-pass-play-score cycle.
// A fresh Round (and Table) is created each round; finished rounds are
// archived on the Game.
type Round struct {
	Number        int
	CurrentTrick  []Play
	TrickNo       int
	LeadsTrick    PlayerID
	HeartsBroken  bool
	PassDirection map[PlayerID]PlayerID
	Moonshot      PlayerID // set after scoring if a player shot the moon
}

// newRound computes the pass schedule for round number no: seat i
// passes to the seat 1+(no mod 3) ahead in turn order. The offsets
// cycle 1,2,3 so the direction is never a self-mapping, but passCards
// treats one as a no-op hold round anyway.
func newRound(no int, order []PlayerID) *Round {
	direction := make(map[PlayerID]PlayerID, len(order))
	offset := 1 + no%3
	for i, player := range order {
		direction[player] = order[(i+offset)%len(order)]
	}
	return &Round{
		Number:        no,
		PassDirection: direction,
	}
}

// LedSuit returns the suit of the first card played to the current
// trick, if any card has been played.
func (r *Round) LedSuit() (deck.Suit, bool) {
	if len(r.CurrentTrick) == 0 {
		return 0, false
	}
	return r.CurrentTrick[0].Card.Suit, true
}
