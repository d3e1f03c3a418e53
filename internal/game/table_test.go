package game

import (
	"errors"
	"testing"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/randutil"
)

var testSeats = []PlayerID{"Rose", "Blanche", "Dorothy", "Sophia"}

func newTestTable(t *testing.T, seed int64) *Table {
	t.Helper()
	return NewTable(randutil.New(seed), testSeats)
}

func TestDealConservesCards(t *testing.T) {
	table := newTestTable(t, 1)

	for _, player := range testSeats {
		if err := table.Deal(13, player); err != nil {
			t.Fatalf("Deal(13, %s) error: %v", player, err)
		}
	}

	if table.Remaining() != 0 {
		t.Errorf("deck has %d cards after full deal, want 0", table.Remaining())
	}

	seen := make(map[deck.Card]PlayerID)
	for _, player := range testSeats {
		hand := table.Hand(player)
		if len(hand) != 13 {
			t.Errorf("%s holds %d cards, want 13", player, len(hand))
		}
		for _, card := range hand {
			if owner, ok := seen[card]; ok {
				t.Errorf("card %s dealt to both %s and %s", card, owner, player)
			}
			seen[card] = player
		}
	}
	if len(seen) != 52 {
		t.Errorf("dealt %d distinct cards, want 52", len(seen))
	}
}

func TestDealFailsWhenDeckExhausted(t *testing.T) {
	table := newTestTable(t, 1)

	if err := table.Deal(50, "Rose"); err != nil {
		t.Fatalf("Deal(50) error: %v", err)
	}
	err := table.Deal(3, "Blanche")
	if !errors.Is(err, ErrDeckExhausted) {
		t.Errorf("Deal past deck size = %v, want ErrDeckExhausted", err)
	}
}

func TestUpdateHandsMovesCards(t *testing.T) {
	table := newTestTable(t, 2)
	if err := table.Deal(13, "Rose"); err != nil {
		t.Fatal(err)
	}

	passed := table.Hand("Rose")[:3]
	err := table.UpdateHands(map[PlayerID]HandUpdate{
		"Rose":    {Removed: passed},
		"Blanche": {Added: passed},
	})
	if err != nil {
		t.Fatalf("UpdateHands error: %v", err)
	}

	if got := table.HandSize("Rose"); got != 10 {
		t.Errorf("Rose holds %d cards, want 10", got)
	}
	if got := table.HandSize("Blanche"); got != 3 {
		t.Errorf("Blanche holds %d cards, want 3", got)
	}
	for _, card := range passed {
		if table.Holds("Rose", card) {
			t.Errorf("Rose still holds passed card %s", card)
		}
		if !table.Holds("Blanche", card) {
			t.Errorf("Blanche missing passed card %s", card)
		}
	}
}

func TestUpdateHandsRejectsRemovingCardNotHeld(t *testing.T) {
	table := newTestTable(t, 3)
	if err := table.Deal(13, "Rose"); err != nil {
		t.Fatal(err)
	}

	var notHeld deck.Card
	for _, card := range deck.New() {
		if !table.Holds("Rose", card) {
			notHeld = card
			break
		}
	}

	before := table.Hand("Rose")
	err := table.UpdateHands(map[PlayerID]HandUpdate{
		"Rose": {Removed: []deck.Card{notHeld}},
	})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("removing %s = %v, want ErrInvariantViolation", notHeld, err)
	}
	if !equalCards(before, table.Hand("Rose")) {
		t.Error("failed update mutated the hand")
	}
}

func TestUpdateHandsRejectsAddingCardAlreadyHeld(t *testing.T) {
	table := newTestTable(t, 4)
	if err := table.Deal(13, "Rose"); err != nil {
		t.Fatal(err)
	}

	held := table.Hand("Rose")[0]
	err := table.UpdateHands(map[PlayerID]HandUpdate{
		"Rose": {Added: []deck.Card{held}},
	})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("adding held card %s = %v, want ErrInvariantViolation", held, err)
	}
}

func TestUpdateHandsBatchIsAtomic(t *testing.T) {
	table := newTestTable(t, 5)
	if err := table.Deal(13, "Rose"); err != nil {
		t.Fatal(err)
	}

	good := table.Hand("Rose")[:3]
	// The second player's removal is invalid, so the whole batch must
	// leave every hand untouched.
	err := table.UpdateHands(map[PlayerID]HandUpdate{
		"Rose":    {Removed: good},
		"Blanche": {Removed: []deck.Card{good[0]}},
	})
	if !errors.Is(err, ErrInvariantViolation) {
		t.Fatalf("invalid batch = %v, want ErrInvariantViolation", err)
	}
	if got := table.HandSize("Rose"); got != 13 {
		t.Errorf("Rose holds %d cards after failed batch, want 13", got)
	}
}

func TestCaptureAccumulates(t *testing.T) {
	table := newTestTable(t, 6)

	trick := deck.MustParseCards("♣2,♣K,♦5,♣A")
	table.capture("Dorothy", trick)
	table.capture("Dorothy", deck.MustParseCards("♥4"))

	taken := table.Taken("Dorothy")
	if len(taken) != 5 {
		t.Errorf("Dorothy captured %d cards, want 5", len(taken))
	}
	if len(table.Taken("Rose")) != 0 {
		t.Error("Rose should have captured nothing")
	}
}

func equalCards(a, b []deck.Card) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
