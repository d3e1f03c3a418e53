package game

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/randutil"
)

// firstLegal is a deterministic strategy for engine tests: it passes
// the first 3 cards of its hand and plays the first legal card.
type firstLegal struct{}

func (firstLegal) PassThreeCards(_ context.Context, hand []deck.Card, _ PlayerID) ([]deck.Card, error) {
	return hand[:3], nil
}

func (firstLegal) SelectCard(_ context.Context, _, legal []deck.Card, _ []Play, _ map[PlayerID][]deck.Card) (deck.Card, error) {
	return legal[0], nil
}

// cheater always plays the last card of its full hand, legal or not.
type cheater struct{}

func (cheater) PassThreeCards(_ context.Context, hand []deck.Card, _ PlayerID) ([]deck.Card, error) {
	return hand[:3], nil
}

func (cheater) SelectCard(_ context.Context, hand, _ []deck.Card, _ []Play, _ map[PlayerID][]deck.Card) (deck.Card, error) {
	return hand[len(hand)-1], nil
}

type recorder struct {
	events []GameEvent
}

func (r *recorder) HandleEvent(event GameEvent) {
	r.events = append(r.events, event)
}

func newTestGame(t *testing.T, seed int64, players map[PlayerID]Player) *Game {
	t.Helper()
	if players == nil {
		players = map[PlayerID]Player{}
		for _, id := range testSeats {
			players[id] = firstLegal{}
		}
	}
	g, err := New(Config{
		Order:   testSeats,
		Players: players,
		Rng:     randutil.New(seed),
		Logger:  log.NewWithOptions(io.Discard, log.Options{}),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return g
}

func TestNewValidatesConfig(t *testing.T) {
	players := map[PlayerID]Player{}
	for _, id := range testSeats {
		players[id] = firstLegal{}
	}

	if _, err := New(Config{Order: testSeats[:3], Players: players, Rng: randutil.New(1)}); err == nil {
		t.Error("New() should reject 3 players")
	}
	if _, err := New(Config{Order: testSeats, Players: nil, Rng: randutil.New(1)}); err == nil {
		t.Error("New() should reject missing strategies")
	}
	if _, err := New(Config{Order: testSeats, Players: players}); err == nil {
		t.Error("New() should reject nil rng")
	}
	dup := []PlayerID{"Rose", "Rose", "Dorothy", "Sophia"}
	if _, err := New(Config{Order: dup, Players: players, Rng: randutil.New(1)}); err == nil {
		t.Error("New() should reject duplicate seats")
	}
}

func TestStartRoundDealsFullDeck(t *testing.T) {
	g := newTestGame(t, 1, nil)
	if err := g.startRound(); err != nil {
		t.Fatalf("startRound error: %v", err)
	}

	if g.table.Remaining() != 0 {
		t.Errorf("deck has %d cards, want 0", g.table.Remaining())
	}
	for _, player := range testSeats {
		if got := g.table.HandSize(player); got != 13 {
			t.Errorf("%s holds %d cards, want 13", player, got)
		}
	}
}

func TestPassingPhaseIsPermutation(t *testing.T) {
	g := newTestGame(t, 2, nil)
	if err := g.startRound(); err != nil {
		t.Fatal(err)
	}

	before := make(map[PlayerID][]deck.Card)
	union := make(map[deck.Card]bool)
	for _, player := range testSeats {
		before[player] = g.table.Hand(player)
		for _, card := range before[player] {
			union[card] = true
		}
	}

	if err := g.passingPhase(context.Background()); err != nil {
		t.Fatalf("passingPhase error: %v", err)
	}

	after := make(map[deck.Card]bool)
	for _, player := range testSeats {
		hand := g.table.Hand(player)
		if len(hand) != 13 {
			t.Errorf("%s holds %d cards after pass, want 13", player, len(hand))
		}

		kept := 0
		for _, card := range hand {
			after[card] = true
			if containsCard(before[player], card) {
				kept++
			}
		}
		if kept != 10 {
			t.Errorf("%s kept %d original cards, want 10", player, kept)
		}
	}

	if len(after) != len(union) {
		t.Errorf("card multiset changed: %d cards after, %d before", len(after), len(union))
	}

	if !g.table.Holds(g.round.LeadsTrick, deck.TwoOfClubs) {
		t.Errorf("leader %s does not hold ♣2", g.round.LeadsTrick)
	}
}

func TestPlayRoundConservesAndScores(t *testing.T) {
	g := newTestGame(t, 3, nil)
	rec := &recorder{}
	g.AddObserver(rec)

	if err := g.PlayRound(context.Background()); err != nil {
		t.Fatalf("PlayRound error: %v", err)
	}

	// All 52 cards must end up captured, hands empty.
	captured := 0
	for _, player := range testSeats {
		if g.table.HandSize(player) != 0 {
			t.Errorf("%s still holds cards after round", player)
		}
		captured += len(g.table.Taken(player))
	}
	if captured != 52 {
		t.Errorf("captured %d cards, want 52", captured)
	}

	var roundEnd *RoundEndEvent
	heartsBroken := false
	for _, event := range rec.events {
		switch e := event.(type) {
		case CardPlayedEvent:
			if heartsBroken && !e.HeartsBroken {
				t.Error("hearts-broken flag reset mid-round")
			}
			if e.HeartsBroken {
				heartsBroken = true
			}
		case RoundEndEvent:
			roundEnd = &e
		}
	}
	if roundEnd == nil {
		t.Fatal("no RoundEndEvent published")
	}

	total := 0
	for _, points := range roundEnd.RoundPoints {
		total += points
	}
	if roundEnd.Moonshot == "" {
		if total != 26 {
			t.Errorf("round points total %d, want 26", total)
		}
	} else if total != 78 {
		t.Errorf("moonshot round points total %d, want 78", total)
	}
}

func TestPlayRoundRejectsIllegalPlay(t *testing.T) {
	players := map[PlayerID]Player{}
	for _, id := range testSeats {
		players[id] = cheater{}
	}
	g := newTestGame(t, 4, players)

	// The cheater eventually plays an out-of-suit card while holding
	// the led suit; the engine must refuse it.
	err := g.PlayRound(context.Background())
	if !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("PlayRound with cheater = %v, want ErrInvariantViolation", err)
	}
}

func TestMoonshotScoring(t *testing.T) {
	g := newTestGame(t, 5, nil)
	g.roundNo = 0
	g.round = newRound(0, testSeats)
	g.table = NewTable(g.rng, testSeats)

	var moonCards []deck.Card
	for rank := deck.Two; rank <= deck.Ace; rank++ {
		moonCards = append(moonCards, deck.NewCard(deck.Hearts, rank))
	}
	moonCards = append(moonCards, deck.QueenOfSpades)
	g.table.capture("Dorothy", moonCards)

	g.finishRound()

	for _, player := range testSeats {
		want := 26
		if player == "Dorothy" {
			want = 0
		}
		if got := g.scores[player]; got != want {
			t.Errorf("%s scored %d, want %d", player, got, want)
		}
	}
	if g.round.Moonshot != "Dorothy" {
		t.Errorf("Moonshot = %s, want Dorothy", g.round.Moonshot)
	}
}

func TestStandardScoring(t *testing.T) {
	g := newTestGame(t, 6, nil)
	g.roundNo = 0
	g.round = newRound(0, testSeats)
	g.table = NewTable(g.rng, testSeats)

	g.table.capture("Rose", deck.MustParseCards("♥2,♥3,♥4,♥5,♠Q"))
	g.table.capture("Blanche", deck.MustParseCards("♣A,♦K"))

	g.finishRound()

	if got := g.scores["Rose"]; got != 17 {
		t.Errorf("Rose scored %d, want 17", got)
	}
	if got := g.scores["Blanche"]; got != 0 {
		t.Errorf("Blanche scored %d, want 0", got)
	}
}

func TestWinnerRequiresUniqueMinimum(t *testing.T) {
	tests := []struct {
		name   string
		scores map[PlayerID]int
		winner PlayerID
		over   bool
	}{
		{
			name:   "nobody past threshold",
			scores: map[PlayerID]int{"Rose": 100, "Blanche": 50, "Dorothy": 40, "Sophia": 30},
			over:   false,
		},
		{
			name:   "unique minimum wins",
			scores: map[PlayerID]int{"Rose": 120, "Blanche": 50, "Dorothy": 40, "Sophia": 30},
			winner: "Sophia",
			over:   true,
		},
		{
			name:   "tied minimum keeps playing",
			scores: map[PlayerID]int{"Rose": 120, "Blanche": 30, "Dorothy": 30, "Sophia": 50},
			over:   false,
		},
		{
			name:   "three-way minimum tie keeps playing",
			scores: map[PlayerID]int{"Rose": 120, "Blanche": 30, "Dorothy": 30, "Sophia": 30},
			over:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, 7, nil)
			g.scores = tt.scores
			winner, over := g.winner()
			if over != tt.over || winner != tt.winner {
				t.Errorf("winner() = %s,%v, want %s,%v", winner, over, tt.winner, tt.over)
			}
		})
	}
}

func TestPlayRunsToCompletion(t *testing.T) {
	g := newTestGame(t, 8, nil)
	rec := &recorder{}
	g.AddObserver(rec)

	winner, err := g.Play(context.Background())
	if err != nil {
		t.Fatalf("Play error: %v", err)
	}

	scores := g.Scores()
	exceeded := false
	for _, score := range scores {
		if score > 100 {
			exceeded = true
		}
	}
	if !exceeded {
		t.Errorf("game ended with no score above 100: %v", scores)
	}
	for player, score := range scores {
		if player != winner && score <= scores[winner] {
			t.Errorf("winner %s (%d) is not the unique minimum: %s has %d", winner, scores[winner], player, score)
		}
	}

	last := rec.events[len(rec.events)-1]
	end, ok := last.(GameEndEvent)
	if !ok {
		t.Fatalf("last event is %T, want GameEndEvent", last)
	}
	if end.Winner != winner {
		t.Errorf("GameEndEvent winner %s, want %s", end.Winner, winner)
	}
	if end.Rounds != g.Rounds() {
		t.Errorf("GameEndEvent rounds %d, want %d", end.Rounds, g.Rounds())
	}
}

func TestWhoseMoveFollowsSeating(t *testing.T) {
	g := newTestGame(t, 9, nil)
	g.round = newRound(0, testSeats)
	g.round.LeadsTrick = "Dorothy"

	want := []PlayerID{"Dorothy", "Sophia", "Rose", "Blanche"}
	for i, expected := range want {
		g.round.CurrentTrick = make([]Play, i)
		if got := g.whoseMove(); got != expected {
			t.Errorf("play %d: whoseMove = %s, want %s", i, got, expected)
		}
	}

	if got := g.trickOrder(); got[0] != "Dorothy" || got[3] != "Blanche" {
		t.Errorf("trickOrder = %v", got)
	}
}
