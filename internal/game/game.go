package game

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/hearts/internal/deck"
)

const (
	numPlayers   = 4
	cardsPerHand = 13
	passCount    = 3
	// losingScore is the threshold that must be exceeded before the
	// game can end.
	losingScore = 100
)

// Config holds the dependencies and options for a single game.
type Config struct {
	// Order is the fixed seating, clockwise. Must name 4 seats.
	Order []PlayerID
	// Players maps each seat to its strategy.
	Players map[PlayerID]Player
	// Rng drives dealing. Seed it for deterministic games.
	Rng    *rand.Rand
	Logger *log.Logger
	// Clock paces plays when ThinkDelay is set. Defaults to the real
	// clock; tests inject quartz.Mock.
	Clock quartz.Clock
	// ThinkDelay is an optional pause after each play so transcripts
	// are watchable. Zero means no pause.
	ThinkDelay time.Duration
}

// Game orchestrates Table, Round and Players across rounds until one
// player's score exceeds the losing threshold with a unique winner.
type Game struct {
	order      []PlayerID
	players    map[PlayerID]Player
	scores     map[PlayerID]int
	rng        *rand.Rand
	logger     *log.Logger
	clock      quartz.Clock
	thinkDelay time.Duration

	table     *Table
	round     *Round
	roundNo   int
	oldRounds []*Round
	observers []Observer
}

// New validates the configuration and creates a game ready to play.
func New(cfg Config) (*Game, error) {
	if len(cfg.Order) != numPlayers {
		return nil, fmt.Errorf("hearts needs %d players, got %d", numPlayers, len(cfg.Order))
	}
	seen := make(map[PlayerID]bool, numPlayers)
	for _, id := range cfg.Order {
		if seen[id] {
			return nil, fmt.Errorf("duplicate player id %s", id)
		}
		seen[id] = true
		if cfg.Players[id] == nil {
			return nil, fmt.Errorf("no strategy for player %s", id)
		}
	}
	if cfg.Rng == nil {
		return nil, fmt.Errorf("rng is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	clock := cfg.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	scores := make(map[PlayerID]int, numPlayers)
	for _, id := range cfg.Order {
		scores[id] = 0
	}

	return &Game{
		order:      append([]PlayerID(nil), cfg.Order...),
		players:    cfg.Players,
		scores:     scores,
		rng:        cfg.Rng,
		logger:     logger,
		clock:      clock,
		thinkDelay: cfg.ThinkDelay,
		roundNo:    -1,
	}, nil
}

// AddObserver registers an observer for game events.
func (g *Game) AddObserver(o Observer) {
	g.observers = append(g.observers, o)
}

// Scores returns a copy of the cumulative scores.
func (g *Game) Scores() map[PlayerID]int {
	scores := make(map[PlayerID]int, len(g.scores))
	for id, s := range g.scores {
		scores[id] = s
	}
	return scores
}

// Rounds returns the number of completed rounds.
func (g *Game) Rounds() int {
	return len(g.oldRounds)
}

// Play runs rounds until the game ends and returns the winner.
func (g *Game) Play(ctx context.Context) (PlayerID, error) {
	for {
		if err := g.PlayRound(ctx); err != nil {
			return "", err
		}
		if winner, over := g.winner(); over {
			g.publish(GameEndEvent{
				Winner:    winner,
				Scores:    g.Scores(),
				Rounds:    len(g.oldRounds),
				timestamp: time.Now(),
			})
			g.logger.Info("game over", "winner", winner, "scores", g.scores)
			return winner, nil
		}
	}
}

// PlayRound runs one complete deal-pass-play-score cycle.
func (g *Game) PlayRound(ctx context.Context) error {
	if err := g.startRound(); err != nil {
		return err
	}

	if err := g.passingPhase(ctx); err != nil {
		return err
	}

	for g.roundContinues() {
		if err := g.playTrick(ctx); err != nil {
			return err
		}
	}

	g.finishRound()
	g.oldRounds = append(g.oldRounds, g.round)
	return nil
}

// startRound resets the table, computes the pass schedule and deals 13
// cards to each seat.
func (g *Game) startRound() error {
	g.roundNo++
	g.round = newRound(g.roundNo, g.order)
	g.table = NewTable(g.rng, g.order)

	for _, player := range g.order {
		if err := g.table.Deal(cardsPerHand, player); err != nil {
			return fmt.Errorf("dealing round %d: %w", g.roundNo, err)
		}
	}

	g.logger.Info("starting round", "round", g.roundNo, "scores", g.scores, "pass_direction", g.round.PassDirection)
	g.publish(RoundStartEvent{
		Round:         g.roundNo,
		Scores:        g.Scores(),
		PassDirection: g.round.PassDirection,
		timestamp:     time.Now(),
	})
	return nil
}

// passingPhase collects every player's 3-card selection before any
// transfer happens, then applies all transfers as one atomic batch.
// The holder of the club 2 leads trick 0 afterwards.
func (g *Game) passingPhase(ctx context.Context) error {
	holdRound := true
	for player, recipient := range g.round.PassDirection {
		if player != recipient {
			holdRound = false
		}
	}

	if !holdRound {
		passed := make(map[PlayerID][]deck.Card, numPlayers)
		for _, player := range g.order {
			recipient := g.round.PassDirection[player]
			cards, err := g.players[player].PassThreeCards(ctx, g.table.Hand(player), recipient)
			if err != nil {
				return fmt.Errorf("player %s passing: %w", player, err)
			}
			if err := validatePass(cards, g.table.Hand(player)); err != nil {
				return fmt.Errorf("player %s passing: %w", player, err)
			}
			passed[player] = cards
			g.logger.Info("cards passed", "from", player, "to", recipient, "cards", deck.Format(cards))
		}

		if err := g.passCards(passed); err != nil {
			return err
		}

		for _, player := range g.order {
			g.publish(CardsPassedEvent{
				From:      player,
				To:        g.round.PassDirection[player],
				Cards:     passed[player],
				timestamp: time.Now(),
			})
		}
	}

	for _, player := range g.order {
		if g.table.Holds(player, deck.TwoOfClubs) {
			g.round.LeadsTrick = player
		}
	}
	if g.round.LeadsTrick == "" {
		return fmt.Errorf("%w: no player holds %s after passing", ErrInvariantViolation, deck.TwoOfClubs)
	}
	return nil
}

// passCards turns the per-player selections into one UpdateHands batch:
// each selection is removed from the passer and added to the recipient.
func (g *Game) passCards(passed map[PlayerID][]deck.Card) error {
	updates := make(map[PlayerID]HandUpdate, numPlayers)
	for _, player := range g.order {
		updates[player] = HandUpdate{}
	}
	for player, cards := range passed {
		recipient := g.round.PassDirection[player]
		from := updates[player]
		from.Removed = append(from.Removed, cards...)
		updates[player] = from
		to := updates[recipient]
		to.Added = append(to.Added, cards...)
		updates[recipient] = to
	}
	return g.table.UpdateHands(updates)
}

// playTrick runs 4 plays starting from the current leader, resolves the
// winner and hands them the lead.
func (g *Game) playTrick(ctx context.Context) error {
	order := g.trickOrder()
	g.logger.Info("starting trick", "trick", g.round.TrickNo, "order", order)
	g.publish(TrickStartEvent{
		Trick:     g.round.TrickNo,
		Order:     order,
		timestamp: time.Now(),
	})

	for i := 0; i < numPlayers; i++ {
		player := g.whoseMove()
		hand := g.table.Hand(player)
		legal := LegalMoves(hand, g.round)

		card, err := g.players[player].SelectCard(ctx, hand, legal, g.trickSoFar(), g.table.TakenByAll())
		if err != nil {
			return fmt.Errorf("player %s selecting card: %w", player, err)
		}
		if !containsCard(legal, card) {
			return fmt.Errorf("%w: %s played illegal card %s", ErrInvariantViolation, player, card)
		}

		if err := g.makePlay(player, card); err != nil {
			return err
		}

		if g.thinkDelay > 0 {
			if err := sleepClock(ctx, g.clock, g.thinkDelay); err != nil {
				return err
			}
		}
	}

	g.finishTrick()
	return nil
}

// makePlay moves the card from the player's hand into the current trick
// and breaks hearts if a heart was played.
func (g *Game) makePlay(player PlayerID, card deck.Card) error {
	if err := g.table.UpdateHands(map[PlayerID]HandUpdate{
		player: {Removed: []deck.Card{card}},
	}); err != nil {
		return err
	}
	g.round.CurrentTrick = append(g.round.CurrentTrick, Play{Player: player, Card: card})

	if card.Suit == deck.Hearts {
		g.round.HeartsBroken = true
	}

	g.logger.Debug("card played", "player", player, "card", card, "trick", g.round.TrickNo)
	g.publish(CardPlayedEvent{
		Play:         Play{Player: player, Card: card},
		Trick:        g.round.TrickNo,
		HeartsBroken: g.round.HeartsBroken,
		timestamp:    time.Now(),
	})
	return nil
}

// finishTrick resolves the completed trick: the winner captures all 4
// cards and leads the next trick.
func (g *Game) finishTrick() {
	trick := g.round.CurrentTrick
	winner := trickWinner(trick)

	cards := make([]deck.Card, len(trick))
	for i, play := range trick {
		cards[i] = play.Card
	}
	g.table.capture(winner, cards)

	g.logger.Info("trick taken", "trick", g.round.TrickNo, "plays", trick, "taken_by", winner)
	g.publish(TrickWonEvent{
		Trick:     g.round.TrickNo,
		Winner:    winner,
		Plays:     trick,
		Points:    cardPoints(cards),
		timestamp: time.Now(),
	})

	g.round.LeadsTrick = winner
	g.round.CurrentTrick = nil
	g.round.TrickNo++
}

// finishRound applies scoring: a moon shot adds 26 to everyone else,
// otherwise players add the points they captured.
func (g *Game) finishRound() {
	roundPoints := make(map[PlayerID]int, numPlayers)

	if shooter, ok := moonshotWinner(g.table.taken); ok {
		g.round.Moonshot = shooter
		g.logger.Info("player shot the moon", "player", shooter)
		for _, player := range g.order {
			if player != shooter {
				roundPoints[player] = 26
			}
		}
	} else {
		for _, player := range g.order {
			roundPoints[player] = cardPoints(g.table.taken[player])
		}
	}

	for player, points := range roundPoints {
		g.scores[player] += points
	}

	g.logger.Info("round over", "round", g.roundNo, "scores", g.scores)
	g.publish(RoundEndEvent{
		Round:       g.roundNo,
		Moonshot:    g.round.Moonshot,
		RoundPoints: roundPoints,
		Scores:      g.Scores(),
		timestamp:   time.Now(),
	})
}

// winner reports the unique lowest scorer once any score exceeds the
// losing threshold. A tied minimum keeps the game going even past the
// threshold.
func (g *Game) winner() (PlayerID, bool) {
	exceeded := false
	for _, score := range g.scores {
		if score > losingScore {
			exceeded = true
		}
	}
	if !exceeded {
		return "", false
	}

	lowest := g.scores[g.order[0]]
	for _, player := range g.order[1:] {
		if g.scores[player] < lowest {
			lowest = g.scores[player]
		}
	}

	var winner PlayerID
	count := 0
	for _, player := range g.order {
		if g.scores[player] == lowest {
			winner = player
			count++
		}
	}
	if count != 1 {
		return "", false
	}
	return winner, true
}

func (g *Game) roundContinues() bool {
	for _, player := range g.order {
		if g.table.HandSize(player) > 0 {
			return true
		}
	}
	return false
}

// whoseMove derives the player to act from the leader's seat and the
// number of cards already played this trick.
func (g *Game) whoseMove() PlayerID {
	leadIdx := g.seatIndex(g.round.LeadsTrick)
	return g.order[(leadIdx+len(g.round.CurrentTrick))%numPlayers]
}

func (g *Game) trickOrder() []PlayerID {
	leadIdx := g.seatIndex(g.round.LeadsTrick)
	order := make([]PlayerID, numPlayers)
	for i := range order {
		order[i] = g.order[(leadIdx+i)%numPlayers]
	}
	return order
}

func (g *Game) seatIndex(player PlayerID) int {
	for i, id := range g.order {
		if id == player {
			return i
		}
	}
	return 0
}

func (g *Game) trickSoFar() []Play {
	return append([]Play(nil), g.round.CurrentTrick...)
}

func (g *Game) publish(event GameEvent) {
	for _, o := range g.observers {
		o.HandleEvent(event)
	}
}

// validatePass checks a pass selection is 3 distinct cards from hand.
func validatePass(cards, hand []deck.Card) error {
	if len(cards) != passCount {
		return fmt.Errorf("%w: passed %d cards, want %d", ErrInvariantViolation, len(cards), passCount)
	}
	seen := make(map[deck.Card]bool, passCount)
	for _, card := range cards {
		if seen[card] {
			return fmt.Errorf("%w: duplicate card %s in pass", ErrInvariantViolation, card)
		}
		seen[card] = true
		if !containsCard(hand, card) {
			return fmt.Errorf("%w: passed card %s not in hand", ErrInvariantViolation, card)
		}
	}
	return nil
}

// sleepClock waits for d on the injected clock, honouring cancellation.
func sleepClock(ctx context.Context, clock quartz.Clock, d time.Duration) error {
	timer := clock.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
