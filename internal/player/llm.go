package player

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/hearts/internal/deck"
	"github.com/lox/hearts/internal/game"
	"github.com/lox/hearts/internal/llm"
)

const (
	defaultMaxAttempts = 5
	defaultBackoff     = time.Second
)

// LLMOptions configures an LLM-backed player.
type LLMOptions struct {
	// CountsCards includes every player's captured cards in the play
	// prompt.
	CountsCards bool
	// ShootTheMoon asks the model to play for a moon shot.
	ShootTheMoon bool
	// MaxAttempts bounds the parse/legality retry loop. Defaults to 5.
	MaxAttempts int
	// Backoff is the fixed delay between attempts. Defaults to 1s.
	Backoff time.Duration
}

// LLM asks a text-completion backend for decisions. Replies that fail
// to parse or are illegal are retried with a fixed backoff; when the
// attempt budget is exhausted the player falls back to the safe
// rule-based strategy so the game always makes progress.
type LLM struct {
	client       llm.Completer
	fallback     game.Player
	clock        quartz.Clock
	logger       *log.Logger
	systemPrompt string
	countsCards  bool
	maxAttempts  int
	backoff      time.Duration
}

// NewLLM creates an LLM-backed player. The system prompt names the
// player and its opponents so the model keeps a consistent persona
// across the match.
func NewLLM(id game.PlayerID, opponents []game.PlayerID, client llm.Completer, fallback game.Player, clock quartz.Clock, logger *log.Logger, opts LLMOptions) *LLM {
	names := make([]string, len(opponents))
	for i, opp := range opponents {
		names[i] = string(opp)
	}
	systemPrompt := fmt.Sprintf("Your name is %s and you're playing a game of Hearts against %s.", id, strings.Join(names, ", "))
	if opts.ShootTheMoon {
		systemPrompt += "\nTry to shoot the moon!"
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	backoff := opts.Backoff
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if clock == nil {
		clock = quartz.NewReal()
	}

	return &LLM{
		client:       client,
		fallback:     fallback,
		clock:        clock,
		logger:       logger,
		systemPrompt: systemPrompt,
		countsCards:  opts.CountsCards,
		maxAttempts:  maxAttempts,
		backoff:      backoff,
	}
}

// PassThreeCards prompts the model for a 3-card selection, retrying on
// unparseable or invalid replies and falling back to the safe strategy
// once attempts are exhausted.
func (p *LLM) PassThreeCards(ctx context.Context, hand []deck.Card, recipient game.PlayerID) ([]deck.Card, error) {
	prompt := fmt.Sprintf("Choose 3 cards to pass to %s. Your hand: %s. Reply ONLY with a list of cards to pass like: '♦10,♣2,♥A'.",
		recipient, deck.Format(hand))

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		cards, err := p.tryPass(ctx, prompt, hand)
		if err == nil {
			return cards, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		p.logger.Warn("pass selection failed, retrying", "attempt", attempt, "error", err)
		if attempt < p.maxAttempts {
			if err := p.wait(ctx); err != nil {
				return nil, err
			}
		}
	}

	p.logger.Error("pass attempts exhausted, using safe fallback")
	return p.fallback.PassThreeCards(ctx, hand, recipient)
}

// SelectCard prompts the model for one legal card, with the same retry
// and fallback behaviour as passing.
func (p *LLM) SelectCard(ctx context.Context, hand, legal []deck.Card, trick []game.Play, taken map[game.PlayerID][]deck.Card) (deck.Card, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Choose a card to play in current trick. The trick so far: %s. Your hand: %s. Cards you can legally play: %s\n",
		formatTrick(trick), deck.Format(hand), deck.Format(legal))
	if p.countsCards {
		fmt.Fprintf(&b, "You have been counting cards that have been taken so far, use this to your advantage: %s.\n", formatTaken(taken))
	}
	b.WriteString("Reply ONLY with a card that's LEGAL to play in the format: '♣J'.")
	prompt := b.String()

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		card, err := p.trySelect(ctx, prompt, legal)
		if err == nil {
			return card, nil
		}
		if ctx.Err() != nil {
			return deck.Card{}, ctx.Err()
		}

		p.logger.Warn("card selection failed, retrying", "attempt", attempt, "error", err)
		if attempt < p.maxAttempts {
			if err := p.wait(ctx); err != nil {
				return deck.Card{}, err
			}
		}
	}

	p.logger.Error("select attempts exhausted, using safe fallback")
	return p.fallback.SelectCard(ctx, hand, legal, trick, taken)
}

func (p *LLM) tryPass(ctx context.Context, prompt string, hand []deck.Card) ([]deck.Card, error) {
	reply, err := p.client.GetCompletion(ctx, p.systemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	cards, err := deck.ParseCards(reply)
	if err != nil {
		return nil, fmt.Errorf("parsing reply %q: %w", reply, err)
	}
	if err := validateSelection(cards, hand, 3); err != nil {
		return nil, fmt.Errorf("reply %q: %w", reply, err)
	}
	return cards, nil
}

func (p *LLM) trySelect(ctx context.Context, prompt string, legal []deck.Card) (deck.Card, error) {
	reply, err := p.client.GetCompletion(ctx, p.systemPrompt, prompt)
	if err != nil {
		return deck.Card{}, err
	}

	card, err := deck.ParseCard(reply)
	if err != nil {
		return deck.Card{}, fmt.Errorf("parsing reply %q: %w", reply, err)
	}
	if !containsCard(legal, card) {
		return deck.Card{}, fmt.Errorf("reply %q: %s is not legal", reply, card)
	}
	return card, nil
}

// wait sleeps for the fixed backoff on the injected clock, honouring
// cancellation.
func (p *LLM) wait(ctx context.Context) error {
	timer := p.clock.NewTimer(p.backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func formatTrick(trick []game.Play) string {
	if len(trick) == 0 {
		return "(empty, you lead)"
	}
	parts := make([]string, len(trick))
	for i, play := range trick {
		parts[i] = play.String()
	}
	return strings.Join(parts, ", ")
}

func formatTaken(taken map[game.PlayerID][]deck.Card) string {
	players := make([]string, 0, len(taken))
	for player := range taken {
		players = append(players, string(player))
	}
	sort.Strings(players)

	parts := make([]string, 0, len(players))
	for _, player := range players {
		parts = append(parts, fmt.Sprintf("%s: [%s]", player, deck.Format(taken[game.PlayerID(player)])))
	}
	return strings.Join(parts, "; ")
}
