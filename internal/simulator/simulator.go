// Package simulator runs batches of games and aggregates the results.
package simulator

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/hearts/internal/game"
	"github.com/lox/hearts/internal/player"
	"github.com/lox/hearts/internal/randutil"
	"github.com/lox/hearts/internal/statistics"
)

// PlayerFactory builds the lineup for one game. It is called once per
// game with that game's RNG so strategies stay deterministic per seed.
type PlayerFactory func(rng *rand.Rand) ([]game.PlayerID, map[game.PlayerID]game.Player)

// Config holds configuration for running simulations
type Config struct {
	Games   int
	Seed    int64
	Timeout time.Duration
	Logger  *log.Logger
	// NewPlayers defaults to four safe rule-based players.
	NewPlayers PlayerFactory
}

// Simulator runs game simulations
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	if config.Logger == nil {
		config.Logger = log.Default()
	}
	if config.NewPlayers == nil {
		config.NewPlayers = DefaultPlayers
	}
	return &Simulator{config: config}
}

// DefaultPlayers seats four safe rule-based players.
func DefaultPlayers(rng *rand.Rand) ([]game.PlayerID, map[game.PlayerID]game.Player) {
	order := []game.PlayerID{"Rose", "Blanche", "Dorothy", "Sophia"}
	players := make(map[game.PlayerID]game.Player, len(order))
	for _, id := range order {
		players[id] = player.NewSafe(rng)
	}
	return order, players
}

// Run executes the simulation and returns aggregated results
func (s *Simulator) Run() (*statistics.Statistics, error) {
	stats := statistics.New()

	for i := 0; i < s.config.Games; i++ {
		// Independent seed per game so any game can be replayed alone.
		gameSeed := s.config.Seed + int64(i)

		result, err := s.playGameWithTimeout(gameSeed)
		if err != nil {
			return nil, fmt.Errorf("game %d failed: %w", i+1, err)
		}
		stats.Add(result)
	}

	if err := stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}

	return stats, nil
}

// playGameWithTimeout runs a single game with hang protection
func (s *Simulator) playGameWithTimeout(seed int64) (statistics.GameResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	resultCh := make(chan statistics.GameResult, 1)
	errorCh := make(chan error, 1)

	go func() {
		result, err := s.playGame(ctx, seed)
		if err != nil {
			errorCh <- err
			return
		}
		resultCh <- result
	}()

	select {
	case result := <-resultCh:
		return result, nil
	case err := <-errorCh:
		return statistics.GameResult{}, err
	case <-ctx.Done():
		return statistics.GameResult{}, fmt.Errorf("game timed out after %v (seed: %d)", s.config.Timeout, seed)
	}
}

// playGame simulates a single game to completion
func (s *Simulator) playGame(ctx context.Context, seed int64) (statistics.GameResult, error) {
	rng := randutil.New(seed)
	order, players := s.config.NewPlayers(rng)

	g, err := game.New(game.Config{
		Order:   order,
		Players: players,
		Rng:     rng,
		Logger:  s.config.Logger,
	})
	if err != nil {
		return statistics.GameResult{}, err
	}

	moonshots := &moonshotCounter{counts: make(map[game.PlayerID]int)}
	g.AddObserver(moonshots)

	winner, err := g.Play(ctx)
	if err != nil {
		return statistics.GameResult{}, fmt.Errorf("playing game (seed: %d): %w", seed, err)
	}

	return statistics.GameResult{
		Seed:      seed,
		Winner:    winner,
		Rounds:    g.Rounds(),
		Scores:    g.Scores(),
		Moonshots: moonshots.counts,
	}, nil
}

// moonshotCounter tallies moon shots per player from round events.
type moonshotCounter struct {
	counts map[game.PlayerID]int
}

func (c *moonshotCounter) HandleEvent(event game.GameEvent) {
	if e, ok := event.(game.RoundEndEvent); ok && e.Moonshot != "" {
		c.counts[e.Moonshot]++
	}
}

// PrintSummary writes a summary of simulation results
func PrintSummary(w io.Writer, stats *statistics.Statistics) {
	fmt.Fprintf(w, "\n=== SIMULATION RESULTS ===\n")
	fmt.Fprintf(w, "Games played: %d\n", stats.Games)
	fmt.Fprintf(w, "Rounds per game: %.1f avg (min %d, max %d)\n",
		stats.MeanRounds(), stats.MinRounds, stats.MaxRounds)

	fmt.Fprintf(w, "\n=== PLAYER RESULTS ===\n")
	for _, id := range stats.PlayerIDs() {
		ps := stats.Players[id]
		fmt.Fprintf(w, "%s: %d wins (%.1f%%), %.1f avg score, %d moon shots\n",
			id, ps.Wins, stats.WinRate(id)*100, stats.MeanScore(id), ps.Moonshots)
	}
}
