// Package statistics aggregates results across simulated games.
package statistics

import (
	"fmt"
	"sort"

	"github.com/lox/hearts/internal/game"
)

// GameResult represents the outcome of a single game
type GameResult struct {
	Seed      int64 // RNG seed for this game (for replay)
	Winner    game.PlayerID
	Rounds    int
	Scores    map[game.PlayerID]int
	Moonshots map[game.PlayerID]int // moon shots per player this game
}

// PlayerStats tracks per-player aggregates across games
type PlayerStats struct {
	Wins      int
	SumScore  int
	Moonshots int
}

// Statistics tracks aggregates across a batch of simulated games
type Statistics struct {
	Games     int
	SumRounds int
	MinRounds int
	MaxRounds int
	Players   map[game.PlayerID]*PlayerStats
}

// New creates an empty statistics accumulator.
func New() *Statistics {
	return &Statistics{Players: make(map[game.PlayerID]*PlayerStats)}
}

// Add incorporates a game result into the statistics
func (s *Statistics) Add(result GameResult) {
	s.Games++
	s.SumRounds += result.Rounds
	if s.Games == 1 || result.Rounds < s.MinRounds {
		s.MinRounds = result.Rounds
	}
	if result.Rounds > s.MaxRounds {
		s.MaxRounds = result.Rounds
	}

	for player, score := range result.Scores {
		ps := s.player(player)
		ps.SumScore += score
		ps.Moonshots += result.Moonshots[player]
	}
	s.player(result.Winner).Wins++
}

func (s *Statistics) player(id game.PlayerID) *PlayerStats {
	ps, ok := s.Players[id]
	if !ok {
		ps = &PlayerStats{}
		s.Players[id] = ps
	}
	return ps
}

// WinRate returns the fraction of games won by the player.
func (s *Statistics) WinRate(id game.PlayerID) float64 {
	if s.Games == 0 {
		return 0
	}
	ps, ok := s.Players[id]
	if !ok {
		return 0
	}
	return float64(ps.Wins) / float64(s.Games)
}

// MeanScore returns the player's average final score per game.
func (s *Statistics) MeanScore(id game.PlayerID) float64 {
	if s.Games == 0 {
		return 0
	}
	ps, ok := s.Players[id]
	if !ok {
		return 0
	}
	return float64(ps.SumScore) / float64(s.Games)
}

// MeanRounds returns the average game length in rounds.
func (s *Statistics) MeanRounds() float64 {
	if s.Games == 0 {
		return 0
	}
	return float64(s.SumRounds) / float64(s.Games)
}

// PlayerIDs returns the tracked players in stable order.
func (s *Statistics) PlayerIDs() []game.PlayerID {
	ids := make([]string, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	result := make([]game.PlayerID, len(ids))
	for i, id := range ids {
		result[i] = game.PlayerID(id)
	}
	return result
}

// Validate checks that the accounting is consistent
func (s *Statistics) Validate() error {
	if s.Games <= 0 {
		return fmt.Errorf("invalid games count: %d", s.Games)
	}

	totalWins := 0
	for _, ps := range s.Players {
		totalWins += ps.Wins
	}
	if totalWins != s.Games {
		return fmt.Errorf("total wins (%d) does not match games count (%d)", totalWins, s.Games)
	}

	if s.MinRounds > s.MaxRounds {
		return fmt.Errorf("min rounds (%d) exceeds max rounds (%d)", s.MinRounds, s.MaxRounds)
	}

	return nil
}
