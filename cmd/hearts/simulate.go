package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lox/hearts/internal/simulator"
)

type SimulateCmd struct {
	Games   int           `default:"1000" help:"Number of games to simulate"`
	Seed    int64         `default:"0" help:"RNG seed (0 for random)"`
	Timeout time.Duration `default:"1m" help:"Per-game hang timeout"`
	Verbose bool          `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	logger := setupLogger(c.Verbose)

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("using random seed", "seed", seed)
	}

	sim := simulator.New(simulator.Config{
		Games:   c.Games,
		Seed:    seed,
		Timeout: c.Timeout,
		Logger:  logger,
	})

	start := time.Now()
	stats, err := sim.Run()
	if err != nil {
		return err
	}

	simulator.PrintSummary(os.Stdout, stats)
	fmt.Printf("\nCompleted %d games in %s (seed %d)\n",
		stats.Games, time.Since(start).Round(time.Millisecond), seed)
	return nil
}
