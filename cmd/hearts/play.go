package main

import (
	"context"
	"fmt"
	rand "math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/hearts/internal/config"
	"github.com/lox/hearts/internal/display"
	"github.com/lox/hearts/internal/game"
	"github.com/lox/hearts/internal/llm"
	"github.com/lox/hearts/internal/player"
	"github.com/lox/hearts/internal/randutil"
)

type PlayCmd struct {
	Config     string `default:"hearts.hcl" help:"Match configuration file"`
	Games      int    `default:"0" help:"Number of games to play (overrides config)"`
	Seed       int64  `default:"0" help:"RNG seed (0 for random)"`
	ShowPasses bool   `help:"Include passed cards in the transcript"`
	Color      bool   `help:"Force colored output even when piped"`
	Verbose    bool   `help:"Enable debug logging"`
}

func (c *PlayCmd) Run() error {
	logger := setupLogger(c.Verbose)

	cfg, err := config.LoadMatchConfig(c.Config)
	if err != nil {
		return err
	}

	games := c.Games
	if games <= 0 {
		games = cfg.Game.Games
	}
	if games <= 0 {
		games = 1
	}

	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Info("using random seed", "seed", seed)
	}

	var completer llm.Completer
	if cfg.HasLLMPlayers() {
		completer, err = buildCompleter(cfg.LLM, logger)
		if err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for i := 0; i < games; i++ {
		gameSeed := seed + int64(i)
		rng := randutil.New(gameSeed)

		order, players := buildPlayers(cfg, rng, completer, logger)
		g, err := game.New(game.Config{
			Order:      order,
			Players:    players,
			Rng:        rng,
			Logger:     logger,
			ThinkDelay: time.Duration(cfg.Game.ThinkDelayMs) * time.Millisecond,
		})
		if err != nil {
			return err
		}

		var transcript *display.Transcript
		if c.Color {
			transcript = display.NewTranscriptWithProfile(os.Stdout, termenv.TrueColor)
		} else {
			transcript = display.NewTranscript(os.Stdout)
		}
		transcript.ShowPasses = c.ShowPasses
		g.AddObserver(transcript)

		if games > 1 {
			fmt.Printf("\nGame %d of %d (seed %d)\n", i+1, games, gameSeed)
		}
		if _, err := g.Play(ctx); err != nil {
			return fmt.Errorf("game %d (seed %d): %w", i+1, gameSeed, err)
		}
	}

	return nil
}

// buildPlayers assembles the lineup from the match configuration.
func buildPlayers(cfg *config.MatchConfig, rng *rand.Rand, completer llm.Completer, logger *log.Logger) ([]game.PlayerID, map[game.PlayerID]game.Player) {
	order := make([]game.PlayerID, len(cfg.Players))
	for i, p := range cfg.Players {
		order[i] = game.PlayerID(p.Name)
	}

	players := make(map[game.PlayerID]game.Player, len(order))
	for i, p := range cfg.Players {
		id := order[i]
		switch p.Strategy {
		case config.StrategyHuman:
			players[id] = player.NewHuman(os.Stdin, os.Stdout, logger)
		case config.StrategyLLM:
			opponents := make([]game.PlayerID, 0, len(order)-1)
			for _, other := range order {
				if other != id {
					opponents = append(opponents, other)
				}
			}
			players[id] = player.NewLLM(id, opponents, completer, player.NewSafe(rng), quartz.NewReal(), logger, player.LLMOptions{
				CountsCards:  p.CountsCards,
				ShootTheMoon: p.ShootTheMoon,
				MaxAttempts:  cfg.LLM.MaxAttempts,
			})
		default:
			players[id] = player.NewSafe(rng)
		}
	}
	return order, players
}

// buildCompleter creates the completion backend from the llm block and
// the provider's API key environment variable.
func buildCompleter(settings *config.LLMSettings, logger *log.Logger) (llm.Completer, error) {
	httpClient := &http.Client{Timeout: 60 * time.Second}

	switch settings.Provider {
	case config.ProviderOpenRouter:
		apiKey := os.Getenv("OPENROUTER_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY is required for llm players")
		}
		return llm.NewOpenRouter(httpClient, apiKey, llm.DefaultOpenRouterBaseURL,
			settings.Model, settings.FallbackModels, settings.MaxTokens, logger), nil
	default:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for llm players")
		}
		return llm.NewOpenAI(httpClient, apiKey, llm.DefaultOpenAIBaseURL,
			settings.Model, settings.MaxTokens, logger), nil
	}
}
