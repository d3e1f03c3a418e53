// Package config loads match configuration from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// MatchConfig represents the complete match configuration
type MatchConfig struct {
	Game    GameSettings   `hcl:"game,block"`
	Players []PlayerConfig `hcl:"player,block"`
	LLM     *LLMSettings   `hcl:"llm,block"`
}

// GameSettings contains game count and pacing settings
type GameSettings struct {
	Games        int `hcl:"games,optional"`
	ThinkDelayMs int `hcl:"think_delay_ms,optional"`
}

// PlayerConfig configures one seat at the table
type PlayerConfig struct {
	Name         string `hcl:"name,label"`
	Strategy     string `hcl:"strategy"`
	CountsCards  bool   `hcl:"counts_cards,optional"`
	ShootTheMoon bool   `hcl:"shoot_the_moon,optional"`
}

// LLMSettings contains the completion backend settings shared by all
// llm players
type LLMSettings struct {
	Provider       string   `hcl:"provider,optional"`
	Model          string   `hcl:"model,optional"`
	FallbackModels []string `hcl:"fallback_models,optional"`
	MaxTokens      int      `hcl:"max_tokens,optional"`
	MaxAttempts    int      `hcl:"max_attempts,optional"`
}

// Strategy names accepted in player blocks.
const (
	StrategySafe  = "safe"
	StrategyHuman = "human"
	StrategyLLM   = "llm"
)

// LLM provider names accepted in the llm block.
const (
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
)

// DefaultMatchConfig returns a lineup of four safe players
func DefaultMatchConfig() *MatchConfig {
	return &MatchConfig{
		Game: GameSettings{},
		Players: []PlayerConfig{
			{Name: "Rose", Strategy: StrategySafe},
			{Name: "Blanche", Strategy: StrategySafe},
			{Name: "Dorothy", Strategy: StrategySafe},
			{Name: "Sophia", Strategy: StrategySafe},
		},
		LLM: &LLMSettings{
			Provider:  ProviderOpenAI,
			Model:     "gpt-4o-mini",
			MaxTokens: 100,
		},
	}
}

// LoadMatchConfig loads match configuration from an HCL file. A missing
// file yields the default configuration.
func LoadMatchConfig(filename string) (*MatchConfig, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultMatchConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config MatchConfig
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	defaults := DefaultMatchConfig()

	if len(config.Players) == 0 {
		config.Players = defaults.Players
	}
	if config.LLM == nil {
		config.LLM = defaults.LLM
	}
	if config.LLM.Provider == "" {
		config.LLM.Provider = defaults.LLM.Provider
	}
	if config.LLM.Model == "" {
		config.LLM.Model = defaults.LLM.Model
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = defaults.LLM.MaxTokens
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate validates the match configuration
func (c *MatchConfig) Validate() error {
	if len(c.Players) != 4 {
		return fmt.Errorf("hearts needs exactly 4 players, got %d", len(c.Players))
	}

	seen := make(map[string]bool, len(c.Players))
	humans := 0
	for _, p := range c.Players {
		if p.Name == "" {
			return fmt.Errorf("player name is required")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate player name: %s", p.Name)
		}
		seen[p.Name] = true

		switch p.Strategy {
		case StrategySafe, StrategyLLM:
		case StrategyHuman:
			humans++
		default:
			return fmt.Errorf("player %s: invalid strategy %q", p.Name, p.Strategy)
		}
	}
	if humans > 1 {
		return fmt.Errorf("at most one human player is supported, got %d", humans)
	}

	if c.LLM != nil {
		switch c.LLM.Provider {
		case ProviderOpenAI, ProviderOpenRouter, "":
		default:
			return fmt.Errorf("invalid llm provider: %s", c.LLM.Provider)
		}
	}

	if c.Game.Games < 0 {
		return fmt.Errorf("games cannot be negative")
	}
	if c.Game.ThinkDelayMs < 0 {
		return fmt.Errorf("think delay cannot be negative")
	}

	return nil
}

// HasLLMPlayers reports whether any seat uses the llm strategy.
func (c *MatchConfig) HasLLMPlayers() bool {
	for _, p := range c.Players {
		if p.Strategy == StrategyLLM {
			return true
		}
	}
	return false
}
