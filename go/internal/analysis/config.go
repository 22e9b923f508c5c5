package analysis

import "maps"

// Config selects the scorer models and position tables the agents use.
type Config struct {
	AgentModel      ModelConfig    `yaml:"agent_model"`
	SynthesisModel  ModelConfig    `yaml:"synthesis_model"`
	StartingSlots   map[string]int `yaml:"starting_slots"`
	PositionTargets map[string]int `yaml:"position_targets"`
}

func DefaultConfig() Config {
	return Config{
		AgentModel: ModelConfig{
			Model:       "claude-3-5-haiku-20241022",
			MaxTokens:   500,
			Temperature: 0.7,
		},
		SynthesisModel: ModelConfig{
			Model:       "claude-3-5-sonnet-20241022",
			MaxTokens:   500,
			Temperature: 0.7,
		},
		StartingSlots:   maps.Clone(DefaultStartingSlots),
		PositionTargets: maps.Clone(DefaultPositionTargets),
	}
}
