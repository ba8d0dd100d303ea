package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

//go:embed defaults/snake.yaml
var defaultSnakeYAML []byte

// DefaultSnakeConfig returns the hardcoded configuration, used when the
// embedded YAML cannot be parsed.
func DefaultSnakeConfig() SnakeConfig {
	return SnakeConfig{
		Board: core.DefaultConfig(),
		Loop: LoopConfig{
			TickRate:           10,
			AdaptationInterval: 5 * time.Second,
			TransitionDuration: 2500 * time.Millisecond,
			SpeedScaling:       true,
		},
		Difficulty: DifficultyConfig{
			Initial: core.DefaultParameters(),
			Bounds:  core.DefaultBounds(),
		},
		History: HistoryConfig{
			Limit: 500,
		},
		Source: "builtin",
	}
}
