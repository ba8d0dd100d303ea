// Package config provides YAML-based configuration loading, difficulty
// presets and validation for the adaptive snake game.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
)

// MinBoardSize is the smallest board edge that fits the starting snake
// plus the obstacle-free zone ahead of it.
const MinBoardSize = 8

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("config: invalid")

// SnakeConfig contains all configuration for the adaptive snake game.
type SnakeConfig struct {
	Board      core.RuntimeConfig `yaml:"board"`
	Loop       LoopConfig         `yaml:"loop"`
	Difficulty DifficultyConfig   `yaml:"difficulty"`
	History    HistoryConfig      `yaml:"history"`

	// Source is where the config was loaded from: a file path or "embedded".
	Source string `yaml:"-"`
}

// LoopConfig defines the tick cadence and adaptation timing.
type LoopConfig struct {
	TickRate               int           `yaml:"tick_rate"`           // Steps per second at default speed
	AdaptationInterval     time.Duration `yaml:"adaptation_interval"` // Time between skill assessments
	TransitionDuration     time.Duration `yaml:"transition_duration"` // Blend time for adaptive changes
	SpeedScaling           bool          `yaml:"speed_scaling"`
	ResetCancelsTransition bool          `yaml:"reset_cancels_transition"`
}

// DifficultyConfig defines the starting difficulty and its bound table.
type DifficultyConfig struct {
	Initial core.DifficultyParameters `yaml:"initial"`
	Bounds  core.Bounds               `yaml:"bounds"`
}

// HistoryConfig caps the adaptation logs.
type HistoryConfig struct {
	Limit int `yaml:"limit"` // 0 = unbounded
}

// Validate checks that the configuration can drive a game.
func (c SnakeConfig) Validate() error {
	if c.Board.BoardW < MinBoardSize || c.Board.BoardH < MinBoardSize {
		return fmt.Errorf("%w: board %dx%d is smaller than %dx%d",
			ErrInvalid, c.Board.BoardW, c.Board.BoardH, MinBoardSize, MinBoardSize)
	}
	if c.Loop.TickRate <= 0 {
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalid, c.Loop.TickRate)
	}
	if c.Loop.AdaptationInterval <= 0 {
		return fmt.Errorf("%w: adaptation_interval must be positive, got %v", ErrInvalid, c.Loop.AdaptationInterval)
	}
	if c.Loop.TransitionDuration < 0 {
		return fmt.Errorf("%w: transition_duration must not be negative, got %v", ErrInvalid, c.Loop.TransitionDuration)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("%w: history limit must not be negative, got %d", ErrInvalid, c.History.Limit)
	}

	b := c.Difficulty.Bounds
	ranges := []struct {
		name string
		r    core.Range
	}{
		{"level", b.Level},
		{"speed", b.Speed},
		{"obstacle_density", b.ObstacleDensity},
		{"food_spawn_rate", b.FoodSpawnRate},
	}
	for _, nr := range ranges {
		if nr.r.Min > nr.r.Max {
			return fmt.Errorf("%w: bounds.%s min %v exceeds max %v", ErrInvalid, nr.name, nr.r.Min, nr.r.Max)
		}
	}
	if b.Speed.Min <= 0 {
		return fmt.Errorf("%w: bounds.speed min must be positive, got %v", ErrInvalid, b.Speed.Min)
	}

	p := c.Difficulty.Initial
	if !b.Speed.Contains(p.Speed) || !b.ObstacleDensity.Contains(p.ObstacleDensity) || !b.FoodSpawnRate.Contains(p.FoodSpawnRate) {
		return fmt.Errorf("%w: initial difficulty %v is outside bounds", ErrInvalid, p)
	}
	return nil
}

// ToLoopConfig converts the file configuration into loop constructor
// parameters. seed overrides the board seed.
func (c SnakeConfig) ToLoopConfig(seed int64) loop.Config {
	board := c.Board
	board.Seed = seed

	initial := c.Difficulty.Initial
	initial.Level = core.ComputeLevel(initial, c.Difficulty.Bounds)

	return loop.Config{
		Board:                  board,
		TickRate:               c.Loop.TickRate,
		AdaptationInterval:     c.Loop.AdaptationInterval,
		TransitionDuration:     c.Loop.TransitionDuration,
		Bounds:                 c.Difficulty.Bounds,
		Initial:                initial,
		SpeedScaling:           c.Loop.SpeedScaling,
		HistoryLimit:           c.History.Limit,
		ResetCancelsTransition: c.Loop.ResetCancelsTransition,
	}
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// PresetInfo describes a preset for listings.
type PresetInfo struct {
	Preset      DifficultyPreset
	Description string
}

// Presets returns every preset in display order.
func Presets() []PresetInfo {
	return []PresetInfo{
		{DifficultyEasy, "Slow snake, no obstacles, extra food; adapts upward"},
		{DifficultyNormal, "Default start; adapts to your play"},
		{DifficultyHard, "Fast snake, dense obstacles, scarce food; adapts"},
		{DifficultyFixed, "Configured start with adaptation switched off"},
	}
}

// ParsePreset converts a name into a preset. The empty string is normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown preset %q", name)
	}
}

// IsFixedPreset returns true if the preset disables adaptation.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}

// ApplyPreset modifies the initial difficulty for a preset. Values are
// clamped into the configured bounds.
func ApplyPreset(cfg *SnakeConfig, preset DifficultyPreset) {
	p := &cfg.Difficulty.Initial
	switch preset {
	case DifficultyEasy:
		p.Speed, p.ObstacleDensity, p.FoodSpawnRate = 3, 0, 1.5
		p.AdaptiveMode = true
	case DifficultyNormal:
		p.Speed, p.ObstacleDensity, p.FoodSpawnRate = core.DefaultSpeed, 1, 1.0
		p.AdaptiveMode = true
	case DifficultyHard:
		p.Speed, p.ObstacleDensity, p.FoodSpawnRate = 8, 3, 0.7
		p.AdaptiveMode = true
	case DifficultyFixed:
		p.AdaptiveMode = false
	}
	*p = cfg.Difficulty.Bounds.Clamp(*p)
}
