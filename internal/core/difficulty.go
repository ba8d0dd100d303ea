package core

import (
	"fmt"
	"math"
)

// DefaultSpeed is the speed at which the loop runs at its nominal tick rate.
const DefaultSpeed = 5.0

// DifficultyParameters is the full set of tunable difficulty values.
// Level is a derived summary of the three numeric fields; it is recomputed
// by ComputeLevel whenever they change and is never a source of truth.
type DifficultyParameters struct {
	Level           int     `yaml:"level" json:"level"`
	Speed           float64 `yaml:"speed" json:"speed"`
	ObstacleDensity float64 `yaml:"obstacle_density" json:"obstacle_density"`
	FoodSpawnRate   float64 `yaml:"food_spawn_rate" json:"food_spawn_rate"`
	AdaptiveMode    bool    `yaml:"adaptive_mode" json:"adaptive_mode"`
}

func (p DifficultyParameters) String() string {
	return fmt.Sprintf("level=%d speed=%.2f obstacles=%.2f food=%.2f adaptive=%v",
		p.Level, p.Speed, p.ObstacleDensity, p.FoodSpawnRate, p.AdaptiveMode)
}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies within the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp restricts v to the interval.
func (r Range) Clamp(v float64) float64 {
	return ClampF(v, r.Min, r.Max)
}

// Span is the width of the interval.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Normalize maps v onto [0, 1] relative to the interval.
func (r Range) Normalize(v float64) float64 {
	if r.Span() <= 0 {
		return 0
	}
	return ClampF((v-r.Min)/r.Span(), 0, 1)
}

// Bounds is the validation table for DifficultyParameters.
type Bounds struct {
	Level           Range `yaml:"level"`
	Speed           Range `yaml:"speed"`
	ObstacleDensity Range `yaml:"obstacle_density"`
	FoodSpawnRate   Range `yaml:"food_spawn_rate"`
}

// DefaultBounds returns the standard bound table.
func DefaultBounds() Bounds {
	return Bounds{
		Level:           Range{Min: 1, Max: 10},
		Speed:           Range{Min: 1, Max: 10},
		ObstacleDensity: Range{Min: 0, Max: 5},
		FoodSpawnRate:   Range{Min: 0.5, Max: 2.0},
	}
}

// Clamp clamps every field of p independently and recomputes the level.
func (b Bounds) Clamp(p DifficultyParameters) DifficultyParameters {
	p.Speed = b.Speed.Clamp(p.Speed)
	p.ObstacleDensity = b.ObstacleDensity.Clamp(p.ObstacleDensity)
	p.FoodSpawnRate = b.FoodSpawnRate.Clamp(p.FoodSpawnRate)
	p.Level = ComputeLevel(p, b)
	return p
}

// DefaultParameters returns the starting difficulty: mid speed, a light
// scattering of obstacles, normal food and adaptive mode on.
func DefaultParameters() DifficultyParameters {
	p := DifficultyParameters{
		Speed:           DefaultSpeed,
		ObstacleDensity: 1,
		FoodSpawnRate:   1.0,
		AdaptiveMode:    true,
	}
	p.Level = ComputeLevel(p, DefaultBounds())
	return p
}

// ComputeLevel summarizes the numeric fields as a 1-10 level.
// Faster speed and more obstacles raise the level; more food lowers it.
func ComputeLevel(p DifficultyParameters, b Bounds) int {
	combo := 0.5*b.Speed.Normalize(p.Speed) +
		0.3*b.ObstacleDensity.Normalize(p.ObstacleDensity) +
		0.2*(1-b.FoodSpawnRate.Normalize(p.FoodSpawnRate))
	level := b.Level.Min + combo*b.Level.Span()
	return int(b.Level.Clamp(math.Round(level)))
}
