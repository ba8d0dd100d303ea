package core

// RuntimeConfig contains configuration passed to the engine at initialization.
type RuntimeConfig struct {
	BoardW int   `yaml:"width"`  // Board width in cells
	BoardH int   `yaml:"height"` // Board height in cells
	Seed   int64 `yaml:"-"`      // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		BoardW: 20,
		BoardH: 20,
		Seed:   0, // 0 means use current time in platform layer
	}
}
