package snake

import "github.com/vovakirdan/adaptive-snake/internal/core"

// Snapshot captures a compact view of the engine for determinism testing and replay.
type Snapshot struct {
	Tick          uint64
	Score         int
	FoodEaten     int
	SnakeLen      int
	HeadX         int
	HeadY         int
	Dir           core.Direction
	FoodCount     int
	ObstacleCount int
	GameOver      bool
	Collision     core.CollisionType
}

// Snapshot returns the current engine snapshot.
func (e *Engine) Snapshot() Snapshot {
	headX, headY := 0, 0
	if len(e.snake) > 0 {
		headX = e.snake[0].X
		headY = e.snake[0].Y
	}

	return Snapshot{
		Tick:          e.tick,
		Score:         e.score,
		FoodEaten:     e.foodEaten,
		SnakeLen:      len(e.snake),
		HeadX:         headX,
		HeadY:         headY,
		Dir:           e.direction,
		FoodCount:     len(e.food),
		ObstacleCount: len(e.obstacles),
		GameOver:      e.gameOver,
		Collision:     e.collision.Type,
	}
}
