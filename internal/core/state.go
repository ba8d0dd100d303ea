package core

import "time"

// CollisionType tags what the snake ran into.
type CollisionType int

const (
	CollisionNone CollisionType = iota
	CollisionBoundary
	CollisionSelf
	CollisionObstacle
)

func (c CollisionType) String() string {
	switch c {
	case CollisionNone:
		return "none"
	case CollisionBoundary:
		return "boundary"
	case CollisionSelf:
		return "self"
	case CollisionObstacle:
		return "obstacle"
	default:
		return "unknown"
	}
}

// CollisionResult describes the outcome of collision detection for one step.
type CollisionResult struct {
	Type  CollisionType
	Point Point // Cell the head tried to enter
}

// Collided reports whether a collision occurred.
func (c CollisionResult) Collided() bool {
	return c.Type != CollisionNone
}

// Obstacle is a static blocking cell.
type Obstacle struct {
	Point
}

// GameState is the authoritative simulation state owned by the game engine.
// Copies handed out by the engine share no memory with the live state.
type GameState struct {
	Snake      []Point // Head first
	Heading    Direction
	Food       []Point
	Obstacles  []Obstacle
	Score      int
	FoodEaten  int
	GameOver   bool
	Collision  CollisionResult
	Difficulty DifficultyParameters
	Width      int
	Height     int
	Timestamp  time.Time
}

// Head returns the snake's head cell.
func (s GameState) Head() Point {
	if len(s.Snake) == 0 {
		return Point{X: -1, Y: -1}
	}
	return s.Snake[0]
}

// Clone returns a deep copy of the state.
func (s GameState) Clone() GameState {
	c := s
	c.Snake = append([]Point(nil), s.Snake...)
	c.Food = append([]Point(nil), s.Food...)
	c.Obstacles = append([]Obstacle(nil), s.Obstacles...)
	return c
}
