// Package snake implements the authoritative snake simulation. The engine owns
// the game state exclusively and applies exactly one step per Update call;
// it knows nothing about timing, rendering or difficulty adaptation.
package snake

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

const (
	// PointsPerFood is the score awarded for each food item eaten.
	PointsPerFood = 10
	// InitialLength is the snake length after Reset.
	InitialLength = 3
	// ObstaclesPerDensity converts obstacle_density into an obstacle count.
	ObstaclesPerDensity = 3
	// safeZone is the number of cells ahead of the head kept free of obstacles.
	safeZone = 3
)

// StepResult is returned by Update after each simulation step.
type StepResult struct {
	Collision core.CollisionResult
	Ate       bool // Food was eaten this step
	NearMiss  bool // The player turned away from a hazard directly ahead
	State     core.GameState
}

// Engine owns and mutates the game state.
type Engine struct {
	clock core.Clock
	rng   *rand.Rand
	tick  uint64

	width  int
	height int

	// Snake state
	snake     []core.Point // Head at index 0
	direction core.Direction

	food      []core.Point
	obstacles []core.Obstacle

	score     int
	foodEaten int
	gameOver  bool
	collision core.CollisionResult

	difficulty core.DifficultyParameters
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock used to timestamp state snapshots.
func WithClock(c core.Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// New creates an engine for the given board and difficulty and resets it.
func New(cfg core.RuntimeConfig, params core.DifficultyParameters, opts ...Option) *Engine {
	if cfg.BoardW <= 0 || cfg.BoardH <= 0 {
		def := core.DefaultConfig()
		cfg.BoardW, cfg.BoardH = def.BoardW, def.BoardH
	}
	e := &Engine{
		clock:      core.SystemClock{},
		rng:        rand.New(rand.NewSource(cfg.Seed)),
		width:      cfg.BoardW,
		height:     cfg.BoardH,
		difficulty: params,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Reset restores a centered length-3 snake heading right, clears score and
// game over, and respawns food and obstacles for the current difficulty.
func (e *Engine) Reset() {
	e.tick = 0
	e.score = 0
	e.foodEaten = 0
	e.gameOver = false
	e.collision = core.CollisionResult{}

	cx, cy := e.width/2, e.height/2
	e.snake = make([]core.Point, 0, InitialLength)
	for i := range InitialLength {
		e.snake = append(e.snake, core.Point{X: cx - i, Y: cy})
	}
	e.direction = core.DirRight

	e.obstacles = nil
	e.food = nil
	for range obstacleCount(e.difficulty) {
		if !e.addObstacle() {
			break
		}
	}
	for range foodCount(e.difficulty) {
		e.spawnFood()
	}
}

// obstacleCount is the number of obstacles the difficulty calls for.
func obstacleCount(p core.DifficultyParameters) int {
	return int(math.Round(math.Max(0, p.ObstacleDensity) * ObstaclesPerDensity))
}

// foodCount is the number of food items placed on reset.
func foodCount(p core.DifficultyParameters) int {
	return max(1, int(math.Round(p.FoodSpawnRate)))
}

// Update advances the simulation by one step. dir may be core.DirNone to keep
// the current heading; a request for the exact reverse heading is ignored.
func (e *Engine) Update(dir core.Direction) StepResult {
	if e.gameOver {
		return StepResult{Collision: e.collision, State: e.State()}
	}
	e.tick++

	head := e.snake[0]
	prevDir := e.direction
	if dir != core.DirNone && !dir.IsOpposite(e.direction) {
		e.direction = dir
	}

	newHead := head.Add(e.direction.Delta())
	if c := e.detectCollision(newHead); c.Collided() {
		e.gameOver = true
		e.collision = c
		return StepResult{Collision: c, State: e.State()}
	}

	// A turn away from a hazard that was directly ahead counts as a collision avoided
	nearMiss := e.direction != prevDir && e.isHazard(head.Add(prevDir.Delta()))

	e.snake = append([]core.Point{newHead}, e.snake...)

	ate := false
	if i := e.foodIndex(newHead); i >= 0 {
		ate = true
		e.score += PointsPerFood
		e.foodEaten++
		e.food = append(e.food[:i], e.food[i+1:]...)
		e.spawnFood()
	} else {
		e.snake = e.snake[:len(e.snake)-1]
	}

	return StepResult{Ate: ate, NearMiss: nearMiss, State: e.State()}
}

// detectCollision checks boundary, then self, then obstacle.
// Self collision tests every existing body cell, tail included.
func (e *Engine) detectCollision(p core.Point) core.CollisionResult {
	if !p.In(e.width, e.height) {
		return core.CollisionResult{Type: core.CollisionBoundary, Point: p}
	}
	if e.isSnakeAt(p) {
		return core.CollisionResult{Type: core.CollisionSelf, Point: p}
	}
	if e.isObstacleAt(p) {
		return core.CollisionResult{Type: core.CollisionObstacle, Point: p}
	}
	return core.CollisionResult{}
}

// isHazard reports whether entering p would end the game.
func (e *Engine) isHazard(p core.Point) bool {
	return e.detectCollision(p).Collided()
}

// SetDifficulty replaces the engine's difficulty and grows or shrinks the
// obstacle set toward the count the new difficulty calls for. Obstacles are
// removed newest first and added only on safe cells.
func (e *Engine) SetDifficulty(p core.DifficultyParameters) {
	e.difficulty = p
	target := obstacleCount(p)
	for len(e.obstacles) > target {
		e.obstacles = e.obstacles[:len(e.obstacles)-1]
	}
	for len(e.obstacles) < target {
		if !e.addObstacle() {
			break
		}
	}
}

// Difficulty returns the parameters the engine is currently running with.
func (e *Engine) Difficulty() core.DifficultyParameters {
	return e.difficulty
}

// addObstacle places one obstacle on a random safe cell.
// Returns false if no safe cell is left.
func (e *Engine) addObstacle() bool {
	reserved := e.reservedCells()
	cells := e.emptyCells(func(p core.Point) bool { return reserved[p] })
	if len(cells) == 0 {
		return false
	}
	e.obstacles = append(e.obstacles, core.Obstacle{Point: cells[e.rng.Intn(len(cells))]})
	return true
}

// reservedCells returns the cells obstacles must stay off: the head's
// neighbors and the straight run ahead of it.
func (e *Engine) reservedCells() map[core.Point]bool {
	reserved := make(map[core.Point]bool)
	if len(e.snake) == 0 {
		return reserved
	}
	head := e.snake[0]
	for _, n := range head.Neighbors() {
		reserved[n] = true
	}
	p := head
	for range safeZone {
		p = p.Add(e.direction.Delta())
		reserved[p] = true
	}
	return reserved
}

// spawnFood places one food item at a random empty cell.
// Does nothing when the board is full.
func (e *Engine) spawnFood() {
	cells := e.emptyCells(nil)
	if len(cells) == 0 {
		return
	}
	e.food = append(e.food, cells[e.rng.Intn(len(cells))])
}

// emptyCells collects cells free of snake, food and obstacles in row-major
// order, skipping any cell for which exclude returns true.
func (e *Engine) emptyCells(exclude func(core.Point) bool) []core.Point {
	taken := make(map[core.Point]bool, len(e.snake)+len(e.food)+len(e.obstacles))
	for _, p := range e.snake {
		taken[p] = true
	}
	for _, p := range e.food {
		taken[p] = true
	}
	for _, o := range e.obstacles {
		taken[o.Point] = true
	}

	var cells []core.Point
	for y := 0; y < e.height; y++ {
		for x := 0; x < e.width; x++ {
			p := core.Point{X: x, Y: y}
			if taken[p] || (exclude != nil && exclude(p)) {
				continue
			}
			cells = append(cells, p)
		}
	}
	return cells
}

func (e *Engine) isSnakeAt(p core.Point) bool {
	for _, seg := range e.snake {
		if seg == p {
			return true
		}
	}
	return false
}

func (e *Engine) isObstacleAt(p core.Point) bool {
	for _, o := range e.obstacles {
		if o.Point == p {
			return true
		}
	}
	return false
}

func (e *Engine) foodIndex(p core.Point) int {
	for i, f := range e.food {
		if f == p {
			return i
		}
	}
	return -1
}

// State returns a deep copy of the current game state.
func (e *Engine) State() core.GameState {
	return core.GameState{
		Snake:      append([]core.Point(nil), e.snake...),
		Heading:    e.direction,
		Food:       append([]core.Point(nil), e.food...),
		Obstacles:  append([]core.Obstacle(nil), e.obstacles...),
		Score:      e.score,
		FoodEaten:  e.foodEaten,
		GameOver:   e.gameOver,
		Collision:  e.collision,
		Difficulty: e.difficulty,
		Width:      e.width,
		Height:     e.height,
		Timestamp:  e.clock.Now(),
	}
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score
}

// GameOver reports whether the snake has collided.
func (e *Engine) GameOver() bool {
	return e.gameOver
}

// --- Placement hooks for scenario setup and tests ---

// PlaceSnake replaces the snake body (head first) and heading.
func (e *Engine) PlaceSnake(body []core.Point, heading core.Direction) {
	e.snake = append([]core.Point(nil), body...)
	e.direction = heading
}

// PlaceFood replaces all food with the given cells.
func (e *Engine) PlaceFood(cells ...core.Point) {
	e.food = append([]core.Point(nil), cells...)
}

// PlaceObstacles replaces all obstacles with the given cells.
func (e *Engine) PlaceObstacles(cells ...core.Point) {
	e.obstacles = make([]core.Obstacle, 0, len(cells))
	for _, c := range cells {
		e.obstacles = append(e.obstacles, core.Obstacle{Point: c})
	}
}
