package snake

import (
	"fmt"

	"github.com/vovakirdan/adaptive-snake/internal/core"
)

// ViolationKind classifies a game-state corruption.
type ViolationKind string

const (
	ViolationDuplicateSegment ViolationKind = "duplicate_segment"
	ViolationOutOfBounds      ViolationKind = "out_of_bounds"
	ViolationFoodOverlap      ViolationKind = "food_overlap"
	ViolationObstacleOverlap  ViolationKind = "obstacle_overlap"
	ViolationNegativeScore    ViolationKind = "negative_score"
	ViolationScoreMultiple    ViolationKind = "score_not_multiple"
	ViolationEmptySnake       ViolationKind = "empty_snake"
)

// Violation is one detected inconsistency in a game state.
type Violation struct {
	Kind   ViolationKind
	Point  core.Point
	Detail string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s at %v: %s", v.Kind, v.Point, v.Detail)
}

// ValidateState reports every invariant the state breaks. An empty result
// means the state is consistent.
func ValidateState(s core.GameState) []Violation {
	var out []Violation

	if len(s.Snake) == 0 {
		out = append(out, Violation{Kind: ViolationEmptySnake, Detail: "snake has no segments"})
	}

	body := make(map[core.Point]bool, len(s.Snake))
	for _, p := range s.Snake {
		if !p.In(s.Width, s.Height) {
			out = append(out, Violation{Kind: ViolationOutOfBounds, Point: p, Detail: "snake segment"})
		}
		if body[p] {
			out = append(out, Violation{Kind: ViolationDuplicateSegment, Point: p, Detail: "snake segment repeated"})
		}
		body[p] = true
	}

	blocked := make(map[core.Point]bool, len(s.Obstacles))
	for _, o := range s.Obstacles {
		switch {
		case !o.In(s.Width, s.Height):
			out = append(out, Violation{Kind: ViolationOutOfBounds, Point: o.Point, Detail: "obstacle"})
		case body[o.Point]:
			out = append(out, Violation{Kind: ViolationObstacleOverlap, Point: o.Point, Detail: "obstacle on snake"})
		case blocked[o.Point]:
			out = append(out, Violation{Kind: ViolationObstacleOverlap, Point: o.Point, Detail: "obstacle repeated"})
		}
		blocked[o.Point] = true
	}

	seen := make(map[core.Point]bool, len(s.Food))
	for _, f := range s.Food {
		switch {
		case !f.In(s.Width, s.Height):
			out = append(out, Violation{Kind: ViolationOutOfBounds, Point: f, Detail: "food"})
		case body[f]:
			out = append(out, Violation{Kind: ViolationFoodOverlap, Point: f, Detail: "food on snake"})
		case blocked[f]:
			out = append(out, Violation{Kind: ViolationFoodOverlap, Point: f, Detail: "food on obstacle"})
		case seen[f]:
			out = append(out, Violation{Kind: ViolationFoodOverlap, Point: f, Detail: "food repeated"})
		}
		seen[f] = true
	}

	if s.Score < 0 {
		out = append(out, Violation{Kind: ViolationNegativeScore, Detail: fmt.Sprintf("score %d", s.Score)})
	} else if s.Score%PointsPerFood != 0 {
		out = append(out, Violation{Kind: ViolationScoreMultiple, Detail: fmt.Sprintf("score %d", s.Score)})
	}

	return out
}

// RepairState returns a copy of s with every safely fixable violation
// removed: duplicate and out-of-bounds snake cells are dropped, overlapping or
// out-of-bounds food and obstacles are dropped, a negative score is clamped to
// zero and a score off the 10-point grid is rounded down onto it.
func RepairState(s core.GameState) core.GameState {
	r := s.Clone()

	body := make(map[core.Point]bool, len(r.Snake))
	snake := r.Snake[:0]
	for _, p := range r.Snake {
		if body[p] || !p.In(r.Width, r.Height) {
			continue
		}
		body[p] = true
		snake = append(snake, p)
	}
	r.Snake = snake

	blocked := make(map[core.Point]bool, len(r.Obstacles))
	obstacles := r.Obstacles[:0]
	for _, o := range r.Obstacles {
		if blocked[o.Point] || body[o.Point] || !o.In(r.Width, r.Height) {
			continue
		}
		blocked[o.Point] = true
		obstacles = append(obstacles, o)
	}
	r.Obstacles = obstacles

	seen := make(map[core.Point]bool, len(r.Food))
	food := r.Food[:0]
	for _, f := range r.Food {
		if seen[f] || body[f] || blocked[f] || !f.In(r.Width, r.Height) {
			continue
		}
		seen[f] = true
		food = append(food, f)
	}
	r.Food = food

	if r.Score < 0 {
		r.Score = 0
	}
	r.Score -= r.Score % PointsPerFood

	return r
}

// Repair validates the live state and, if anything is wrong, replaces it
// with the repaired version. Returns the violations that were found.
func (e *Engine) Repair() []Violation {
	state := e.State()
	violations := ValidateState(state)
	if len(violations) == 0 {
		return nil
	}

	fixed := RepairState(state)
	e.snake = fixed.Snake
	e.food = fixed.Food
	e.obstacles = fixed.Obstacles
	e.score = fixed.Score
	if len(e.snake) == 0 {
		// Nothing recoverable to steer
		e.Reset()
	}
	return violations
}
