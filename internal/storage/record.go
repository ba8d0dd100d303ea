package storage

import (
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/adaptation"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
)

// SessionRecord is one stored session.
type SessionRecord struct {
	ID        int64
	SessionID string
	Player    string // "local" for terminal play, the SSH user otherwise
	Score     int
	FoodEaten int
	Length    int
	Duration  time.Duration
	Collision string

	Level           int
	Speed           float64
	ObstacleDensity float64
	FoodSpawnRate   float64
	Adaptive        bool

	AvgReactionMs     float64
	CollisionsAvoided int
	AvgSpeed          float64

	SkillLevel float64
	Trend      string
	Confidence float64

	CreatedAt time.Time
}

// DecisionRecord is one stored adaptation decision.
type DecisionRecord struct {
	Seq           int
	SkillLevel    float64
	Trend         string
	Confidence    float64
	SpeedDelta    float64
	ObstacleDelta float64
	FoodDelta     float64
	Reason        string
	Rationale     string
	RecordedAt    time.Time
}

// RecordFromSummary builds a storable record from a session summary.
func RecordFromSummary(s loop.Summary, player string) SessionRecord {
	created := s.EndedAt
	if created.IsZero() {
		created = s.StartedAt
	}
	return SessionRecord{
		SessionID:         s.SessionID,
		Player:            player,
		Score:             s.FinalScore,
		FoodEaten:         s.FoodEaten,
		Length:            s.Length,
		Duration:          s.Duration,
		Collision:         s.Collision.String(),
		Level:             s.Difficulty.Level,
		Speed:             s.Difficulty.Speed,
		ObstacleDensity:   s.Difficulty.ObstacleDensity,
		FoodSpawnRate:     s.Difficulty.FoodSpawnRate,
		Adaptive:          s.Difficulty.AdaptiveMode,
		AvgReactionMs:     s.Metrics.AverageReactionTime(),
		CollisionsAvoided: s.Metrics.CollisionsAvoided,
		AvgSpeed:          s.Metrics.AverageSpeed,
		SkillLevel:        s.Assessment.SkillLevel,
		Trend:             string(s.Assessment.Trend),
		Confidence:        s.Assessment.Confidence,
		CreatedAt:         created,
	}
}

// RecordsFromDecisions converts an adaptation decision log for storage.
func RecordsFromDecisions(log []adaptation.Decision) []DecisionRecord {
	out := make([]DecisionRecord, 0, len(log))
	for i, d := range log {
		out = append(out, DecisionRecord{
			Seq:           i,
			SkillLevel:    d.Assessment.SkillLevel,
			Trend:         string(d.Assessment.Trend),
			Confidence:    d.Assessment.Confidence,
			SpeedDelta:    d.Delta.Speed,
			ObstacleDelta: d.Delta.ObstacleDensity,
			FoodDelta:     d.Delta.FoodSpawnRate,
			Reason:        d.Delta.Reason,
			Rationale:     d.Rationale,
			RecordedAt:    d.RecordedAt,
		})
	}
	return out
}

// SaveFinished stores a finished session together with its decision log.
// Sessions that never reached game over are skipped.
func (s *Store) SaveFinished(l *loop.GameLoop, player string) (int64, error) {
	sum := l.Summary()
	if !sum.Completed {
		return 0, nil
	}
	id, err := s.SaveSession(RecordFromSummary(sum, player))
	if err != nil {
		return 0, err
	}
	if err := s.SaveDecisions(sum.SessionID, RecordsFromDecisions(decisionsSince(l, sum.StartedAt))); err != nil {
		return id, err
	}
	return id, nil
}

// decisionsSince filters the loop's decision log to the current session.
func decisionsSince(l *loop.GameLoop, start time.Time) []adaptation.Decision {
	var out []adaptation.Decision
	for _, d := range l.AdaptationEngine().DecisionLog() {
		if !d.RecordedAt.Before(start) {
			out = append(out, d)
		}
	}
	return out
}
