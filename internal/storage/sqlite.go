// Package storage provides SQLite-based persistence for finished snake
// sessions and the adaptation decisions taken during them.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// timeLayout is how timestamps are written; sortable as text.
const timeLayout = "2006-01-02 15:04:05.000"

// Store manages the SQLite database connection for session persistence.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
// The special path ":memory:" opens a private in-memory database.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// A single connection keeps an in-memory database alive and
	// serializes writers from concurrent SSH sessions.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL UNIQUE,
			player TEXT NOT NULL DEFAULT 'local',
			score INTEGER NOT NULL,
			food_eaten INTEGER NOT NULL DEFAULT 0,
			length INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			collision TEXT NOT NULL DEFAULT 'none',
			level INTEGER NOT NULL DEFAULT 0,
			speed REAL NOT NULL DEFAULT 0,
			obstacle_density REAL NOT NULL DEFAULT 0,
			food_spawn_rate REAL NOT NULL DEFAULT 0,
			adaptive INTEGER NOT NULL DEFAULT 0,
			avg_reaction_ms REAL NOT NULL DEFAULT 0,
			collisions_avoided INTEGER NOT NULL DEFAULT 0,
			avg_speed REAL NOT NULL DEFAULT 0,
			skill_level REAL NOT NULL DEFAULT 0,
			trend TEXT NOT NULL DEFAULT 'stable',
			confidence REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_top ON sessions(score DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_sessions_player ON sessions(player);

		CREATE TABLE IF NOT EXISTS decisions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			skill_level REAL NOT NULL,
			trend TEXT NOT NULL,
			confidence REAL NOT NULL,
			speed_delta REAL NOT NULL,
			obstacle_delta REAL NOT NULL,
			food_delta REAL NOT NULL,
			reason TEXT NOT NULL,
			rationale TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_decisions_session ON decisions(session_id, seq);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const sessionColumns = `id, session_id, player, score, food_eaten, length, duration_ms, collision,
	level, speed, obstacle_density, food_spawn_rate, adaptive,
	avg_reaction_ms, collisions_avoided, avg_speed,
	skill_level, trend, confidence, created_at`

// SaveSession records a finished session.
// Returns the ID of the inserted record.
func (s *Store) SaveSession(rec SessionRecord) (int64, error) {
	if rec.SessionID == "" {
		return 0, errors.New("storage: session id is required")
	}
	if rec.Player == "" {
		rec.Player = "local"
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	result, err := s.db.Exec(
		`INSERT INTO sessions (session_id, player, score, food_eaten, length, duration_ms, collision,
			level, speed, obstacle_density, food_spawn_rate, adaptive,
			avg_reaction_ms, collisions_avoided, avg_speed,
			skill_level, trend, confidence, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Player, rec.Score, rec.FoodEaten, rec.Length, rec.Duration.Milliseconds(), rec.Collision,
		rec.Level, rec.Speed, rec.ObstacleDensity, rec.FoodSpawnRate, rec.Adaptive,
		rec.AvgReactionMs, rec.CollisionsAvoided, rec.AvgSpeed,
		rec.SkillLevel, rec.Trend, rec.Confidence, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save session: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// SessionByID retrieves a session by its session ID.
// Returns nil, nil if no such session exists.
func (s *Store) SessionByID(sessionID string) (*SessionRecord, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE session_id = ?`, sessionID)
	rec, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query session: %w", err)
	}
	return &rec, nil
}

// TopSessions retrieves the top N sessions by score.
// Ties are broken by survival time, longest first.
func (s *Store) TopSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM sessions ORDER BY score DESC, duration_ms DESC, id ASC LIMIT ?`,
		limit,
	)
}

// RecentSessions retrieves the most recent sessions.
func (s *Store) RecentSessions(limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?`,
		limit,
	)
}

// PlayerSessions retrieves the most recent sessions of one player.
func (s *Store) PlayerSessions(player string, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.querySessions(
		`SELECT `+sessionColumns+` FROM sessions WHERE player = ? ORDER BY created_at DESC, id DESC LIMIT ?`,
		player, limit,
	)
}

func (s *Store) querySessions(query string, args ...any) ([]SessionRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query sessions: %w", err)
	}
	defer rows.Close()

	var records []SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (SessionRecord, error) {
	var rec SessionRecord
	var durationMs int64
	var createdAt any
	err := sc.Scan(
		&rec.ID, &rec.SessionID, &rec.Player, &rec.Score, &rec.FoodEaten, &rec.Length, &durationMs, &rec.Collision,
		&rec.Level, &rec.Speed, &rec.ObstacleDensity, &rec.FoodSpawnRate, &rec.Adaptive,
		&rec.AvgReactionMs, &rec.CollisionsAvoided, &rec.AvgSpeed,
		&rec.SkillLevel, &rec.Trend, &rec.Confidence, &createdAt,
	)
	if err != nil {
		return rec, err
	}
	rec.Duration = time.Duration(durationMs) * time.Millisecond
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}

// HighScore returns the highest score of any session.
// Returns 0 if no sessions exist.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow("SELECT MAX(score) FROM sessions").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// Stats contains aggregated statistics over all sessions.
type Stats struct {
	Games           int
	HighScore       int
	AvgScore        float64
	AvgSkill        float64
	TotalFood       int64
	LongestSurvival time.Duration
	LastPlayed      time.Time
}

// Stats retrieves aggregated statistics over all stored sessions.
func (s *Store) Stats() (*Stats, error) {
	stats := &Stats{}
	var longestMs int64
	var lastPlayed sql.NullString

	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0), COALESCE(AVG(skill_level), 0),
		        COALESCE(SUM(food_eaten), 0), COALESCE(MAX(duration_ms), 0), MAX(created_at)
		 FROM sessions`,
	).Scan(&stats.Games, &stats.HighScore, &stats.AvgScore, &stats.AvgSkill,
		&stats.TotalFood, &longestMs, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}

	stats.LongestSurvival = time.Duration(longestMs) * time.Millisecond
	if lastPlayed.Valid {
		stats.LastPlayed = parseTime(lastPlayed.String)
	}
	return stats, nil
}

// ClearSessions deletes every session and decision.
func (s *Store) ClearSessions() error {
	if _, err := s.db.Exec("DELETE FROM decisions; DELETE FROM sessions;"); err != nil {
		return fmt.Errorf("storage: cannot clear sessions: %w", err)
	}
	return nil
}

// SaveDecisions records a session's adaptation decisions in one transaction.
func (s *Store) SaveDecisions(sessionID string, decisions []DecisionRecord) error {
	if len(decisions) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	stmt, err := tx.Prepare(
		`INSERT INTO decisions (session_id, seq, skill_level, trend, confidence,
			speed_delta, obstacle_delta, food_delta, reason, rationale, recorded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("storage: cannot prepare decision insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range decisions {
		if _, err := stmt.Exec(sessionID, i, d.SkillLevel, d.Trend, d.Confidence,
			d.SpeedDelta, d.ObstacleDelta, d.FoodDelta, d.Reason, d.Rationale, formatTime(d.RecordedAt)); err != nil {
			return fmt.Errorf("storage: cannot save decision %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit decisions: %w", err)
	}
	return nil
}

// Decisions retrieves the decisions of one session in the order they were taken.
func (s *Store) Decisions(sessionID string) ([]DecisionRecord, error) {
	rows, err := s.db.Query(
		`SELECT seq, skill_level, trend, confidence, speed_delta, obstacle_delta, food_delta,
		        reason, rationale, recorded_at
		 FROM decisions WHERE session_id = ? ORDER BY seq`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query decisions: %w", err)
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var d DecisionRecord
		var recordedAt any
		if err := rows.Scan(&d.Seq, &d.SkillLevel, &d.Trend, &d.Confidence,
			&d.SpeedDelta, &d.ObstacleDelta, &d.FoodDelta, &d.Reason, &d.Rationale, &recordedAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		d.RecordedAt = parseTime(recordedAt)
		out = append(out, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime handles both time.Time and string column values.
func parseTime(v any) time.Time {
	switch v := v.(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{timeLayout, "2006-01-02 15:04:05", time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, v); err == nil {
				return parsed
			}
		}
	case []byte:
		return parseTime(string(v))
	}
	return time.Time{}
}
