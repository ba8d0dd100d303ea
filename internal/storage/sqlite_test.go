package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/adaptive-snake/internal/core"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func record(id string, score int, created time.Time) SessionRecord {
	return SessionRecord{
		SessionID: id,
		Score:     score,
		FoodEaten: score / 10,
		Length:    3 + score/10,
		Duration:  time.Duration(score) * 100 * time.Millisecond,
		Collision: "boundary",
		Speed:     5,
		Adaptive:  true,
		Trend:     "stable",
		CreatedAt: created,
	}
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreOpenInMemory(t *testing.T) {
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer store.Close()

	if _, err := store.SaveSession(record("m1", 10, time.Now())); err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	high, err := store.HighScore()
	if err != nil || high != 10 {
		t.Errorf("HighScore() = %d, %v; expected 10", high, err)
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	want := record("abc", 120, base)
	want.Player = "alice"
	want.Level = 6
	want.ObstacleDensity = 1.5
	want.FoodSpawnRate = 0.9
	want.AvgReactionMs = 240.5
	want.CollisionsAvoided = 4
	want.AvgSpeed = 9.5
	want.SkillLevel = 61.25
	want.Trend = "improving"
	want.Confidence = 0.8

	id, err := store.SaveSession(want)
	if err != nil {
		t.Fatalf("SaveSession() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("SaveSession() id = %d, expected positive", id)
	}

	got, err := store.SessionByID("abc")
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if got == nil {
		t.Fatal("SessionByID() returned nil")
	}
	want.ID = id
	if *got != want {
		t.Errorf("Round trip mismatch:\n got %+v\nwant %+v", *got, want)
	}
}

func TestStoreSessionByIDMissing(t *testing.T) {
	store := openTestStore(t)
	got, err := store.SessionByID("nope")
	if err != nil || got != nil {
		t.Errorf("SessionByID(missing) = %v, %v; expected nil, nil", got, err)
	}
}

func TestStoreRejectsDuplicateAndEmptyIDs(t *testing.T) {
	store := openTestStore(t)
	if _, err := store.SaveSession(record("", 10, time.Now())); err == nil {
		t.Error("SaveSession() should reject an empty session id")
	}
	if _, err := store.SaveSession(record("dup", 10, time.Now())); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveSession(record("dup", 20, time.Now())); err == nil {
		t.Error("SaveSession() should reject a duplicate session id")
	}
}

func TestStoreTopSessionsLimit(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	// Save 5 sessions
	for i := 0; i < 5; i++ {
		if _, err := store.SaveSession(record(fmt.Sprintf("s%d", i), (i+1)*100, now)); err != nil {
			t.Fatal(err)
		}
	}

	// Request only top 3
	top, err := store.TopSessions(3)
	if err != nil {
		t.Fatalf("TopSessions() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("Expected 3 sessions with limit, got %d", len(top))
	}

	// Should be 500, 400, 300 (top 3)
	if top[0].Score != 500 || top[1].Score != 400 || top[2].Score != 300 {
		t.Errorf("Sessions not in expected order: %v", top)
	}
}

func TestStoreRecentSessions(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	store.SaveSession(record("old", 500, base))
	store.SaveSession(record("mid", 10, base.Add(time.Hour)))
	store.SaveSession(record("new", 20, base.Add(2*time.Hour)))

	recent, err := store.RecentSessions(2)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].SessionID != "new" || recent[1].SessionID != "mid" {
		t.Errorf("RecentSessions() = %v", recent)
	}
}

func TestStorePlayerSessions(t *testing.T) {
	store := openTestStore(t)
	now := time.Now()

	a := record("a1", 10, now)
	a.Player = "alice"
	b := record("b1", 20, now)
	b.Player = "bob"
	store.SaveSession(a)
	store.SaveSession(b)
	store.SaveSession(record("l1", 30, now))

	got, err := store.PlayerSessions("alice", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].SessionID != "a1" {
		t.Errorf("PlayerSessions(alice) = %v", got)
	}

	local, _ := store.PlayerSessions("local", 10)
	if len(local) != 1 {
		t.Errorf("Empty player should default to local, got %d local sessions", len(local))
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	// No sessions yet
	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty store, got %d", high)
	}

	now := time.Now()
	store.SaveSession(record("a", 100, now))
	store.SaveSession(record("b", 300, now))
	store.SaveSession(record("c", 200, now))

	high, err = store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 300 {
		t.Errorf("Expected high score of 300, got %d", high)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() on empty store failed: %v", err)
	}
	if empty.Games != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("Empty stats = %+v", empty)
	}

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	a := record("a", 100, base)
	a.SkillLevel = 40
	b := record("b", 300, base.Add(time.Minute))
	b.SkillLevel = 60
	store.SaveSession(a)
	store.SaveSession(b)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Games != 2 || stats.HighScore != 300 || stats.AvgScore != 200 {
		t.Errorf("Stats = %+v", stats)
	}
	if stats.AvgSkill != 50 || stats.TotalFood != 40 {
		t.Errorf("AvgSkill/TotalFood = %v/%v", stats.AvgSkill, stats.TotalFood)
	}
	if stats.LongestSurvival != 30*time.Second {
		t.Errorf("LongestSurvival = %v, expected 30s", stats.LongestSurvival)
	}
	if !stats.LastPlayed.Equal(base.Add(time.Minute)) {
		t.Errorf("LastPlayed = %v", stats.LastPlayed)
	}
}

func TestStoreClearSessions(t *testing.T) {
	store := openTestStore(t)
	store.SaveSession(record("a", 100, time.Now()))
	store.SaveDecisions("a", []DecisionRecord{{Reason: "x", RecordedAt: time.Now()}})

	if err := store.ClearSessions(); err != nil {
		t.Fatalf("ClearSessions() failed: %v", err)
	}

	top, _ := store.TopSessions(10)
	if len(top) != 0 {
		t.Errorf("Expected 0 sessions after clear, got %d", len(top))
	}
	decisions, _ := store.Decisions("a")
	if len(decisions) != 0 {
		t.Errorf("Expected 0 decisions after clear, got %d", len(decisions))
	}
}

func TestStoreDecisions(t *testing.T) {
	store := openTestStore(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	in := []DecisionRecord{
		{Seq: 0, SkillLevel: 15, Trend: "stable", Confidence: 0.5, SpeedDelta: -2, ObstacleDelta: -1, FoodDelta: 0.2, Reason: "down", Rationale: "r0", RecordedAt: base},
		{Seq: 1, SkillLevel: 85, Trend: "improving", Confidence: 0.7, SpeedDelta: 2.4, ObstacleDelta: 1.2, FoodDelta: -0.2, Reason: "up", Rationale: "r1", RecordedAt: base.Add(5 * time.Second)},
	}
	if err := store.SaveDecisions("s", in); err != nil {
		t.Fatalf("SaveDecisions() failed: %v", err)
	}
	if err := store.SaveDecisions("s", nil); err != nil {
		t.Errorf("SaveDecisions(nil) = %v, expected nil", err)
	}

	out, err := store.Decisions("s")
	if err != nil {
		t.Fatalf("Decisions() failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("Decisions() returned %d entries, expected %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("Decision %d = %+v, expected %+v", i, out[i], in[i])
		}
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestSaveFinishedFromLoop(t *testing.T) {
	store := openTestStore(t)

	clock := core.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	cfg := loop.DefaultConfig()
	cfg.Initial = core.DifficultyParameters{Speed: 5, ObstacleDensity: 0, FoodSpawnRate: 1, AdaptiveMode: true}
	l := loop.New(cfg, loop.WithClock(clock))
	l.StartGame()

	// Unfinished sessions are not stored
	if id, err := store.SaveFinished(l, "local"); err != nil || id != 0 {
		t.Fatalf("SaveFinished(running) = %d, %v", id, err)
	}

	// Heading right from the center of a 20-wide board hits the wall on the tenth step
	for l.Update() {
		clock.Advance(100 * time.Millisecond)
	}

	id, err := store.SaveFinished(l, "local")
	if err != nil {
		t.Fatalf("SaveFinished() failed: %v", err)
	}
	if id == 0 {
		t.Fatal("SaveFinished() should store a finished session")
	}

	got, err := store.SessionByID(l.SessionID())
	if err != nil || got == nil {
		t.Fatalf("SessionByID() = %v, %v", got, err)
	}
	sum := l.Summary()
	if got.Score != sum.FinalScore || got.Collision != "boundary" || got.Duration != sum.Duration {
		t.Errorf("Stored record = %+v, summary = %+v", got, sum)
	}
}
