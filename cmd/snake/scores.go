package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/adaptive-snake/internal/platform/tui"
	"github.com/vovakirdan/adaptive-snake/internal/storage"
)

var (
	flagLimit       int
	flagInteractive bool
	flagSession     string
	flagScoresUser  string
	flagRecent      bool
	flagClear       bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show stored sessions and statistics",
	Long: `Display the best stored sessions and aggregate statistics.

With --session, prints one session and the difficulty decisions the
adaptation engine made during it.

Examples:
  snake scores
  snake scores --recent --limit 20
  snake scores --player alice
  snake scores --session 3f0c...
  snake scores --interactive`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of sessions to show")
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse sessions in a TUI table")
	scoresCmd.Flags().StringVar(&flagSession, "session", "", "Show one session and its decisions")
	scoresCmd.Flags().StringVar(&flagScoresUser, "player", "", "Only show sessions of this player")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Order by date instead of score")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every stored session")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening sessions database: %w", err)
	}
	defer store.Close()

	switch {
	case flagClear:
		if err := store.ClearSessions(); err != nil {
			return err
		}
		fmt.Println("All sessions deleted.")
		return nil
	case flagInteractive:
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, width, height)
	case flagSession != "":
		return printSession(store, flagSession)
	}

	var sessions []storage.SessionRecord
	switch {
	case flagScoresUser != "":
		sessions, err = store.PlayerSessions(flagScoresUser, flagLimit)
	case flagRecent:
		sessions, err = store.RecentSessions(flagLimit)
	default:
		sessions, err = store.TopSessions(flagLimit)
	}
	if err != nil {
		return fmt.Errorf("error retrieving sessions: %w", err)
	}

	fmt.Println("Adaptive Snake - Sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snake play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-6s  %-8s  %-5s  %-14s  %-10s  %s\n",
		"Rank", "Score", "Survived", "Level", "Skill", "Player", "Date")
	fmt.Printf("  %-4s  %-6s  %-8s  %-5s  %-14s  %-10s  %s\n",
		"----", "-----", "--------", "-----", "-----", "------", "----")

	for i, s := range sessions {
		fmt.Printf("  %-4d  %-6d  %-8s  %-5d  %-14s  %-10s  %s\n",
			i+1, s.Score,
			fmt.Sprintf("%.1fs", s.Duration.Seconds()),
			s.Level,
			fmt.Sprintf("%.0f %s", s.SkillLevel, s.Trend),
			s.Player,
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
		)
	}

	stats, err := store.Stats()
	if err == nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Average: %.1f  Avg skill: %.1f  Longest: %.1fs\n",
			stats.Games, stats.HighScore, stats.AvgScore, stats.AvgSkill, stats.LongestSurvival.Seconds())
	}
	return nil
}

// printSession prints one session and its adaptation decisions.
func printSession(store *storage.Store, sessionID string) error {
	s, err := store.SessionByID(sessionID)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("no session %q", sessionID)
	}

	fmt.Printf("Session %s (%s)\n", s.SessionID, s.Player)
	fmt.Printf("  score %d, food %d, length %d, survived %.1fs, ended by %s\n",
		s.Score, s.FoodEaten, s.Length, s.Duration.Seconds(), s.Collision)
	fmt.Printf("  final level %d: speed %.2f, obstacles %.2f, food rate %.2f, adaptive %v\n",
		s.Level, s.Speed, s.ObstacleDensity, s.FoodSpawnRate, s.Adaptive)
	fmt.Printf("  reaction %.0fms, near misses %d, skill %.1f %s (confidence %.2f)\n",
		s.AvgReactionMs, s.CollisionsAvoided, s.SkillLevel, s.Trend, s.Confidence)

	decisions, err := store.Decisions(sessionID)
	if err != nil {
		return err
	}
	fmt.Println()
	if len(decisions) == 0 {
		fmt.Println("No difficulty decisions recorded.")
		return nil
	}
	fmt.Println("Decisions:")
	for _, d := range decisions {
		fmt.Printf("  %3d  %s  skill %5.1f %-9s  speed %+.2f  obstacles %+.2f  food %+.2f  %s\n",
			d.Seq, d.RecordedAt.Local().Format("15:04:05"), d.SkillLevel, d.Trend,
			d.SpeedDelta, d.ObstacleDelta, d.FoodDelta, d.Rationale)
		if d.Reason != "" {
			fmt.Printf("       %s\n", d.Reason)
		}
	}
	return nil
}
