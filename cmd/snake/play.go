package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/adaptive-snake/internal/config"
	"github.com/vovakirdan/adaptive-snake/internal/loop"
	"github.com/vovakirdan/adaptive-snake/internal/platform/tui"
	"github.com/vovakirdan/adaptive-snake/internal/storage"
)

var (
	flagLogFile    string
	flagNoAdaptive bool
	flagTickRate   int
	flagPlayer     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start an adaptive snake game in this terminal.

Controls:
  Arrows/WASD/HJKL  - Steer
  P/Space/Esc       - Pause
  R                 - Restart
  T                 - Toggle adaptive difficulty
  +/-               - Manually raise or lower speed
  ?                 - Toggle help
  Ctrl+S            - Save a screenshot to ~/.snake/screenshots
  Q/Ctrl+C          - Quit

The board shrinks to fit the terminal. Finished games are stored in the
sessions database along with every difficulty decision that was made.

Examples:
  snake play
  snake play --preset easy
  snake play --no-adaptive
  snake play --seed 42 --log-file /tmp/snake.log --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write game events to this file")
	playCmd.Flags().BoolVar(&flagNoAdaptive, "no-adaptive", false, "Start with adaptive difficulty switched off")
	playCmd.Flags().IntVar(&flagTickRate, "tick-rate", 0, "Steps per second at default speed (0 = from config)")
	playCmd.Flags().StringVar(&flagPlayer, "player", "local", "Player name stored with sessions")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagNoAdaptive {
		cfg.Difficulty.Initial.AdaptiveMode = false
	}
	if flagTickRate > 0 {
		cfg.Loop.TickRate = flagTickRate
	}

	// Fit the board to the terminal
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg.Board = tui.FitBoard(cfg.Board, w, h, config.MinBoardSize)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, openErr := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if openErr != nil {
			return fmt.Errorf("cannot open log file: %w", openErr)
		}
		defer f.Close()
		logOut = f
	}
	logger, err := tui.NewLogger(logOut, "snake", flagLogLevel)
	if err != nil {
		return err
	}
	logger.Info("starting game", "source", cfg.Source, "seed", seed,
		"width", cfg.Board.BoardW, "height", cfg.Board.BoardH)

	l := loop.New(cfg.ToLoopConfig(seed),
		loop.WithListener(tui.NewLogListener(logger)),
		loop.WithPanicHandler(tui.PanicLogger(logger)),
	)

	// Open session storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open sessions database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	runErr := tui.Run(l, store, flagPlayer)

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}

	printSummary(l.Summary())
	return nil
}

// printSummary prints the last session's result after the TUI exits.
func printSummary(s loop.Summary) {
	if s.SessionID == "" {
		return
	}
	fmt.Printf("Score %d  food %d  length %d  survived %.1fs\n",
		s.FinalScore, s.FoodEaten, s.Length, s.Duration.Seconds())
	fmt.Printf("Skill %.0f (%s, confidence %.2f)  final level %d\n",
		s.Assessment.SkillLevel, s.Assessment.Trend, s.Assessment.Confidence, s.Difficulty.Level)
}
