package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/adaptive-snake/internal/loop"
	"github.com/vovakirdan/adaptive-snake/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.snake/host_key.
	HostKeyPath string

	// DBPath is the path to the sessions database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Loop is the template for every session's game loop. The board is
	// shrunk to the client's terminal and the seed is set per session.
	Loop loop.Config

	// MinBoardSize is the smallest board side handed to a client.
	MinBoardSize int

	// LogLevel is the server log level name.
	LogLevel string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:      ":23234",
		DBPath:       "~/.snake/sessions.db",
		IdleTimeout:  30 * time.Minute,
		Loop:         loop.DefaultConfig(),
		MinBoardSize: 8,
		LogLevel:     "info",
	}
}

// shutdownGrace bounds how long Shutdown waits for open sessions.
const shutdownGrace = 10 * time.Second

// SSHServer hosts one adaptive snake game per SSH session. Sessions share
// the store but nothing else: each gets its own loop, skill history and
// difficulty.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int64
}

// NewSSHServer creates a new SSH server with the given configuration.
// A database that cannot be opened is logged and play continues unsaved.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger, err := NewLogger(os.Stderr, "snake-ssh", cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	hostKey, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	srv := &SSHServer{config: cfg, logger: logger}
	if store, openErr := storage.Open(cfg.DBPath); openErr != nil {
		logger.Warn("sessions will not be saved", "db", cfg.DBPath, "error", openErr)
	} else {
		srv.store = store
	}

	srv.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKey),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.trackSessions,
		),
	)
	if err != nil {
		srv.closeStore()
		return nil, fmt.Errorf("tui: cannot create SSH server: %w", err)
	}
	return srv, nil
}

// hostKeyPath resolves the host key location and creates its directory.
// wish generates the key on first start when the file is missing.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		path = filepath.Join(home, ".snake", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("tui: cannot create host key directory: %w", err)
	}
	return path, nil
}

// sessionLoop builds the game loop for a client with a termW x termH terminal.
func (s *SSHServer) sessionLoop(user string, termW, termH int, seed int64) *loop.GameLoop {
	cfg := s.config.Loop
	cfg.Board = FitBoard(cfg.Board, termW, termH, s.config.MinBoardSize)
	cfg.Board.Seed = seed

	logger := s.logger.With("user", user)
	return loop.New(cfg,
		loop.WithListener(NewLogListener(logger)),
		loop.WithPanicHandler(PanicLogger(logger)),
	)
}

// teaHandler starts a game for an SSH session. Sessions without a PTY are
// refused.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("refusing session without PTY", "user", sess.User())
		return nil, nil
	}

	l := s.sessionLoop(sess.User(), pty.Window.Width, pty.Window.Height, time.Now().UnixNano())
	board := l.Config().Board
	s.logger.Debug("game created", "user", sess.User(), "board", fmt.Sprintf("%dx%d", board.BoardW, board.BoardH))

	return NewModel(l, s.store, sess.User()), []tea.ProgramOption{tea.WithAltScreen()}
}

// trackSessions logs connects and disconnects with the number of open sessions.
func (s *SSHServer) trackSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		user, remote := sess.User(), sess.RemoteAddr().String()
		s.logger.Info("connected", "user", user, "remote", remote, "active", s.active.Add(1))
		defer func() {
			s.logger.Info("disconnected", "user", user, "remote", remote, "active", s.active.Add(-1))
		}()
		next(sess)
	}
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down. A listener
// failure is returned instead of waiting for a signal.
func (s *SSHServer) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.logger.Info("listening", "address", s.config.Address)
	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("tui: ssh server: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down", "active", s.active.Load())
		return s.Shutdown()
	}
}

// Shutdown stops accepting sessions, waits up to shutdownGrace for open
// ones, and closes the store.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	defer s.closeStore()
	return s.server.Shutdown(ctx)
}

func (s *SSHServer) closeStore() {
	if s.store != nil {
		s.store.Close()
		s.store = nil
	}
}

// Addr returns the configured listen address.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// ActiveSessions returns the number of connected sessions.
func (s *SSHServer) ActiveSessions() int64 {
	return s.active.Load()
}
