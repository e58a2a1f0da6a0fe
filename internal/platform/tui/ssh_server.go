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
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/gridplay/internal/config"
	"github.com/vovakirdan/gridplay/internal/core"
	"github.com/vovakirdan/gridplay/internal/storage"
)

const shutdownGrace = 10 * time.Second

// SSHServerConfig configures the remote play server.
type SSHServerConfig struct {
	Address     string // host:port
	HostKeyPath string // generated on first start; empty means ~/.gridplay/host_key
	DBPath      string
	IdleTimeout time.Duration

	// Play is shared by every session.
	Play   config.Config
	Logger *log.Logger
}

func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.gridplay/episodes.db",
		IdleTimeout: 30 * time.Minute,
		Play:        config.DefaultConfig(),
	}
}

// SSHServer serves a SessionModel to every SSH client with a terminal.
// All sessions share one episode store.
type SSHServer struct {
	cfg    SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
	active atomic.Int64
}

func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "gridplay-ssh",
		})
	}
	s := &SSHServer{cfg: cfg, logger: cfg.Logger}

	keyPath, err := hostKeyPath(cfg.HostKeyPath)
	if err != nil {
		return nil, err
	}

	// Sessions still work without history.
	if s.store, err = storage.Open(cfg.DBPath); err != nil {
		s.logger.Warn("episodes will not be saved", "db", cfg.DBPath, "error", err)
	}

	// Middleware runs last to first: sessions are logged before the
	// terminal check can reject them.
	s.server, err = wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(keyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(s.newSession),
			activeterm.Middleware(),
			s.trackSessions,
		),
	)
	if err != nil {
		s.closeStore()
		return nil, fmt.Errorf("create ssh server: %w", err)
	}
	return s, nil
}

// hostKeyPath resolves where the host key lives and makes sure its
// directory exists. wish creates the key itself.
func hostKeyPath(path string) (string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		path = filepath.Join(home, ".gridplay", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("create host key directory: %w", err)
	}
	return path, nil
}

func (s *SSHServer) newSession(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	rt := core.DefaultConfig()
	rt.ScreenW, rt.ScreenH = pty.Window.Width, pty.Window.Height

	model := NewSessionModel(s.store, s.cfg.Play, rt, s.logger.With("user", sess.User()))
	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

func (s *SSHServer) trackSessions(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		started := time.Now()
		s.logger.Info("session opened",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
			"active", s.active.Add(1))

		next(sess)

		s.logger.Info("session closed",
			"user", sess.User(),
			"duration", time.Since(started).Round(time.Second),
			"active", s.active.Add(-1))
	}
}

// ListenAndServe serves until SIGINT or SIGTERM, then shuts down.
func (s *SSHServer) ListenAndServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "address", s.cfg.Address)
		serveErr <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		s.closeStore()
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "active", s.active.Load())
	return s.Shutdown()
}

// Shutdown waits up to shutdownGrace for sessions to end.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	err := s.server.Shutdown(ctx)
	s.closeStore()
	return err
}

func (s *SSHServer) closeStore() {
	if s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn("close episode database", "error", err)
	}
	s.store = nil
}

func (s *SSHServer) Addr() string {
	return s.cfg.Address
}
