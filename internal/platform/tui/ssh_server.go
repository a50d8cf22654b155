package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/metrics"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.idle/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// TickRate is the simulation rate of every session.
	TickRate int

	// Options apply to every game started over SSH.
	Options GameOptions
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		IdleTimeout: 30 * time.Minute,
		TickRate:    core.DefaultConfig().TickRate,
	}
}

// SSHServer serves the idle session to SSH clients. Each SSH user owns their
// own saves; every connection is a new records session.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  Store
	logger *log.Logger
	runs   sync.Map // ssh.Session -> SessionModel
}

// NewSSHServer creates an SSH server backed by store.
func NewSSHServer(cfg SSHServerConfig, store Store, logger *log.Logger) (*SSHServer, error) {
	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".idle", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates the session model for each SSH connection.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("No PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.RuntimeConfig{
		ScreenW:  pty.Window.Width,
		ScreenH:  pty.Window.Height,
		TickRate: s.config.TickRate,
	}
	player := Player{Owner: ownerFor(sshSession.User()), SessionID: storage.NewSessionID()}
	model := NewSessionModel(s.store, player, cfg, s.config.Options, s.logger.With("user", player.Owner))
	s.runs.Store(sshSession, model)

	return model, []tea.ProgramOption{tea.WithAltScreen()}
}

// ownerFor maps an SSH user name to a save owner.
func ownerFor(user string) string {
	user = strings.TrimSpace(user)
	if user == "" {
		return "anonymous"
	}
	return user
}

// sessionMiddleware logs and counts sessions, and saves the game in progress
// once the connection closes.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		start := time.Now()
		metrics.SSHSessionsTotal.Inc()
		metrics.SSHSessionsActive.Inc()
		s.logger.Info("Session started", "user", sshSession.User(), "remote", sshSession.RemoteAddr().String())

		next(sshSession)

		if v, ok := s.runs.LoadAndDelete(sshSession); ok {
			v.(SessionModel).Flush()
		}
		metrics.SSHSessionsActive.Dec()
		s.logger.Info("Session ended", "user", sshSession.User(), "remote", sshSession.RemoteAddr().String(),
			"duration", time.Since(start).Round(time.Second))
	}
}

// Start serves SSH connections until Shutdown is called.
func (s *SSHServer) Start() error {
	s.logger.Info("SSH server starting", "addr", s.config.Address)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server. Open sessions end and are saved.
func (s *SSHServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
