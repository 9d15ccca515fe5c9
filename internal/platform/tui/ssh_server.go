package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/flappyq/internal/trainer"
)

// SSHTrainer is the training state owned by one SSH connection.
type SSHTrainer struct {
	Driver *trainer.Driver
	World  Renderer

	// Close runs once the connection's program has exited.
	Close func()
}

// TrainerFactory builds a fresh trainer for the named SSH user.
type TrainerFactory func(user string) (*SSHTrainer, error)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.flappyq/host_key.
	HostKeyPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// FrameInterval and MeanWindow configure every session's live view.
	FrameInterval time.Duration
	MeanWindow    int

	// NewTrainer is called once per connection.
	NewTrainer TrainerFactory

	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:       ":23234",
		IdleTimeout:   30 * time.Minute,
		FrameInterval: DefaultFrameInterval,
	}
}

// SSHServer serves one live training view per SSH connection. Each
// connection trains its own table.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	logger   *log.Logger
	trainers sync.Map // ssh.Session -> *SSHTrainer
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	if cfg.NewTrainer == nil {
		return nil, errors.New("ssh server needs a trainer factory")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	srv := &SSHServer{
		config: cfg,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", err)
		}
		hostKeyPath = filepath.Join(home, ".flappyq", "host_key")
	}
	if err := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); err != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", err)
	}

	// Middlewares run last to first: logging wraps the trainer lifecycle,
	// which wraps the Bubble Tea program.
	server, err := wish.NewServer(
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.trainerMiddleware,
			srv.loggingMiddleware,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// trainerMiddleware builds the connection's trainer before the program
// starts and closes it after the program exits.
func (s *SSHServer) trainerMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		t, err := s.config.NewTrainer(sess.User())
		if err != nil {
			s.logger.Error("cannot start trainer", "user", sess.User(), "err", err)
			fmt.Fprintln(sess.Stderr(), "cannot start training session:", err)
			//nolint:errcheck // Connection is closing anyway
			sess.Exit(1)
			return
		}

		s.trainers.Store(sess, t)
		defer func() {
			s.trainers.Delete(sess)
			if t.Close != nil {
				t.Close()
			}
		}()
		next(sess)
	}
}

// teaHandler creates the live view for a connection's trainer.
func (s *SSHServer) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sess.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sess.User())
		return nil, nil
	}
	v, ok := s.trainers.Load(sess)
	if !ok {
		s.logger.Warn("no trainer for session", "user", sess.User())
		return nil, nil
	}
	t := v.(*SSHTrainer)

	model := NewModel(t.Driver, t.World, Options{
		FrameInterval: s.config.FrameInterval,
		MeanWindow:    s.config.MeanWindow,
		Width:         pty.Window.Width,
		Height:        pty.Window.Height,
	})
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		s.logger.Info("session started",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
		next(sess)
		s.logger.Info("session ended",
			"user", sess.User(),
			"remote", sess.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until ctx is cancelled.
func (s *SSHServer) ListenAndServe(ctx context.Context) error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	errc := make(chan error, 1)
	go func() {
		errc <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, ssh.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}
