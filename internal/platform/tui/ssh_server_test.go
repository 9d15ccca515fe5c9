package tui

import (
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"

	"github.com/vovakirdan/flappyq/internal/agent"
	"github.com/vovakirdan/flappyq/internal/config"
	"github.com/vovakirdan/flappyq/internal/games/flappy"
	"github.com/vovakirdan/flappyq/internal/trainer"
)

// fakeSession implements the parts of ssh.Session the server touches.
type fakeSession struct {
	ssh.Session
	user     string
	pty      bool
	exitCode int
}

func (f *fakeSession) User() string { return f.user }
func (f *fakeSession) RemoteAddr() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 2222} }
func (f *fakeSession) Stderr() io.ReadWriter { return &nopReadWriter{} }
func (f *fakeSession) Exit(code int) error { f.exitCode = code; return nil }
func (f *fakeSession) Pty() (ssh.Pty, <-chan ssh.Window, bool) {
	return ssh.Pty{Term: "xterm", Window: ssh.Window{Width: 60, Height: 30}}, nil, f.pty
}

type nopReadWriter struct{}

func (nopReadWriter) Read([]byte) (int, error) { return 0, io.EOF }
func (nopReadWriter) Write(p []byte) (int, error) { return len(p), nil }

func newTestTrainer() *SSHTrainer {
	cfg := config.DefaultConfig()
	world := flappy.New(cfg, 1)
	return &SSHTrainer{
		Driver: trainer.NewDriver(world, agent.NewFromConfig(cfg), trainer.Options{Seed: 1}),
		World:  world,
	}
}

func TestSSHTrainerLifecycle(t *testing.T) {
	var built []string
	closed := 0
	srv := &SSHServer{
		config: SSHServerConfig{
			MeanWindow: 10,
			NewTrainer: func(user string) (*SSHTrainer, error) {
				built = append(built, user)
				tr := newTestTrainer()
				tr.Close = func() { closed++ }
				return tr, nil
			},
		},
		logger: log.New(io.Discard),
	}

	sess := &fakeSession{user: "alice", pty: true}
	var model Model
	handler := srv.loggingMiddleware(srv.trainerMiddleware(func(s ssh.Session) {
		m, opts := srv.teaHandler(s)
		if m == nil || len(opts) == 0 {
			t.Fatal("session with a PTY should get a live view")
		}
		model = m.(Model)
		if closed != 0 {
			t.Error("trainer closed before the program finished")
		}
	}))
	handler(sess)

	if len(built) != 1 || built[0] != "alice" {
		t.Errorf("factory calls = %v, expected [alice]", built)
	}
	if closed != 1 {
		t.Errorf("trainer closed %d times, expected 1", closed)
	}
	if model.screen.Width() != 60 || model.screen.Height() != 30-chromeRows {
		t.Errorf("view sized %dx%d, expected PTY size minus chrome", model.screen.Width(), model.screen.Height())
	}
	if _, ok := srv.trainers.Load(sess); ok {
		t.Error("trainer should be forgotten once the session ends")
	}
}

func TestSSHSessionWithoutPty(t *testing.T) {
	srv := &SSHServer{
		config: SSHServerConfig{NewTrainer: func(string) (*SSHTrainer, error) { return newTestTrainer(), nil }},
		logger: log.New(io.Discard),
	}

	sess := &fakeSession{user: "bob"}
	srv.trainerMiddleware(func(s ssh.Session) {
		if m, _ := srv.teaHandler(s); m != nil {
			t.Error("session without a PTY should get no live view")
		}
	})(sess)
}

func TestSSHTrainerFactoryError(t *testing.T) {
	srv := &SSHServer{
		config: SSHServerConfig{NewTrainer: func(string) (*SSHTrainer, error) { return nil, errors.New("database is locked") }},
		logger: log.New(io.Discard),
	}

	sess := &fakeSession{user: "carol", pty: true}
	srv.trainerMiddleware(func(ssh.Session) {
		t.Error("program should not start when the trainer cannot be built")
	})(sess)
	if sess.exitCode != 1 {
		t.Errorf("exit code = %d, expected 1", sess.exitCode)
	}
}

func TestNewSSHServerCreatesHostKey(t *testing.T) {
	if _, err := NewSSHServer(SSHServerConfig{Address: "127.0.0.1:0"}); err == nil {
		t.Error("server without a trainer factory should be rejected")
	}

	keyPath := filepath.Join(t.TempDir(), "keys", "host_key")
	cfg := DefaultSSHServerConfig()
	cfg.Address = "127.0.0.1:0"
	cfg.HostKeyPath = keyPath
	cfg.NewTrainer = func(string) (*SSHTrainer, error) { return newTestTrainer(), nil }

	srv, err := NewSSHServer(cfg)
	if err != nil {
		t.Fatalf("NewSSHServer() failed: %v", err)
	}
	if srv.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() = %q", srv.Addr())
	}
	if _, err := os.Stat(keyPath); err != nil {
		t.Errorf("host key should be generated at %s: %v", keyPath, err)
	}
}
