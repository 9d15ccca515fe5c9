package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappyq/internal/config"
	"github.com/vovakirdan/flappyq/internal/platform/tui"
	"github.com/vovakirdan/flappyq/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve live training sessions over SSH",
	Long: `Start an SSH server where every connection watches a fresh agent train.

Each SSH connection gets its own action-value table, world and driver.
Trials of every session are recorded in the shared database as separate
runs. With --resume each session starts from the saved table; sessions
never write the table back.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.flappyq/host_key

Examples:
  flappyq serve                           # Listen on :23234 with auto-generated key
  flappyq serve --ssh :2222               # Listen on port 2222
  flappyq serve --host-key ./my_host_key  # Use specific host key
  flappyq serve --resume --trials 500     # Start from the saved table, stop after 500 trials

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagTrials, "trials", 0, "End each session after N trials (0 = until the user quits)")
	serveCmd.Flags().BoolVar(&flagResume, "resume", false, "Start each session from the saved action-value table")
}

// newTrainerFactory builds one session per SSH connection over a shared
// store. Sessions never own the store.
func newTrainerFactory(cfg config.Config, base sessionOptions) tui.TrainerFactory {
	return func(user string) (*tui.SSHTrainer, error) {
		opts := base
		opts.OwnsStore = false
		opts.SaveTable = false
		opts.Export = ""
		opts.Logger = base.Logger.With("user", user)
		opts.RunLogger = nil

		s, err := openSession(cfg, opts)
		if err != nil {
			return nil, err
		}
		return &tui.SSHTrainer{
			Driver: s.driver,
			World:  s.world,
			Close:  s.shutdown,
		}, nil
	}
}

func runServe(cmd *cobra.Command, _ []string) {
	logger := newLogger()
	cfg := mustLoadConfig(logger)
	opts := sessionOptionsFromFlags(cmd, cfg, logger)

	if flagDBPath != "" {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			logger.Error("cannot open database", "path", flagDBPath, "err", err)
			os.Exit(1)
		}
		defer store.Close()
		opts.Store = store
	}

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:       flagSSHAddr,
		HostKeyPath:   flagHostKey,
		IdleTimeout:   time.Duration(flagIdleTimeout) * time.Minute,
		FrameInterval: opts.Runtime.TickInterval(),
		MeanWindow:    cfg.Training.LogEvery,
		NewTrainer:    newTrainerFactory(cfg, opts),
		Logger:        logger,
	})
	if err != nil {
		logger.Error("cannot create server", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("connect with: ssh localhost -p <port>", "address", server.Addr())
	if err := server.ListenAndServe(ctx); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
