package main

import (
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappyq/internal/platform/tui"
)

var flagLogFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Train the agent with a live terminal view",
	Long: `Run the same training loop as 'train', drawn in the terminal.
Trials are recorded in the database exactly as in headless training.
While the view is up, training logs go to --log-file (or nowhere); the
summary is printed after the view closes.

Controls:
  P/Space    - Pause
  +/Right    - Double ticks per frame
  -/Left     - Halve ticks per frame
  S          - Save a screenshot
  ?          - Toggle help
  Q/Esc      - Quit

Examples:
  flappyq watch
  flappyq watch --resume --save-table
  flappyq watch --fps 60 --seed 42 --log-file ./watch.log`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	addSessionFlags(watchCmd)
	watchCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write training logs here while the view is up")
}

// viewLogger returns the logger used while a tea program owns the terminal.
// Without a path everything is discarded.
func viewLogger(path string) (*log.Logger, io.Closer, error) {
	if path == "" {
		return log.New(io.Discard), io.NopCloser(nil), nil
	}
	f, err := tea.LogToFile(path, "flappyq")
	if err != nil {
		return nil, nil, err
	}
	return newLoggerTo(f), f, nil
}

func runWatch(cmd *cobra.Command, _ []string) {
	logger := newLogger()
	cfg := mustLoadConfig(logger)

	runLogger, logFile, err := viewLogger(flagLogFile)
	if err != nil {
		logger.Error("cannot open log file", "path", flagLogFile, "err", err)
		os.Exit(1)
	}
	defer logFile.Close()

	opts := sessionOptionsFromFlags(cmd, cfg, logger)
	opts.RunLogger = runLogger
	s := newSession(cfg, opts)

	var shots string
	if home, homeErr := os.UserHomeDir(); homeErr == nil {
		shots = filepath.Join(home, ".flappyq", "screenshots")
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	err = tui.Run(s.driver, s.world, tui.Options{
		FrameInterval: opts.Runtime.TickInterval(),
		MeanWindow:    cfg.Training.LogEvery,
		Width:         width,
		Height:        height,
		ScreenshotDir: shots,
	})
	if err != nil {
		logger.Error("live view failed", "err", err)
		s.shutdown()
		os.Exit(1)
	}
	s.shutdown()
}
