package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the agent headless",
	Long: `Run trials back to back over one action-value table until interrupted
(Ctrl+C / SIGTERM) or until --trials is reached. Each finished trial is
recorded in the database. On shutdown the trial log is exported, the table
is saved if requested, and a summary is logged.

Examples:
  flappyq train
  flappyq train --fps 0 --trials 5000 --save-table
  flappyq train --resume --export ./out/trials.parquet
  flappyq train --config ./my-world.yaml --seed 7`,
	Args: cobra.NoArgs,
	Run:  runTrain,
}

func init() {
	addSessionFlags(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) {
	logger := newLogger()
	cfg := mustLoadConfig(logger)
	s := newSession(cfg, sessionOptionsFromFlags(cmd, cfg, logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := s.driver.Run(ctx)
	switch {
	case err == nil:
		logger.Info("trial limit reached", "trials", flagTrials)
	case errors.Is(err, context.Canceled):
		logger.Info("interrupted, shutting down")
	default:
		logger.Error("training failed", "err", err)
		s.shutdown()
		os.Exit(1)
	}
	s.shutdown()
}
