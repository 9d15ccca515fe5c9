package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappyq/internal/agent"
	"github.com/vovakirdan/flappyq/internal/config"
	"github.com/vovakirdan/flappyq/internal/core"
	"github.com/vovakirdan/flappyq/internal/games/flappy"
	"github.com/vovakirdan/flappyq/internal/storage"
	"github.com/vovakirdan/flappyq/internal/trainer"
)

// Flags shared by train, watch and serve.
var (
	flagTrials    int
	flagResume    bool
	flagSaveTable bool
	flagExport    string
)

func addSessionFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagTrials, "trials", 0, "Stop after N trials (0 = until interrupted)")
	cmd.Flags().BoolVar(&flagResume, "resume", false, "Load the saved action-value table before training")
	cmd.Flags().BoolVar(&flagSaveTable, "save-table", false, "Save the action-value table on shutdown")
	cmd.Flags().StringVar(&flagExport, "export", "", "Write this session's trial log to a parquet file on shutdown")
}

// newLogger builds the process logger from --log-level.
func newLogger() *log.Logger {
	return newLoggerTo(os.Stderr)
}

func newLoggerTo(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "flappyq",
	})
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// mustLoadConfig loads the config or exits. A missing config file is a
// startup failure with no retry.
func mustLoadConfig(logger *log.Logger) config.Config {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			logger.Error("missing config, cannot build the world", "path", flagConfig)
		} else {
			logger.Error("cannot load config", "err", err)
		}
		os.Exit(1)
	}
	return cfg
}

// runtimeConfig merges the global flags over the loaded config.
func runtimeConfig(cmd *cobra.Command, cfg config.Config) core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.TickRate = cfg.Training.TickRate
	if cmd.Flags().Changed("fps") {
		rc.TickRate = flagFPS
	}
	rc.Seed = flagSeed
	return rc
}

// sessionOptions are the per-session settings resolved from flags.
type sessionOptions struct {
	Runtime   core.RuntimeConfig
	Trials    int
	Resume    bool
	SaveTable bool
	Export    string

	// Store records the run; nil disables persistence. The session closes
	// it on shutdown only when OwnsStore is set.
	Store     *storage.Store
	OwnsStore bool

	// Logger receives startup and shutdown lines.
	Logger *log.Logger

	// RunLogger receives everything logged while trials are running.
	// Nil uses Logger.
	RunLogger *log.Logger
}

// sessionOptionsFromFlags collects the flags shared by train and watch.
func sessionOptionsFromFlags(cmd *cobra.Command, cfg config.Config, logger *log.Logger) sessionOptions {
	return sessionOptions{
		Runtime:   runtimeConfig(cmd, cfg),
		Trials:    flagTrials,
		Resume:    flagResume,
		SaveTable: flagSaveTable,
		Export:    flagExport,
		Logger:    logger,
	}
}

// session wires the world, agent, driver and persistence for one run.
type session struct {
	cfg       config.Config
	opts      sessionOptions
	logger    *log.Logger
	runLogger *log.Logger
	world     *flappy.World
	driver    *trainer.Driver
	store     *storage.Store
	runID     int64
	seed      int64
	started   time.Time
	records   []storage.TrialRecord
}

// newSession opens the database named by --db and builds a session, or
// exits on a startup failure.
func newSession(cfg config.Config, opts sessionOptions) *session {
	if flagDBPath != "" {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			opts.Logger.Error("cannot open database", "path", flagDBPath, "err", err)
			os.Exit(1)
		}
		opts.Store = store
		opts.OwnsStore = true
	}

	s, err := openSession(cfg, opts)
	if err != nil {
		opts.Logger.Error("cannot start session", "err", err)
		os.Exit(1)
	}
	return s
}

// openSession builds a session over an already opened (or nil) store.
func openSession(cfg config.Config, opts sessionOptions) (*session, error) {
	s := &session{
		cfg:       cfg,
		opts:      opts,
		logger:    opts.Logger,
		runLogger: opts.RunLogger,
		store:     opts.Store,
		seed:      opts.Runtime.ResolveSeed(),
		started:   time.Now(),
	}
	if s.runLogger == nil {
		s.runLogger = s.logger
	}
	if s.store == nil && (opts.Resume || opts.SaveTable) {
		s.logger.Warn("--resume and --save-table need a database, ignoring them")
	}

	ag := agent.NewFromConfig(cfg)
	if opts.Resume && s.store != nil {
		if err := s.loadTable(ag.Table()); err != nil {
			if !errors.Is(err, storage.ErrTableNotFound) {
				s.close()
				return nil, fmt.Errorf("cannot restore table: %w", err)
			}
			s.logger.Warn("no saved table, starting fresh", "table", cfg.Training.TableName)
		} else {
			s.logger.Info("restored table", "table", cfg.Training.TableName, "visited", ag.Table().Visited())
		}
	}

	if s.store != nil {
		runID, err := s.store.CreateRun(s.seed, cfg.Training.TableName)
		if err != nil {
			s.close()
			return nil, fmt.Errorf("cannot record run: %w", err)
		}
		s.runID = runID
	}

	s.world = flappy.New(cfg, s.seed)
	s.driver = trainer.NewDriver(s.world, ag, trainer.Options{
		Seed:         s.seed,
		MaxTrials:    opts.Trials,
		TickInterval: opts.Runtime.TickInterval(),
		LogEvery:     cfg.Training.LogEvery,
		Logger:       s.runLogger,
		OnTrial:      s.recordTrial,
	})

	s.logger.Info("session started", "run", s.runID, "seed", s.seed, "fps", opts.Runtime.TickRate, "table", cfg.Training.TableName)
	return s, nil
}

// recordTrial persists one finished trial. Storage failures are logged and
// training continues.
func (s *session) recordTrial(r trainer.TrialResult) {
	rec := storage.TrialRecord{
		RunID:     s.runID,
		Trial:     r.Trial,
		Score:     r.Score,
		Ticks:     r.Ticks,
		CreatedAt: time.Now(),
	}
	s.records = append(s.records, rec)
	if s.store == nil {
		return
	}
	if err := s.store.SaveTrial(rec); err != nil {
		s.runLogger.Error("cannot save trial", "trial", r.Trial, "err", err)
	}
}

// loadTable restores the named table into t.
func (s *session) loadTable(t *agent.Table) error {
	xs, ys, values, err := s.store.LoadTable(s.cfg.Training.TableName)
	if err != nil {
		return err
	}
	if wantX, wantY := t.Dims(); xs != wantX || ys != wantY {
		return fmt.Errorf("saved table is %dx%d, config expects %dx%d", xs, ys, wantX, wantY)
	}
	return t.Restore(fromQValues(values))
}

// shutdown flushes diagnostics: the parquet export, the table and a summary.
func (s *session) shutdown() {
	if s.opts.Export != "" {
		if err := storage.WriteTrialsParquet(s.opts.Export, storage.TrialRows(s.records, "session")); err != nil {
			s.logger.Error("cannot export trials", "path", s.opts.Export, "err", err)
		} else {
			s.logger.Info("exported trials", "path", s.opts.Export, "trials", len(s.records))
		}
	}

	if s.opts.SaveTable && s.store != nil {
		t := s.driver.Agent().Table()
		xs, ys := t.Dims()
		if err := s.store.SaveTable(s.cfg.Training.TableName, xs, ys, toQValues(t.Snapshot())); err != nil {
			s.logger.Error("cannot save table", "err", err)
		} else {
			s.logger.Info("saved table", "table", s.cfg.Training.TableName, "visited", t.Visited())
		}
	}

	results := s.driver.Results()
	best, _ := results.Best()
	s.logger.Info("session finished",
		"run", s.runID,
		"trials", results.Len(),
		"best", best.Score,
		"best_trial", best.Trial,
		"mean", fmt.Sprintf("%.2f", results.Mean(results.Len())),
		"elapsed", time.Since(s.started).Round(time.Millisecond),
	)

	s.close()
}

func (s *session) close() {
	if s.store != nil && s.opts.OwnsStore {
		if err := s.store.Close(); err != nil {
			s.logger.Warn("cannot close database", "err", err)
		}
	}
}

func toQValues(cells []agent.Cell) []storage.QValue {
	out := make([]storage.QValue, len(cells))
	for i, c := range cells {
		out[i] = storage.QValue{X: c.X, Y: c.Y, Action: int(c.Action), Value: c.Value}
	}
	return out
}

func fromQValues(values []storage.QValue) []agent.Cell {
	out := make([]agent.Cell, len(values))
	for i, v := range values {
		out[i] = agent.Cell{X: v.X, Y: v.Y, Action: agent.Action(v.Action), Value: v.Value}
	}
	return out
}
