package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/flappyq/internal/platform/tui"
	"github.com/vovakirdan/flappyq/internal/storage"
)

var (
	flagTop    int
	flagBrowse bool
)

var trialsCmd = &cobra.Command{
	Use:   "trials [run-id]",
	Short: "Show the trial history of a run",
	Long: `Print the trials recorded for a run, with its aggregate stats.
Without a run ID the most recent run is shown.

Examples:
  flappyq trials
  flappyq trials 3 --top 10
  flappyq trials --browse`,
	Args: cobra.MaximumNArgs(1),
	Run:  runTrials,
}

func init() {
	trialsCmd.Flags().IntVar(&flagTop, "top", 0, "Show only the N best trials")
	trialsCmd.Flags().BoolVar(&flagBrowse, "browse", false, "Browse all runs interactively")
}

// openStoreOrExit opens the database for the read-only commands.
func openStoreOrExit() *storage.Store {
	if flagDBPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --db must not be empty")
		os.Exit(1)
	}
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	return store
}

// resolveRun returns the run named by args, or the latest run.
func resolveRun(store *storage.Store, args []string) (int64, error) {
	if len(args) == 1 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid run ID %q", args[0])
		}
		return id, nil
	}
	run, err := store.LatestRun()
	if err != nil {
		return 0, err
	}
	if run == nil {
		return 0, fmt.Errorf("no runs recorded yet, run 'flappyq train' first")
	}
	return run.ID, nil
}

func runTrials(_ *cobra.Command, args []string) {
	store := openStoreOrExit()
	defer store.Close()

	runID, err := resolveRun(store, args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagBrowse {
		width, height := 80, 24 // Defaults
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width = w
			height = h
		}
		if err := tui.RunTrials(store, runID, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var trials []storage.TrialRecord
	if flagTop > 0 {
		trials, err = store.TopTrials(runID, flagTop)
	} else {
		trials, err = store.Trials(runID)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving trials: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Trials - run %d\n", runID)
	fmt.Println()

	if len(trials) == 0 {
		fmt.Println("No trials recorded for this run.")
		return
	}

	// Print header
	fmt.Printf("  %-6s  %-6s  %-7s  %s\n", "Trial", "Score", "Ticks", "Date")
	fmt.Printf("  %-6s  %-6s  %-7s  %s\n", "-----", "-----", "-----", "----")

	for _, tr := range trials {
		fmt.Printf("  %-6d  %-6d  %-7d  %s\n", tr.Trial, tr.Score, tr.Ticks, tr.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	stats, err := store.RunStats(runID)
	if err == nil {
		fmt.Println()
		fmt.Printf("Trials: %d  Best: %d  Mean: %.2f  Ticks: %d\n",
			stats.Trials, stats.BestScore, stats.AvgScore, stats.TotalTicks)
	}
}
