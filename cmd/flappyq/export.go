package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/flappyq/internal/storage"
)

var flagRun int64

var exportCmd = &cobra.Command{
	Use:   "export <out.parquet>",
	Short: "Export a stored run's trial log to parquet",
	Long: `Write every trial of a run to a zstd-compressed parquet file for
plotting elsewhere. Without --run the most recent run is exported.

Examples:
  flappyq export ./trials.parquet
  flappyq export ./run3.parquet --run 3`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().Int64Var(&flagRun, "run", 0, "Run ID to export (default: latest)")
}

func runExport(_ *cobra.Command, args []string) {
	outPath := args[0]

	store := openStoreOrExit()
	defer store.Close()

	var runArgs []string
	if flagRun != 0 {
		runArgs = []string{fmt.Sprint(flagRun)}
	}
	runID, err := resolveRun(store, runArgs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	trials, err := store.Trials(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving trials: %v\n", err)
		os.Exit(1)
	}

	if err := storage.WriteTrialsParquet(outPath, storage.TrialRows(trials, "db")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported %d trials of run %d to %s\n", len(trials), runID, outPath)
}
