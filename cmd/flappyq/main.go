// flappyq trains a tabular Q-learning agent to fly through a stream of pipes.
//
// Usage:
//
//	flappyq train              - Train headless until interrupted
//	flappyq watch              - Train with a live terminal view
//	flappyq trials [run-id]    - Show the trial history of a run
//	flappyq export <out>       - Export a run's trial log to parquet
//	flappyq serve              - Serve live training sessions over SSH
//	flappyq config             - Print the built-in config
//
// Global flags:
//
//	--config <path>     - Custom world/training config YAML
//	--fps <rate>        - Ticks per second, 0 = unpaced (default: from config)
//	--seed <value>      - Base RNG seed (0 = random based on time)
//	--db <path>         - Database path (default: ~/.flappyq/flappyq.db)
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "flappyq",
	Short: "flappyq - Q-learning agent for a Flappy Bird style game",
	Long: `flappyq trains a tabular Q-learning agent to control a flapping avatar
through gapped pipes. Every trial reuses the same action-value table, so
scores climb as the table fills in.

Available commands:
  train    - Headless training, logs progress
  watch    - Training with a live terminal view
  trials   - Trial history and stats of a stored run
  export   - Write a stored run's trial log to parquet
  serve    - Live training sessions over SSH, one table per connection
  config   - Print the built-in config as a starting point

Examples:
  flappyq train --fps 0 --trials 2000 --save-table
  flappyq train --resume --export ./trials.parquet
  flappyq watch --seed 42
  flappyq trials --top 10
  flappyq serve --ssh :23234`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Ticks per second, 0 = unpaced (default: from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "Base RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.flappyq/flappyq.db", "Path to database (empty disables persistence)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(trialsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}
