// Package cli provides the command-line interface for trainingpanel.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"trainingpanel/internal/config"
)

// skipConfigAnnotation marks commands that run without loading the config file.
const skipConfigAnnotation = "skip-config"

var (
	cfgFile string
	verbose bool
	logger  *slog.Logger
	cfg     *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "trainingpanel",
	Short: "Personal habit and training tracker",
	Long: `Trainingpanel tracks daily activity logs, weekly goals and runs for a
small set of configured users, each bound to their own SQLite or PostgreSQL
database.

Users, storage endpoints, cache and logging are configured in
trainingpanel.yaml; scalar settings can be overridden with TRAININGPANEL_*
environment variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfigAnnotation] == "true" {
			logger = newLogger(os.Stderr, config.DefaultConfig().Log, verbose)
			slog.SetDefault(logger)
			return nil
		}
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(os.Stderr, cfg.Log, verbose)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", fmt.Sprintf("config file (default is ./%s)", config.DefaultFileName))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds the process logger. An unknown level falls back to info;
// Validate reports it separately.
func newLogger(w io.Writer, lc config.LogConfig, verbose bool) *slog.Logger {
	level, _ := config.ParseLevel(lc.Level)
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
