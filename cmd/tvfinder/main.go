package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tvfinder/tvfinder/internal/config"
	"github.com/tvfinder/tvfinder/internal/logger"
)

var (
	// Global flags
	cfgFile  string
	logLevel string

	cfg    *config.Config
	loader *config.Loader
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tvfinder",
	Short: "Search TVMaze for shows and browse their episodes",
	Long: `tvfinder serves a small page for searching the TVMaze catalog by title
and listing a show's episodes grouped by season. The same lookups are
available from the command line.`,
	Version:       config.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, loader, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			if !logger.ValidLevel(logLevel) {
				return fmt.Errorf("invalid log level %q", logLevel)
			}
			cfg.Logging.Level = logLevel
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(configCmd)
}
