package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"csvforge/internal/app"
	"csvforge/internal/config"
	"csvforge/internal/logger"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "csvforge",
	Short: "Convert JSON documents to CSV",
	Long: `csvforge converts JSON documents (a single object or an array of
objects) into CSV. Nested structures are flattened into dotted and indexed
column paths.

Run without arguments to open the graphical interface, or use the convert
subcommand for headless conversion.`,
	Version: app.AppVersion,
	// execute reports errors itself; without these cobra prints each
	// failure a second time along with the usage text.
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGUI()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGUI() error {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}

	application, err := app.New(context.Background(), path, newLogger(path))
	if err != nil {
		return err
	}
	return application.Run()
}

// newLogger builds the process logger at the resolved level.
func newLogger(path string) logger.Logger {
	return logger.NewConsoleLogger(resolveLogLevel(path))
}

// resolveLogLevel picks the log level: the config file sets the base, the
// CSVFORGE_LOG_LEVEL environment variable overrides it, and --verbose
// overrides both.
func resolveLogLevel(path string) logger.LogLevel {
	level := logger.InfoLevel
	if cfg, err := config.Load(path); err == nil {
		level = logger.ParseLevel(cfg.General.LogLevel)
	}
	if env := os.Getenv("CSVFORGE_LOG_LEVEL"); env != "" {
		level = logger.ParseLevel(env)
	}
	if verbose {
		level = logger.DebugLevel
	}
	return level
}
