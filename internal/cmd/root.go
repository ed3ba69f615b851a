package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/runger/eijiro/internal/config"
	elog "github.com/runger/eijiro/internal/log"
	"github.com/runger/eijiro/internal/storage"
)

const (
	groupDictionary = "dictionary"
	groupSetup      = "setup"
)

// Global flags.
var (
	databaseFlag string
	configFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "eijiro",
	Short: "Convert the Eijiro dictionary into Apple Dictionary XML",
	Long: `eijiro - Eijiro flat-text dictionary to Apple Dictionary XML
  - load the dictionary text into a local SQLite database
  - export one <d:entry> per headword for the Dictionary Development Kit`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyColorMode()
	},
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err)
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%sError:%s %v\n", colorRed, colorReset, err)
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupDictionary, Title: "Dictionary Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	rootCmd.PersistentFlags().StringVarP(&databaseFlag, "database", "d", "", "SQLite database path (overrides database.path)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default: $XDG_CONFIG_HOME/eijiro/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// configFile returns the config file selected by --config.
func configFile() string {
	if configFlag != "" {
		return configFlag
	}
	return config.DefaultPaths().ConfigFile()
}

// loadSettings loads the config file and applies the global flags.
func loadSettings() (*config.Config, error) {
	cfg, err := config.LoadFromFile(configFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if databaseFlag != "" {
		cfg.Database.Path = databaseFlag
	}
	return cfg, nil
}

// newLogger builds the stderr logger for a command run.
func newLogger(cfg *config.Config) *slog.Logger {
	logger := elog.NewFromEnv(os.Stderr, cfg.Log.Level)
	elog.LogConfigLoaded(logger, configFile(), cfg.DatabasePath())
	return logger
}

// openStore opens the configured database, creating it when missing.
func openStore(cfg *config.Config, logger *slog.Logger, maxOpenConns int) (*storage.SQLiteStore, error) {
	store, err := storage.NewSQLiteStore(cfg.DatabasePath(), storage.Options{
		BusyTimeoutMs: cfg.Database.BusyTimeoutMs,
		MaxOpenConns:  maxOpenConns,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

// openExistingStore opens the configured database for reading. Commands that
// only inspect data must not create an empty database.
func openExistingStore(cfg *config.Config, logger *slog.Logger, maxOpenConns int) (*storage.SQLiteStore, error) {
	path := cfg.DatabasePath()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("database not found at %s (run 'eijiro load' first)", path)
	}
	return openStore(cfg, logger, maxOpenConns)
}

// commandContext is cancelled on Ctrl-C.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}
