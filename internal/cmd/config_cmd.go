package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/runger/eijiro/internal/config"
)

var configEnv bool

var configCmd = &cobra.Command{
	Use:     "config [key] [value]",
	Short:   "Get or set configuration values",
	GroupID: groupSetup,
	Long: `Get or set eijiro configuration values.

Without arguments, lists all configuration keys.
With one argument, shows the value of that key.
With two arguments, sets the key to the value.

Configuration is stored in ~/.config/eijiro/config.yaml (XDG compliant).
Environment variables override the file; see --env.

Keys are in the format: section.key
Sections: database, load, export, log

Examples:
  eijiro config                        # List all keys
  eijiro config export.workers         # Get export.workers value
  eijiro config export.workers 8       # Render with 8 workers
  eijiro config load.encoding utf-8
  eijiro config --env                  # List environment overrides`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&configEnv, "env", false, "List the environment variables that override the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	path := configFile()
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if configEnv {
		help, err := cfg.EnvHelp()
		if err != nil {
			return fmt.Errorf("failed to describe environment: %w", err)
		}
		fmt.Println(help)
		return nil
	}

	switch len(args) {
	case 0:
		// List all keys
		return listConfig(cfg, path)
	case 1:
		// Get value
		return getConfig(cfg, args[0])
	case 2:
		// Set value
		return setConfig(cfg, path, args[0], args[1])
	}

	return nil
}

func listConfig(cfg *config.Config, path string) error {
	fmt.Printf("%sConfiguration Keys%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	var failedKeys []string
	for _, key := range config.ListKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			failedKeys = append(failedKeys, key)
			continue
		}

		displayValue := value
		if displayValue == "" {
			displayValue = colorDim + "(not set)" + colorReset
		}

		fmt.Printf("  %s%s%s = %s\n", colorCyan, key, colorReset, displayValue)
	}

	if len(failedKeys) > 0 {
		fmt.Printf("\n%sWarning:%s Failed to retrieve keys: %s\n", colorYellow, colorReset, strings.Join(failedKeys, ", "))
	}

	fmt.Println()
	if _, err := os.Stat(path); err == nil {
		fmt.Printf("Config file: %s\n", path)
	} else {
		fmt.Printf("Config file: %s %s(not found, using defaults)%s\n", path, colorDim, colorReset)
	}
	fmt.Printf("Database:    %s\n", cfg.DatabasePath())

	return nil
}

func getConfig(cfg *config.Config, key string) error {
	value, err := cfg.Get(key)
	if err != nil {
		return err
	}

	if value == "" {
		fmt.Printf("%s(not set)%s\n", colorDim, colorReset)
	} else {
		fmt.Println(value)
	}

	return nil
}

func setConfig(cfg *config.Config, path, key, value string) error {
	if err := cfg.Set(key, value); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Ensure directories exist before saving
	if configFlag == "" {
		if err := config.DefaultPaths().EnsureDirectories(); err != nil {
			return fmt.Errorf("failed to create directories: %w", err)
		}
	}

	if err := cfg.SaveToFile(path); err != nil {
		return err
	}

	fmt.Printf("%s%s%s = %s\n", colorCyan, key, colorReset, value)
	fmt.Printf("Saved to: %s\n", path)

	return nil
}
