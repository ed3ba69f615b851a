package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"

	elog "github.com/runger/eijiro/internal/log"
)

// Config represents the eijiro configuration.
// Priority: ENV > YAML > defaults.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Load     LoadConfig     `yaml:"load"`
	Export   ExportConfig   `yaml:"export"`
	Log      LogConfig      `yaml:"log"`
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path          string `yaml:"path"            env:"EIJIRO_DATABASE"        env-description:"SQLite database path (default: XDG data dir)"`
	BusyTimeoutMs int    `yaml:"busy_timeout_ms" env:"EIJIRO_BUSY_TIMEOUT_MS" env-default:"5000" env-description:"SQLite busy timeout in ms"`
}

// LoadConfig holds loader settings.
type LoadConfig struct {
	Encoding  string `yaml:"encoding"   env:"EIJIRO_ENCODING"   env-default:"shift_jis" env-description:"Input character set"`
	BatchSize int    `yaml:"batch_size" env:"EIJIRO_BATCH_SIZE" env-default:"1000"      env-description:"Rows per insert transaction"`
	Ryaku     bool   `yaml:"ryaku"      env:"EIJIRO_RYAKU"                              env-description:"Rewrite abbreviation definitions into cross-references"`
}

// ExportConfig holds exporter settings.
type ExportConfig struct {
	Workers          int  `yaml:"workers"            env:"EIJIRO_WORKERS"            env-default:"4"   env-description:"Headwords rendered concurrently"`
	PageSize         int  `yaml:"page_size"          env:"EIJIRO_PAGE_SIZE"          env-default:"512" env-description:"Headword identities fetched per query"`
	Sample           bool `yaml:"sample"             env:"EIJIRO_SAMPLE"                               env-description:"Export about 1/256 of all headwords"`
	MaxHeadwordBytes int  `yaml:"max_headword_bytes" env:"EIJIRO_MAX_HEADWORD_BYTES" env-default:"320" env-description:"Drop headwords of at least this many bytes"`
	ShowReading      bool `yaml:"show_reading"       env:"EIJIRO_SHOW_READING"                         env-description:"Include kana readings in entries"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level" env:"EIJIRO_LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:          "", // Use default from paths
			BusyTimeoutMs: 5000,
		},
		Load: LoadConfig{
			Encoding:  "shift_jis",
			BatchSize: 1000,
			Ryaku:     false,
		},
		Export: ExportConfig{
			Workers:          4,
			PageSize:         512,
			Sample:           false,
			MaxHeadwordBytes: 320,
			ShowReading:      false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default path.
func Load() (*Config, error) {
	return LoadFromFile(DefaultPaths().ConfigFile())
}

// LoadFromFile loads configuration from the specified file.
// If the file doesn't exist, defaults and environment overrides are used.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	} else {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Save saves the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveToFile(DefaultPaths().ConfigFile())
}

// SaveToFile saves the configuration to the specified file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DatabasePath returns the configured database path or the default one.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return DefaultPaths().DatabaseFile()
}

// EnvHelp describes the environment variables that override the file.
func (c *Config) EnvHelp() (string, error) {
	return cleanenv.GetDescription(c, nil)
}

// Get retrieves a configuration value by key (e.g., "export.workers").
func (c *Config) Get(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return "", errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "database":
		return c.getDatabaseField(field)
	case "load":
		return c.getLoadField(field)
	case "export":
		return c.getExportField(field)
	case "log":
		return c.getLogField(field)
	default:
		return "", fmt.Errorf("unknown section: %s", section)
	}
}

// Set sets a configuration value by key.
func (c *Config) Set(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) != 2 {
		return errors.New("key must be in format 'section.key'")
	}

	section, field := parts[0], parts[1]

	switch section {
	case "database":
		return c.setDatabaseField(field, value)
	case "load":
		return c.setLoadField(field, value)
	case "export":
		return c.setExportField(field, value)
	case "log":
		return c.setLogField(field, value)
	default:
		return fmt.Errorf("unknown section: %s", section)
	}
}

func (c *Config) getDatabaseField(field string) (string, error) {
	switch field {
	case "path":
		return c.Database.Path, nil
	case "busy_timeout_ms":
		return strconv.Itoa(c.Database.BusyTimeoutMs), nil
	default:
		return "", fmt.Errorf("unknown field: database.%s", field)
	}
}

func (c *Config) setDatabaseField(field, value string) error {
	switch field {
	case "path":
		c.Database.Path = value
	case "busy_timeout_ms":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Database.BusyTimeoutMs = v
	default:
		return fmt.Errorf("unknown field: database.%s", field)
	}
	return nil
}

func (c *Config) getLoadField(field string) (string, error) {
	switch field {
	case "encoding":
		return c.Load.Encoding, nil
	case "batch_size":
		return strconv.Itoa(c.Load.BatchSize), nil
	case "ryaku":
		return strconv.FormatBool(c.Load.Ryaku), nil
	default:
		return "", fmt.Errorf("unknown field: load.%s", field)
	}
}

func (c *Config) setLoadField(field, value string) error {
	switch field {
	case "encoding":
		if strings.TrimSpace(value) == "" {
			return errors.New("invalid encoding: must not be empty")
		}
		c.Load.Encoding = value
	case "batch_size":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Load.BatchSize = v
	case "ryaku":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for ryaku: %w", err)
		}
		c.Load.Ryaku = v
	default:
		return fmt.Errorf("unknown field: load.%s", field)
	}
	return nil
}

func (c *Config) getExportField(field string) (string, error) {
	switch field {
	case "workers":
		return strconv.Itoa(c.Export.Workers), nil
	case "page_size":
		return strconv.Itoa(c.Export.PageSize), nil
	case "sample":
		return strconv.FormatBool(c.Export.Sample), nil
	case "max_headword_bytes":
		return strconv.Itoa(c.Export.MaxHeadwordBytes), nil
	case "show_reading":
		return strconv.FormatBool(c.Export.ShowReading), nil
	default:
		return "", fmt.Errorf("unknown field: export.%s", field)
	}
}

func (c *Config) setExportField(field, value string) error {
	switch field {
	case "workers":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Export.Workers = v
	case "page_size":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Export.PageSize = v
	case "sample":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for sample: %w", err)
		}
		c.Export.Sample = v
	case "max_headword_bytes":
		v, err := parsePositive(field, value)
		if err != nil {
			return err
		}
		c.Export.MaxHeadwordBytes = v
	case "show_reading":
		v, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid value for show_reading: %w", err)
		}
		c.Export.ShowReading = v
	default:
		return fmt.Errorf("unknown field: export.%s", field)
	}
	return nil
}

func (c *Config) getLogField(field string) (string, error) {
	switch field {
	case "level":
		return c.Log.Level, nil
	default:
		return "", fmt.Errorf("unknown field: log.%s", field)
	}
}

func (c *Config) setLogField(field, value string) error {
	switch field {
	case "level":
		if !elog.ValidLevel(value) {
			return fmt.Errorf("invalid level: %s (must be debug, info, warn, or error)", value)
		}
		c.Log.Level = value
	default:
		return fmt.Errorf("unknown field: log.%s", field)
	}
	return nil
}

func parsePositive(field, value string) (int, error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", field, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", field)
	}
	return v, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Database.BusyTimeoutMs <= 0 {
		return errors.New("database.busy_timeout_ms must be > 0")
	}
	if strings.TrimSpace(c.Load.Encoding) == "" {
		return errors.New("load.encoding must not be empty")
	}
	if c.Load.BatchSize <= 0 {
		return errors.New("load.batch_size must be > 0")
	}
	if c.Export.Workers <= 0 {
		return errors.New("export.workers must be > 0")
	}
	if c.Export.PageSize <= 0 {
		return errors.New("export.page_size must be > 0")
	}
	if c.Export.MaxHeadwordBytes <= 0 {
		return errors.New("export.max_headword_bytes must be > 0")
	}
	if !elog.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn, or error (got: %s)", c.Log.Level)
	}
	return nil
}

// ListKeys returns all configuration keys.
func ListKeys() []string {
	return []string{
		"database.path",
		"database.busy_timeout_ms",
		"load.encoding",
		"load.batch_size",
		"load.ryaku",
		"export.workers",
		"export.page_size",
		"export.sample",
		"export.max_headword_bytes",
		"export.show_reading",
		"log.level",
	}
}
