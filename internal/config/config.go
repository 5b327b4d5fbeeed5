package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/qri-io/changelog"
)

// Environment variables overriding file configuration
const (
	EnvPreviousDir = "CHANGELOG_PREVIOUS_DIR"
	EnvCurrentDir  = "CHANGELOG_CURRENT_DIR"
	EnvOutputDir   = "CHANGELOG_OUTPUT_DIR"
	EnvVersion     = "CHANGELOG_VERSION"
)

// StoreConfig selects where computed changelogs are kept
type StoreConfig struct {
	Backend    string `yaml:"backend" validate:"oneof=file badger"`
	SyncWrites bool   `yaml:"sync_writes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// MetricsConfig holds metrics configuration
type MetricsConfig struct {
	// Textfile is where metrics are written after a run. empty disables metrics
	Textfile string `yaml:"textfile"`
}

// Config represents the complete configuration of a changelog run
type Config struct {
	PreviousDir  string                  `yaml:"previous_dir" validate:"required"`
	CurrentDir   string                  `yaml:"current_dir" validate:"required"`
	OutputDir    string                  `yaml:"output_dir" validate:"required"`
	Version      string                  `yaml:"version" validate:"required"`
	Workers      int                     `yaml:"workers" validate:"gte=1,lte=256"`
	HashSuffixes []string                `yaml:"hash_suffixes" validate:"dive,required"`
	Store        StoreConfig             `yaml:"store"`
	Logging      LoggingConfig           `yaml:"logging"`
	Metrics      MetricsConfig           `yaml:"metrics"`
	Tables       []changelog.TableSchema `yaml:"tables" validate:"required,min=1,dive"`
}

// Load reads configuration from a file, applying defaults & environment
// overrides. the result isn't validated, callers may layer flags on top
// before calling Validate
func Load(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applying defaults & environment overrides
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	setDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// setDefaults sets default values for unspecified configuration
func setDefaults(cfg *Config) {
	if cfg.Workers == 0 {
		cfg.Workers = 1
	}
	if len(cfg.HashSuffixes) == 0 {
		cfg.HashSuffixes = changelog.DefaultHashSuffixes
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "file"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvPreviousDir); ok {
		cfg.PreviousDir = v
	}
	if v, ok := os.LookupEnv(EnvCurrentDir); ok {
		cfg.CurrentDir = v
	}
	if v, ok := os.LookupEnv(EnvOutputDir); ok {
		cfg.OutputDir = v
	}
	if v, ok := os.LookupEnv(EnvVersion); ok {
		cfg.Version = v
	}
}

// Validate validates the configuration. missing locations & malformed version
// labels are fatal
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := changelog.ParseVersion(c.Version); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Schema returns the configured table registry
func (c *Config) Schema() changelog.Schema {
	return changelog.Schema(c.Tables)
}
