package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// validate is the shared struct validator instance
var validate = validator.New()

// Config represents the complete pipeline configuration
type Config struct {
	Detection DetectionConfig `yaml:"detection" envconfig:"DETECTION"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
}

// DetectionConfig contains outlier detection and classification tuning.
// Method and thresholds are threaded into the detector as values, never
// held as ambient state, so repeated runs with different settings are safe.
type DetectionConfig struct {
	Method         string  `yaml:"method" envconfig:"METHOD" validate:"oneof=zscore iqr"`
	Threshold      float64 `yaml:"threshold" envconfig:"THRESHOLD" validate:"gt=0"`
	IQRFactor      float64 `yaml:"iqr_factor" envconfig:"IQR_FACTOR" validate:"gt=0"`
	PriceDeviation float64 `yaml:"price_deviation" envconfig:"PRICE_DEVIATION" validate:"gt=0"`
	Parallelism    int     `yaml:"parallelism" envconfig:"PARALLELISM" validate:"min=1"`
}

// PathsConfig contains input and output file locations
type PathsConfig struct {
	TransactionsFile string `yaml:"transactions_file" envconfig:"TRANSACTIONS_FILE"`
	StockFile        string `yaml:"stock_file" envconfig:"STOCK_FILE"`
	OutputDir        string `yaml:"output_dir" envconfig:"OUTPUT_DIR"`
	LogsDir          string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// Load loads configuration in precedence order: config file, then
// environment variables over it, then built-in defaults for anything
// still unset. envconfig only touches fields whose RX_* variable is
// present, so unset variables never clobber file values.
func Load() (*Config, error) {
	var cfg Config

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = *fileConfig
	}

	if err := envconfig.Process("RX", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills any field neither the config file nor the
// environment set
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Detection.Method == "" {
		cfg.Detection.Method = def.Detection.Method
	}
	if cfg.Detection.Threshold == 0 {
		cfg.Detection.Threshold = def.Detection.Threshold
	}
	if cfg.Detection.IQRFactor == 0 {
		cfg.Detection.IQRFactor = def.Detection.IQRFactor
	}
	if cfg.Detection.PriceDeviation == 0 {
		cfg.Detection.PriceDeviation = def.Detection.PriceDeviation
	}
	if cfg.Detection.Parallelism == 0 {
		cfg.Detection.Parallelism = def.Detection.Parallelism
	}
	if cfg.Paths.TransactionsFile == "" {
		cfg.Paths.TransactionsFile = def.Paths.TransactionsFile
	}
	if cfg.Paths.StockFile == "" {
		cfg.Paths.StockFile = def.Paths.StockFile
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = def.Paths.OutputDir
	}
	if cfg.Paths.LogsDir == "" {
		cfg.Paths.LogsDir = def.Paths.LogsDir
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = def.Logging.Level
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = def.Logging.Format
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = def.Logging.Output
	}
	if cfg.Logging.FilePath == "" {
		cfg.Logging.FilePath = filepath.Join(cfg.Paths.LogsDir, "pipeline.log")
	}
}

// Validate validates the configuration using struct tags plus the
// cross-field rules the tags cannot express
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if c.Paths.TransactionsFile == "" {
		return fmt.Errorf("transactions file path must not be empty")
	}
	if c.Paths.StockFile == "" {
		return fmt.Errorf("stock file path must not be empty")
	}

	// Always JSON, always dual output
	if c.Logging.Format != "json" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output != "both" && c.Logging.Output != "file" && c.Logging.Output != "stdout" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, "pipeline.log")
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Detection: DetectionConfig{
			Method:         "zscore",
			Threshold:      3.0,
			IQRFactor:      1.5,
			PriceDeviation: 0.5,
			Parallelism:    1,
		},
		Paths: PathsConfig{
			TransactionsFile: "data_cleaned/pembelian_cleaned.csv",
			StockFile:        "data_cleaned/stok_cleaned.csv",
			OutputDir:        "data_result",
			LogsDir:          "logs",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FilePath: "logs/pipeline.log",
		},
	}
}
