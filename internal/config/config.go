package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds every location and tuning knob of a pipeline run.
type Config struct {
	InputURI  string        `mapstructure:"input"`
	OutputURI string        `mapstructure:"output"`
	ModelURI  string        `mapstructure:"model"`
	LogLevel  string        `mapstructure:"log_level"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Training  Training      `mapstructure:"training"`
	BigQuery  BigQuery      `mapstructure:"bigquery"`
}

// Training configures the baseline classifier.
type Training struct {
	TestSize     float64 `mapstructure:"test_size"`
	Seed         int64   `mapstructure:"seed"`
	MaxIter      int     `mapstructure:"max_iter"`
	C            float64 `mapstructure:"c"`
	LearningRate float64 `mapstructure:"learning_rate"`
	Tolerance    float64 `mapstructure:"tolerance"`
}

// BigQuery configures the optional feature table export.
type BigQuery struct {
	Enabled       bool   `mapstructure:"enabled"`
	ProjectID     string `mapstructure:"project_id"`
	Dataset       string `mapstructure:"dataset"`
	FeaturesTable string `mapstructure:"features_table"`
	RunsTable     string `mapstructure:"runs_table"`
}

// Default locations, relative to the working directory.
const (
	DefaultInputURI  = "data/raw/training.csv"
	DefaultOutputURI = "data/processed/customer_rfm.csv"
	DefaultModelURI  = "models/baseline_logreg.joblib"
)

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("input", DefaultInputURI)
	v.SetDefault("output", DefaultOutputURI)
	v.SetDefault("model", DefaultModelURI)
	v.SetDefault("log_level", "info")
	v.SetDefault("timeout", 5*time.Minute)

	v.SetDefault("training.test_size", 0.2)
	v.SetDefault("training.seed", 42)
	v.SetDefault("training.max_iter", 1000)
	v.SetDefault("training.c", 1.0)
	v.SetDefault("training.learning_rate", 0.1)
	v.SetDefault("training.tolerance", 1e-6)

	v.SetDefault("bigquery.enabled", false)
	v.SetDefault("bigquery.project_id", "")
	v.SetDefault("bigquery.dataset", "analytics")
	v.SetDefault("bigquery.features_table", "customer_rfm")
	v.SetDefault("bigquery.runs_table", "feature_runs")
}

// Load returns the defaults overlaid with the config file at path
// (YAML, JSON or TOML, chosen by extension). An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("Load: reading %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("Load: decoding: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default sensibly.
func (c *Config) Validate() error {
	if c.InputURI == "" || c.OutputURI == "" || c.ModelURI == "" {
		return fmt.Errorf("Validate: input, output and model locations must be set")
	}
	if c.Training.TestSize <= 0 || c.Training.TestSize >= 1 {
		return fmt.Errorf("Validate: training.test_size %v outside (0, 1)", c.Training.TestSize)
	}
	if c.Training.MaxIter <= 0 {
		return fmt.Errorf("Validate: training.max_iter must be positive")
	}
	if c.Training.C <= 0 {
		return fmt.Errorf("Validate: training.c must be positive")
	}
	if c.BigQuery.Enabled && c.BigQuery.ProjectID == "" {
		return fmt.Errorf("Validate: bigquery.project_id is required when bigquery.enabled is set")
	}
	return nil
}
