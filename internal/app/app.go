// Package app wires configuration, logging and storage for the command line
// entry points.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/dvloznov/rfm-pipeline/internal/config"
	"github.com/dvloznov/rfm-pipeline/internal/domain"
	"github.com/dvloznov/rfm-pipeline/internal/gcs"
	infraBQ "github.com/dvloznov/rfm-pipeline/internal/infra/bigquery"
	"github.com/dvloznov/rfm-pipeline/internal/logger"
	"github.com/dvloznov/rfm-pipeline/internal/pipeline"
	"github.com/dvloznov/rfm-pipeline/internal/storage"
)

// Flags are the options shared by every entry point.
type Flags struct {
	Config  string `arg:"--config" help:"path to a YAML, JSON or TOML config file"`
	Input   string `arg:"--input" help:"raw transaction CSV (path or gs:// URI)"`
	Output  string `arg:"--output" help:"processed feature CSV (path or gs:// URI)"`
	Model   string `arg:"--model" help:"model artifact (path or gs:// URI)"`
	Verbose bool   `arg:"-v,--verbose" help:"log at debug level"`
}

// Load reads the config file named by the flags and applies the overrides.
func (f Flags) Load() (*config.Config, error) {
	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f Flags) apply(cfg *config.Config) {
	if f.Input != "" {
		cfg.InputURI = f.Input
	}
	if f.Output != "" {
		cfg.OutputURI = f.Output
	}
	if f.Model != "" {
		cfg.ModelURI = f.Model
	}
	if f.Verbose {
		cfg.LogLevel = "debug"
	}
}

// NewLogger returns the console logger at the configured level.
func NewLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.NewWithLevel(cfg.LogLevel)
}

// Env bundles the collaborators of a run. Close releases them.
type Env struct {
	Deps    pipeline.Deps
	closers []func() error
}

// Close releases the remote clients opened for the run.
func (e *Env) Close() error {
	var errs []error
	for _, c := range e.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewEnv builds the storage router and, when enabled, the BigQuery exporter.
func NewEnv(ctx context.Context, cfg *config.Config) (*Env, error) {
	router := storage.NewRouter(RemoteStore)
	env := &Env{
		Deps:    pipeline.Deps{Store: router},
		closers: []func() error{router.Close},
	}

	if !cfg.BigQuery.Enabled {
		return env, nil
	}

	repo, err := infraBQ.NewBigQueryFeatureRepository(ctx, Tables(cfg))
	if err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("NewEnv: %w", err)
	}
	env.closers = append(env.closers, repo.Close)

	if err := repo.EnsureTables(ctx); err != nil {
		_ = env.Close()
		return nil, fmt.Errorf("NewEnv: %w", err)
	}
	env.Deps.Exporter = infraBQ.NewExporter(repo)
	return env, nil
}

// RemoteStore opens the Cloud Storage backend for gs:// URIs.
func RemoteStore(ctx context.Context) (storage.Store, error) {
	s, err := gcs.NewStore(ctx)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// QueryRun reads the feature rows exported by runID back from BigQuery.
func QueryRun(ctx context.Context, cfg *config.Config, runID string) ([]domain.CustomerFeatures, error) {
	if cfg.BigQuery.ProjectID == "" {
		return nil, fmt.Errorf("QueryRun: bigquery.project_id is not configured")
	}

	repo, err := infraBQ.NewBigQueryFeatureRepository(ctx, Tables(cfg))
	if err != nil {
		return nil, fmt.Errorf("QueryRun: %w", err)
	}
	defer repo.Close()

	exported, err := repo.QueryCustomerFeaturesByRun(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("QueryRun: %w", err)
	}

	rows := make([]domain.CustomerFeatures, 0, len(exported))
	for _, r := range exported {
		rows = append(rows, r.ToCustomerFeatures())
	}
	return rows, nil
}

// Tables maps the BigQuery section of cfg onto export table names.
func Tables(cfg *config.Config) infraBQ.Tables {
	return infraBQ.Tables{
		ProjectID: cfg.BigQuery.ProjectID,
		Dataset:   cfg.BigQuery.Dataset,
		Features:  cfg.BigQuery.FeaturesTable,
		Runs:      cfg.BigQuery.RunsTable,
	}
}

// MissingInputMessage returns the remediation hint printed when err reports a
// missing input. ok is false for every other error.
func MissingInputMessage(err error, input string) (msg string, ok bool) {
	if !errors.Is(err, domain.ErrFileNotFound) {
		return "", false
	}
	return fmt.Sprintf("Raw file not found. Make sure %s exists before running this command.", input), true
}

// Fail reports err and exits with status 1. A missing input gets the
// remediation hint instead of a log entry.
func Fail(log zerolog.Logger, err error, cfg *config.Config, msg string) {
	if hint, ok := MissingInputMessage(err, cfg.InputURI); ok {
		fmt.Println(hint)
		os.Exit(1)
	}
	log.Fatal().Err(err).Msg(msg)
}

// Start loads the configuration named by flags and returns a context carrying
// the configured logger, bounded by the configured timeout. Invalid settings
// are fatal.
func Start(flags Flags) (context.Context, context.CancelFunc, *config.Config, zerolog.Logger) {
	log := logger.New()
	cfg, err := flags.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	if log, err = NewLogger(cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	return logger.WithContext(ctx, log), cancel, cfg, log
}
