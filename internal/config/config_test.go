package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DefaultInputURI, cfg.InputURI)
	assert.Equal(t, DefaultOutputURI, cfg.OutputURI)
	assert.Equal(t, DefaultModelURI, cfg.ModelURI)
	assert.Equal(t, "models/baseline_logreg.joblib", cfg.ModelURI)
	assert.Equal(t, 5*time.Minute, cfg.Timeout)
	assert.Equal(t, 0.2, cfg.Training.TestSize)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, 1000, cfg.Training.MaxIter)
	assert.False(t, cfg.BigQuery.Enabled)
	assert.Equal(t, "customer_rfm", cfg.BigQuery.FeaturesTable)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rfm.yaml")
	content := `
input: gs://ledger/raw/training.csv
timeout: 90s
training:
  seed: 7
bigquery:
  enabled: true
  project_id: my-project
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gs://ledger/raw/training.csv", cfg.InputURI)
	assert.Equal(t, DefaultOutputURI, cfg.OutputURI)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.Equal(t, int64(7), cfg.Training.Seed)
	assert.Equal(t, 0.2, cfg.Training.TestSize)
	assert.True(t, cfg.BigQuery.Enabled)
	assert.Equal(t, "my-project", cfg.BigQuery.ProjectID)
	assert.Equal(t, "analytics", cfg.BigQuery.Dataset)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base, err := Load("")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty input", func(c *Config) { c.InputURI = "" }},
		{"test size zero", func(c *Config) { c.Training.TestSize = 0 }},
		{"test size one", func(c *Config) { c.Training.TestSize = 1 }},
		{"no iterations", func(c *Config) { c.Training.MaxIter = 0 }},
		{"bigquery without project", func(c *Config) { c.BigQuery.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
