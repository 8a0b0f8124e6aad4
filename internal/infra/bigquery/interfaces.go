package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// FeatureRepository provides an interface for the feature export tables.
type FeatureRepository interface {
	// EnsureTables creates the dataset and export tables when missing.
	EnsureTables(ctx context.Context) error

	// InsertCustomerFeatures appends a batch of feature rows.
	InsertCustomerFeatures(ctx context.Context, rows []*CustomerFeatureRow) error

	// InsertFeatureRun appends one run record.
	InsertFeatureRun(ctx context.Context, row *FeatureRunRow) error

	// QueryCustomerFeaturesByRun reads back the rows of one run.
	QueryCustomerFeaturesByRun(ctx context.Context, runID string) ([]*CustomerFeatureRow, error)
}

// BigQueryFeatureRepository is the concrete implementation of FeatureRepository
// that interacts with BigQuery. It holds a shared BigQuery client to avoid
// creating a new connection for each operation.
type BigQueryFeatureRepository struct {
	client *bigquery.Client
	tables Tables
}

// NewBigQueryFeatureRepository creates a repository with its own client for
// tables.ProjectID.
func NewBigQueryFeatureRepository(ctx context.Context, tables Tables) (*BigQueryFeatureRepository, error) {
	if tables.ProjectID == "" {
		return nil, fmt.Errorf("NewBigQueryFeatureRepository: project id is required")
	}
	client, err := bigquery.NewClient(ctx, tables.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryFeatureRepository: creating client: %w", err)
	}
	return NewBigQueryFeatureRepositoryWithClient(client, tables), nil
}

// NewBigQueryFeatureRepositoryWithClient wraps an existing client.
func NewBigQueryFeatureRepositoryWithClient(client *bigquery.Client, tables Tables) *BigQueryFeatureRepository {
	return &BigQueryFeatureRepository{
		client: client,
		tables: tables,
	}
}

// Close closes the BigQuery client connection.
func (r *BigQueryFeatureRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// EnsureTables delegates to EnsureTablesWithClient with the shared client.
func (r *BigQueryFeatureRepository) EnsureTables(ctx context.Context) error {
	return EnsureTablesWithClient(ctx, r.client, r.tables)
}

// InsertCustomerFeatures delegates to InsertCustomerFeaturesWithClient with the shared client.
func (r *BigQueryFeatureRepository) InsertCustomerFeatures(ctx context.Context, rows []*CustomerFeatureRow) error {
	return InsertCustomerFeaturesWithClient(ctx, r.client, r.tables, rows)
}

// InsertFeatureRun delegates to InsertFeatureRunWithClient with the shared client.
func (r *BigQueryFeatureRepository) InsertFeatureRun(ctx context.Context, row *FeatureRunRow) error {
	return InsertFeatureRunWithClient(ctx, r.client, r.tables, row)
}

// QueryCustomerFeaturesByRun delegates to QueryCustomerFeaturesByRunWithClient with the shared client.
func (r *BigQueryFeatureRepository) QueryCustomerFeaturesByRun(ctx context.Context, runID string) ([]*CustomerFeatureRow, error) {
	return QueryCustomerFeaturesByRunWithClient(ctx, r.client, r.tables, runID)
}
