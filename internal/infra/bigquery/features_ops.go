package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
)

// insertBatchSize bounds the rows sent in one streaming insert request.
const insertBatchSize = 500

// EnsureTablesWithClient creates the dataset and both export tables when they
// do not exist yet. Existing tables are left untouched.
func EnsureTablesWithClient(ctx context.Context, client *bigquery.Client, tables Tables) error {
	dataset := client.DatasetInProject(tables.ProjectID, tables.Dataset)
	if err := dataset.Create(ctx, &bigquery.DatasetMetadata{}); err != nil && !alreadyExists(err) {
		return fmt.Errorf("EnsureTables: creating dataset %s: %w", tables.Dataset, err)
	}

	featureSchema, err := bigquery.InferSchema(CustomerFeatureRow{})
	if err != nil {
		return fmt.Errorf("EnsureTables: inferring feature schema: %w", err)
	}
	featureMeta := &bigquery.TableMetadata{
		Schema:           featureSchema,
		TimePartitioning: &bigquery.TimePartitioning{Field: "snapshot_date"},
	}
	if err := dataset.Table(tables.Features).Create(ctx, featureMeta); err != nil && !alreadyExists(err) {
		return fmt.Errorf("EnsureTables: creating table %s: %w", tables.Features, err)
	}

	runSchema, err := bigquery.InferSchema(FeatureRunRow{})
	if err != nil {
		return fmt.Errorf("EnsureTables: inferring run schema: %w", err)
	}
	if err := dataset.Table(tables.Runs).Create(ctx, &bigquery.TableMetadata{Schema: runSchema}); err != nil && !alreadyExists(err) {
		return fmt.Errorf("EnsureTables: creating table %s: %w", tables.Runs, err)
	}

	return nil
}

// InsertCustomerFeaturesWithClient streams rows into the feature table.
func InsertCustomerFeaturesWithClient(ctx context.Context, client *bigquery.Client, tables Tables, rows []*CustomerFeatureRow) error {
	if len(rows) == 0 {
		return nil
	}

	inserter := client.DatasetInProject(tables.ProjectID, tables.Dataset).Table(tables.Features).Inserter()
	for _, batch := range batches(rows, insertBatchSize) {
		if err := inserter.Put(ctx, batch); err != nil {
			return fmt.Errorf("InsertCustomerFeatures: inserting rows: %w", err)
		}
	}
	return nil
}

// InsertFeatureRunWithClient appends one run record.
func InsertFeatureRunWithClient(ctx context.Context, client *bigquery.Client, tables Tables, row *FeatureRunRow) error {
	inserter := client.DatasetInProject(tables.ProjectID, tables.Dataset).Table(tables.Runs).Inserter()
	if err := inserter.Put(ctx, row); err != nil {
		return fmt.Errorf("InsertFeatureRun: inserting row: %w", err)
	}
	return nil
}

// QueryCustomerFeaturesByRunWithClient reads back the rows exported by one run,
// ordered by customer id.
func QueryCustomerFeaturesByRunWithClient(ctx context.Context, client *bigquery.Client, tables Tables, runID string) ([]*CustomerFeatureRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			run_id,
			customer_id,
			recency,
			frequency,
			monetary,
			snapshot_ts,
			snapshot_date,
			created_ts
		FROM `+"`%s.%s.%s`"+`
		WHERE run_id = @run_id
		ORDER BY customer_id
	`, tables.ProjectID, tables.Dataset, tables.Features))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "run_id", Value: runID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryCustomerFeaturesByRun: query read: %w", err)
	}

	var rows []*CustomerFeatureRow
	for {
		var r CustomerFeatureRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryCustomerFeaturesByRun: iter next: %w", err)
		}
		rows = append(rows, &r)
	}

	return rows, nil
}

func alreadyExists(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusConflict
}

func batches[T any](rows []T, size int) [][]T {
	var out [][]T
	for len(rows) > size {
		out = append(out, rows[:size])
		rows = rows[size:]
	}
	if len(rows) > 0 {
		out = append(out, rows)
	}
	return out
}
