package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// CustomerFeatureRow is one exported row of the customer feature table.
type CustomerFeatureRow struct {
	RunID      string `bigquery:"run_id"`      // REQUIRED
	CustomerID string `bigquery:"customer_id"` // REQUIRED

	Recency   int64    `bigquery:"recency"`   // REQUIRED
	Frequency int64    `bigquery:"frequency"` // REQUIRED
	Monetary  *big.Rat `bigquery:"monetary"`  // REQUIRED NUMERIC

	SnapshotTS   time.Time  `bigquery:"snapshot_ts"`   // REQUIRED
	SnapshotDate civil.Date `bigquery:"snapshot_date"` // REQUIRED, partition column

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// FeatureRunRow records one build of the feature table.
type FeatureRunRow struct {
	RunID     string `bigquery:"run_id"`     // REQUIRED
	InputURI  string `bigquery:"input_uri"`  // REQUIRED
	OutputURI string `bigquery:"output_uri"` // REQUIRED

	SnapshotTS bigquery.NullTimestamp `bigquery:"snapshot_ts"` // NULL for an empty ledger

	TransactionCount int64 `bigquery:"transaction_count"`
	CustomerCount    int64 `bigquery:"customer_count"`

	Status       string              `bigquery:"status"`        // SUCCESS or FAILED
	ErrorMessage bigquery.NullString `bigquery:"error_message"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// Feature run statuses.
const (
	RunStatusSuccess = "SUCCESS"
	RunStatusFailed  = "FAILED"
)

// Tables locates the export tables.
type Tables struct {
	ProjectID string
	Dataset   string
	Features  string
	Runs      string
}
