package bigquery

import (
	"fmt"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
	"github.com/dvloznov/rfm-pipeline/internal/features"
)

const maxErrorMessageLen = 2000

// NewCustomerFeatureRows converts engineered features into export rows.
// Monetary starts from the decimal text the feature CSV holds, but the NUMERIC
// column keeps 9 fractional digits, so the client rounds longer values
// (0.30000000000000004 is stored as 0.300000000).
func NewCustomerFeatureRows(run domain.FeatureRun, rows []domain.CustomerFeatures, created time.Time) ([]*CustomerFeatureRow, error) {
	snapshot := run.Snapshot.UTC()
	out := make([]*CustomerFeatureRow, 0, len(rows))
	for _, r := range rows {
		monetary, ok := new(big.Rat).SetString(features.FormatMonetary(r.Monetary))
		if !ok {
			return nil, fmt.Errorf("NewCustomerFeatureRows: monetary %v for %q is not a finite number: %w",
				r.Monetary, r.CustomerID, domain.ErrParse)
		}
		out = append(out, &CustomerFeatureRow{
			RunID:        run.RunID,
			CustomerID:   r.CustomerID,
			Recency:      int64(r.Recency),
			Frequency:    int64(r.Frequency),
			Monetary:     monetary,
			SnapshotTS:   snapshot,
			SnapshotDate: civil.DateOf(snapshot),
			CreatedTS:    created,
		})
	}
	return out, nil
}

// NewFeatureRunRow builds the run record. runErr is nil for a successful run.
func NewFeatureRunRow(run domain.FeatureRun, runErr error, created time.Time) *FeatureRunRow {
	row := &FeatureRunRow{
		RunID:            run.RunID,
		InputURI:         run.InputURI,
		OutputURI:        run.OutputURI,
		TransactionCount: int64(run.TransactionCount),
		CustomerCount:    int64(run.CustomerCount),
		Status:           RunStatusSuccess,
		CreatedTS:        created,
	}
	if !run.Snapshot.IsZero() {
		row.SnapshotTS = bigquery.NullTimestamp{Timestamp: run.Snapshot.UTC(), Valid: true}
	}
	if runErr != nil {
		msg := runErr.Error()
		if len(msg) > maxErrorMessageLen {
			msg = msg[:maxErrorMessageLen]
		}
		row.Status = RunStatusFailed
		row.ErrorMessage = bigquery.NullString{StringVal: msg, Valid: true}
	}
	return row
}

// ToCustomerFeatures converts an exported row back into engineered features.
func (r *CustomerFeatureRow) ToCustomerFeatures() domain.CustomerFeatures {
	var monetary float64
	if r.Monetary != nil {
		monetary, _ = r.Monetary.Float64()
	}
	return domain.CustomerFeatures{
		CustomerID: r.CustomerID,
		Recency:    int(r.Recency),
		Frequency:  int(r.Frequency),
		Monetary:   monetary,
	}
}
