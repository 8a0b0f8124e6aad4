package domain

import "time"

// CustomerFeatures is one row of the customer-level feature table.
type CustomerFeatures struct {
	CustomerID string  // join key, carried through unchanged
	Recency    int     // whole days between the snapshot and the latest transaction
	Frequency  int     // number of ledger rows for the customer
	Monetary   float64 // sum of Value over the customer's rows
}

// Feature table column names, in output order.
const (
	ColumnCustomerID = "CustomerId"
	ColumnRecency    = "Recency"
	ColumnFrequency  = "Frequency"
	ColumnMonetary   = "Monetary"
)

// FeatureColumns is the header of the processed feature table.
var FeatureColumns = []string{ColumnCustomerID, ColumnRecency, ColumnFrequency, ColumnMonetary}

// FeatureRun describes one build of the feature table.
type FeatureRun struct {
	RunID            string
	InputURI         string
	OutputURI        string
	Snapshot         time.Time
	TransactionCount int
	CustomerCount    int
}
