package domain

import (
	"time"
)

// Transaction represents one row of the raw transaction ledger.
// This is a domain struct, not a CSV record; features.ParseTransactions maps
// the CustomerId/TransactionId/TransactionStartTime/Value columns into it.
type Transaction struct {
	CustomerID    string    // from "CustomerId"
	TransactionID string    // from "TransactionId" (assumed unique, never enforced)
	StartTime     time.Time // parsed from "TransactionStartTime", always UTC
	Value         float64   // from "Value" (signed, negative for reversals)
}
