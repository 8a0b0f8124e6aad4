package features

import (
	"fmt"
	"sort"
	"time"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// SnapshotOffset is added to the latest transaction to obtain the snapshot instant.
const SnapshotOffset = 24 * time.Hour

const secondsPerDay = 24 * 60 * 60

// Snapshot returns the latest transaction time plus SnapshotOffset.
// ok is false for an empty ledger.
func Snapshot(txs []domain.Transaction) (snapshot time.Time, ok bool) {
	if len(txs) == 0 {
		return time.Time{}, false
	}
	latest := txs[0].StartTime
	for _, tx := range txs[1:] {
		if tx.StartTime.After(latest) {
			latest = tx.StartTime
		}
	}
	return latest.Add(SnapshotOffset), true
}

type partition struct {
	latest time.Time
	count  int
	sum    float64
}

// Engineer computes one CustomerFeatures row per distinct customer.
//
// Recency counts whole days (truncated) between the snapshot and the
// customer's latest transaction, Frequency counts rows (duplicate transaction
// ids included) and Monetary sums Value in ledger order. Rows come back sorted
// by CustomerID. An empty ledger gives an empty, non-nil slice.
func Engineer(txs []domain.Transaction) []domain.CustomerFeatures {
	snapshot, ok := Snapshot(txs)
	if !ok {
		return []domain.CustomerFeatures{}
	}

	parts := make(map[string]*partition)
	for _, tx := range txs {
		p, seen := parts[tx.CustomerID]
		if !seen {
			p = &partition{latest: tx.StartTime}
			parts[tx.CustomerID] = p
		}
		if tx.StartTime.After(p.latest) {
			p.latest = tx.StartTime
		}
		p.count++
		p.sum += tx.Value
	}

	out := make([]domain.CustomerFeatures, 0, len(parts))
	for id, p := range parts {
		out = append(out, domain.CustomerFeatures{
			CustomerID: id,
			Recency:    wholeDays(snapshot, p.latest),
			Frequency:  p.count,
			Monetary:   p.sum,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CustomerID < out[j].CustomerID })

	return out
}

// EngineerTable parses the ledger table and aggregates it.
// The snapshot is the zero time when the table has no rows.
func EngineerTable(t *Table) ([]domain.CustomerFeatures, time.Time, error) {
	txs, err := ParseTransactions(t)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("EngineerTable: %w", err)
	}
	snapshot, _ := Snapshot(txs)
	return Engineer(txs), snapshot, nil
}

// wholeDays counts the whole days from earlier to later (later >= earlier).
// It works on Unix seconds so spans beyond the time.Duration range stay exact.
func wholeDays(later, earlier time.Time) int {
	secs := later.Unix() - earlier.Unix()
	if later.Nanosecond() < earlier.Nanosecond() {
		secs--
	}
	return int(secs / secondsPerDay)
}
