package features

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// ParseTransactions converts the required ledger columns into typed transactions.
// A missing column yields domain.ErrSchema; an unparseable timestamp or value
// yields domain.ErrParse naming the offending row (1-based, header excluded).
func ParseTransactions(t *Table) ([]domain.Transaction, error) {
	cols := make(map[string][]string, len(RequiredColumns))
	for _, name := range RequiredColumns {
		v, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("ParseTransactions: %w", err)
		}
		cols[name] = v
	}

	customers := cols[ColumnCustomerID]
	ids := cols[ColumnTransactionID]
	starts := cols[ColumnStartTime]
	values := cols[ColumnValue]

	txs := make([]domain.Transaction, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		ts, err := ParseTimestamp(starts[i])
		if err != nil {
			return nil, fmt.Errorf("ParseTransactions: row %d column %q: %w", i+1, ColumnStartTime, err)
		}

		value, err := strconv.ParseFloat(strings.TrimSpace(values[i]), 64)
		if err != nil {
			return nil, fmt.Errorf("ParseTransactions: row %d column %q: invalid number %q: %w: %w",
				i+1, ColumnValue, values[i], domain.ErrParse, err)
		}

		txs = append(txs, domain.Transaction{
			CustomerID:    customers[i],
			TransactionID: ids[i],
			StartTime:     ts,
			Value:         value,
		})
	}

	return txs, nil
}
