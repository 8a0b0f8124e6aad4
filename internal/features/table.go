package features

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// Required transaction ledger columns.
const (
	ColumnCustomerID    = "CustomerId"
	ColumnTransactionID = "TransactionId"
	ColumnStartTime     = "TransactionStartTime"
	ColumnValue         = "Value"
)

// RequiredColumns lists the ledger columns the aggregation reads, in lookup order.
var RequiredColumns = []string{ColumnCustomerID, ColumnTransactionID, ColumnStartTime, ColumnValue}

// Table is an in-memory columnar table of raw string cells.
// Column order follows the source header; extra columns are kept but unused.
type Table struct {
	columns []string
	values  map[string][]string
	rows    int
}

// NewTable builds a table from a header and its records.
// Records whose width differs from the header are rejected with domain.ErrParse.
// When a header name repeats, the first occurrence wins.
func NewTable(header []string, records [][]string) (*Table, error) {
	t := &Table{
		columns: make([]string, 0, len(header)),
		values:  make(map[string][]string, len(header)),
		rows:    len(records),
	}

	names := make([]string, len(header))
	keep := make([]bool, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		names[i] = name
		if _, dup := t.values[name]; dup {
			continue
		}
		keep[i] = true
		t.columns = append(t.columns, name)
		t.values[name] = make([]string, 0, len(records))
	}

	for r, rec := range records {
		if len(rec) != len(header) {
			return nil, fmt.Errorf("NewTable: record %d has %d fields, header has %d: %w",
				r+1, len(rec), len(header), domain.ErrParse)
		}
		for i, cell := range rec {
			if keep[i] {
				t.values[names[i]] = append(t.values[names[i]], cell)
			}
		}
	}

	return t, nil
}

// FromColumns builds a table from a column name -> values mapping.
// All columns must have the same length. Columns are ordered by name.
func FromColumns(cols map[string][]string) (*Table, error) {
	names := make([]string, 0, len(cols))
	for name := range cols {
		names = append(names, name)
	}
	sort.Strings(names)

	t := &Table{
		columns: names,
		values:  make(map[string][]string, len(cols)),
		rows:    -1,
	}
	for _, name := range names {
		v := cols[name]
		if t.rows >= 0 && len(v) != t.rows {
			return nil, fmt.Errorf("FromColumns: column %q has %d values, want %d: %w",
				name, len(v), t.rows, domain.ErrParse)
		}
		t.rows = len(v)
		t.values[name] = append([]string(nil), v...)
	}
	if t.rows < 0 {
		t.rows = 0
	}

	return t, nil
}

// Columns returns the column names in table order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// HasColumn reports whether the named column is present.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns the values of the named column.
// A missing column is reported with domain.ErrSchema.
func (t *Table) Column(name string) ([]string, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("missing column %q (have %s): %w",
			name, strings.Join(t.Columns(), ","), domain.ErrSchema)
	}
	return t.values[name], nil
}
