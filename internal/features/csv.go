package features

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// ReadTable decodes a CSV document whose first record is the header.
func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ReadTable: decoding csv: %w: %w", domain.ErrParse, err)
	}
	if len(records) == 0 {
		return NewTable(nil, nil)
	}
	return NewTable(records[0], records[1:])
}

// WriteFeatures encodes the feature table as CSV with a
// CustomerId,Recency,Frequency,Monetary header.
func WriteFeatures(w io.Writer, rows []domain.CustomerFeatures) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.FeatureColumns); err != nil {
		return fmt.Errorf("WriteFeatures: writing header: %w", err)
	}
	for _, row := range rows {
		record := []string{
			row.CustomerID,
			strconv.Itoa(row.Recency),
			strconv.Itoa(row.Frequency),
			FormatMonetary(row.Monetary),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("WriteFeatures: writing %q: %w", row.CustomerID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("WriteFeatures: flushing: %w", err)
	}
	return nil
}

// ReadFeatures decodes a table written by WriteFeatures.
func ReadFeatures(r io.Reader) ([]domain.CustomerFeatures, error) {
	t, err := ReadTable(r)
	if err != nil {
		return nil, fmt.Errorf("ReadFeatures: %w", err)
	}

	cols := make(map[string][]string, len(domain.FeatureColumns))
	for _, name := range domain.FeatureColumns {
		v, err := t.Column(name)
		if err != nil {
			return nil, fmt.Errorf("ReadFeatures: %w", err)
		}
		cols[name] = v
	}

	rows := make([]domain.CustomerFeatures, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		recency, err := strconv.Atoi(strings.TrimSpace(cols[domain.ColumnRecency][i]))
		if err != nil {
			return nil, fmt.Errorf("ReadFeatures: row %d column %q: %w: %w", i+1, domain.ColumnRecency, domain.ErrParse, err)
		}
		frequency, err := strconv.Atoi(strings.TrimSpace(cols[domain.ColumnFrequency][i]))
		if err != nil {
			return nil, fmt.Errorf("ReadFeatures: row %d column %q: %w: %w", i+1, domain.ColumnFrequency, domain.ErrParse, err)
		}
		monetary, err := strconv.ParseFloat(strings.TrimSpace(cols[domain.ColumnMonetary][i]), 64)
		if err != nil {
			return nil, fmt.Errorf("ReadFeatures: row %d column %q: %w: %w", i+1, domain.ColumnMonetary, domain.ErrParse, err)
		}
		rows = append(rows, domain.CustomerFeatures{
			CustomerID: cols[domain.ColumnCustomerID][i],
			Recency:    recency,
			Frequency:  frequency,
			Monetary:   monetary,
		})
	}

	return rows, nil
}

// FormatMonetary renders v with the shortest round-trip digits and always
// with a decimal point for finite integral values ("300.0").
func FormatMonetary(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return s
	}
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
