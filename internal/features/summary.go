package features

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// Summary describes a feature table at a glance.
type Summary struct {
	Customers     int
	Transactions  int
	Monetary      float64
	MeanMonetary  float64
	MinRecency    int
	MaxRecency    int
	MeanFrequency float64
}

// Summarize aggregates rows. An empty table gives the zero Summary.
func Summarize(rows []domain.CustomerFeatures) Summary {
	if len(rows) == 0 {
		return Summary{}
	}

	recency := make([]float64, len(rows))
	frequency := make([]float64, len(rows))
	monetary := make([]float64, len(rows))
	for i, r := range rows {
		recency[i] = float64(r.Recency)
		frequency[i] = float64(r.Frequency)
		monetary[i] = r.Monetary
	}

	return Summary{
		Customers:     len(rows),
		Transactions:  int(floats.Sum(frequency)),
		Monetary:      floats.Sum(monetary),
		MeanMonetary:  stat.Mean(monetary, nil),
		MinRecency:    int(floats.Min(recency)),
		MaxRecency:    int(floats.Max(recency)),
		MeanFrequency: stat.Mean(frequency, nil),
	}
}

func (s Summary) String() string {
	return fmt.Sprintf(
		"customers: %d\ntransactions: %d\nmonetary total: %s (mean %.2f)\nrecency: %d..%d days\nmean frequency: %.2f\n",
		s.Customers, s.Transactions, FormatMonetary(s.Monetary), s.MeanMonetary,
		s.MinRecency, s.MaxRecency, s.MeanFrequency,
	)
}
