package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// FeatureNames lists the model inputs in column order.
var FeatureNames = []string{domain.ColumnRecency, domain.ColumnFrequency, domain.ColumnMonetary}

// FeatureMatrix builds the design matrix for the rows selected by idx.
// A nil idx selects every row. It returns nil when nothing is selected.
func FeatureMatrix(rows []domain.CustomerFeatures, idx []int) *mat.Dense {
	if idx == nil {
		idx = make([]int, len(rows))
		for i := range idx {
			idx[i] = i
		}
	}
	if len(idx) == 0 {
		return nil
	}

	data := make([]float64, 0, len(idx)*len(FeatureNames))
	for _, i := range idx {
		r := rows[i]
		data = append(data, float64(r.Recency), float64(r.Frequency), r.Monetary)
	}
	return mat.NewDense(len(idx), len(FeatureNames), data)
}
