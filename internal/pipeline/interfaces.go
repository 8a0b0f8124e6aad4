package pipeline

import (
	"context"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
)

// FeatureExporter publishes a finished feature table outside the processed CSV.
// This interface enables mocking and testing of the warehouse export.
type FeatureExporter interface {
	// ExportFeatures stores rows together with the run that produced them.
	ExportFeatures(ctx context.Context, run domain.FeatureRun, rows []domain.CustomerFeatures) error
}
