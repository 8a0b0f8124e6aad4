package bigquery

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
	"github.com/dvloznov/rfm-pipeline/internal/logger"
)

// Exporter publishes feature tables through a FeatureRepository.
type Exporter struct {
	repo FeatureRepository
	now  func() time.Time
}

// NewExporter returns an Exporter writing through repo.
func NewExporter(repo FeatureRepository) *Exporter {
	return &Exporter{repo: repo, now: time.Now}
}

// ExportFeatures inserts the feature rows followed by a SUCCESS run record.
// When the rows cannot be stored a FAILED run record is written instead and
// the insert error is returned.
func (e *Exporter) ExportFeatures(ctx context.Context, run domain.FeatureRun, rows []domain.CustomerFeatures) error {
	created := e.now().UTC()

	featureRows, err := NewCustomerFeatureRows(run, rows, created)
	if err != nil {
		e.markFailed(ctx, run, err, created)
		return fmt.Errorf("ExportFeatures: %w", err)
	}
	if err := e.repo.InsertCustomerFeatures(ctx, featureRows); err != nil {
		e.markFailed(ctx, run, err, created)
		return fmt.Errorf("ExportFeatures: %w", err)
	}
	if err := e.repo.InsertFeatureRun(ctx, NewFeatureRunRow(run, nil, created)); err != nil {
		return fmt.Errorf("ExportFeatures: %w", err)
	}
	return nil
}

func (e *Exporter) markFailed(ctx context.Context, run domain.FeatureRun, runErr error, created time.Time) {
	if err := e.repo.InsertFeatureRun(ctx, NewFeatureRunRow(run, runErr, created)); err != nil {
		log := logger.FromContext(ctx)
		log.Error().
			Err(err).
			Str("run_id", run.RunID).
			Msg("ExportFeatures: recording failed run")
	}
}
