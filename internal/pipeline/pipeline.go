package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
	"github.com/dvloznov/rfm-pipeline/internal/logger"
	"github.com/dvloznov/rfm-pipeline/internal/storage"
)

// Deps are the collaborators of a feature build.
type Deps struct {
	Store    storage.Store
	Exporter FeatureExporter // optional
}

// Options locate the ledger and the feature table.
type Options struct {
	InputURI  string
	OutputURI string
	RunID     string // generated when empty
}

// Result is the outcome of a successful feature build.
type Result struct {
	RunID            string
	Features         []domain.CustomerFeatures
	Snapshot         time.Time
	TransactionCount int
}

// BuildFeatures reads the ledger at opts.InputURI, engineers the customer
// features and writes them to opts.OutputURI.
func BuildFeatures(ctx context.Context, deps Deps, opts Options) (*Result, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("BuildFeatures: no store configured")
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.New().String()
	}

	log := logger.WithRun(logger.FromContext(ctx), runID)
	ctx = logger.WithContext(ctx, log)

	log.Info().
		Str("input_uri", opts.InputURI).
		Str("output_uri", opts.OutputURI).
		Msg("Building customer features")

	state := &PipelineState{
		RunID:     runID,
		InputURI:  opts.InputURI,
		OutputURI: opts.OutputURI,
	}
	if err := NewFeaturePipeline(deps.Store, deps.Exporter).Execute(ctx, state); err != nil {
		return nil, err
	}

	log.Info().
		Int("transactions", state.TransactionCount).
		Int("customers", len(state.Features)).
		Time("snapshot", state.Snapshot).
		Msg("Customer features written")

	return &Result{
		RunID:            runID,
		Features:         state.Features,
		Snapshot:         state.Snapshot,
		TransactionCount: state.TransactionCount,
	}, nil
}
