package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dvloznov/rfm-pipeline/internal/domain"
	"github.com/dvloznov/rfm-pipeline/internal/features"
	"github.com/dvloznov/rfm-pipeline/internal/logger"
	"github.com/dvloznov/rfm-pipeline/internal/storage"
)

// PipelineStep represents a single step in the feature pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	RunID     string
	InputURI  string
	OutputURI string

	Ledger           *features.Table
	TransactionCount int
	Features         []domain.CustomerFeatures
	Snapshot         time.Time
}

// Run summarises the state as a feature run record.
func (s *PipelineState) Run() domain.FeatureRun {
	return domain.FeatureRun{
		RunID:            s.RunID,
		InputURI:         s.InputURI,
		OutputURI:        s.OutputURI,
		Snapshot:         s.Snapshot,
		TransactionCount: s.TransactionCount,
		CustomerCount:    len(s.Features),
	}
}

// Step 1: LoadTransactionsStep reads the raw ledger into a table.
type LoadTransactionsStep struct {
	Store storage.Store
}

func (s *LoadTransactionsStep) Execute(ctx context.Context, state *PipelineState) error {
	err := storage.ReadFile(ctx, s.Store, state.InputURI, func(r io.Reader) error {
		t, err := features.ReadTable(r)
		if err != nil {
			return err
		}
		state.Ledger = t
		return nil
	})
	if err != nil {
		return fmt.Errorf("LoadTransactionsStep: reading %q: %w", state.InputURI, err)
	}

	state.TransactionCount = state.Ledger.Len()
	log := logger.FromContext(ctx)
	log.Debug().
		Str("input_uri", state.InputURI).
		Strs("columns", state.Ledger.Columns()).
		Int("transactions", state.TransactionCount).
		Msg("Loaded transactions")
	return nil
}

// Step 2: EngineerFeaturesStep aggregates the ledger into customer features.
type EngineerFeaturesStep struct{}

func (s *EngineerFeaturesStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Ledger == nil {
		return fmt.Errorf("EngineerFeaturesStep: no ledger loaded")
	}

	rows, snapshot, err := features.EngineerTable(state.Ledger)
	if err != nil {
		return fmt.Errorf("EngineerFeaturesStep: %w", err)
	}
	state.Features = rows
	state.Snapshot = snapshot

	log := logger.FromContext(ctx)
	if len(rows) == 0 {
		log.Warn().Msg("Ledger is empty, feature table will only hold the header")
		return nil
	}
	log.Debug().
		Time("snapshot", snapshot).
		Int("customers", len(rows)).
		Msg("Engineered features")
	return nil
}

// Step 3: SaveFeaturesStep writes the feature table, replacing any previous one.
type SaveFeaturesStep struct {
	Store storage.Store
}

func (s *SaveFeaturesStep) Execute(ctx context.Context, state *PipelineState) error {
	err := storage.WriteFile(ctx, s.Store, state.OutputURI, func(w io.Writer) error {
		return features.WriteFeatures(w, state.Features)
	})
	if err != nil {
		return fmt.Errorf("SaveFeaturesStep: writing %q: %w", state.OutputURI, err)
	}
	return nil
}

// Step 4: ExportFeaturesStep hands the table to the configured exporter.
// Without an exporter the step does nothing.
type ExportFeaturesStep struct {
	Exporter FeatureExporter
}

func (s *ExportFeaturesStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Exporter == nil {
		return nil
	}
	if err := s.Exporter.ExportFeatures(ctx, state.Run(), state.Features); err != nil {
		return fmt.Errorf("ExportFeaturesStep: %w", err)
	}
	log := logger.FromContext(ctx)
	log.Debug().
		Int("customers", len(state.Features)).
		Msg("Exported features")
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewFeaturePipeline creates the standard pipeline building the feature table.
// exporter may be nil.
func NewFeaturePipeline(store storage.Store, exporter FeatureExporter) *Pipeline {
	return NewPipeline(
		&LoadTransactionsStep{Store: store},
		&EngineerFeaturesStep{},
		&SaveFeaturesStep{Store: store},
		&ExportFeaturesStep{Exporter: exporter},
	)
}
