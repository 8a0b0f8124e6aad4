// Package training drives the baseline classifier run: rebuild the feature
// table, attach the placeholder label, split, fit, report and persist.
package training

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dvloznov/rfm-pipeline/internal/config"
	"github.com/dvloznov/rfm-pipeline/internal/domain"
	"github.com/dvloznov/rfm-pipeline/internal/features"
	"github.com/dvloznov/rfm-pipeline/internal/logger"
	"github.com/dvloznov/rfm-pipeline/internal/model"
	"github.com/dvloznov/rfm-pipeline/internal/pipeline"
	"github.com/dvloznov/rfm-pipeline/internal/storage"
)

// PlaceholderLabel is attached to every customer until real target
// engineering exists. With a single class the fitted model is degenerate.
const PlaceholderLabel = 0

// Options configure a training run.
type Options struct {
	InputURI  string
	OutputURI string
	ModelURI  string

	TestSize     float64
	Seed         int64
	MaxIter      int
	C            float64
	LearningRate float64
	Tolerance    float64
}

// OptionsFromConfig copies the training settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InputURI:     cfg.InputURI,
		OutputURI:    cfg.OutputURI,
		ModelURI:     cfg.ModelURI,
		TestSize:     cfg.Training.TestSize,
		Seed:         cfg.Training.Seed,
		MaxIter:      cfg.Training.MaxIter,
		C:            cfg.Training.C,
		LearningRate: cfg.Training.LearningRate,
		Tolerance:    cfg.Training.Tolerance,
	}
}

// Outcome summarises a finished training run.
type Outcome struct {
	RunID      string
	Customers  int
	TrainRows  int
	TestRows   int
	Degenerate bool
	Report     model.Report
	ModelURI   string
}

// Trainer runs the training driver end to end.
type Trainer struct {
	deps   pipeline.Deps
	opts   Options
	report io.Writer
	now    func() time.Time
}

// NewTrainer returns a Trainer writing its classification report to report.
func NewTrainer(deps pipeline.Deps, opts Options, report io.Writer) *Trainer {
	if report == nil {
		report = io.Discard
	}
	return &Trainer{
		deps:   deps,
		opts:   opts,
		report: report,
		now:    time.Now,
	}
}

// Run rebuilds the features, trains the classifier and saves it to ModelURI.
func (t *Trainer) Run(ctx context.Context) (*Outcome, error) {
	built, err := pipeline.BuildFeatures(ctx, t.deps, pipeline.Options{
		InputURI:  t.opts.InputURI,
		OutputURI: t.opts.OutputURI,
	})
	if err != nil {
		return nil, fmt.Errorf("Trainer.Run: building features: %w", err)
	}

	log := logger.WithRun(logger.FromContext(ctx), built.RunID)

	var rows []domain.CustomerFeatures
	err = storage.ReadFile(ctx, t.deps.Store, t.opts.OutputURI, func(r io.Reader) error {
		var err error
		rows, err = features.ReadFeatures(r)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("Trainer.Run: reading features %q: %w", t.opts.OutputURI, err)
	}

	labels := make([]int, len(rows))
	for i := range labels {
		labels[i] = PlaceholderLabel
	}

	trainIdx, testIdx, err := model.TrainTestSplit(len(rows), t.opts.TestSize, t.opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("Trainer.Run: splitting %d customers: %w", len(rows), err)
	}

	clf := model.NewLogisticRegression(t.opts.MaxIter, t.opts.C, t.opts.LearningRate, t.opts.Tolerance)
	if err := clf.Fit(model.FeatureMatrix(rows, trainIdx), pick(labels, trainIdx)); err != nil {
		return nil, fmt.Errorf("Trainer.Run: fitting model: %w", err)
	}
	if clf.Degenerate() {
		log.Warn().
			Ints("classes", clf.Classes()).
			Msg("Training labels hold a single class, model predicts it unconditionally")
	}

	report := model.NewClassificationReport(pick(labels, testIdx), clf.Predict(model.FeatureMatrix(rows, testIdx)))
	if _, err := fmt.Fprint(t.report, report.String()); err != nil {
		return nil, fmt.Errorf("Trainer.Run: writing report: %w", err)
	}

	artifact := &model.Artifact{
		RunID:     built.RunID,
		Features:  model.FeatureNames,
		TrainedAt: t.now().UTC(),
		Model:     clf,
	}
	err = storage.WriteFile(ctx, t.deps.Store, t.opts.ModelURI, func(w io.Writer) error {
		return model.Save(w, artifact)
	})
	if err != nil {
		return nil, fmt.Errorf("Trainer.Run: saving model %q: %w", t.opts.ModelURI, err)
	}

	log.Info().
		Str("model_uri", t.opts.ModelURI).
		Int("train_rows", len(trainIdx)).
		Int("test_rows", len(testIdx)).
		Float64("accuracy", report.Accuracy).
		Msg("Model saved")

	return &Outcome{
		RunID:      built.RunID,
		Customers:  len(rows),
		TrainRows:  len(trainIdx),
		TestRows:   len(testIdx),
		Degenerate: clf.Degenerate(),
		Report:     report,
		ModelURI:   t.opts.ModelURI,
	}, nil
}

func pick(values []int, idx []int) []int {
	out := make([]int, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}
