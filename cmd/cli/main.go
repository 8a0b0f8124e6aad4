package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/dvloznov/rfm-pipeline/internal/app"
	"github.com/dvloznov/rfm-pipeline/internal/domain"
	"github.com/dvloznov/rfm-pipeline/internal/features"
	"github.com/dvloznov/rfm-pipeline/internal/pipeline"
	"github.com/dvloznov/rfm-pipeline/internal/storage"
	"github.com/dvloznov/rfm-pipeline/internal/training"
)

var version = "dev"

type featuresCmd struct {
	app.Flags
}

type trainCmd struct {
	app.Flags
}

type inspectCmd struct {
	app.Flags
	Run string `arg:"--run" help:"read the feature rows of this run back from BigQuery instead of the CSV"`
}

type args struct {
	Features *featuresCmd `arg:"subcommand:features" help:"build the customer feature table"`
	Train    *trainCmd    `arg:"subcommand:train" help:"rebuild features and train the baseline model"`
	Inspect  *inspectCmd  `arg:"subcommand:inspect" help:"summarise the processed feature table"`
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return "RFM customer features CLI"
}

func main() {
	var a args
	p := arg.MustParse(&a)

	switch {
	case a.Features != nil:
		runFeatures(a.Features.Flags)
	case a.Train != nil:
		runTrain(a.Train.Flags)
	case a.Inspect != nil:
		runInspect(a.Inspect)
	default:
		p.WriteHelp(os.Stdout)
		os.Exit(1)
	}
}

func runFeatures(flags app.Flags) {
	ctx, cancel, cfg, log := app.Start(flags)
	defer cancel()

	env, err := app.NewEnv(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise storage")
	}
	defer env.Close()

	res, err := pipeline.BuildFeatures(ctx, env.Deps, pipeline.Options{
		InputURI:  cfg.InputURI,
		OutputURI: cfg.OutputURI,
	})
	if err != nil {
		app.Fail(log, err, cfg, "Feature build failed")
	}

	fmt.Printf("Saved features for %d customers to %s (run %s)\n", len(res.Features), cfg.OutputURI, res.RunID)
}

func runTrain(flags app.Flags) {
	ctx, cancel, cfg, log := app.Start(flags)
	defer cancel()

	env, err := app.NewEnv(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialise storage")
	}
	defer env.Close()

	outcome, err := training.NewTrainer(env.Deps, training.OptionsFromConfig(cfg), os.Stdout).Run(ctx)
	if err != nil {
		app.Fail(log, err, cfg, "Training failed")
	}

	fmt.Printf("Saved model to %s (run %s)\n", outcome.ModelURI, outcome.RunID)
}

func runInspect(cmd *inspectCmd) {
	ctx, cancel, cfg, log := app.Start(cmd.Flags)
	defer cancel()

	var rows []domain.CustomerFeatures
	source := cfg.OutputURI

	if cmd.Run != "" {
		exported, err := app.QueryRun(ctx, cfg, cmd.Run)
		if err != nil {
			log.Fatal().Err(err).Str("run_id", cmd.Run).Msg("Failed to query exported features")
		}
		rows = exported
		source = "run " + cmd.Run
	} else {
		router := storage.NewRouter(app.RemoteStore)
		defer router.Close()

		err := storage.ReadFile(ctx, router, cfg.OutputURI, func(r io.Reader) error {
			var err error
			rows, err = features.ReadFeatures(r)
			return err
		})
		if err != nil {
			if errors.Is(err, domain.ErrFileNotFound) {
				fmt.Printf("Feature table not found. Run the features command to create %s.\n", cfg.OutputURI)
				os.Exit(1)
			}
			log.Fatal().Err(err).Str("output_uri", cfg.OutputURI).Msg("Failed to read features")
		}
	}

	fmt.Printf("Feature table %s\n", source)
	fmt.Print(features.Summarize(rows).String())
}
