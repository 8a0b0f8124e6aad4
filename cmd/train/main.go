package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/dvloznov/rfm-pipeline/internal/app"
	"github.com/dvloznov/rfm-pipeline/internal/training"
)

var version = "dev"

type args struct {
	app.Flags
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return "Rebuilds the feature table and trains the baseline logistic regression model."
}

func main() {
	var a args
	arg.MustParse(&a)

	ctx, cancel, cfg, log := app.Start(a.Flags)
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

	fmt.Printf("Saved model to %s\n", outcome.ModelURI)
}
