package main

import (
	"fmt"

	"github.com/alexflint/go-arg"

	"github.com/dvloznov/rfm-pipeline/internal/app"
	"github.com/dvloznov/rfm-pipeline/internal/pipeline"
)

var version = "dev"

type args struct {
	app.Flags
}

func (args) Version() string {
	return version
}

func (args) Description() string {
	return "Builds the customer RFM feature table from the raw transaction ledger."
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

	res, err := pipeline.BuildFeatures(ctx, env.Deps, pipeline.Options{
		InputURI:  cfg.InputURI,
		OutputURI: cfg.OutputURI,
	})
	if err != nil {
		app.Fail(log, err, cfg, "Feature build failed")
	}

	fmt.Printf("Saved features for %d customers to %s\n", len(res.Features), cfg.OutputURI)
}
