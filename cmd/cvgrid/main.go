// Command cvgrid tunes a linear model over a hyperparameter grid with
// repeated k-fold cross-validation.
//
//	cvgrid -config run.hcl
//	cvgrid -config run.hcl -log-level debug -plot scores.svg
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/YuminosukeSato/cvgrid/dataset"
	"github.com/YuminosukeSato/cvgrid/internal/config"
	"github.com/YuminosukeSato/cvgrid/linear"
	"github.com/YuminosukeSato/cvgrid/pkg/errors"
	"github.com/YuminosukeSato/cvgrid/pkg/log"
	"github.com/YuminosukeSato/cvgrid/report"
	"github.com/YuminosukeSato/cvgrid/tune"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		slog.Error("cvgrid failed", log.ErrAttr(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("cvgrid", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to the HCL run file")
	logLevel := fs.String("log-level", "info", "debug, info, warn or error")
	plotPath := fs.String("plot", "", "write the score chart here (overrides output.plot)")
	workers := fs.Int("workers", 0, "concurrent evaluations (overrides tuning.workers)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: cvgrid -config run.hcl [flags]\n\nmodels: %s\n\n", strings.Join(linear.LearnerNames(), ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		fs.Usage()
		return errors.NewValidationError("config", "flag is required", "")
	}

	if err := log.SetupLoggerTo(stderr, *logLevel); err != nil {
		return err
	}
	logger := log.GetLoggerWithName("cvgrid")

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *plotPath != "" {
		cfg.PlotPath = *plotPath
	}
	if *workers != 0 {
		cfg.Workers = *workers
	}

	learner, err := linear.LearnerByName(cfg.Model)
	if err != nil {
		return err
	}

	ds, err := dataset.LoadCSVFile(cfg.DataPath, cfg.CSV)
	if err != nil {
		return err
	}
	logger.Info("Dataset loaded",
		log.DataPathKey, cfg.DataPath,
		log.SamplesKey, ds.Len(),
		log.FeaturesKey, len(ds.Features()),
		log.OutcomeKindKey, ds.Kind().String(),
	)

	opts, err := cfg.TuneOptions()
	if err != nil {
		return err
	}
	opts = append(opts, tune.WithLogger(log.GetLoggerWithName("tune")))

	res, err := tune.Tune(ctx, ds, cfg.Grid, learner, opts...)
	if err != nil {
		return err
	}

	if err := report.Summary(stdout, res); err != nil {
		return errors.Wrap(err, "writing summary")
	}

	if cfg.PlotPath != "" {
		if err := report.PlotScores(res, cfg.PlotPath, report.PlotOptions{Title: cfg.PlotTitle}); err != nil {
			return err
		}
		logger.Info("Score plot written", "path", cfg.PlotPath)
	}
	return nil
}
