// Command train fits a leaf classifier from a directory of labeled images
// and stores it as the model artifact the server loads.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/leafscan/internal/config"
	"github.com/JaimeStill/leafscan/internal/infrastructure"
	"github.com/JaimeStill/leafscan/internal/runs"
	"github.com/JaimeStill/leafscan/pkg/classifier"
	"github.com/JaimeStill/leafscan/pkg/dataset"
	"github.com/JaimeStill/leafscan/pkg/training"
)

var errNotEnoughImages = errors.New("not enough images found to train a model")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed: ", err)
	}

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	var (
		dataDir = fs.String("data-dir", "./data", "Directory of labeled training images")
		out     = fs.String("out", cfg.Model.ArtifactKey, "Artifact key to write the model to")
		kind    = fs.String("classifier", string(cfg.Model.Kind()), "Estimator: logistic or linear_svm")
		workers = fs.Int("workers", cfg.Model.Workers, "Concurrent feature extraction workers")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	k, err := classifier.ParseKind(*kind)
	if err != nil {
		return err
	}

	samples, err := dataset.Collect(*dataDir, dataset.DefaultLabeler())
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return errNotEnoughImages
	}

	printSummary(stdout, samples)

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}
	defer infra.Close()
	defer infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration())

	if err := infra.Start(); err != nil {
		return err
	}
	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		return err
	}

	opts := training.DefaultOptions()
	opts.Features = cfg.Model.Features()
	opts.Classifier.Kind = k
	opts.Workers = *workers
	opts.MaxPixels = cfg.Model.MaxPixels

	paths, names := dataset.Split(samples)
	result, err := training.New(opts, infra.Logger).Train(ctx, paths, names)
	if err != nil {
		return err
	}

	if err := infra.Artifacts.Save(ctx, *out, result.Model); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "model %s (%s) saved to %s, training accuracy %.3f\n",
		result.Model.ID, k, *out, result.Accuracy)

	if infra.Database == nil {
		return nil
	}

	registry := runs.New(infra.Database.Connection(), infra.Logger, cfg.API.Pagination)
	rec, err := registry.Record(ctx, runs.CommandFromResult(*out, result))
	if err != nil {
		return fmt.Errorf("record training run: %w", err)
	}
	fmt.Fprintf(stdout, "recorded training run %s\n", rec.ID)
	return nil
}

func printSummary(w io.Writer, samples []dataset.Sample) {
	counts := make(map[string]int)
	for _, s := range samples {
		counts[s.Label]++
	}
	classes := dataset.Classes(samples)

	fmt.Fprintf(w, "found %d images in %d classes\n", len(samples), len(classes))
	for _, c := range classes {
		fmt.Fprintf(w, "  %s: %d\n", c, counts[c])
	}
}
