// Command bricklayer generates printable brick meshes from batch scripts
// and YAML manifests.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/chazu/bricklayer/pkg/batch"
	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/config"
	"github.com/chazu/bricklayer/pkg/logger"
	"github.com/chazu/bricklayer/pkg/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bricklayer", flag.ContinueOnError)
	flags := config.Bind(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: bricklayer [flags] file.bricks|file.yaml ...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(flags.Config, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bricklayer: %v\n", err)
		return 2
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "bricklayer: logger: %v\n", err)
		return 2
	}
	defer logger.Sync()
	log := logger.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, "bricklayer", cfg.Telemetry.Endpoint)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Warn("flush traces", zap.Error(err))
		}
	}()

	app, err := NewApp(cfg, log)
	if err != nil {
		log.Error("startup failed", zap.Error(err))
		return 1
	}

	var specs []brick.Spec
	for _, path := range fs.Args() {
		got, err := app.LoadRequests(ctx, path)
		if err != nil {
			log.Error("cannot read requests", zap.String("path", path), zap.Error(err))
			if IsScriptError(err) {
				return 2
			}
			return 1
		}
		specs = append(specs, got...)
	}

	sum, err := app.Run(ctx, specs)
	printSummary(sum)
	if err != nil {
		log.Error("batch interrupted", zap.Error(err))
		return 1
	}
	if sum.Failed > 0 {
		return 1
	}
	return 0
}

func printSummary(sum batch.Summary) {
	for _, r := range sum.Results {
		switch r.Outcome {
		case batch.OutcomeWritten:
			fmt.Printf("%-8s %s  %s  %d triangles\n", r.Outcome, r.Name, r.Path, r.Triangles)
		case batch.OutcomePlanned:
			fmt.Printf("%-8s %s  %s  %d nodes\n", r.Outcome, r.Name, r.Hash.Short(), r.Stats.Nodes)
		case batch.OutcomeSkipped, batch.OutcomeFailed:
			fmt.Printf("%-8s %s  %v\n", r.Outcome, r.Name, r.Err)
		}
	}
	fmt.Printf("written %d, planned %d, skipped %d, failed %d\n", sum.Written, sum.Planned, sum.Skipped, sum.Failed)
}
