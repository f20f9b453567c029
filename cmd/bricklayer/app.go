package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/chazu/bricklayer/pkg/batch"
	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/build"
	"github.com/chazu/bricklayer/pkg/config"
	"github.com/chazu/bricklayer/pkg/engine"
	"github.com/chazu/bricklayer/pkg/export"
	"github.com/chazu/bricklayer/pkg/kernel"
	"github.com/chazu/bricklayer/pkg/kernel/sdfx"
	"github.com/chazu/bricklayer/pkg/manifest"
)

// App wires the configured engine, kernel and writer into batch runs.
type App struct {
	cfg    *config.Config
	engine *engine.Engine
	kernel kernel.Kernel
	log    *zap.Logger
}

// NewApp creates an App with the sdfx kernel. The label font is loaded
// once up front; without one, labelled bricks fail at realization.
func NewApp(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := []sdfx.Option{
		sdfx.WithRenderer(cfg.Mesh.Renderer),
		sdfx.WithMaxCells(cfg.Mesh.MaxCells),
	}
	if cfg.Assets.FontPath != "" {
		f, err := sdfx.LoadFont(cfg.Assets.FontPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sdfx.WithFont(f))
	}
	return &App{
		cfg:    cfg,
		engine: engine.NewEngine(),
		kernel: sdfx.New(opts...),
		log:    log,
	}, nil
}

// ScriptError carries the evaluation errors of one batch script.
type ScriptError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		msgs[i] = ee.Error()
	}
	return fmt.Sprintf("%s: %s", e.Path, strings.Join(msgs, "; "))
}

// LoadRequests reads the requests in path: a YAML manifest for .yaml and
// .yml files, a batch script otherwise.
func (a *App) LoadRequests(ctx context.Context, path string) ([]brick.Spec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return manifest.Load(path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return a.Evaluate(ctx, path, string(src))
}

// Evaluate runs a batch script and returns its requests.
func (a *App) Evaluate(ctx context.Context, name, source string) ([]brick.Spec, error) {
	script, evalErrs, err := a.engine.Evaluate(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(evalErrs) > 0 {
		return nil, &ScriptError{Path: name, Errors: evalErrs}
	}
	a.log.Debug("evaluated script", zap.String("path", name), zap.Int("requests", len(script.Requests)))
	return script.Requests, nil
}

// Run builds, meshes and writes specs in a fresh session.
func (a *App) Run(ctx context.Context, specs []brick.Spec) (batch.Summary, error) {
	sess := build.NewSession(a.cfg.Scales(), a.log)

	var (
		k kernel.Kernel
		w *export.Writer
	)
	if !a.cfg.Batch.DryRun {
		k = a.kernel
		w = export.NewWriter(a.cfg.Output.Dir, a.kernel, a.cfg.Output.Compress)
	}

	r := batch.NewRunner(sess, k, w, batch.Options{
		Workers:   a.cfg.Batch.Workers,
		DryRun:    a.cfg.Batch.DryRun,
		Scene:     a.cfg.Output.Scene,
		Tolerance: a.cfg.Tolerance(),
	}, a.log)
	return r.Run(ctx, specs)
}

// IsScriptError reports whether err came from evaluating a script.
func IsScriptError(err error) bool {
	var se *ScriptError
	return errors.As(err, &se)
}
