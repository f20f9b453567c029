// Package batch drives a list of brick requests through build, tessellate
// and export. One brick's failure never stops the batch.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/build"
	"github.com/chazu/bricklayer/pkg/export"
	"github.com/chazu/bricklayer/pkg/graph"
	"github.com/chazu/bricklayer/pkg/kernel"
	"github.com/chazu/bricklayer/pkg/telemetry"
	"github.com/chazu/bricklayer/pkg/tessellate"
)

// Outcome is what happened to one request.
type Outcome int

const (
	OutcomePending Outcome = iota // never scheduled, the batch was cancelled
	OutcomeWritten
	OutcomePlanned // built in a dry run
	OutcomeSkipped // invalid spec or duplicate name
	OutcomeFailed  // geometry or export error
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWritten:
		return "written"
	case OutcomePlanned:
		return "planned"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Result reports one request.
type Result struct {
	Spec      brick.Spec
	Name      brick.Name
	Outcome   Outcome
	Path      string
	Hash      graph.ContentHash
	Stats     graph.Stats
	Triangles int
	Duration  time.Duration
	Err       error
}

// Summary tallies a batch. Results are in request order.
type Summary struct {
	Written int
	Planned int
	Skipped int
	Failed  int
	Pending int
	Results []Result
}

// Options configures a Runner.
type Options struct {
	Workers   int
	DryRun    bool // build trees only, no kernel calls
	Scene     bool // export bricks at their session offset
	Tolerance kernel.Tolerance
}

// Runner executes batches against one session.
type Runner struct {
	session *build.Session
	kernel  kernel.Kernel
	writer  *export.Writer
	opts    Options
	log     *zap.Logger
	tracer  trace.Tracer
}

// NewRunner returns a runner. k and w may be nil for dry runs. A nil logger
// discards output.
func NewRunner(s *build.Session, k kernel.Kernel, w *export.Writer, opts Options, log *zap.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Tolerance == (kernel.Tolerance{}) {
		opts.Tolerance = kernel.DefaultTolerance
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{session: s, kernel: k, writer: w, opts: opts, log: log, tracer: telemetry.Tracer()}
}

// Run processes specs with up to Options.Workers bricks in flight. It
// returns an error only when ctx ends before every request was scheduled;
// the summary is complete for the requests that ran.
func (r *Runner) Run(ctx context.Context, specs []brick.Spec) (Summary, error) {
	if !r.opts.DryRun && (r.kernel == nil || r.writer == nil) {
		return Summary{}, fmt.Errorf("batch: a kernel and writer are required unless dry-running")
	}

	ctx, span := r.tracer.Start(ctx, "batch.run", trace.WithAttributes(
		attribute.Int("batch.requests", len(specs)),
		attribute.Int("batch.workers", r.opts.Workers),
		attribute.Bool("batch.dry_run", r.opts.DryRun),
	))
	defer span.End()

	results := make([]Result, len(specs))
	for i, spec := range specs {
		results[i] = Result{Spec: spec, Name: brick.NameFor(spec)}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i := range specs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			r.runOne(gctx, &results[i])
			return nil
		})
	}
	_ = g.Wait()

	sum := Summary{Results: results}
	for _, res := range results {
		switch res.Outcome {
		case OutcomeWritten:
			sum.Written++
		case OutcomePlanned:
			sum.Planned++
		case OutcomeSkipped:
			sum.Skipped++
		case OutcomeFailed:
			sum.Failed++
		default:
			sum.Pending++
		}
	}
	span.SetAttributes(
		attribute.Int("batch.written", sum.Written),
		attribute.Int("batch.skipped", sum.Skipped),
		attribute.Int("batch.failed", sum.Failed),
	)
	r.log.Info("batch finished",
		zap.Int("written", sum.Written),
		zap.Int("planned", sum.Planned),
		zap.Int("skipped", sum.Skipped),
		zap.Int("failed", sum.Failed),
		zap.Int("pending", sum.Pending),
	)

	if err := ctx.Err(); err != nil && sum.Pending > 0 {
		span.SetStatus(codes.Error, "cancelled")
		return sum, fmt.Errorf("batch: cancelled with %d bricks pending: %w", sum.Pending, err)
	}
	return sum, nil
}

// runOne builds, meshes and writes one brick, recording the outcome in res.
func (r *Runner) runOne(ctx context.Context, res *Result) {
	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	attrs := trace.WithAttributes(
		attribute.String("brick.name", string(res.Name)),
		attribute.String("brick.family", res.Spec.Family().String()),
	)

	_, span := r.tracer.Start(ctx, "brick.build", attrs)
	b, err := r.session.Build(res.Spec)
	endSpan(span, err)
	if err != nil {
		res.Err = err
		if errors.Is(err, brick.ErrInvalidSpec) || errors.Is(err, brick.ErrDuplicateName) {
			res.Outcome = OutcomeSkipped
			r.log.Warn("skipped brick", zap.String("name", string(res.Name)), zap.Error(err))
			return
		}
		res.Outcome = OutcomeFailed
		r.log.Error("build failed", zap.String("name", string(res.Name)), zap.Error(err))
		return
	}
	res.Hash = b.Hash
	res.Stats = graph.TreeStats(b.Tree)

	if r.opts.DryRun {
		res.Outcome = OutcomePlanned
		r.log.Info("planned brick",
			zap.String("name", string(res.Name)),
			zap.String("hash", b.Hash.Short()),
			zap.Int("nodes", res.Stats.Nodes),
			zap.Int("primitives", res.Stats.Primitives),
		)
		return
	}

	tree := b.Tree
	if r.opts.Scene {
		tree = b.Scene()
	}

	_, span = r.tracer.Start(ctx, "brick.tessellate", attrs)
	mesh, err := tessellate.Tessellate(tree, r.kernel, r.opts.Tolerance, string(res.Name))
	if err != nil && !errors.Is(err, kernel.ErrGeometry) {
		err = &export.Error{Name: res.Name, Op: "tessellate", Err: err}
	}
	if mesh != nil {
		span.SetAttributes(attribute.Int("mesh.triangles", mesh.TriangleCount()))
	}
	endSpan(span, err)
	if err != nil {
		r.fail(res, err)
		return
	}
	res.Triangles = mesh.TriangleCount()

	_, span = r.tracer.Start(ctx, "brick.export", attrs)
	path, err := r.writer.Write(mesh, res.Name)
	endSpan(span, err)
	if err != nil {
		r.fail(res, err)
		return
	}

	res.Path = path
	res.Outcome = OutcomeWritten
	r.log.Info("exported brick",
		zap.String("name", string(res.Name)),
		zap.String("hash", b.Hash.Short()),
		zap.Int("triangles", res.Triangles),
		zap.String("path", path),
		zap.Duration("duration", time.Since(start)),
	)
}

func (r *Runner) fail(res *Result, err error) {
	res.Err = err
	res.Outcome = OutcomeFailed
	r.log.Error("brick failed", zap.String("name", string(res.Name)), zap.Error(err))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
