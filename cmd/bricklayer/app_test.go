package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/bricklayer/pkg/batch"
	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/config"
	"github.com/chazu/bricklayer/pkg/export"
	"github.com/chazu/bricklayer/pkg/manifest"
)

func newTestApp(t *testing.T, mutate func(*config.Config)) *App {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("invalid test config: %v", err)
	}
	app, err := NewApp(cfg, nil)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return app
}

func dryRun(c *config.Config) { c.Batch.DryRun = true }

// TestE2EScriptExample plans every brick in the bundled batch script.
func TestE2EScriptExample(t *testing.T) {
	app := newTestApp(t, dryRun)

	specs, err := app.LoadRequests(context.Background(), "../../examples/basic.bricks")
	if err != nil {
		t.Fatalf("failed to load basic.bricks: %v", err)
	}
	if len(specs) != 20 {
		t.Fatalf("expected 20 requests, got %d", len(specs))
	}

	sum, err := app.Run(context.Background(), specs)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Planned != 20 {
		for _, r := range sum.Results {
			if r.Outcome != batch.OutcomePlanned {
				t.Errorf("%s: %s: %v", r.Name, r.Outcome, r.Err)
			}
		}
		t.FailNow()
	}

	seen := map[brick.Name]bool{}
	for _, r := range sum.Results {
		if seen[r.Name] {
			t.Errorf("duplicate name %s", r.Name)
		}
		seen[r.Name] = true
		if r.Stats.Nodes == 0 {
			t.Errorf("%s: empty tree", r.Name)
		}
	}
	for _, want := range []brick.Name{"brick_2x8x3", "pocket_size_10x16_inner_9_studs_floor_3", "bigplate_2x2x1_label_A"} {
		if !seen[want] {
			t.Errorf("missing %s", want)
		}
	}
}

// TestE2EManifestExample plans the bundled manifest.
func TestE2EManifestExample(t *testing.T) {
	app := newTestApp(t, dryRun)

	specs, err := app.LoadRequests(context.Background(), "../../examples/bricks.yaml")
	if err != nil {
		t.Fatalf("failed to load bricks.yaml: %v", err)
	}
	sum, err := app.Run(context.Background(), specs)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Planned != len(specs) || len(specs) != 12 {
		t.Fatalf("expected 12 planned, got %d of %d", sum.Planned, len(specs))
	}
}

func TestE2EExampleConfig(t *testing.T) {
	cfg, err := config.Load("../../examples/config.yaml", nil)
	if err != nil {
		t.Fatalf("example config does not load: %v", err)
	}
	if cfg.Scale.Small.Gap != 0.15 {
		t.Errorf("expected gap override 0.15, got %g", cfg.Scale.Small.Gap)
	}
}

func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t, dryRun)
	specs, err := app.Evaluate(context.Background(), "empty", "")
	if err != nil {
		t.Fatalf("unexpected error for empty source: %v", err)
	}
	if len(specs) != 0 {
		t.Errorf("expected no requests, got %d", len(specs))
	}
}

func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t, dryRun)
	_, err := app.Evaluate(context.Background(), "broken.bricks", "(brick 2 4 3)\n(brick 2")
	if err == nil {
		t.Fatal("expected error for syntax error")
	}
	if !IsScriptError(err) {
		t.Fatalf("expected a script error, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "broken.bricks") {
		t.Errorf("error should name the script, got: %v", err)
	}
}

func TestE2EInvalidBricksSkipped(t *testing.T) {
	app := newTestApp(t, dryRun)
	specs, err := app.Evaluate(context.Background(), "mixed", `
(brick 2 4 3)
(brick 4 2 3)
(brick 2 4 3)
(holed 0 1 2 2 3)
`)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	sum, err := app.Run(context.Background(), specs)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Planned != 1 || sum.Skipped != 3 {
		t.Errorf("expected 1 planned and 3 skipped, got %+v", sum)
	}
}

func TestE2EMissingFont(t *testing.T) {
	cfg := config.Default()
	cfg.Assets.FontPath = filepath.Join(t.TempDir(), "missing.ttf")
	if _, err := NewApp(cfg, nil); err == nil {
		t.Fatal("expected error for missing font")
	}
}

// TestE2EWritesSTL runs the real kernel over a small brick.
func TestE2EWritesSTL(t *testing.T) {
	if testing.Short() {
		t.Skip("meshing is slow")
	}
	app := newTestApp(t, func(c *config.Config) {
		c.Mesh.LinearTolerance = 0.5
		c.Mesh.MaxCells = 48
	})

	specs, err := app.Evaluate(context.Background(), "one", "(brick 1 1 3)")
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	sum, err := app.Run(context.Background(), specs)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if sum.Written != 1 {
		t.Fatalf("expected 1 written, got %+v", sum.Results[0])
	}

	path := sum.Results[0].Path
	if filepath.Base(path) != "brick_1x1x3"+export.ExtSTL {
		t.Errorf("unexpected file name %s", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if want := int64(84 + 50*sum.Results[0].Triangles); info.Size() != want {
		t.Errorf("file size = %d, want %d", info.Size(), want)
	}
}

func TestRunUsage(t *testing.T) {
	if code := run(nil); code != 2 {
		t.Errorf("run with no inputs = %d, want 2", code)
	}
	if code := run([]string{"-no-such-flag"}); code != 2 {
		t.Errorf("run with bad flag = %d, want 2", code)
	}
}

func TestRunDryRun(t *testing.T) {
	out := t.TempDir()
	code := run([]string{"-dry-run", "-out", out, "../../examples/bricks.yaml"})
	if code != 0 {
		t.Fatalf("run = %d, want 0", code)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read out dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run wrote %d files", len(entries))
	}
}

func TestE2EManifestUnknownFamily(t *testing.T) {
	app := newTestApp(t, dryRun)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := "bricks:\n  - family: gear\n    studs_x: 2\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	_, err := app.LoadRequests(context.Background(), path)
	if err == nil {
		t.Fatal("expected schema error for unknown family")
	}
	if !errors.Is(err, manifest.ErrSchema) {
		t.Errorf("expected ErrSchema, got %v", err)
	}
	if IsScriptError(err) {
		t.Errorf("manifest errors are not script errors: %v", err)
	}
}
