package export_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/export"
	"github.com/chazu/bricklayer/pkg/kernel"
	"github.com/chazu/bricklayer/pkg/kernel/sdfx"
)

func triangle() *kernel.Mesh {
	return &kernel.Mesh{
		Vertices: []float32{0, 0, 0, 10, 0, 0, 0, 10, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
}

func TestWritePlain(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	w := export.NewWriter(dir, sdfx.New(), false)

	path, err := w.Write(triangle(), "plate_1x1x1")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if want := filepath.Join(dir, "plate_1x1x1.stl"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 84+50 {
		t.Errorf("size = %d, want %d", info.Size(), 84+50)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the final file, found %d entries", len(entries))
	}
}

func TestWriteCompressed(t *testing.T) {
	dir := t.TempDir()
	w := export.NewWriter(dir, sdfx.New(), true)

	path, err := w.Write(triangle(), "brick_2x4x3")
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if filepath.Ext(path) != ".zst" {
		t.Errorf("path %q lacks .zst", path)
	}
	raw, err := export.Decompress(path)
	if err != nil {
		t.Fatalf("Decompress() error = %v", err)
	}
	if len(raw) != 84+50 {
		t.Errorf("decompressed size = %d, want %d", len(raw), 84+50)
	}
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()
	w := export.NewWriter(dir, sdfx.New(), false)
	for i := 0; i < 2; i++ {
		if _, err := w.Write(triangle(), "plate_1x1x1"); err != nil {
			t.Fatalf("Write() #%d error = %v", i, err)
		}
	}
}

func TestWriteErrors(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		w := export.NewWriter(t.TempDir(), sdfx.New(), false)
		_, err := w.Write(&kernel.Mesh{}, "plate_1x1x1")
		assertExportError(t, err, "write")
	})

	t.Run("directory is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "blocker")
		if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		w := export.NewWriter(filepath.Join(file, "sub"), sdfx.New(), false)
		_, err := w.Write(triangle(), "plate_1x1x1")
		assertExportError(t, err, "mkdir")
	})
}

func assertExportError(t *testing.T, err error, op string) {
	t.Helper()
	if !errors.Is(err, export.ErrExport) {
		t.Fatalf("error %v does not wrap ErrExport", err)
	}
	var ee *export.Error
	if !errors.As(err, &ee) {
		t.Fatalf("error %v is not *export.Error", err)
	}
	if ee.Op != op {
		t.Errorf("Op = %q, want %q", ee.Op, op)
	}
	if ee.Name != brick.Name("plate_1x1x1") {
		t.Errorf("Name = %q", ee.Name)
	}
}
