// Package export writes finished brick meshes into the output directory,
// one file per brick named after its canonical name.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/kernel"
)

// ErrExport is wrapped by every *Error.
var ErrExport = errors.New("export failed")

// Error reports a tessellation or file write failure for one brick.
// Previously written files are never touched.
type Error struct {
	Name brick.Name
	Op   string // "tessellate", "mkdir", "write", "compress"
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("export: %s %s: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("export: %s %s (%s): %v", e.Op, e.Name, e.Path, e.Err)
}

func (e *Error) Unwrap() []error { return []error{ErrExport, e.Err} }

// Extensions of written files.
const (
	ExtSTL  = ".stl"
	ExtZstd = ".stl.zst"
)

// Writer emits meshes through the kernel's STL writer, optionally
// zstd-compressing the result.
type Writer struct {
	dir      string
	kernel   kernel.Kernel
	compress bool
}

// NewWriter returns a writer into dir. The directory is created on first
// write.
func NewWriter(dir string, k kernel.Kernel, compress bool) *Writer {
	return &Writer{dir: dir, kernel: k, compress: compress}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// Path returns the file a brick is written to.
func (w *Writer) Path(name brick.Name) string {
	ext := ExtSTL
	if w.compress {
		ext = ExtZstd
	}
	return filepath.Join(w.dir, string(name)+ext)
}

// Write stores mesh under name and returns the final path. The file
// appears atomically: the mesh is written to a temporary file in the same
// directory and renamed into place.
func (w *Writer) Write(mesh *kernel.Mesh, name brick.Name) (string, error) {
	final := w.Path(name)
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", &Error{Name: name, Op: "mkdir", Path: w.dir, Err: err}
	}

	tmp, err := os.CreateTemp(w.dir, "."+string(name)+"-*.stl")
	if err != nil {
		return "", &Error{Name: name, Op: "write", Path: final, Err: err}
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer os.Remove(tmpPath)

	if err := w.kernel.Export(mesh, tmpPath); err != nil {
		return "", &Error{Name: name, Op: "write", Path: final, Err: err}
	}

	if w.compress {
		if err := compressFile(tmpPath, final); err != nil {
			return "", &Error{Name: name, Op: "compress", Path: final, Err: err}
		}
		return final, nil
	}

	if err := os.Rename(tmpPath, final); err != nil {
		return "", &Error{Name: name, Op: "write", Path: final, Err: err}
	}
	return final, nil
}

// compressFile streams src through a zstd encoder into dst.
func compressFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	part := dst + ".part"
	out, err := os.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer os.Remove(part)

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = out.Close()
		return err
	}
	if _, err := io.Copy(enc, in); err != nil {
		_ = enc.Close()
		_ = out.Close()
		return fmt.Errorf("zstd encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("zstd close: %w", err)
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(part, dst)
}

// Decompress reads a compressed export back into plain STL bytes.
func Decompress(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}
