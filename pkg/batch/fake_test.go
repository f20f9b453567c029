package batch_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chazu/bricklayer/pkg/kernel"
)

// box is a bounding-box-only solid.
type box struct {
	min, max [3]float64
}

func (b *box) BoundingBox() (min, max [3]float64) { return b.min, b.max }

// fakeKernel tracks bounding boxes instead of geometry. Its meshes are a
// single triangle spanning the solid's box, and Export writes a stub file.
type fakeKernel struct {
	mu         sync.Mutex
	failExport map[string]bool // brick names whose export fails
	exported   map[string][2][3]float32
}

func newFakeKernel() *fakeKernel {
	return &fakeKernel{failExport: map[string]bool{}, exported: map[string][2][3]float32{}}
}

func (k *fakeKernel) Box(x, y, z float64) (kernel.Solid, error) {
	return &box{max: [3]float64{x, y, z}}, nil
}

func (k *fakeKernel) Cylinder(h, r, _ float64) (kernel.Solid, error) {
	return &box{min: [3]float64{-r, -r, 0}, max: [3]float64{r, r, h}}, nil
}

func (k *fakeKernel) Extrude(p kernel.Profile, depth float64) (kernel.Solid, error) {
	b := &box{min: [3]float64{p[0][0], p[0][1], 0}, max: [3]float64{p[0][0], p[0][1], depth}}
	for _, pt := range p[1:] {
		for i := 0; i < 2; i++ {
			b.min[i] = min(b.min[i], pt[i])
			b.max[i] = max(b.max[i], pt[i])
		}
	}
	return b, nil
}

func (k *fakeKernel) Text(string, float64, float64) (kernel.Solid, error) {
	return nil, &kernel.GeometryError{Op: "text", Err: kernel.ErrNoFont}
}

func (k *fakeKernel) Union(a, b kernel.Solid) kernel.Solid {
	amin, amax := a.BoundingBox()
	bmin, bmax := b.BoundingBox()
	out := &box{}
	for i := 0; i < 3; i++ {
		out.min[i] = min(amin[i], bmin[i])
		out.max[i] = max(amax[i], bmax[i])
	}
	return out
}

func (k *fakeKernel) Difference(a, _ kernel.Solid) kernel.Solid   { return a }
func (k *fakeKernel) Intersection(a, _ kernel.Solid) kernel.Solid { return a }
func (k *fakeKernel) Rotate(s kernel.Solid, _, _, _ float64) kernel.Solid {
	return s
}

func (k *fakeKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	mn, mx := s.BoundingBox()
	d := [3]float64{x, y, z}
	out := &box{}
	for i := 0; i < 3; i++ {
		out.min[i] = mn[i] + d[i]
		out.max[i] = mx[i] + d[i]
	}
	return out
}

func (k *fakeKernel) ToMesh(s kernel.Solid, _ kernel.Tolerance) (*kernel.Mesh, error) {
	mn, mx := s.BoundingBox()
	return &kernel.Mesh{
		Vertices: []float32{
			float32(mn[0]), float32(mn[1]), float32(mn[2]),
			float32(mx[0]), float32(mn[1]), float32(mn[2]),
			float32(mx[0]), float32(mx[1]), float32(mx[2]),
		},
		Normals: make([]float32, 9),
		Indices: []uint32{0, 1, 2},
	}, nil
}

func (k *fakeKernel) Export(m *kernel.Mesh, path string) error {
	name := strings.TrimPrefix(filepath.Base(path), ".")
	if i := strings.LastIndex(name, "-"); i >= 0 {
		name = name[:i]
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	if k.failExport[name] {
		return errors.New("disk full")
	}
	mn, mx := m.Bounds()
	k.exported[name] = [2][3]float32{mn, mx}
	return os.WriteFile(path, []byte("solid "+name+"\n"), 0o644)
}

func (k *fakeKernel) bounds(name string) ([2][3]float32, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	b, ok := k.exported[name]
	return b, ok
}

var _ kernel.Kernel = (*fakeKernel)(nil)
