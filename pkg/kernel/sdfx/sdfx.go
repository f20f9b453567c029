// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/bricklayer/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/golang/freetype/truetype"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

// Renderer names accepted by WithRenderer.
const (
	RendererOctree  = "octree"
	RendererUniform = "uniform"
)

const (
	defaultMaxCells = 400
	minMeshCells    = 16
)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	renderer string
	maxCells int
	font     *truetype.Font
}

// Option configures an SdfxKernel.
type Option func(*SdfxKernel)

// WithRenderer selects the marching cubes variant ("octree" or "uniform").
func WithRenderer(name string) Option {
	return func(k *SdfxKernel) { k.renderer = name }
}

// WithMaxCells caps the marching cubes resolution along the longest axis.
func WithMaxCells(n int) Option {
	return func(k *SdfxKernel) {
		if n > 0 {
			k.maxCells = n
		}
	}
}

// WithFont sets the font used by Text.
func WithFont(f *truetype.Font) Option {
	return func(k *SdfxKernel) { k.font = f }
}

// New returns a new SdfxKernel.
func New(opts ...Option) *SdfxKernel {
	k := &SdfxKernel{renderer: RendererOctree, maxCells: defaultMaxCells}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// LoadFont reads a TrueType font for use with WithFont.
func LoadFont(path string) (*truetype.Font, error) {
	f, err := sdf.LoadFont(path)
	if err != nil {
		return nil, fmt.Errorf("sdfx: load font %s: %w", path, err)
	}
	return f, nil
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	return s.(*sdfxSolid).s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

// guard runs a constructor and turns both returned errors and sdfx panics
// into *kernel.GeometryError.
func guard(op string, build func() (sdf.SDF3, error)) (s kernel.Solid, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = &kernel.GeometryError{Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	out, err := build()
	if err != nil {
		return nil, &kernel.GeometryError{Op: op, Err: err}
	}
	return wrap(out), nil
}

// Box creates a box with its minimum corner at the origin.
// sdf.Box3D centers the box, so it is shifted by half its dimensions.
func (k *SdfxKernel) Box(x, y, z float64) (kernel.Solid, error) {
	return guard("box", func() (sdf.SDF3, error) {
		s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
		if err != nil {
			return nil, err
		}
		m := sdf.Translate3d(v3.Vec{X: x / 2, Y: y / 2, Z: z / 2})
		return sdf.Transform3D(s, m), nil
	})
}

// Cylinder creates a Z-axis cylinder with its base on z=0. A non-zero
// round radius rounds both circular edges.
func (k *SdfxKernel) Cylinder(height, radius, round float64) (kernel.Solid, error) {
	return guard("cylinder", func() (sdf.SDF3, error) {
		s, err := sdf.Cylinder3D(height, radius, round)
		if err != nil {
			return nil, err
		}
		return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: height / 2})), nil
	})
}

// Extrude sweeps a closed XY polygon along +Z from 0 to depth.
func (k *SdfxKernel) Extrude(profile kernel.Profile, depth float64) (kernel.Solid, error) {
	return guard("extrude", func() (sdf.SDF3, error) {
		if len(profile) < 3 {
			return nil, fmt.Errorf("profile has %d points, need at least 3", len(profile))
		}
		pts := make([]v2.Vec, len(profile))
		for i, p := range profile {
			pts[i] = v2.Vec{X: p[0], Y: p[1]}
		}
		poly, err := sdf.Polygon2D(pts)
		if err != nil {
			return nil, err
		}
		s := sdf.Extrude3D(poly, depth)
		return sdf.Transform3D(s, sdf.Translate3d(v3.Vec{Z: depth / 2})), nil
	})
}

// Text renders s with the configured font, size being the cap height in mm.
func (k *SdfxKernel) Text(s string, size, depth float64) (kernel.Solid, error) {
	if k.font == nil {
		return nil, &kernel.GeometryError{Op: "text", Err: kernel.ErrNoFont}
	}
	return guard("text", func() (sdf.SDF3, error) {
		t, err := sdf.Text2D(k.font, sdf.NewText(s), size)
		if err != nil {
			return nil, err
		}
		bb := t.BoundingBox()
		t = sdf.Transform2D(t, sdf.Translate2d(bb.Center().Neg()))
		s3 := sdf.Extrude3D(t, depth)
		return sdf.Transform3D(s3, sdf.Translate3d(v3.Vec{Z: depth / 2})), nil
	})
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// meshCells derives the marching cubes resolution from the linear tolerance
// and the solid's largest extent.
func (k *SdfxKernel) meshCells(s sdf.SDF3, tol kernel.Tolerance) int {
	size := s.BoundingBox().Size()
	extent := math.Max(size.X, math.Max(size.Y, size.Z))
	linear := tol.Linear
	if linear <= 0 {
		linear = kernel.DefaultTolerance.Linear
	}
	cells := int(math.Ceil(extent / linear))
	if cells < minMeshCells {
		cells = minMeshCells
	}
	if cells > k.maxCells {
		cells = k.maxCells
	}
	return cells
}

func (k *SdfxKernel) newRenderer(cells int) (render.Render3, error) {
	switch k.renderer {
	case RendererOctree, "":
		return render.NewMarchingCubesOctree(cells), nil
	case RendererUniform:
		return render.NewMarchingCubesUniform(cells), nil
	default:
		return nil, fmt.Errorf("sdfx: unknown renderer %q", k.renderer)
	}
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
// The angular tolerance has no counterpart in an SDF mesher and is ignored.
func (k *SdfxKernel) ToMesh(s kernel.Solid, tol kernel.Tolerance) (m *kernel.Mesh, err error) {
	sdf3 := unwrap(s)

	r, err := k.newRenderer(k.meshCells(sdf3, tol))
	if err != nil {
		return nil, err
	}

	defer func() {
		if p := recover(); p != nil {
			m = nil
			err = &kernel.GeometryError{Op: "tessellate", Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	triangles := render.ToTriangles(sdf3, r)

	numTri := len(triangles)
	numVerts := numTri * 3

	vertices := make([]float32, 0, numVerts*3)
	normals := make([]float32, 0, numVerts*3)
	indices := make([]uint32, 0, numVerts)

	for i, tri := range triangles {
		n := tri.Normal()
		nx := float32(n.X)
		ny := float32(n.Y)
		nz := float32(n.Z)

		for j := 0; j < 3; j++ {
			v := tri[j]
			vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
			normals = append(normals, nx, ny, nz)
			indices = append(indices, uint32(i*3+j))
		}
	}

	return &kernel.Mesh{
		Vertices: vertices,
		Normals:  normals,
		Indices:  indices,
	}, nil
}

// Export writes the mesh as a binary STL file.
func (k *SdfxKernel) Export(m *kernel.Mesh, path string) error {
	if m == nil || m.IsEmpty() {
		return fmt.Errorf("sdfx: export %s: empty mesh", path)
	}
	tris := make([]*sdf.Triangle3, 0, m.TriangleCount())
	for t := 0; t < m.TriangleCount(); t++ {
		var tri sdf.Triangle3
		for j := 0; j < 3; j++ {
			p := m.Vertex(m.Indices[t*3+j])
			tri[j] = v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
		}
		tris = append(tris, &tri)
	}
	if err := render.SaveSTL(path, tris); err != nil {
		return fmt.Errorf("sdfx: save stl %s: %w", path, err)
	}
	return nil
}
