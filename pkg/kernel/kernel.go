// Package kernel defines the abstract geometry kernel interface.
// Implementations (sdfx) provide solid modeling, boolean operations,
// tessellation and mesh export behind this interface. The brick builder
// only ever produces pure build trees; the kernel is the one place where
// they become solids and files.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Profile is a closed 2D polyline. The last point connects back to the first.
type Profile [][2]float64

// Tolerance controls tessellation accuracy.
type Tolerance struct {
	Linear  float64 // maximum chord deviation in mm
	Angular float64 // maximum angular deviation in radians
}

// DefaultTolerance matches the deflection used for printable STL output.
var DefaultTolerance = Tolerance{Linear: 0.1, Angular: 0.0174533}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) (Solid, error)                    // min corner at the origin
	Cylinder(height, radius, round float64) (Solid, error) // base at z=0, axis Z
	Extrude(profile Profile, depth float64) (Solid, error) // XY profile, z in [0, depth]
	Text(s string, size, depth float64) (Solid, error)     // centered in XY, z in [0, depth]

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid, tol Tolerance) (*Mesh, error)
	Export(m *Mesh, path string) error
}
