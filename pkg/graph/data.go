package graph

// ---------------------------------------------------------------------------
// Vectors and placement
// ---------------------------------------------------------------------------

// Vec3 is a 3D vector in millimetres (or degrees for rotations).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// Placement positions a node relative to its parent.
// Rotation (Euler degrees about X, then Y, then Z) is applied first,
// then Translation.
type Placement struct {
	Translation Vec3 `json:"translation"`
	Rotation    Vec3 `json:"rotation"`
}

// IsIdentity reports whether the placement leaves a solid unchanged.
func (p Placement) IsIdentity() bool {
	return p.Translation.IsZero() && p.Rotation.IsZero()
}

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// BoxData is a rectangular block with its minimum corner at the origin.
type BoxData struct {
	Size Vec3 `json:"size"`
}

func (BoxData) nodeData() {}

// CylinderData is a Z-axis cylinder with its base centred on the origin.
type CylinderData struct {
	Height float64 `json:"height"`
	Radius float64 `json:"radius"`
	Round  float64 `json:"round,omitempty"` // edge rounding radius, 0 for sharp
}

func (CylinderData) nodeData() {}

// ExtrudeData is a closed XY polygon swept along +Z by Depth.
type ExtrudeData struct {
	Profile [][2]float64 `json:"profile"`
	Depth   float64      `json:"depth"`
}

func (ExtrudeData) nodeData() {}

// TextData is a text label centred on the origin in XY and extruded along
// +Z by Depth. Size is the glyph height.
type TextData struct {
	Text  string  `json:"text"`
	Size  float64 `json:"size"`
	Depth float64 `json:"depth"`
}

func (TextData) nodeData() {}
