package brick

// Family identifies a brick shape family.
type Family int

const (
	FamilyRegular Family = iota
	FamilyCorner
	FamilyHoled
	FamilyPocket
	FamilySlope
	FamilyBig
)

func (f Family) String() string {
	switch f {
	case FamilyRegular:
		return "regular"
	case FamilyCorner:
		return "corner"
	case FamilyHoled:
		return "holed"
	case FamilyPocket:
		return "pocket"
	case FamilySlope:
		return "slope"
	case FamilyBig:
		return "big"
	default:
		return "unknown"
	}
}

// ParseFamily maps a family tag ("brick", "regular", "bigbrick", ...) to a
// Family.
func ParseFamily(tag string) (Family, bool) {
	switch tag {
	case "regular", "brick":
		return FamilyRegular, true
	case "corner":
		return FamilyCorner, true
	case "holed":
		return FamilyHoled, true
	case "pocket":
		return FamilyPocket, true
	case "slope":
		return FamilySlope, true
	case "big", "bigbrick":
		return FamilyBig, true
	}
	return 0, false
}

// Spec is the immutable parameter tuple of one brick request. Each family
// supplies its stud lattice, the per-cell inclusion predicates for studs
// and rings, and its cursor advance; the hull and feature stages are
// generic over these.
type Spec interface {
	Family() Family

	// Validate checks the integer parameters and that the scale leaves a
	// positive cavity. It runs before any geometry is built.
	Validate(sc Scale) error

	// Footprint is the size of the top stud lattice in cells.
	Footprint() (x, y int)

	// Plates is the total height in plate layers.
	Plates() int

	// StudAt reports whether lattice cell (i, j) carries a top stud.
	StudAt(i, j int) bool

	// RingAt reports whether interior crossing (i, j) carries a ring.
	RingAt(i, j int) bool

	// Advance is the cursor step, in stud pitches, after this brick.
	Advance() int

	spec()
}

// Height returns the total height of spec in millimetres.
func Height(spec Spec, sc Scale) float64 {
	return float64(spec.Plates()) * sc.PlateHeight
}

// ---------------------------------------------------------------------------
// Regular
// ---------------------------------------------------------------------------

// Regular is a rectangular brick or plate. StudsY must be at least StudsX.
type Regular struct {
	StudsX int `json:"studs_x" yaml:"studs_x"`
	StudsY int `json:"studs_y" yaml:"studs_y"`
	PlateZ int `json:"plate_z" yaml:"plate_z"`
}

func (Regular) spec()                {}
func (Regular) Family() Family       { return FamilyRegular }
func (r Regular) Plates() int        { return r.PlateZ }
func (r Regular) Advance() int       { return r.StudsX + 1 }
func (Regular) StudAt(_, _ int) bool { return true }
func (Regular) RingAt(_, _ int) bool { return true }

func (r Regular) Footprint() (int, int) { return r.StudsX, r.StudsY }

func (r Regular) Validate(sc Scale) error {
	return validateRect(FamilyRegular, r.StudsX, r.StudsY, r.PlateZ, sc)
}

func validateRect(f Family, x, y, z int, sc Scale) error {
	if x < 1 || y < 1 || z < 1 {
		return invalid(f, RuleNonPositive, "studs %dx%d and plates %d must all be at least 1", x, y, z)
	}
	if y < x {
		return invalid(f, RuleOrientation, "studs_y %d is smaller than studs_x %d; request %dx%d instead", y, x, y, x)
	}
	return checkCavity(f, sc, z)
}

// checkCavity rejects scales whose walls or ceiling would meet inside a
// brick of the given height.
func checkCavity(f Family, sc Scale, plates int) error {
	if 2*sc.Wall >= sc.Width {
		return invalid(f, RuleCavity, "walls %g+%g leave no room in a %g cell", sc.Wall, sc.Wall, sc.Width)
	}
	if sc.Top >= float64(plates)*sc.PlateHeight {
		return invalid(f, RuleCavity, "top %g is not thinner than the body height %g", sc.Top, float64(plates)*sc.PlateHeight)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Big
// ---------------------------------------------------------------------------

// Big is a Regular brick at the Duplo scale, optionally embossed with a
// text label on its front face.
type Big struct {
	StudsX int    `json:"studs_x" yaml:"studs_x"`
	StudsY int    `json:"studs_y" yaml:"studs_y"`
	PlateZ int    `json:"plate_z" yaml:"plate_z"`
	Label  string `json:"label,omitempty" yaml:"label,omitempty"`
}

func (Big) spec()                {}
func (Big) Family() Family       { return FamilyBig }
func (b Big) Plates() int        { return b.PlateZ }
func (b Big) Advance() int       { return b.StudsX + 1 }
func (Big) StudAt(_, _ int) bool { return true }
func (Big) RingAt(_, _ int) bool { return true }

func (b Big) Footprint() (int, int) { return b.StudsX, b.StudsY }

func (b Big) Validate(sc Scale) error {
	return validateRect(FamilyBig, b.StudsX, b.StudsY, b.PlateZ, sc)
}

// ---------------------------------------------------------------------------
// Corner
// ---------------------------------------------------------------------------

// Corner is an L-shaped brick. The left arm runs along Y and is
// LeftWidth studs wide; the bottom arm runs along X from the left arm's
// outer edge and is BottomHeight studs deep, sharing the corner cell(s).
type Corner struct {
	LeftLength   int `json:"left_length" yaml:"left_length"`
	LeftWidth    int `json:"left_width" yaml:"left_width"`
	BottomLength int `json:"bottom_length" yaml:"bottom_length"`
	BottomHeight int `json:"bottom_height" yaml:"bottom_height"`
	PlateZ       int `json:"plate_z" yaml:"plate_z"`
}

func (Corner) spec()          {}
func (Corner) Family() Family { return FamilyCorner }
func (c Corner) Plates() int  { return c.PlateZ }
func (c Corner) Advance() int { return c.LeftWidth + c.BottomLength + 1 }

func (c Corner) Footprint() (int, int) {
	return c.BottomLength + c.LeftWidth, c.LeftLength
}

func (c Corner) StudAt(i, j int) bool {
	return i < c.LeftWidth || j < c.BottomHeight
}

func (c Corner) RingAt(i, j int) bool {
	return i < c.LeftWidth-1 || j < c.BottomHeight-1
}

func (c Corner) Validate(sc Scale) error {
	if c.LeftLength < 1 || c.LeftWidth < 1 || c.BottomLength < 1 || c.BottomHeight < 1 || c.PlateZ < 1 {
		return invalid(FamilyCorner, RuleNonPositive,
			"left %dx%d, bottom %dx%d and plates %d must all be at least 1",
			c.LeftLength, c.LeftWidth, c.BottomLength, c.BottomHeight, c.PlateZ)
	}
	if c.BottomHeight > c.LeftLength {
		return invalid(FamilyCorner, RuleCornerArms,
			"bottom arm height %d exceeds left arm length %d", c.BottomHeight, c.LeftLength)
	}
	return checkCavity(FamilyCorner, sc, c.PlateZ)
}

// ---------------------------------------------------------------------------
// Holed
// ---------------------------------------------------------------------------

// Holed is a rectangular frame SideX/SideY studs thick around a
// HoleX by HoleY through-hole.
type Holed struct {
	SideX  int `json:"side_x" yaml:"side_x"`
	SideY  int `json:"side_y" yaml:"side_y"`
	HoleX  int `json:"hole_x" yaml:"hole_x"`
	HoleY  int `json:"hole_y" yaml:"hole_y"`
	PlateZ int `json:"plate_z" yaml:"plate_z"`
}

func (Holed) spec()          {}
func (Holed) Family() Family { return FamilyHoled }
func (h Holed) Plates() int  { return h.PlateZ }
func (h Holed) Advance() int { return 2*h.SideX + h.HoleX + 1 }

func (h Holed) Footprint() (int, int) {
	return h.HoleX + 2*h.SideX, h.HoleY + 2*h.SideY
}

// InHole reports whether lattice cell (i, j) lies over the hole.
func (h Holed) InHole(i, j int) bool {
	return i >= h.SideX && i < h.SideX+h.HoleX && j >= h.SideY && j < h.SideY+h.HoleY
}

func (h Holed) StudAt(i, j int) bool {
	return !h.InHole(i, j)
}

// RingAt excludes the crossings on and inside the hole's boundary, which
// the hole wall occupies.
func (h Holed) RingAt(i, j int) bool {
	return !(i >= h.SideX-1 && i < h.SideX+h.HoleX && j >= h.SideY-1 && j < h.SideY+h.HoleY)
}

func (h Holed) Validate(sc Scale) error {
	if h.HoleX < 1 || h.HoleY < 1 || h.PlateZ < 1 {
		return invalid(FamilyHoled, RuleNonPositive,
			"hole %dx%d and plates %d must all be at least 1", h.HoleX, h.HoleY, h.PlateZ)
	}
	if h.SideX < 1 || h.SideY < 1 {
		return invalid(FamilyHoled, RuleHoleTooLarge,
			"frame %dx%d leaves the hole as large as the footprint", h.SideX, h.SideY)
	}
	return checkCavity(FamilyHoled, sc, h.PlateZ)
}

// ---------------------------------------------------------------------------
// Pocket
// ---------------------------------------------------------------------------

// Pocket is an open-topped box with walls exactly one stud pitch thick.
// InnerPlates is the depth of the pocket and FloorPlates the floor
// thickness, both in plate layers.
type Pocket struct {
	StudsX      int  `json:"studs_x" yaml:"studs_x"`
	StudsY      int  `json:"studs_y" yaml:"studs_y"`
	InnerPlates int  `json:"inner_plates" yaml:"inner_plates"`
	FloorPlates int  `json:"floor_plates" yaml:"floor_plates"`
	InnerStuds  bool `json:"inner_studs,omitempty" yaml:"inner_studs,omitempty"`
}

func (Pocket) spec()                {}
func (Pocket) Family() Family       { return FamilyPocket }
func (p Pocket) Plates() int        { return p.FloorPlates + p.InnerPlates }
func (p Pocket) Advance() int       { return p.StudsX + 1 }
func (Pocket) RingAt(_, _ int) bool { return false }

func (p Pocket) Footprint() (int, int) { return p.StudsX, p.StudsY }

// StudAt keeps only the one-stud rim around the opening.
func (p Pocket) StudAt(i, j int) bool {
	return i < 1 || i > p.StudsX-2 || j < 1 || j > p.StudsY-2
}

func (p Pocket) Validate(sc Scale) error {
	if p.StudsX < 1 || p.StudsY < 1 || p.InnerPlates < 1 || p.FloorPlates < 1 {
		return invalid(FamilyPocket, RuleNonPositive,
			"size %dx%d, inner %d and floor %d must all be at least 1",
			p.StudsX, p.StudsY, p.InnerPlates, p.FloorPlates)
	}
	if p.StudsX < 3 || p.StudsY < 3 {
		return invalid(FamilyPocket, RulePocketWalls,
			"size %dx%d leaves no opening inside one-stud walls", p.StudsX, p.StudsY)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Slope
// ---------------------------------------------------------------------------

// Slope is a regular brick whose +X face is cut into an angled roof, leaving
// a flat top TopStuds wide at the -X side.
type Slope struct {
	StudsX   int `json:"studs_x" yaml:"studs_x"`
	StudsY   int `json:"studs_y" yaml:"studs_y"`
	PlateZ   int `json:"plate_z" yaml:"plate_z"`
	TopStuds int `json:"top_studs" yaml:"top_studs"`
}

func (Slope) spec()                {}
func (Slope) Family() Family       { return FamilySlope }
func (s Slope) Plates() int        { return s.PlateZ }
func (s Slope) Advance() int       { return s.StudsX + 1 }
func (Slope) StudAt(_, _ int) bool { return true }
func (Slope) RingAt(_, _ int) bool { return true }

func (s Slope) Footprint() (int, int) { return s.StudsX, s.StudsY }

func (s Slope) Validate(sc Scale) error {
	if s.StudsX < 1 || s.StudsY < 1 || s.PlateZ < 1 {
		return invalid(FamilySlope, RuleNonPositive,
			"studs %dx%d and plates %d must all be at least 1", s.StudsX, s.StudsY, s.PlateZ)
	}
	if s.TopStuds < 1 || s.TopStuds >= s.StudsX {
		return invalid(FamilySlope, RuleTopStuds,
			"top studs %d must be in [1, %d)", s.TopStuds, s.StudsX)
	}
	if err := checkCavity(FamilySlope, sc, s.PlateZ); err != nil {
		return err
	}
	if h := float64(s.PlateZ) * sc.PlateHeight; sc.SlopeStart >= h {
		return invalid(FamilySlope, RuleCavity, "slope start %g is not below the body height %g", sc.SlopeStart, h)
	}
	return nil
}

// Compile-time checks.
var (
	_ Spec = Regular{}
	_ Spec = Big{}
	_ Spec = Corner{}
	_ Spec = Holed{}
	_ Spec = Pocket{}
	_ Spec = Slope{}
)
