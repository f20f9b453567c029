package build

import (
	"fmt"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/graph"
)

// HullDims reports the boxes a hull was cut from, so the shell invariants
// can be checked without realizing any geometry. For the corner family
// Outer and Inner describe the left arm; for the pocket family Inner is
// the open cavity.
type HullDims struct {
	Outer       graph.Vec3 `json:"outer"`
	Inner       graph.Vec3 `json:"inner"`
	InnerOrigin graph.Vec3 `json:"inner_origin"`

	// Second arm of a corner hull.
	ArmOuter graph.Vec3 `json:"arm_outer,omitempty"`
	ArmInner graph.Vec3 `json:"arm_inner,omitempty"`

	// Hole of a holed hull: the cut block and the clear opening inside its wall.
	Hole        graph.Vec3 `json:"hole,omitempty"`
	HoleOrigin  graph.Vec3 `json:"hole_origin,omitempty"`
	HoleOpening graph.Vec3 `json:"hole_opening,omitempty"`
}

// Hull builds the shelled body of spec: an outer block minus a cavity
// inset by the wall in X/Y and by the top in Z. The spec must already
// have passed Validate; nothing here clamps.
func Hull(spec brick.Spec, sc brick.Scale) (*graph.Node, HullDims) {
	switch s := spec.(type) {
	case brick.Regular, brick.Big, brick.Slope:
		x, y := spec.Footprint()
		return rectHull(sc, x, y, brick.Height(spec, sc))
	case brick.Corner:
		return cornerHull(s, sc)
	case brick.Holed:
		return holedHull(s, sc)
	case brick.Pocket:
		return pocketHull(s, sc)
	default:
		panic(fmt.Sprintf("build: Hull: unsupported spec type %T", spec))
	}
}

// shell returns the outer and inner boxes of a rectangular shell.
func shell(sc brick.Scale, x, y int, height float64) (outer, inner graph.Vec3) {
	outer = graph.Vec3{X: sc.MustLength(x), Y: sc.MustLength(y), Z: height}
	inner = graph.Vec3{X: outer.X - 2*sc.Wall, Y: outer.Y - 2*sc.Wall, Z: height - sc.Top}
	return outer, inner
}

func box(name string, v graph.Vec3) *graph.Node {
	return graph.Box(name, v.X, v.Y, v.Z)
}

func rectHull(sc brick.Scale, x, y int, height float64) (*graph.Node, HullDims) {
	outer, inner := shell(sc, x, y, height)
	origin := graph.Vec3{X: sc.Wall, Y: sc.Wall}
	n := graph.Difference(NameHull,
		box(NameHull+"/outer", outer),
		box(NameHull+"/inner", inner).At(origin.X, origin.Y, 0),
	)
	return n, HullDims{Outer: outer, Inner: inner, InnerOrigin: origin}
}

// cornerHull fuses the left arm and the bottom arm, which spans the
// corner cells, then removes the matching pair of inset cavities.
func cornerHull(c brick.Corner, sc brick.Scale) (*graph.Node, HullDims) {
	height := brick.Height(c, sc)
	leftOuter, leftInner := shell(sc, c.LeftWidth, c.LeftLength, height)
	armOuter, armInner := shell(sc, c.BottomLength+c.LeftWidth, c.BottomHeight, height)
	origin := graph.Vec3{X: sc.Wall, Y: sc.Wall}

	outer := graph.Union(NameHull+"/outer", box("hull/outer/left", leftOuter), box("hull/outer/bottom", armOuter))
	inner := graph.Union(NameHull+"/inner",
		box("hull/inner/left", leftInner).At(origin.X, origin.Y, 0),
		box("hull/inner/bottom", armInner).At(origin.X, origin.Y, 0),
	)
	dims := HullDims{
		Outer: leftOuter, Inner: leftInner, InnerOrigin: origin,
		ArmOuter: armOuter, ArmInner: armInner,
	}
	return graph.Difference(NameHull, outer, inner), dims
}

// holedHull cuts the hole block out of the shelled frame and fuses the
// hole's own wall back in. The hole starts one full side pitch in, and the
// opening inside the hole wall is inset by exactly one wall thickness.
func holedHull(h brick.Holed, sc brick.Scale) (*graph.Node, HullDims) {
	x, y := h.Footprint()
	height := brick.Height(h, sc)
	frame, dims := rectHull(sc, x, y, height)

	dims.Hole = graph.Vec3{X: sc.MustLength(h.HoleX), Y: sc.MustLength(h.HoleY), Z: height}
	dims.HoleOrigin = graph.Vec3{X: sc.MustLength(h.SideX) + sc.Gap, Y: sc.MustLength(h.SideY) + sc.Gap}
	dims.HoleOpening = graph.Vec3{X: dims.Hole.X - 2*sc.Wall, Y: dims.Hole.Y - 2*sc.Wall, Z: height}

	hx, hy := dims.HoleOrigin.X, dims.HoleOrigin.Y
	cut := graph.Difference(NameHull+"/frame", frame, box("hull/hole", dims.Hole).At(hx, hy, 0))
	wall := graph.Difference(NameHull+"/holewall",
		box("hull/holewall/outer", dims.Hole).At(hx, hy, 0),
		box("hull/holewall/opening", dims.HoleOpening).At(hx+sc.Wall, hy+sc.Wall, 0),
	)
	return graph.Union(NameHull, cut, wall), dims
}

// pocketHull leaves walls exactly one stud pitch thick and a floor of
// FloorPlates; the cavity is open at the top.
func pocketHull(p brick.Pocket, sc brick.Scale) (*graph.Node, HullDims) {
	outer := graph.Vec3{X: sc.MustLength(p.StudsX), Y: sc.MustLength(p.StudsY), Z: brick.Height(p, sc)}
	inner := graph.Vec3{
		X: sc.MustLength(p.StudsX - 2),
		Y: sc.MustLength(p.StudsY - 2),
		Z: float64(p.InnerPlates) * sc.PlateHeight,
	}
	origin := graph.Vec3{X: sc.Pitch(), Y: sc.Pitch(), Z: float64(p.FloorPlates) * sc.PlateHeight}
	n := graph.Difference(NameHull,
		box(NameHull+"/outer", outer),
		box(NameHull+"/inner", inner).At(origin.X, origin.Y, origin.Z),
	)
	return n, HullDims{Outer: outer, Inner: inner, InnerOrigin: origin}
}
