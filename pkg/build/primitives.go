package build

import (
	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/graph"
)

// Node names used throughout a brick tree. Counting nodes by name is how
// tests and dry runs inspect a tree without a kernel.
const (
	NameHull      = "hull"
	NameStud      = "stud"
	NameRing      = "ring"
	NameFloorStud = "floorstud"
	NameCutout    = "slope/cutout"
	NameRoof      = "slope/roof"
	NameLabel     = "label"
)

// boreOverrun is how far a bore runs past the face it opens.
const boreOverrun = 1.0

// StudTemplate describes a top connector. A zero Wall yields a solid
// cylinder; otherwise the stud is a ring with its top edge rounded by
// Round.
type StudTemplate struct {
	Radius float64
	Height float64
	Wall   float64
	Round  float64
}

// StudFor returns the stud template of a scale.
func StudFor(sc brick.Scale) StudTemplate {
	return StudTemplate{Radius: sc.StudRadius, Height: sc.StudHeight, Wall: sc.StudWall, Round: sc.StudRound}
}

// Hollow reports whether the template makes ring-shaped studs.
func (t StudTemplate) Hollow() bool { return t.Wall > 0 }

// Node instantiates the stud with its base centred on the origin.
func (t StudTemplate) Node(name string) *graph.Node {
	if !t.Hollow() {
		return graph.Cylinder(name, t.Height, t.Radius, 0)
	}
	// The outer cylinder starts Round below the base so its lower rounded
	// edge is buried in the roof and only the top edge shows.
	outer := graph.Cylinder(name+"/outer", t.Height+t.Round, t.Radius, t.Round).At(0, 0, -t.Round)
	bore := graph.Cylinder(name+"/bore", t.Height+boreOverrun, t.Radius-t.Wall, 0)
	return graph.Difference(name, outer, bore)
}

// RingTemplate describes an underside connector tube.
type RingTemplate struct {
	Outer  float64
	Inner  float64
	Height float64
}

// RingFor returns the ring template of a scale for a body of the given
// height. Rings run from the floor to the underside of the ceiling.
func RingFor(sc brick.Scale, bodyHeight float64) RingTemplate {
	return RingTemplate{Outer: sc.RingOuter, Inner: sc.RingInner, Height: bodyHeight - sc.Top}
}

// Node instantiates the ring with its base centred on the origin.
func (t RingTemplate) Node(name string) *graph.Node {
	outer := graph.Cylinder(name+"/outer", t.Height, t.Outer, 0)
	bore := graph.Cylinder(name+"/bore", t.Height+boreOverrun, t.Inner, 0).At(0, 0, -boreOverrun)
	return graph.Difference(name, outer, bore)
}

// Profile is a closed polyline sketched in the XZ plane.
type Profile [][2]float64

// SweepY extrudes the profile along +Y from y0 over depth. The sketch is
// stood upright by a 90 degree turn about X, which sends the extrusion
// direction to -Y, then moved so it spans [y0, y0+depth].
func (p Profile) SweepY(name string, y0, depth float64) *graph.Node {
	return graph.Extrude(name, p, depth).Rotated(90, 0, 0).At(0, y0+depth, 0)
}

// Label builds an embossed text label standing on the XZ plane, reading
// along +X and protruding toward -Y, centred on the origin.
func Label(text string, sc brick.Scale) *graph.Node {
	return graph.Text(NameLabel, text, sc.LabelSize, sc.LabelDepth).Rotated(90, 0, 0)
}
