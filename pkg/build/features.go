package build

import (
	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/graph"
)

// Position is a feature placement: the lattice indices it came from and
// the centre of the feature's base.
type Position struct {
	I, J int
	At   graph.Vec3
}

// studCentre centres a stud in lattice cell i, accounting for the gap
// that follows each cell.
func studCentre(sc brick.Scale, i int) float64 {
	p := sc.Pitch()
	return float64(i+1)*p - p/2 - sc.Gap/2
}

// ringCentre is the interior crossing between cells i and i+1.
func ringCentre(sc brick.Scale, i int) float64 {
	return sc.Pitch()*float64(i+1) - sc.Gap/2
}

// StudPositions lists the top studs of spec, filtered by its StudAt
// predicate, on the brick's top face.
func StudPositions(spec brick.Spec, sc brick.Scale) []Position {
	x, y := spec.Footprint()
	top := brick.Height(spec, sc)
	var out []Position
	for i := 0; i < x; i++ {
		for j := 0; j < y; j++ {
			if !spec.StudAt(i, j) {
				continue
			}
			out = append(out, Position{I: i, J: j, At: graph.Vec3{X: studCentre(sc, i), Y: studCentre(sc, j), Z: top}})
		}
	}
	return out
}

// RingPositions lists the underside rings of spec on the (x-1) by (y-1)
// interior crossings, filtered by its RingAt predicate. Footprints one stud
// wide have no interior crossings and so no rings.
func RingPositions(spec brick.Spec, sc brick.Scale) []Position {
	x, y := spec.Footprint()
	var out []Position
	for i := 0; i < x-1; i++ {
		for j := 0; j < y-1; j++ {
			if !spec.RingAt(i, j) {
				continue
			}
			out = append(out, Position{I: i, J: j, At: graph.Vec3{X: ringCentre(sc, i), Y: ringCentre(sc, j)}})
		}
	}
	return out
}

// FloorStudPositions lists the studs on the floor of a pocket that asks for
// them: every cell of the (x-2) by (y-2) interior lattice at floor height.
// Other specs have none.
func FloorStudPositions(spec brick.Spec, sc brick.Scale) []Position {
	p, ok := spec.(brick.Pocket)
	if !ok || !p.InnerStuds {
		return nil
	}
	floor := float64(p.FloorPlates) * sc.PlateHeight
	var out []Position
	for i := 0; i < p.StudsX-2; i++ {
		for j := 0; j < p.StudsY-2; j++ {
			out = append(out, Position{I: i, J: j, At: graph.Vec3{X: studCentre(sc, i+1), Y: studCentre(sc, j+1), Z: floor}})
		}
	}
	return out
}

// instances places one copy of template per position and fuses them.
func instances(name string, positions []Position, template func() *graph.Node) *graph.Node {
	if len(positions) == 0 {
		return nil
	}
	nodes := make([]*graph.Node, len(positions))
	for k, p := range positions {
		nodes[k] = template().At(p.At.X, p.At.Y, p.At.Z)
	}
	return graph.UnionAll(name, nodes...)
}
