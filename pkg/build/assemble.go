package build

import (
	"fmt"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/graph"
)

// Brick is one finished brick: its identity, the build tree in the brick's
// own coordinates, and the layout facts the tree was derived from.
type Brick struct {
	Name       brick.Name
	Spec       brick.Spec
	Scale      brick.Scale
	Tree       *graph.Node
	Hull       HullDims
	Studs      []Position
	Rings      []Position
	FloorStuds []Position
	Extent     graph.Vec3        // footprint and height including studs
	Offset     float64           // scene X offset assigned by a Session
	Hash       graph.ContentHash // content hash of Tree
}

// Scene returns the tree moved to its scene offset.
func (b *Brick) Scene() *graph.Node {
	if b.Offset == 0 {
		return b.Tree
	}
	return b.Tree.At(b.Offset, 0, 0)
}

// Assemble validates spec and builds its complete tree: hull, studs and
// rings (and floor studs for pockets) fused together; slopes then lose the
// wedge above the slope line and gain the roof slab; labelled big bricks
// gain the label on their front face.
func Assemble(spec brick.Spec, sc brick.Scale) (*Brick, error) {
	if err := spec.Validate(sc); err != nil {
		return nil, err
	}
	name := brick.NameFor(spec)

	hull, dims := Hull(spec, sc)
	studs := StudPositions(spec, sc)
	rings := RingPositions(spec, sc)
	floor := FloorStudPositions(spec, sc)

	height := brick.Height(spec, sc)
	stud := StudFor(sc)
	ring := RingFor(sc, height)

	parts := []*graph.Node{hull}
	for _, n := range []*graph.Node{
		instances("studs", studs, func() *graph.Node { return stud.Node(NameStud) }),
		instances("rings", rings, func() *graph.Node { return ring.Node(NameRing) }),
		instances("floorstuds", floor, func() *graph.Node { return stud.Node(NameFloorStud) }),
	} {
		if n != nil {
			parts = append(parts, n)
		}
	}

	x, y := spec.Footprint()
	extent := graph.Vec3{X: sc.MustLength(x), Y: sc.MustLength(y), Z: height + stud.Height}

	var tree *graph.Node
	switch s := spec.(type) {
	case brick.Slope:
		body := graph.UnionAll("body", parts...)
		cutout, roof := slopeProfiles(s, sc)
		tree = graph.Union(string(name),
			graph.Difference("slope", body, cutout.SweepY(NameCutout, -boreOverrun, extent.Y+2*boreOverrun)),
			roof.SweepY(NameRoof, 0, extent.Y),
		)
	case brick.Big:
		if s.Label != "" {
			parts = append(parts, Label(s.Label, sc).At(extent.X/2, 0, height/2))
		}
		tree = graph.UnionAll(string(name), parts...)
	default:
		tree = graph.UnionAll(string(name), parts...)
	}
	if tree.Name != string(name) {
		tree = tree.Named(string(name))
	}

	if r := graph.Validate(tree); !r.OK() {
		return nil, fmt.Errorf("build: %s: %w", name, r.Err())
	}

	return &Brick{
		Name:       name,
		Spec:       spec,
		Scale:      sc,
		Tree:       tree,
		Hull:       dims,
		Studs:      studs,
		Rings:      rings,
		FloorStuds: floor,
		Extent:     extent,
		Hash:       graph.Hash(tree),
	}, nil
}

// slopeProfiles returns the wedge removed above the slope line and the
// roof slab that follows it, both sketched in XZ. The slope runs from the
// slope start on the +X face up to the edge of the flat top.
func slopeProfiles(s brick.Slope, sc brick.Scale) (cutout, roof Profile) {
	w := sc.MustLength(s.StudsX)
	t := sc.MustLength(s.TopStuds)
	h := brick.Height(s, sc)
	start := sc.SlopeStart
	above := h + sc.StudHeight
	r := sc.RoofThickness

	cutout = Profile{{w, start}, {w, above}, {t, above}, {t, h}}
	roof = Profile{{w, start}, {t, h}, {t, h - r}, {w, start - r}}
	return cutout, roof
}
