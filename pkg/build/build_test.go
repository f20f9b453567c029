package build_test

import (
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/build"
	"github.com/chazu/bricklayer/pkg/graph"
)

const eps = 1e-9

// AssembleSuite covers hull, feature and assembly output per family.
type AssembleSuite struct {
	suite.Suite
	scales brick.Scales
}

func (s *AssembleSuite) SetupTest() {
	s.scales = brick.DefaultScales()
}

func (s *AssembleSuite) assemble(spec brick.Spec) *build.Brick {
	b, err := build.Assemble(spec, s.scales.For(spec))
	require.NoError(s.T(), err)
	return b
}

// TestRegularTwoByFour: the reference 2x4 brick.
func (s *AssembleSuite) TestRegularTwoByFour() {
	b := s.assemble(brick.Regular{StudsX: 2, StudsY: 4, PlateZ: 3})

	require.Equal(s.T(), brick.Name("brick_2x4x3"), b.Name)
	require.InDelta(s.T(), 15.8, b.Hull.Outer.X, eps)
	require.InDelta(s.T(), 31.8, b.Hull.Outer.Y, eps)
	require.InDelta(s.T(), 9.6, b.Hull.Outer.Z, eps)
	require.Len(s.T(), b.Studs, 8)
	require.Len(s.T(), b.Rings, 3)
	require.Equal(s.T(), 8, graph.Count(b.Tree, build.NameStud))
	require.Equal(s.T(), 3, graph.Count(b.Tree, build.NameRing))
	require.Equal(s.T(), string(b.Name), b.Tree.Name)
	require.InDelta(s.T(), 11.3, b.Extent.Z, eps)
}

// TestHullShellInvariant: walls come off X/Y twice, the top once off Z.
func (s *AssembleSuite) TestHullShellInvariant() {
	specs := []brick.Spec{
		brick.Regular{StudsX: 1, StudsY: 1, PlateZ: 1},
		brick.Regular{StudsX: 2, StudsY: 4, PlateZ: 3},
		brick.Regular{StudsX: 6, StudsY: 16, PlateZ: 12},
		brick.Big{StudsX: 2, StudsY: 4, PlateZ: 2},
		brick.Slope{StudsX: 3, StudsY: 2, PlateZ: 3, TopStuds: 1},
		brick.Holed{SideX: 1, SideY: 2, HoleX: 2, HoleY: 1, PlateZ: 3},
		brick.Corner{LeftLength: 4, LeftWidth: 2, BottomLength: 3, BottomHeight: 1, PlateZ: 3},
	}
	for _, spec := range specs {
		sc := s.scales.For(spec)
		_, dims := build.Hull(spec, sc)
		require.InDelta(s.T(), 2*sc.Wall, dims.Outer.X-dims.Inner.X, eps, "%s X", brick.NameFor(spec))
		require.InDelta(s.T(), 2*sc.Wall, dims.Outer.Y-dims.Inner.Y, eps, "%s Y", brick.NameFor(spec))
		require.InDelta(s.T(), sc.Top, dims.Outer.Z-dims.Inner.Z, eps, "%s Z", brick.NameFor(spec))
		require.Equal(s.T(), graph.Vec3{X: sc.Wall, Y: sc.Wall}, dims.InnerOrigin)
		if c, ok := spec.(brick.Corner); ok {
			require.InDelta(s.T(), sc.MustLength(c.BottomLength+c.LeftWidth), dims.ArmOuter.X, eps)
			require.InDelta(s.T(), 2*sc.Wall, dims.ArmOuter.Y-dims.ArmInner.Y, eps)
		}
	}
}

// TestFeatureCounts: x*y studs, (x-1)*(y-1) rings, none for one-wide bricks.
func (s *AssembleSuite) TestFeatureCounts() {
	for x := 1; x <= 4; x++ {
		for y := x; y <= 8; y++ {
			spec := brick.Regular{StudsX: x, StudsY: y, PlateZ: 3}
			sc := s.scales.For(spec)
			require.Len(s.T(), build.StudPositions(spec, sc), x*y)
			require.Len(s.T(), build.RingPositions(spec, sc), (x-1)*(y-1))
		}
	}
	require.Empty(s.T(), build.RingPositions(brick.Regular{StudsX: 1, StudsY: 6, PlateZ: 3}, brick.SmallScale))
}

// TestStudSpacing: constant pitch, centred in cells, on the top face.
func (s *AssembleSuite) TestStudSpacing() {
	spec := brick.Regular{StudsX: 3, StudsY: 5, PlateZ: 3}
	studs := build.StudPositions(spec, brick.SmallScale)

	require.InDelta(s.T(), 3.9, studs[0].At.X, eps)
	require.InDelta(s.T(), 3.9, studs[0].At.Y, eps)
	require.InDelta(s.T(), 9.6, studs[0].At.Z, eps)
	for _, p := range studs {
		require.InDelta(s.T(), 3.9+8.0*float64(p.I), p.At.X, eps)
		require.InDelta(s.T(), 3.9+8.0*float64(p.J), p.At.Y, eps)
	}

	rings := build.RingPositions(spec, brick.SmallScale)
	require.InDelta(s.T(), 7.9, rings[0].At.X, eps)
	require.InDelta(s.T(), 0.0, rings[0].At.Z, eps)

	big := build.StudPositions(brick.Big{StudsX: 2, StudsY: 2, PlateZ: 2}, brick.BigScale)
	require.InDelta(s.T(), 7.9, big[0].At.X, eps)
	require.InDelta(s.T(), 23.9, big[len(big)-1].At.X, eps)
}

// TestHoledSuppression: exactly hx*hy studs drop out, none over the hole.
func (s *AssembleSuite) TestHoledSuppression() {
	specs := []brick.Holed{
		{SideX: 1, SideY: 1, HoleX: 3, HoleY: 3, PlateZ: 3},
		{SideX: 2, SideY: 1, HoleX: 1, HoleY: 2, PlateZ: 1},
		{SideX: 1, SideY: 3, HoleX: 2, HoleY: 4, PlateZ: 6},
	}
	for _, h := range specs {
		b := s.assemble(h)
		x, y := h.Footprint()
		require.Len(s.T(), b.Studs, x*y-h.HoleX*h.HoleY, "%s", b.Name)

		lo, hi := b.Hull.HoleOrigin, b.Hull.HoleOrigin.Add(b.Hull.Hole)
		for _, p := range b.Studs {
			inside := p.At.X > lo.X && p.At.X < hi.X && p.At.Y > lo.Y && p.At.Y < hi.Y
			require.False(s.T(), inside, "%s: stud (%d,%d) over the hole", b.Name, p.I, p.J)
		}
		for _, p := range b.Rings {
			inside := p.At.X >= lo.X && p.At.X <= hi.X && p.At.Y >= lo.Y && p.At.Y <= hi.Y
			require.False(s.T(), inside, "%s: ring (%d,%d) under the hole", b.Name, p.I, p.J)
		}
		require.InDelta(s.T(), float64(h.SideX)*brick.SmallScale.Pitch(), b.Hull.HoleOrigin.X, eps)
		require.InDelta(s.T(), b.Hull.Hole.X-2*brick.SmallScale.Wall, b.Hull.HoleOpening.X, eps)
	}
}

// TestCornerStudCount: both arms populated, the cutout empty.
func (s *AssembleSuite) TestCornerStudCount() {
	c := brick.Corner{LeftLength: 9, LeftWidth: 2, BottomLength: 4, BottomHeight: 3, PlateZ: 3}
	b := s.assemble(c)
	require.Len(s.T(), b.Studs, c.LeftWidth*c.LeftLength+c.BottomLength*c.BottomHeight)
	for _, p := range b.Rings {
		require.True(s.T(), p.I < c.LeftWidth-1 || p.J < c.BottomHeight-1)
	}
}

// TestPocketScenario: walls one pitch thick and 112 floor studs.
func (s *AssembleSuite) TestPocketScenario() {
	p := brick.Pocket{StudsX: 10, StudsY: 16, InnerPlates: 9, FloorPlates: 3, InnerStuds: true}
	b := s.assemble(p)

	require.Equal(s.T(), brick.Name("pocket_size_10x16_inner_9_studs_floor_3"), b.Name)
	require.InDelta(s.T(), 8.0, b.Hull.InnerOrigin.X, eps)
	require.InDelta(s.T(), 8.0, b.Hull.InnerOrigin.Y, eps)
	require.InDelta(s.T(), 8.0, b.Hull.Outer.X-b.Hull.Inner.X-b.Hull.InnerOrigin.X, eps, "far wall")
	require.InDelta(s.T(), 9.6, b.Hull.InnerOrigin.Z, eps)
	require.Len(s.T(), b.FloorStuds, 112)
	require.Len(s.T(), b.Studs, 10*16-8*14)
	require.Empty(s.T(), b.Rings)
	require.Equal(s.T(), 112, graph.Count(b.Tree, build.NameFloorStud))
	for _, f := range b.FloorStuds {
		require.InDelta(s.T(), 9.6, f.At.Z, eps)
	}

	plain := s.assemble(brick.Pocket{StudsX: 10, StudsY: 16, InnerPlates: 9, FloorPlates: 3})
	require.Empty(s.T(), plain.FloorStuds)
}

// TestSlopeTree: wedge subtracted from the body, roof fused back.
func (s *AssembleSuite) TestSlopeTree() {
	b := s.assemble(brick.Slope{StudsX: 3, StudsY: 2, PlateZ: 3, TopStuds: 1})
	require.Equal(s.T(), graph.NodeUnion, b.Tree.Kind)
	require.Equal(s.T(), 1, graph.Count(b.Tree, build.NameCutout))
	require.Equal(s.T(), 1, graph.Count(b.Tree, build.NameRoof))
	require.Len(s.T(), b.Studs, 6)

	var roof *graph.Node
	graph.Walk(b.Tree, func(n *graph.Node, _ int) bool {
		if n.Name == build.NameRoof {
			roof = n
		}
		return true
	})
	require.NotNil(s.T(), roof)
	data := roof.Data.(graph.ExtrudeData)
	require.InDelta(s.T(), 15.8, data.Depth, eps)
	require.Equal(s.T(), graph.Vec3{X: 90}, roof.Placement.Rotation)
	require.InDelta(s.T(), 15.8, roof.Placement.Translation.Y, eps)
	require.InDelta(s.T(), 23.8, data.Profile[0][0], eps)
	require.InDelta(s.T(), 1.6, data.Profile[0][1], eps)
	require.InDelta(s.T(), 7.8, data.Profile[1][0], eps)
	require.InDelta(s.T(), 9.6, data.Profile[1][1], eps)
}

// TestBigBrick: hollow rounded studs and an optional label.
func (s *AssembleSuite) TestBigBrick() {
	b := s.assemble(brick.Big{StudsX: 2, StudsY: 2, PlateZ: 2})
	require.Equal(s.T(), 0, graph.Count(b.Tree, build.NameLabel))
	require.InDelta(s.T(), 31.8, b.Hull.Outer.X, eps)

	var stud *graph.Node
	graph.Walk(b.Tree, func(n *graph.Node, _ int) bool {
		if n.Name == build.NameStud && stud == nil {
			stud = n
		}
		return true
	})
	require.NotNil(s.T(), stud)
	require.Equal(s.T(), graph.NodeDifference, stud.Kind, "big studs are rings")

	labelled := s.assemble(brick.Big{StudsX: 2, StudsY: 4, PlateZ: 2, Label: "A"})
	require.Equal(s.T(), 1, graph.Count(labelled.Tree, build.NameLabel))
	require.NotEqual(s.T(), b.Hash, labelled.Hash)
}

// TestInvalidSpec: orientation violation is rejected before any tree exists.
func (s *AssembleSuite) TestInvalidSpec() {
	b, err := build.Assemble(brick.Regular{StudsX: 4, StudsY: 2, PlateZ: 3}, brick.SmallScale)
	require.Nil(s.T(), b)
	require.True(s.T(), errors.Is(err, brick.ErrInvalidSpec))
	var ise *brick.InvalidSpecError
	require.True(s.T(), errors.As(err, &ise))
	require.Equal(s.T(), brick.RuleOrientation, ise.Rule)
}

// TestTreesValidate: every family yields a structurally valid tree.
func (s *AssembleSuite) TestTreesValidate() {
	for _, spec := range []brick.Spec{
		brick.Regular{StudsX: 1, StudsY: 1, PlateZ: 1},
		brick.Big{StudsX: 1, StudsY: 2, PlateZ: 1, Label: "x"},
		brick.Corner{LeftLength: 3, LeftWidth: 1, BottomLength: 1, BottomHeight: 1, PlateZ: 2},
		brick.Holed{SideX: 1, SideY: 1, HoleX: 1, HoleY: 1, PlateZ: 1},
		brick.Pocket{StudsX: 3, StudsY: 3, InnerPlates: 1, FloorPlates: 1, InnerStuds: true},
		brick.Slope{StudsX: 2, StudsY: 1, PlateZ: 1, TopStuds: 1},
	} {
		b := s.assemble(spec)
		r := graph.Validate(b.Tree)
		require.True(s.T(), r.OK(), "%s: %v", b.Name, r.Errors)
	}
}

func TestAssembleSuite(t *testing.T) {
	suite.Run(t, new(AssembleSuite))
}

// SessionSuite covers registry and cursor bookkeeping.
type SessionSuite struct {
	suite.Suite
	sess *build.Session
}

func (s *SessionSuite) SetupTest() {
	s.sess = build.NewSession(brick.DefaultScales(), nil)
}

// TestIdempotentAcrossSessions: identical specs give identical trees.
func (s *SessionSuite) TestIdempotentAcrossSessions() {
	specs := []brick.Spec{
		brick.Regular{StudsX: 2, StudsY: 4, PlateZ: 3},
		brick.Holed{SideX: 1, SideY: 1, HoleX: 3, HoleY: 3, PlateZ: 3},
		brick.Slope{StudsX: 3, StudsY: 2, PlateZ: 3, TopStuds: 1},
	}
	other := build.NewSession(brick.DefaultScales(), nil)
	for _, spec := range specs {
		a, err := s.sess.Build(spec)
		require.NoError(s.T(), err)
		b, err := other.Build(spec)
		require.NoError(s.T(), err)
		require.Equal(s.T(), a.Hash, b.Hash)
		require.Equal(s.T(), a.Tree, b.Tree)
		require.Equal(s.T(), a.Offset, b.Offset)
	}
}

// TestInvalidLeavesNoTrace: rejected specs neither register nor advance.
func (s *SessionSuite) TestInvalidLeavesNoTrace() {
	_, err := s.sess.Build(brick.Regular{StudsX: 4, StudsY: 2, PlateZ: 3})
	require.True(s.T(), errors.Is(err, brick.ErrInvalidSpec))
	require.Equal(s.T(), 0, s.sess.Registry().Len())
	require.Zero(s.T(), s.sess.Cursor())
}

// TestDuplicateSkipped: the second request for a name fails and keeps the cursor.
func (s *SessionSuite) TestDuplicateSkipped() {
	_, err := s.sess.Build(brick.Regular{StudsX: 2, StudsY: 2, PlateZ: 3})
	require.NoError(s.T(), err)
	cursor := s.sess.Cursor()

	_, err = s.sess.Build(brick.Regular{StudsX: 2, StudsY: 2, PlateZ: 3})
	require.True(s.T(), errors.Is(err, brick.ErrDuplicateName))
	require.Equal(s.T(), cursor, s.sess.Cursor())
}

// TestDistinctLabelsRegisterApart: labels differing only in punctuation
// name two bricks.
func (s *SessionSuite) TestDistinctLabelsRegisterApart() {
	a, err := s.sess.Build(brick.Big{StudsX: 2, StudsY: 2, PlateZ: 3, Label: "A!"})
	require.NoError(s.T(), err)
	b, err := s.sess.Build(brick.Big{StudsX: 2, StudsY: 2, PlateZ: 3, Label: "A?"})
	require.NoError(s.T(), err)

	require.NotEqual(s.T(), a.Name, b.Name)
	require.Equal(s.T(), 2, s.sess.Registry().Len())
}

// TestFailedAssemblyReleasesName: a tree that fails validation leaves the
// name free and the cursor in place.
func (s *SessionSuite) TestFailedAssemblyReleasesName() {
	broken := brick.DefaultScales()
	broken.Small.StudRadius = 0
	sess := build.NewSession(broken, nil)
	spec := brick.Regular{StudsX: 2, StudsY: 2, PlateZ: 3}

	_, err := sess.Build(spec)
	require.Error(s.T(), err)
	require.False(s.T(), errors.Is(err, brick.ErrInvalidSpec))
	require.False(s.T(), errors.Is(err, brick.ErrDuplicateName))
	require.Zero(s.T(), sess.Registry().Len())
	require.Zero(s.T(), sess.Cursor())

	_, err = sess.Build(spec)
	require.False(s.T(), errors.Is(err, brick.ErrDuplicateName), "retry reported as duplicate: %v", err)
}

// TestCursorAdvance: per-family advance in pitches.
func (s *SessionSuite) TestCursorAdvance() {
	_, err := s.sess.Build(brick.Regular{StudsX: 2, StudsY: 4, PlateZ: 3})
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 24.0, s.sess.Cursor(), eps)

	b, err := s.sess.Build(brick.Corner{LeftLength: 4, LeftWidth: 1, BottomLength: 2, BottomHeight: 1, PlateZ: 3})
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 24.0, b.Offset, eps)
	require.InDelta(s.T(), 24.0+4*8.0, s.sess.Cursor(), eps)

	b, err = s.sess.Build(brick.Holed{SideX: 1, SideY: 1, HoleX: 2, HoleY: 2, PlateZ: 3})
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 56.0, b.Offset, eps)
	require.InDelta(s.T(), 56.0+5*8.0, s.sess.Cursor(), eps)

	b, err = s.sess.Build(brick.Big{StudsX: 2, StudsY: 2, PlateZ: 2})
	require.NoError(s.T(), err)
	require.InDelta(s.T(), 96.0+3*16.0, s.sess.Cursor(), eps)
	require.Equal(s.T(), graph.Vec3{X: 96}, b.Scene().Placement.Translation)
}

// TestConcurrentBuildsDoNotOverlap: parallel builds get disjoint X ranges.
func (s *SessionSuite) TestConcurrentBuildsDoNotOverlap() {
	specs := append(build.Series(1, 8, 3), build.Series(2, 8, 1)...)
	specs = append(specs,
		brick.Corner{LeftLength: 5, LeftWidth: 2, BottomLength: 3, BottomHeight: 2, PlateZ: 3},
		brick.Big{StudsX: 2, StudsY: 3, PlateZ: 2},
	)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		bricks []*build.Brick
		errs   []error
	)
	for _, spec := range specs {
		wg.Add(1)
		go func(spec brick.Spec) {
			defer wg.Done()
			b, err := s.sess.Build(spec)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			bricks = append(bricks, b)
		}(spec)
	}
	wg.Wait()

	require.Empty(s.T(), errs)
	require.Len(s.T(), bricks, len(specs))
	sort.Slice(bricks, func(i, j int) bool { return bricks[i].Offset < bricks[j].Offset })
	for i := 1; i < len(bricks); i++ {
		prevEnd := bricks[i-1].Offset + bricks[i-1].Extent.X
		require.Less(s.T(), prevEnd, bricks[i].Offset, "%s overlaps %s", bricks[i-1].Name, bricks[i].Name)
	}
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func TestSeries(t *testing.T) {
	specs := build.Series(2, 8, 3)
	require.Len(t, specs, 7)
	require.Equal(t, brick.Regular{StudsX: 2, StudsY: 2, PlateZ: 3}, specs[0])
	require.Equal(t, brick.Regular{StudsX: 2, StudsY: 8, PlateZ: 3}, specs[6])
	require.Empty(t, build.Series(5, 4, 3))
}
