package graph

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// Box returns a box primitive of the given size.
func Box(name string, x, y, z float64) *Node {
	return &Node{Kind: NodePrimitive, Name: name, Data: BoxData{Size: Vec3{x, y, z}}}
}

// Cylinder returns a Z-axis cylinder primitive.
func Cylinder(name string, height, radius, round float64) *Node {
	return &Node{Kind: NodePrimitive, Name: name, Data: CylinderData{Height: height, Radius: radius, Round: round}}
}

// Extrude returns a profile extrusion primitive. The profile is copied.
func Extrude(name string, profile [][2]float64, depth float64) *Node {
	p := make([][2]float64, len(profile))
	copy(p, profile)
	return &Node{Kind: NodePrimitive, Name: name, Data: ExtrudeData{Profile: p, Depth: depth}}
}

// Text returns a text label primitive.
func Text(name, text string, size, depth float64) *Node {
	return &Node{Kind: NodePrimitive, Name: name, Data: TextData{Text: text, Size: size, Depth: depth}}
}

// Union returns a node that fuses a and b.
func Union(name string, a, b *Node) *Node {
	return &Node{Kind: NodeUnion, Name: name, Children: []*Node{a, b}}
}

// Difference returns a node that subtracts b from a.
func Difference(name string, a, b *Node) *Node {
	return &Node{Kind: NodeDifference, Name: name, Children: []*Node{a, b}}
}

// UnionAll fuses nodes into a balanced tree of binary unions, all named
// name. A single node is returned unchanged and an empty list yields nil.
func UnionAll(name string, nodes ...*Node) *Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	mid := len(nodes) / 2
	return Union(name, UnionAll(name, nodes[:mid]...), UnionAll(name, nodes[mid:]...))
}

// At returns a shallow copy of n translated by (x, y, z) on top of its
// existing placement.
func (n *Node) At(x, y, z float64) *Node {
	c := *n
	c.Placement.Translation = c.Placement.Translation.Add(Vec3{x, y, z})
	return &c
}

// Rotated returns a shallow copy of n with the given Euler rotation in
// degrees. Any translation already set is kept.
func (n *Node) Rotated(x, y, z float64) *Node {
	c := *n
	c.Placement.Rotation = Vec3{x, y, z}
	return &c
}

// Named returns a shallow copy of n with a new name.
func (n *Node) Named(name string) *Node {
	c := *n
	c.Name = name
	return &c
}

// ---------------------------------------------------------------------------
// Traversal
// ---------------------------------------------------------------------------

// Walk visits n and its descendants depth-first, parents before children.
// If fn returns false the children of that node are skipped.
func Walk(n *Node, fn func(n *Node, depth int) bool) {
	walk(n, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) {
	if n == nil {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes named name. The subtree of a matching
// node is not searched, so a composite feature counts once.
func Count(n *Node, name string) int {
	count := 0
	Walk(n, func(c *Node, _ int) bool {
		if c.Name == name {
			count++
			return false
		}
		return true
	})
	return count
}

// Stats summarises the shape of a build tree.
type Stats struct {
	Nodes       int `json:"nodes"`
	Primitives  int `json:"primitives"`
	Unions      int `json:"unions"`
	Differences int `json:"differences"`
	Depth       int `json:"depth"`
}

// TreeStats walks n and tallies node kinds and maximum depth.
func TreeStats(n *Node) Stats {
	var s Stats
	Walk(n, func(c *Node, depth int) bool {
		s.Nodes++
		switch c.Kind {
		case NodePrimitive:
			s.Primitives++
		case NodeUnion:
			s.Unions++
		case NodeDifference:
			s.Differences++
		}
		if depth+1 > s.Depth {
			s.Depth = depth + 1
		}
		return true
	})
	return s
}
