// Package tessellate walks a brick build tree and realizes it with a
// geometry kernel, producing a solid or a triangle mesh. The walk is
// read-only and never mutates the tree.
package tessellate

import (
	"fmt"

	"github.com/chazu/bricklayer/pkg/graph"
	"github.com/chazu/bricklayer/pkg/kernel"
)

// Realize converts the build tree rooted at n into a kernel solid.
// Each node's placement is applied to its own realized solid, rotation
// first and translation second, so child placements compose with those
// of their ancestors.
func Realize(n *graph.Node, k kernel.Kernel) (kernel.Solid, error) {
	if n == nil {
		return nil, fmt.Errorf("tessellate: empty build tree")
	}
	return walkNode(k, n, "")
}

// Tessellate realizes the tree and meshes it at the given tolerance. The
// resulting mesh is tagged with partName.
func Tessellate(n *graph.Node, k kernel.Kernel, tol kernel.Tolerance, partName string) (*kernel.Mesh, error) {
	solid, err := Realize(n, k)
	if err != nil {
		return nil, err
	}
	mesh, err := k.ToMesh(solid, tol)
	if err != nil {
		return nil, fmt.Errorf("tessellate: ToMesh failed for %s: %w", partName, err)
	}
	if mesh.IsEmpty() {
		return nil, fmt.Errorf("tessellate: %s produced an empty mesh", partName)
	}
	mesh.PartName = partName
	return mesh, nil
}

// walkNode recursively realizes a node and its children.
func walkNode(k kernel.Kernel, n *graph.Node, path string) (kernel.Solid, error) {
	var (
		solid kernel.Solid
		err   error
	)

	switch n.Kind {
	case graph.NodePrimitive:
		solid, err = handlePrimitive(k, n)

	case graph.NodeUnion, graph.NodeDifference:
		solid, err = handleBoolean(k, n, path)

	default:
		return nil, fmt.Errorf("tessellate: node %s has unknown kind %v", label(n, path), n.Kind)
	}
	if err != nil {
		return nil, err
	}
	return place(k, solid, n.Placement), nil
}

// handlePrimitive creates geometry for a primitive node.
func handlePrimitive(k kernel.Kernel, n *graph.Node) (kernel.Solid, error) {
	var (
		solid kernel.Solid
		err   error
	)

	switch data := n.Data.(type) {
	case graph.BoxData:
		solid, err = k.Box(data.Size.X, data.Size.Y, data.Size.Z)
	case graph.CylinderData:
		solid, err = k.Cylinder(data.Height, data.Radius, data.Round)
	case graph.ExtrudeData:
		solid, err = k.Extrude(kernel.Profile(data.Profile), data.Depth)
	case graph.TextData:
		solid, err = k.Text(data.Text, data.Size, data.Depth)
	default:
		return nil, fmt.Errorf("tessellate: primitive %q has unsupported data type %T", n.Name, n.Data)
	}
	if err != nil {
		return nil, fmt.Errorf("tessellate: primitive %q: %w", n.Name, err)
	}
	return solid, nil
}

// handleBoolean realizes both children and combines them.
func handleBoolean(k kernel.Kernel, n *graph.Node, path string) (kernel.Solid, error) {
	if len(n.Children) != 2 {
		return nil, fmt.Errorf("tessellate: %s node %s has %d children, want 2", n.Kind, label(n, path), len(n.Children))
	}
	a, err := walkNode(k, n.Children[0], childPath(path, 0))
	if err != nil {
		return nil, err
	}
	b, err := walkNode(k, n.Children[1], childPath(path, 1))
	if err != nil {
		return nil, err
	}
	if n.Kind == graph.NodeUnion {
		return k.Union(a, b), nil
	}
	return k.Difference(a, b), nil
}

// place applies a placement, skipping identity components.
func place(k kernel.Kernel, s kernel.Solid, p graph.Placement) kernel.Solid {
	if r := p.Rotation; !r.IsZero() {
		s = k.Rotate(s, r.X, r.Y, r.Z)
	}
	if t := p.Translation; !t.IsZero() {
		s = k.Translate(s, t.X, t.Y, t.Z)
	}
	return s
}

func childPath(parent string, i int) string {
	if parent == "" {
		return fmt.Sprint(i)
	}
	return fmt.Sprintf("%s/%d", parent, i)
}

func label(n *graph.Node, path string) string {
	if path == "" {
		path = "root"
	}
	if n.Name != "" {
		return fmt.Sprintf("%s (%s)", path, n.Name)
	}
	return path
}
