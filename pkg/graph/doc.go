// Package graph defines the build tree for bricks.
// A build tree is a pure value: primitives (box, cylinder, extruded
// profile, text) combined by binary union and difference nodes, each
// carrying its own placement. The tree is never mutated once built; the
// geometry kernel adapter is the only consumer that performs effects.
package graph
