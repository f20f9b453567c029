package graph

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// ContentHash is a structural hash of a build tree. Two trees with the same
// primitives, dimensions, placements and names hash identically.
type ContentHash uint64

// String returns the full 16-character hex representation.
func (h ContentHash) String() string {
	return fmt.Sprintf("%016x", uint64(h))
}

// Short returns the first 12 hex characters for display.
func (h ContentHash) Short() string {
	return h.String()[:12]
}

// IsZero reports whether the hash is unset.
func (h ContentHash) IsZero() bool {
	return h == 0
}

// Hash computes the content hash of the tree rooted at n.
func Hash(n *Node) ContentHash {
	d := xxhash.New()
	writeNode(d, n)
	return ContentHash(d.Sum64())
}

type hashWriter struct {
	d   *xxhash.Digest
	buf [8]byte
}

func (w *hashWriter) f64(v float64) {
	binary.LittleEndian.PutUint64(w.buf[:], math.Float64bits(v))
	_, _ = w.d.Write(w.buf[:])
}

func (w *hashWriter) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.buf[:], v)
	_, _ = w.d.Write(w.buf[:])
}

func (w *hashWriter) str(s string) {
	w.u64(uint64(len(s)))
	_, _ = w.d.WriteString(s)
}

func (w *hashWriter) vec(v Vec3) {
	w.f64(v.X)
	w.f64(v.Y)
	w.f64(v.Z)
}

func writeNode(d *xxhash.Digest, n *Node) {
	w := &hashWriter{d: d}
	w.node(n)
}

func (w *hashWriter) node(n *Node) {
	if n == nil {
		w.u64(math.MaxUint64)
		return
	}
	w.u64(uint64(n.Kind))
	w.str(n.Name)
	w.vec(n.Placement.Translation)
	w.vec(n.Placement.Rotation)

	switch data := n.Data.(type) {
	case BoxData:
		w.str("box")
		w.vec(data.Size)
	case CylinderData:
		w.str("cylinder")
		w.f64(data.Height)
		w.f64(data.Radius)
		w.f64(data.Round)
	case ExtrudeData:
		w.str("extrude")
		w.u64(uint64(len(data.Profile)))
		for _, p := range data.Profile {
			w.f64(p[0])
			w.f64(p[1])
		}
		w.f64(data.Depth)
	case TextData:
		w.str("text")
		w.str(data.Text)
		w.f64(data.Size)
		w.f64(data.Depth)
	case nil:
		w.str("")
	default:
		w.str(fmt.Sprintf("%T", data))
	}

	w.u64(uint64(len(n.Children)))
	for _, c := range n.Children {
		w.node(c)
	}
}
