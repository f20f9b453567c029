package build

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/chazu/bricklayer/pkg/brick"
)

// Session is the state of one batch run: the name registry and the scene
// cursor that keeps successive bricks from overlapping. A Session is safe
// for concurrent use; every brick gets a distinct, non-overlapping X range.
type Session struct {
	scales brick.Scales
	reg    *brick.Registry
	log    *zap.Logger

	mu     sync.Mutex
	cursor float64 // next free scene X, in mm
}

// NewSession returns a session building at the given scales. A nil logger
// discards output.
func NewSession(scales brick.Scales, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{scales: scales, reg: brick.NewRegistry(), log: log}
}

// Registry returns the names registered so far.
func (s *Session) Registry() *brick.Registry { return s.reg }

// Cursor returns the current scene X offset.
func (s *Session) Cursor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Build validates, names and assembles spec, registers its name, then
// assigns it the next scene offset. Invalid specs and already registered
// names are rejected before any geometry is built. A name is registered
// only once its tree assembled, so a failed build leaves neither a name
// nor a cursor advance behind.
func (s *Session) Build(spec brick.Spec) (*Brick, error) {
	sc := s.scales.For(spec)
	if err := spec.Validate(sc); err != nil {
		return nil, err
	}
	name := brick.NameFor(spec)
	if _, taken := s.reg.Lookup(name); taken {
		return nil, fmt.Errorf("brick: register %s: %w", name, brick.ErrDuplicateName)
	}

	b, err := Assemble(spec, sc)
	if err != nil {
		return nil, fmt.Errorf("build: assemble %s: %w", name, err)
	}
	// A concurrent build of the same name can win between Lookup and here.
	if _, err := s.reg.Register(spec); err != nil {
		return nil, err
	}

	s.mu.Lock()
	b.Offset = s.cursor
	s.cursor += float64(spec.Advance()) * sc.Pitch()
	s.mu.Unlock()

	s.log.Debug("assembled brick",
		zap.String("name", string(b.Name)),
		zap.Stringer("family", spec.Family()),
		zap.String("hash", b.Hash.Short()),
		zap.Int("studs", len(b.Studs)),
		zap.Int("rings", len(b.Rings)),
		zap.Float64("offset", b.Offset),
	)
	return b, nil
}

// Series expands to the regular bricks x by x, x by x+1, ... x by yMax,
// all plateZ plates high.
func Series(x, yMax, plateZ int) []brick.Spec {
	var specs []brick.Spec
	for y := x; y <= yMax; y++ {
		specs = append(specs, brick.Regular{StudsX: x, StudsY: y, PlateZ: plateZ})
	}
	return specs
}
