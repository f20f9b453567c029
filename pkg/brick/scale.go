package brick

import (
	"errors"
	"fmt"
)

// ErrNonPositiveStuds is returned when a stud count below one is converted
// to a length.
var ErrNonPositiveStuds = errors.New("stud count must be at least 1")

// Scale holds the physical constants of one brick family. All values are
// in millimetres.
type Scale struct {
	Name        string  `yaml:"-" json:"name"`
	Width       float64 `yaml:"width" json:"width"`               // width of one stud cell
	Gap         float64 `yaml:"gap" json:"gap"`                   // added between adjacent cells
	PlateHeight float64 `yaml:"plate_height" json:"plate_height"` // one plate layer
	Wall        float64 `yaml:"wall" json:"wall"`                 // side wall thickness
	Top         float64 `yaml:"top" json:"top"`                   // ceiling thickness, thinner than the walls

	StudRadius float64 `yaml:"stud_radius" json:"stud_radius"`
	StudHeight float64 `yaml:"stud_height" json:"stud_height"`
	StudWall   float64 `yaml:"stud_wall" json:"stud_wall"`   // 0 for solid studs
	StudRound  float64 `yaml:"stud_round" json:"stud_round"` // top edge rounding of hollow studs

	RingOuter float64 `yaml:"ring_outer" json:"ring_outer"`
	RingInner float64 `yaml:"ring_inner" json:"ring_inner"`

	SlopeStart    float64 `yaml:"slope_start" json:"slope_start"`       // height where a slope leaves the wall
	RoofThickness float64 `yaml:"roof_thickness" json:"roof_thickness"` // slope roof slab

	LabelSize  float64 `yaml:"label_size" json:"label_size"`
	LabelDepth float64 `yaml:"label_depth" json:"label_depth"`
}

// SmallScale is the regular brick scale.
var SmallScale = Scale{
	Name:          "small",
	Width:         7.8,
	Gap:           0.2,
	PlateHeight:   3.2,
	Wall:          1.5,
	Top:           1.0,
	StudRadius:    2.475,
	StudHeight:    1.7,
	RingOuter:     3.25,
	RingInner:     2.5,
	SlopeStart:    1.6,
	RoofThickness: 1.0,
	LabelSize:     2.5,
	LabelDepth:    0.4,
}

// BigScale is the Duplo-compatible scale. Studs are hollow rings with a rounded
// top edge.
var BigScale = Scale{
	Name:          "big",
	Width:         15.8,
	Gap:           0.2,
	PlateHeight:   9.6,
	Wall:          3.0,
	Top:           2.0,
	StudRadius:    4.95,
	StudHeight:    3.4,
	StudWall:      2.0,
	StudRound:     0.3,
	RingOuter:     6.5,
	RingInner:     5.0,
	SlopeStart:    3.2,
	RoofThickness: 2.0,
	LabelSize:     5.0,
	LabelDepth:    0.6,
}

// Pitch is the centre-to-centre stud spacing.
func (s Scale) Pitch() float64 {
	return s.Width + s.Gap
}

// StudsToLength converts a stud count into millimetres: n cells plus the
// n-1 gaps between them.
func (s Scale) StudsToLength(n int) (float64, error) {
	if n < 1 {
		return 0, fmt.Errorf("brick: %d studs: %w", n, ErrNonPositiveStuds)
	}
	return float64(n)*s.Width + float64(n-1)*s.Gap, nil
}

// MustLength is StudsToLength for counts already checked by Validate.
func (s Scale) MustLength(n int) float64 {
	l, err := s.StudsToLength(n)
	if err != nil {
		panic(err)
	}
	return l
}

// Check reports whether the constants describe a buildable shell.
func (s Scale) Check() error {
	positive := []struct {
		field string
		v     float64
	}{
		{"width", s.Width},
		{"plate_height", s.PlateHeight},
		{"wall", s.Wall},
		{"top", s.Top},
		{"stud_radius", s.StudRadius},
		{"stud_height", s.StudHeight},
		{"ring_outer", s.RingOuter},
		{"ring_inner", s.RingInner},
		{"slope_start", s.SlopeStart},
		{"roof_thickness", s.RoofThickness},
		{"label_size", s.LabelSize},
		{"label_depth", s.LabelDepth},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return fmt.Errorf("brick: scale %s: %s is %g, must be positive", s.Name, p.field, p.v)
		}
	}
	switch {
	case s.Gap < 0:
		return fmt.Errorf("brick: scale %s: gap is %g, must not be negative", s.Name, s.Gap)
	case 2*s.Wall >= s.Width:
		return fmt.Errorf("brick: scale %s: two walls (%g) leave no cavity in one cell (%g)", s.Name, 2*s.Wall, s.Width)
	case s.Top >= s.PlateHeight:
		return fmt.Errorf("brick: scale %s: top %g must be thinner than a plate (%g)", s.Name, s.Top, s.PlateHeight)
	case s.RingInner >= s.RingOuter:
		return fmt.Errorf("brick: scale %s: ring inner radius %g must be below outer %g", s.Name, s.RingInner, s.RingOuter)
	case s.StudWall < 0 || s.StudWall >= s.StudRadius:
		return fmt.Errorf("brick: scale %s: stud wall %g must be in [0, %g)", s.Name, s.StudWall, s.StudRadius)
	case s.StudRound < 0 || 2*s.StudRound > s.StudHeight:
		return fmt.Errorf("brick: scale %s: stud round %g does not fit stud height %g", s.Name, s.StudRound, s.StudHeight)
	case s.RoofThickness >= s.SlopeStart:
		return fmt.Errorf("brick: scale %s: roof %g must be thinner than the slope start %g", s.Name, s.RoofThickness, s.SlopeStart)
	}
	return nil
}

// Scales pairs the two families a run builds with.
type Scales struct {
	Small Scale
	Big   Scale
}

// DefaultScales returns the built-in constants.
func DefaultScales() Scales {
	return Scales{Small: SmallScale, Big: BigScale}
}

// For returns the scale a spec is built at.
func (s Scales) For(spec Spec) Scale {
	if spec.Family() == FamilyBig {
		return s.Big
	}
	return s.Small
}
