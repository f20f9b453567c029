package brick

import (
	"errors"
	"fmt"
)

// ErrInvalidSpec is wrapped by every *InvalidSpecError.
var ErrInvalidSpec = errors.New("invalid brick spec")

// ErrDuplicateName is returned when a name is registered twice in one run.
var ErrDuplicateName = errors.New("brick name already registered")

// Rules reported by InvalidSpecError.
const (
	RuleOrientation  = "orientation"        // secondary axis smaller than primary
	RuleNonPositive  = "non-positive-studs" // a count below one
	RuleHoleTooLarge = "hole-too-large"     // hole leaves no frame around it
	RuleCornerArms   = "corner-arms"        // bottom arm taller than the left arm is long
	RuleTopStuds     = "top-studs-range"    // slope top not strictly inside the footprint
	RuleCavity       = "cavity"             // walls or roof leave no positive cavity
	RulePocketWalls  = "pocket-walls"       // pocket too small for its one-stud walls
)

// InvalidSpecError reports which validation rule a spec failed.
type InvalidSpecError struct {
	Family Family
	Rule   string
	Detail string
}

func (e *InvalidSpecError) Error() string {
	return fmt.Sprintf("brick: invalid %s spec (%s): %s", e.Family, e.Rule, e.Detail)
}

func (e *InvalidSpecError) Unwrap() error { return ErrInvalidSpec }

func invalid(f Family, rule, format string, args ...any) error {
	return &InvalidSpecError{Family: f, Rule: rule, Detail: fmt.Sprintf(format, args...)}
}
