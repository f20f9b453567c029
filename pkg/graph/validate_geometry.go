package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry checks the dimensions of a primitive payload and the
// placement of any node.
func validateGeometry(n *Node, path string) []ValidationError {
	var out []ValidationError
	report := func(sev ValidationSeverity, format string, args ...any) {
		out = append(out, ValidationError{
			Path:     path,
			Name:     n.Name,
			Message:  fmt.Sprintf(format, args...),
			Severity: sev,
		})
	}

	if !finite(n.Placement.Translation) || !finite(n.Placement.Rotation) {
		report(SeverityError, "placement has non-finite components")
	}

	switch data := n.Data.(type) {
	case BoxData:
		if data.Size.X <= 0 {
			report(SeverityError, "box dimension X is %.4f, must be positive", data.Size.X)
		}
		if data.Size.Y <= 0 {
			report(SeverityError, "box dimension Y is %.4f, must be positive", data.Size.Y)
		}
		if data.Size.Z <= 0 {
			report(SeverityError, "box dimension Z is %.4f, must be positive", data.Size.Z)
		}

	case CylinderData:
		if data.Height <= 0 {
			report(SeverityError, "cylinder height is %.4f, must be positive", data.Height)
		}
		if data.Radius <= 0 {
			report(SeverityError, "cylinder radius is %.4f, must be positive", data.Radius)
		}
		if data.Round < 0 {
			report(SeverityError, "cylinder round is %.4f, must not be negative", data.Round)
		}
		if data.Round > 0 && (2*data.Round > data.Height || data.Round > data.Radius) {
			report(SeverityWarning, "cylinder round %.4f exceeds its height or radius", data.Round)
		}

	case ExtrudeData:
		if len(data.Profile) < 3 {
			report(SeverityError, "extrusion profile has %d points, need at least 3", len(data.Profile))
		} else if math.Abs(polygonArea(data.Profile)) < 1e-9 {
			report(SeverityError, "extrusion profile encloses no area")
		}
		if data.Depth <= 0 {
			report(SeverityError, "extrusion depth is %.4f, must be positive", data.Depth)
		}

	case TextData:
		if data.Text == "" {
			report(SeverityWarning, "text label is empty")
		}
		if data.Size <= 0 {
			report(SeverityError, "text size is %.4f, must be positive", data.Size)
		}
		if data.Depth <= 0 {
			report(SeverityError, "text depth is %.4f, must be positive", data.Depth)
		}
	}
	return out
}

func finite(v Vec3) bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// polygonArea returns the signed shoelace area of a closed polyline.
func polygonArea(p [][2]float64) float64 {
	var a float64
	for i := range p {
		j := (i + 1) % len(p)
		a += p[i][0]*p[j][1] - p[j][0]*p[i][1]
	}
	return a / 2
}
