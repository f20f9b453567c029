package brick

import (
	"fmt"
	"strconv"
	"strings"
)

// Name is the canonical identifier of a brick: the registry key and the
// output file stem.
type Name string

func (n Name) String() string { return string(n) }

// Thickness classifies a height in plate layers. The classifier always
// takes the raw plate count.
func Thickness(plateZ int) string {
	switch {
	case plateZ == 1:
		return "plate"
	case plateZ == 2:
		return "plick"
	case plateZ%3 == 0:
		switch plateZ {
		case 3:
			return "brick"
		case 6:
			return "doublebrick"
		case 9:
			return "triplebrick"
		case 12:
			return "quadruplebrick"
		default:
			return "xbrick"
		}
	default:
		return "xplate"
	}
}

// NameFor derives the canonical name of a spec. Every field that
// distinguishes two specs of the same family appears in the name.
func NameFor(spec Spec) Name {
	switch s := spec.(type) {
	case Regular:
		return Name(fmt.Sprintf("%s_%dx%dx%d", Thickness(s.PlateZ), s.StudsX, s.StudsY, s.PlateZ))
	case Big:
		n := fmt.Sprintf("big%s_%dx%dx%d", Thickness(s.PlateZ), s.StudsX, s.StudsY, s.PlateZ)
		if s.Label != "" {
			n += "_label_" + EncodeLabel(s.Label)
		}
		return Name(n)
	case Corner:
		return Name(fmt.Sprintf("corner%s_left_%dx%d_bottom_%dx%d_height_%d",
			Thickness(s.PlateZ), s.LeftLength, s.LeftWidth, s.BottomLength, s.BottomHeight, s.PlateZ))
	case Holed:
		return Name(fmt.Sprintf("holed%s_%dx%d__hole_%dx%d__height_%d",
			Thickness(s.PlateZ), s.SideX, s.SideY, s.HoleX, s.HoleY, s.PlateZ))
	case Pocket:
		studs := ""
		if s.InnerStuds {
			studs = "_studs"
		}
		return Name(fmt.Sprintf("pocket_size_%dx%d_inner_%d%s_floor_%d",
			s.StudsX, s.StudsY, s.InnerPlates, studs, s.FloorPlates))
	case Slope:
		return Name(fmt.Sprintf("slope_%dx%dx%d_top_%d", s.StudsX, s.StudsY, s.PlateZ, s.TopStuds))
	default:
		panic(fmt.Sprintf("brick: NameFor: unsupported spec type %T", spec))
	}
}

// EncodeLabel maps a free-text label onto characters safe for a file
// name. ASCII letters and digits are kept; every other rune becomes
// "_u<hex>_". The mapping is reversible, so distinct labels never share a
// name.
func EncodeLabel(label string) string {
	var b strings.Builder
	for _, r := range label {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
			continue
		}
		fmt.Fprintf(&b, "_u%x_", r)
	}
	return b.String()
}

// DecodeLabel reverses EncodeLabel.
func DecodeLabel(enc string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(enc); {
		if enc[i] != '_' {
			b.WriteByte(enc[i])
			i++
			continue
		}
		end := strings.IndexByte(enc[i+1:], '_')
		if end < 2 || enc[i+1] != 'u' {
			return "", fmt.Errorf("brick: malformed label escape at %d in %q", i, enc)
		}
		code, err := strconv.ParseUint(enc[i+2:i+1+end], 16, 32)
		if err != nil {
			return "", fmt.Errorf("brick: malformed label escape at %d in %q: %w", i, enc, err)
		}
		b.WriteRune(rune(code))
		i += end + 2
	}
	return b.String(), nil
}
