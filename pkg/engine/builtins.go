package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/bricklayer/pkg/brick"
	"github.com/chazu/bricklayer/pkg/build"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites a batch script before passing it to zygomys.
// It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal),
//     so keywords never collide with script variables.
//
//  2. Kebab-case to underscore: brick-series -> brick_series
//     zygomys reads a hyphen inside an identifier as subtraction.
//
//  3. Line comments: ; and ;; become //.
//
// String literals are left untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)
	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"' || c == '`':
			j := skipQuoted(b, i)
			out = append(out, b[i:j]...)
			i = j
		case c == ';':
			for i < len(b) && b[i] == ';' {
				i++
			}
			j := i
			for j < len(b) && b[j] != '\n' {
				j++
			}
			out = append(out, '/', '/')
			out = append(out, b[i:j]...)
			i = j
		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j
		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++
		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipQuoted returns the index just past the literal opening at b[i].
// Double-quoted literals honour backslash escapes; backtick literals are raw.
func skipQuoted(b []byte, i int) int {
	quote := b[i]
	for i++; i < len(b); i++ {
		switch {
		case quote == '"' && b[i] == '\\':
			i++
		case b[i] == quote:
			return i + 1
		}
	}
	return len(b)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isIdentChar(c) || c == '-'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments. A
// trailing keyword with no value is a flag and maps to SexpNull.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i++
			} else {
				result.kw[name] = zygo.SexpNull
			}
			continue
		}
		result.positional = append(result.positional, args[i])
	}
	return result
}

// unknownKeyword returns the first keyword not in allowed.
func (a kwArgs) unknownKeyword(allowed ...string) (string, bool) {
outer:
	for k := range a.kw {
		for _, ok := range allowed {
			if k == ok {
				continue outer
			}
		}
		return k, true
	}
	return "", false
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toInt extracts a stud or plate count. Floats with no fractional part are
// accepted so arithmetic like (/ 8 2) still works.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == float64(int(v.Val)) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected whole number, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toBool extracts a flag value. A bare trailing keyword counts as true.
func toBool(s zygo.Sexp) (bool, error) {
	switch v := s.(type) {
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return true, nil
		}
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

// ints converts exactly len(names) positional arguments to ints.
func ints(fn string, pos []zygo.Sexp, names ...string) ([]int, error) {
	if len(pos) != len(names) {
		return nil, fmt.Errorf("%s requires %d arguments (%s), got %d",
			fn, len(names), strings.Join(names, " "), len(pos))
	}
	out := make([]int, len(pos))
	for i, p := range pos {
		n, err := toInt(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fn, names[i], err)
		}
		out[i] = n
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Request values
// ---------------------------------------------------------------------------

// sexpSpec wraps a brick.Spec so a builtin's result prints sensibly at the
// REPL and can be bound with def.
type sexpSpec struct {
	spec brick.Spec
}

func (s *sexpSpec) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %s)", s.spec.Family(), brick.NameFor(s.spec))
}
func (s *sexpSpec) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// builtin turns keyword/positional arguments into a spec.
type builtin func(a kwArgs) (brick.Spec, error)

// registerBuiltins installs the brick builtins into env. Every call appends
// its request to script in evaluation order. Specs are not validated here;
// invalid requests reach the batch runner, which skips them.
//
// Source must be preprocessed with preprocessSource so that :keyword tokens
// arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, script *Script) {
	add := func(name string, fn builtin) {
		env.AddFunction(name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			spec, err := fn(parseArgs(args))
			if err != nil {
				return zygo.SexpNull, err
			}
			script.Requests = append(script.Requests, spec)
			return &sexpSpec{spec: spec}, nil
		})
	}

	// (brick 2 4 3)
	add("brick", func(a kwArgs) (brick.Spec, error) {
		if k, ok := a.unknownKeyword(); ok {
			return nil, fmt.Errorf("brick: unknown keyword :%s", k)
		}
		n, err := ints("brick", a.positional, "x", "y", "z")
		if err != nil {
			return nil, err
		}
		return brick.Regular{StudsX: n[0], StudsY: n[1], PlateZ: n[2]}, nil
	})

	// (bigbrick 2 4 3 :label "A")
	add("bigbrick", func(a kwArgs) (brick.Spec, error) {
		if k, ok := a.unknownKeyword("label"); ok {
			return nil, fmt.Errorf("bigbrick: unknown keyword :%s", k)
		}
		n, err := ints("bigbrick", a.positional, "x", "y", "z")
		if err != nil {
			return nil, err
		}
		b := brick.Big{StudsX: n[0], StudsY: n[1], PlateZ: n[2]}
		if v, ok := a.kw["label"]; ok {
			if b.Label, err = toString(v); err != nil {
				return nil, fmt.Errorf("bigbrick: label: %w", err)
			}
		}
		return b, nil
	})

	// (corner 9 1 4 1 1)
	add("corner", func(a kwArgs) (brick.Spec, error) {
		if k, ok := a.unknownKeyword(); ok {
			return nil, fmt.Errorf("corner: unknown keyword :%s", k)
		}
		n, err := ints("corner", a.positional, "left-length", "left-width", "bottom-length", "bottom-height", "z")
		if err != nil {
			return nil, err
		}
		return brick.Corner{LeftLength: n[0], LeftWidth: n[1], BottomLength: n[2], BottomHeight: n[3], PlateZ: n[4]}, nil
	})

	// (holed 1 1 3 3 3)
	add("holed", func(a kwArgs) (brick.Spec, error) {
		if k, ok := a.unknownKeyword(); ok {
			return nil, fmt.Errorf("holed: unknown keyword :%s", k)
		}
		n, err := ints("holed", a.positional, "side-x", "side-y", "hole-x", "hole-y", "z")
		if err != nil {
			return nil, err
		}
		return brick.Holed{SideX: n[0], SideY: n[1], HoleX: n[2], HoleY: n[3], PlateZ: n[4]}, nil
	})

	// (pocket 10 16 9 3 :inner-studs true)
	add("pocket", func(a kwArgs) (brick.Spec, error) {
		if k, ok := a.unknownKeyword("inner-studs"); ok {
			return nil, fmt.Errorf("pocket: unknown keyword :%s", k)
		}
		n, err := ints("pocket", a.positional, "x", "y", "inner", "floor")
		if err != nil {
			return nil, err
		}
		p := brick.Pocket{StudsX: n[0], StudsY: n[1], InnerPlates: n[2], FloorPlates: n[3]}
		if v, ok := a.kw["inner-studs"]; ok {
			if p.InnerStuds, err = toBool(v); err != nil {
				return nil, fmt.Errorf("pocket: inner-studs: %w", err)
			}
		}
		return p, nil
	})

	// (slope 2 2 3 1)
	add("slope", func(a kwArgs) (brick.Spec, error) {
		if k, ok := a.unknownKeyword(); ok {
			return nil, fmt.Errorf("slope: unknown keyword :%s", k)
		}
		n, err := ints("slope", a.positional, "x", "y", "z", "top")
		if err != nil {
			return nil, err
		}
		return brick.Slope{StudsX: n[0], StudsY: n[1], PlateZ: n[2], TopStuds: n[3]}, nil
	})

	// (brick-series 2 8 3), registered as brick_series after preprocessing.
	env.AddFunction("brick_series", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		n, err := ints("brick-series", args, "x", "y-max", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		specs := build.Series(n[0], n[1], n[2])
		script.Requests = append(script.Requests, specs...)
		return &zygo.SexpInt{Val: int64(len(specs))}, nil
	})
}
