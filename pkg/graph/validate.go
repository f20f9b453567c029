package graph

import (
	"fmt"
	"strconv"
)

// ValidationSeverity indicates whether a validation finding blocks
// realization or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks realization
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Path     string             // child-index path from the root, "" for the root itself
	Name     string             // name of the offending node, if any
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	loc := "root"
	if e.Path != "" {
		loc = e.Path
	}
	if e.Name != "" {
		loc = fmt.Sprintf("%s (%s)", loc, e.Name)
	}
	return fmt.Sprintf("[%s] node %s: %s", e.Severity, loc, e.Message)
}

// ValidationResult bundles errors (blocking) and warnings (advisory)
// from all validation tiers.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err returns the first blocking error, or nil.
func (r ValidationResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	if len(r.Errors) == 1 {
		return r.Errors[0]
	}
	return fmt.Errorf("%w (and %d more)", r.Errors[0], len(r.Errors)-1)
}

// Validate runs the structural checks (tier 1) and the geometric checks
// (tier 2) over the tree rooted at root. It never mutates the tree.
func Validate(root *Node) ValidationResult {
	var result ValidationResult
	if root == nil {
		result.Errors = append(result.Errors, ValidationError{
			Message:  "tree is empty",
			Severity: SeverityError,
		})
		return result
	}

	visit(root, "", func(n *Node, path string) {
		for _, f := range validateStructure(n, path) {
			result.add(f)
		}
		for _, f := range validateGeometry(n, path) {
			result.add(f)
		}
	})
	return result
}

func (r *ValidationResult) add(f ValidationError) {
	if f.Severity == SeverityWarning {
		r.Warnings = append(r.Warnings, f)
		return
	}
	r.Errors = append(r.Errors, f)
}

// visit walks the tree carrying the child-index path of each node.
func visit(n *Node, path string, fn func(*Node, string)) {
	fn(n, path)
	for i, c := range n.Children {
		if c == nil {
			continue
		}
		visit(c, childPath(path, i), fn)
	}
}

func childPath(parent string, i int) string {
	if parent == "" {
		return strconv.Itoa(i)
	}
	return parent + "/" + strconv.Itoa(i)
}

// ---------------------------------------------------------------------------
// Tier 1: structural validation
// ---------------------------------------------------------------------------

// validateStructure checks arity and payload presence for one node.
func validateStructure(n *Node, path string) []ValidationError {
	var errs []ValidationError
	fail := func(format string, args ...any) {
		errs = append(errs, ValidationError{
			Path:     path,
			Name:     n.Name,
			Message:  fmt.Sprintf(format, args...),
			Severity: SeverityError,
		})
	}

	switch {
	case n.Kind == NodePrimitive:
		if len(n.Children) != 0 {
			fail("primitive has %d children, want 0", len(n.Children))
		}
		if n.Data == nil {
			fail("primitive has no data")
		}
	case n.Kind.IsBoolean():
		if len(n.Children) != 2 {
			fail("%s has %d children, want exactly 2", n.Kind, len(n.Children))
		}
		for i, c := range n.Children {
			if c == nil {
				fail("%s child %d is nil", n.Kind, i)
			}
		}
		if n.Data != nil {
			fail("%s carries primitive data %T", n.Kind, n.Data)
		}
	default:
		fail("unknown node kind %d", int(n.Kind))
	}
	return errs
}
