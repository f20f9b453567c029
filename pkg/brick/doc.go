// Package brick holds the parametric description of interlocking bricks:
// the per-family constants (Scale), the immutable parameter tuples for
// each shape family (Spec), their canonical names and the per-run
// registry that maps names back to parameters.
//
// Nothing in this package builds geometry; see package build for the
// hull, feature and assembly stages.
package brick
