// Package build turns brick specs into pure build trees. The hull,
// feature placement and assembly stages are generic over brick.Spec; each
// family contributes only its lattice, inclusion predicates and hull
// recipe. No geometry kernel is involved until the tree is realized by
// package tessellate.
package build
