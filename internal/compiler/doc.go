// Package compiler turns a condition tree into a backend query.
//
// ARCHITECTURE:
//
//	[condition.Node] → Compiler → [query.Query] → search engine
//	                      │
//	                      ├── field.Registry   (field name → data type)
//	                      ├── analysis.Cache   (field → analyzer)
//	                      └── Dialect          (numeric/temporal encoding)
//
// All three collaborators are built once and injected; a Compiler holds no
// mutable state, so Compile may be called from any number of goroutines.
//
// COMBINATORS:
//
// A Group compiles to a query.Boolean:
//   - and: children compiled as required, occurrence MUST
//   - or:  children compiled as optional, occurrence SHOULD
//   - not: children compiled as optional, occurrence MUST_NOT
//
// The root is compiled as required. A child that contributes nothing is
// dropped; a group whose children all drop contributes nothing itself. If
// the whole tree contributes nothing, Compile returns an empty Boolean,
// which matches no documents.
//
// LEAVES:
//
// Leaves dispatch on (data type, operator) through a fixed table. A pair
// that is not in the table is UNSUPPORTED_OPERATOR. Numeric and temporal
// comparisons are delegated to the Dialect:
//   - Modern: zero-padded offset strings and string ranges
//   - Legacy: fixed-length bit strings, inequalities decomposed into
//     wildcard terms
//
// ERRORS:
//
// Leaf failures (unknown field, unsupported operator, encoding domain,
// malformed raw query, invalid value) degrade the leaf to "no contribution"
// and log a warning; siblings keep compiling. A structurally invalid tree
// is returned as an error. With Options.Strict the first leaf failure is
// returned instead.
package compiler
