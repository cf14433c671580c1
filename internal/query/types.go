// Package query defines the backend query: the compiled, executable form of
// a condition tree handed to a term-oriented search engine.
//
// Query is a sealed interface. Backends (the reference indexes under
// internal/search, or an external engine) type switch over the eight
// variants below. Values are immutable once built and safe to share across
// goroutines.
//
// Two conventions matter to every backend:
//   - a nil Query means "no constraint" (nothing contributed);
//   - a Boolean with no clauses matches nothing.
package query

import "fmt"

// Query is a compiled backend query node.
//
// This is a sealed interface - only types in this package implement it.
type Query interface {
	queryNode() // Marker method - seals interface to this package
}

// Term matches documents whose field contains exactly Value.
type Term struct {
	Field string
	Value string
}

func (Term) queryNode() {}

// Phrase matches documents whose field contains Terms at consecutive
// positions, in order.
type Phrase struct {
	Field string
	Terms []string
}

func (Phrase) queryNode() {}

// Prefix matches documents with a term in Field starting with Value.
type Prefix struct {
	Field string
	Value string
}

func (Prefix) queryNode() {}

// Wildcard matches terms against Pattern, where * is any run of
// characters and ? exactly one character.
type Wildcard struct {
	Field   string
	Pattern string
}

func (Wildcard) queryNode() {}

// Fuzzy matches terms within MaxEdits Levenshtein edits of Value.
// MaxEdits of zero means the backend default.
type Fuzzy struct {
	Field    string
	Value    string
	MaxEdits int
}

func (Fuzzy) queryNode() {}

// Range matches terms between Lower and Upper under byte-wise string
// comparison. An empty bound is open (unbounded on that side).
type Range struct {
	Field        string
	Lower        string
	Upper        string
	IncludeLower bool
	IncludeUpper bool
}

func (Range) queryNode() {}

// Occur is how a Boolean clause contributes to a match.
type Occur int

const (
	// Must clauses are required.
	Must Occur = iota
	// Should clauses are optional; with no Must clause at least one matches.
	Should
	// MustNot clauses are prohibited.
	MustNot
)

func (o Occur) String() string {
	switch o {
	case Must:
		return "MUST"
	case Should:
		return "SHOULD"
	case MustNot:
		return "MUST_NOT"
	default:
		return fmt.Sprintf("Occur(%d)", int(o))
	}
}

// Clause is one child of a Boolean.
type Clause struct {
	Query Query
	Occur Occur
}

// Boolean combines clauses. An empty Boolean matches nothing.
type Boolean struct {
	Clauses []Clause
}

func (Boolean) queryNode() {}

// Add returns a copy of b with an extra clause appended.
func (b Boolean) Add(q Query, occur Occur) Boolean {
	clauses := make([]Clause, len(b.Clauses), len(b.Clauses)+1)
	copy(clauses, b.Clauses)
	return Boolean{Clauses: append(clauses, Clause{Query: q, Occur: occur})}
}

// RawPassthrough carries backend-native query text supplied by an advanced
// caller. Parsed is the same text parsed by the native grammar; backends
// that cannot interpret Text directly execute Parsed.
type RawPassthrough struct {
	Text   string
	Parsed Query
}

func (RawPassthrough) queryNode() {}

// MustAll builds a Boolean whose clauses are all required.
func MustAll(qs ...Query) Boolean {
	return combine(Must, qs)
}

// ShouldAny builds a Boolean whose clauses are all optional.
func ShouldAny(qs ...Query) Boolean {
	return combine(Should, qs)
}

// MustNone builds a Boolean whose clauses are all prohibited.
func MustNone(qs ...Query) Boolean {
	return combine(MustNot, qs)
}

func combine(occur Occur, qs []Query) Boolean {
	clauses := make([]Clause, len(qs))
	for i, q := range qs {
		clauses[i] = Clause{Query: q, Occur: occur}
	}
	return Boolean{Clauses: clauses}
}
