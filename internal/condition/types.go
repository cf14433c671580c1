package condition

import (
	"fmt"
	"strings"
)

// Node is a condition tree node: a Condition leaf or a Group combinator.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	conditionNode() // Marker method - seals interface to this package
}

// Operator is the comparison applied by a Condition.
type Operator string

const (
	Contains Operator = "contains"
	Like     Operator = "like"
	Phrase   Operator = "phrase"
	Eq       Operator = "eq"
	Neq      Operator = "neq"
	Lt       Operator = "lt"
	Lte      Operator = "lte"
	Gt       Operator = "gt"
	Gte      Operator = "gte"
	Fuzzy    Operator = "fuzzy"
	Range    Operator = "range"
	Raw      Operator = "rawPassthrough"
)

// Operators lists every operator in declaration order.
var Operators = []Operator{Contains, Like, Phrase, Eq, Neq, Lt, Lte, Gt, Gte, Fuzzy, Range, Raw}

// operatorAliases maps the symbolic spellings accepted in documents.
var operatorAliases = map[string]Operator{
	"=":   Eq,
	"==":  Eq,
	"!=":  Neq,
	"<>":  Neq,
	"<":   Lt,
	"<=":  Lte,
	">":   Gt,
	">=":  Gte,
	"~":   Fuzzy,
	"raw": Raw,
}

// ParseOperator maps a document spelling onto an Operator.
// Names are matched case-insensitively; symbolic aliases such as ">=" are
// accepted.
func ParseOperator(s string) (Operator, error) {
	s = strings.TrimSpace(s)
	if op, ok := operatorAliases[s]; ok {
		return op, nil
	}
	for _, op := range Operators {
		if strings.EqualFold(s, string(op)) {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

// IsComparison reports whether the operator is one of lt, lte, gt, gte.
func (o Operator) IsComparison() bool {
	switch o {
	case Lt, Lte, Gt, Gte:
		return true
	}
	return false
}

// Condition is a single typed field comparison.
//
// Example:
//
//	Condition{Field: "year", Operator: Gte, Value: "1999"}
type Condition struct {
	Field    string
	Operator Operator
	Value    string
}

func (Condition) conditionNode() {}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %q", c.Field, c.Operator, c.Value)
}

// Combinator is the boolean connective of a Group.
type Combinator string

const (
	AndOp Combinator = "and"
	OrOp  Combinator = "or"
	NotOp Combinator = "not"
)

// Valid reports whether c is one of and, or, not.
func (c Combinator) Valid() bool {
	return c == AndOp || c == OrOp || c == NotOp
}

// Group combines child nodes.
//
// Semantics:
//   - and: every child required
//   - or:  children optional, at least one expected
//   - not: every child prohibited
//
// Children keep document order.
type Group struct {
	Op       Combinator
	Children []Node
}

func (Group) conditionNode() {}

// Cond builds a Condition leaf.
func Cond(field string, op Operator, value string) Condition {
	return Condition{Field: field, Operator: op, Value: value}
}

// And builds an and-group.
func And(children ...Node) Group {
	return Group{Op: AndOp, Children: children}
}

// Or builds an or-group.
func Or(children ...Node) Group {
	return Group{Op: OrOp, Children: children}
}

// Not builds a not-group.
func Not(children ...Node) Group {
	return Group{Op: NotOp, Children: children}
}
