package compiler

import (
	"strings"

	"github.com/roach88/condex/internal/analysis"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/query"
	"github.com/roach88/condex/internal/rawquery"
)

// leaf is the input to one translation rule.
type leaf struct {
	def      field.Def
	cond     condition.Condition
	required bool
}

type rule func(c *Compiler, l leaf) (query.Query, error)

type ruleKey struct {
	Type     field.DataType
	Operator condition.Operator
}

// rules is the dispatch table. Every (type, operator) pair absent from it
// is UNSUPPORTED_OPERATOR.
var rules = map[ruleKey]rule{
	{field.Text, condition.Contains}: compileContains,
	{field.Text, condition.Like}:     compileLike,
	{field.Text, condition.Phrase}:   compilePhrase,
	{field.Text, condition.Eq}:       compilePhrase,
	{field.Text, condition.Fuzzy}:    compileFuzzy,
	{field.Text, condition.Range}:    compileTextRange,
	{field.Text, condition.Raw}:      compileRaw,

	{field.Identifier, condition.Like}: compileLike,
	{field.Identifier, condition.Eq}:   compileExact,

	{field.Boolean, condition.Eq}: compileBoolean,

	{field.Date, condition.Eq}:  compileCompare,
	{field.Date, condition.Lt}:  compileCompare,
	{field.Date, condition.Lte}: compileCompare,
	{field.Date, condition.Gt}:  compileCompare,
	{field.Date, condition.Gte}: compileCompare,

	{field.Time, condition.Eq}:  compileCompare,
	{field.Time, condition.Lt}:  compileCompare,
	{field.Time, condition.Lte}: compileCompare,
	{field.Time, condition.Gt}:  compileCompare,
	{field.Time, condition.Gte}: compileCompare,

	{field.Timestamp, condition.Eq}:  compileCompare,
	{field.Timestamp, condition.Lt}:  compileCompare,
	{field.Timestamp, condition.Lte}: compileCompare,
	{field.Timestamp, condition.Gt}:  compileCompare,
	{field.Timestamp, condition.Gte}: compileCompare,

	{field.Integer, condition.Eq}:  compileCompare,
	{field.Integer, condition.Lt}:  compileCompare,
	{field.Integer, condition.Lte}: compileCompare,
	{field.Integer, condition.Gt}:  compileCompare,
	{field.Integer, condition.Gte}: compileCompare,

	{field.Decimal, condition.Eq}:  compileCompare,
	{field.Decimal, condition.Lt}:  compileCompare,
	{field.Decimal, condition.Lte}: compileCompare,
	{field.Decimal, condition.Gt}:  compileCompare,
	{field.Decimal, condition.Gte}: compileCompare,
}

// Supported reports whether (dt, op) has a translation rule.
func Supported(dt field.DataType, op condition.Operator) bool {
	_, ok := rules[ruleKey{dt, op}]
	return ok
}

func (c *Compiler) terms(l leaf) []string {
	return c.analyzers.Tokenize(l.def.Name, l.cond.Value).Terms()
}

func compileContains(c *Compiler, l leaf) (query.Query, error) {
	terms := c.terms(l)
	switch len(terms) {
	case 0:
		return nil, invalidValue("value has no terms")
	case 1:
		return query.Term{Field: l.def.Name, Value: terms[0]}, nil
	}
	occur := query.Should
	if l.required {
		occur = query.Must
	}
	out := query.Boolean{Clauses: make([]query.Clause, len(terms))}
	for i, term := range terms {
		out.Clauses[i] = query.Clause{Query: query.Term{Field: l.def.Name, Value: term}, Occur: occur}
	}
	return out, nil
}

// compileLike strips one trailing '*'. Any wildcard left makes the whole
// value a pattern; otherwise the remainder is a prefix. Text values are
// normalised the way the Standard analyzer normalises indexed terms.
func compileLike(c *Compiler, l leaf) (query.Query, error) {
	value := l.cond.Value
	if l.def.Type == field.Text {
		value = analysis.Normalize(value)
	}
	remainder := strings.TrimSuffix(value, "*")
	if strings.ContainsAny(remainder, "*?") {
		return query.Wildcard{Field: l.def.Name, Pattern: value}, nil
	}
	return query.Prefix{Field: l.def.Name, Value: remainder}, nil
}

func compilePhrase(c *Compiler, l leaf) (query.Query, error) {
	terms := c.terms(l)
	if len(terms) == 0 {
		return nil, invalidValue("value has no terms")
	}
	return query.Phrase{Field: l.def.Name, Terms: terms}, nil
}

func compileFuzzy(c *Compiler, l leaf) (query.Query, error) {
	value := analysis.Normalize(l.cond.Value)
	if value == "" {
		return nil, invalidValue("empty fuzzy value")
	}
	return query.Fuzzy{Field: l.def.Name, Value: value, MaxEdits: c.fuzzyMaxEdits}, nil
}

func compileTextRange(c *Compiler, l leaf) (query.Query, error) {
	terms := c.terms(l)
	if len(terms) != 2 {
		return nil, invalidValue("range needs exactly two terms, got %d", len(terms))
	}
	return query.Range{
		Field:        l.def.Name,
		Lower:        terms[0],
		Upper:        terms[1],
		IncludeLower: true,
		IncludeUpper: true,
	}, nil
}

func compileRaw(c *Compiler, l leaf) (query.Query, error) {
	fixed := rawquery.FixQuery(l.cond.Value)
	parsed, err := rawquery.Parse(fixed, l.def.Name)
	if err != nil {
		return nil, err
	}
	return query.RawPassthrough{Text: fixed, Parsed: parsed}, nil
}

func compileExact(_ *Compiler, l leaf) (query.Query, error) {
	return query.Term{Field: l.def.Name, Value: l.cond.Value}, nil
}

func compileBoolean(_ *Compiler, l leaf) (query.Query, error) {
	return query.Term{Field: l.def.Name, Value: BooleanTerm(l.cond.Value)}, nil
}

// BooleanTerm coerces a boolean value to its index term: "true" is "1",
// anything else "0".
func BooleanTerm(value string) string {
	if strings.EqualFold(strings.TrimSpace(value), "true") {
		return "1"
	}
	return "0"
}

func compileCompare(c *Compiler, l leaf) (query.Query, error) {
	return c.dialect.Compare(l.def, l.cond.Operator, l.cond.Value)
}
