package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_Leaves(t *testing.T) {
	testCases := []struct {
		name  string
		query Query
		want  string
	}{
		{"term", Term{Field: "title", Value: "river"}, "title:river"},
		{"term needs escaping", Term{Field: "code", Value: "a:b"}, `code:a\:b`},
		{"keyword term", Term{Field: "title", Value: "AND"}, `title:\AND`},
		{"phrase", Phrase{Field: "title", Terms: []string{"quick", "fox"}}, `title:"quick fox"`},
		{"prefix", Prefix{Field: "title", Value: "riv"}, "title:riv*"},
		{"wildcard keeps pattern", Wildcard{Field: "title", Pattern: "r?v*r"}, "title:r?v*r"},
		{"fuzzy default", Fuzzy{Field: "title", Value: "rivr"}, "title:rivr~"},
		{"fuzzy edits", Fuzzy{Field: "title", Value: "rivr", MaxEdits: 1}, "title:rivr~1"},
		{"range inclusive", Range{Field: "year", Lower: "10", Upper: "20", IncludeLower: true, IncludeUpper: true}, "year:[10 TO 20]"},
		{"range exclusive open", Range{Field: "d", Lower: "2001", IncludeLower: false}, "d:{2001 TO *}"},
		{"raw", RawPassthrough{Text: `title:river AND year:1999`}, `(title:river AND year:1999)`},
		{"nil", nil, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, String(tc.query))
		})
	}
}

func TestString_Boolean(t *testing.T) {
	q := Boolean{Clauses: []Clause{
		{Query: Term{Field: "title", Value: "river"}, Occur: Must},
		{Query: ShouldAny(Term{Field: "a", Value: "1"}, Term{Field: "b", Value: "2"}), Occur: Must},
		{Query: Term{Field: "status", Value: "draft"}, Occur: MustNot},
	}}

	assert.Equal(t, "+title:river +(a:1 b:2) -status:draft", String(q))
}

func TestString_EmptyBoolean(t *testing.T) {
	assert.Equal(t, "()", String(Boolean{}))
	assert.Equal(t, "+a:1 +()", String(MustAll(Term{Field: "a", Value: "1"}, Boolean{})))
}

func TestBoolean_AddCopies(t *testing.T) {
	base := MustAll(Term{Field: "a", Value: "1"})
	extended := base.Add(Term{Field: "b", Value: "2"}, MustNot)

	assert.Len(t, base.Clauses, 1)
	assert.Len(t, extended.Clauses, 2)
	assert.Equal(t, MustNot, extended.Clauses[1].Occur)
}

func TestOccur_String(t *testing.T) {
	assert.Equal(t, "MUST", Must.String())
	assert.Equal(t, "SHOULD", Should.String())
	assert.Equal(t, "MUST_NOT", MustNot.String())
	assert.Equal(t, "Occur(9)", Occur(9).String())
}
