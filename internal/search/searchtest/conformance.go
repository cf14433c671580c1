// Package searchtest runs one conformance suite against every
// search.Engine, so the bundled indexes agree on what a compiled query
// matches.
package searchtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/query"
	"github.com/roach88/condex/internal/search"
	"github.com/roach88/condex/internal/testutil"
)

// Factory builds an engine holding docs, indexed by indexer.
type Factory func(t *testing.T, indexer *search.Indexer, docs []search.Document) search.Engine

// Documents converts the fixture corpus.
func Documents() []search.Document {
	books := testutil.Books()
	out := make([]search.Document, len(books))
	for i, b := range books {
		out[i] = search.Document{ID: b.ID, Fields: b.Fields}
	}
	return out
}

// Case is one compiled condition and the documents it must match.
type Case struct {
	Name string
	Node condition.Node
	Want []search.DocID
}

// ModernCases run against the modern dialect.
var ModernCases = []Case{
	{"contains", condition.Cond("title", condition.Contains, "river"), []search.DocID{1, 3}},
	{"contains folds accents", condition.Cond("title", condition.Contains, "CAFE"), []search.DocID{4}},
	{"contains several terms", condition.Cond("title", condition.Contains, "river old"), []search.DocID{1}},
	{"and", condition.And(
		condition.Cond("title", condition.Contains, "river"),
		condition.Cond("year", condition.Gt, "1990"),
	), []search.DocID{1}},
	{"or", condition.Or(
		condition.Cond("code", condition.Eq, "XX-104"),
		condition.Cond("price", condition.Lt, "1"),
	), []search.DocID{4}},
	{"not at root", condition.Not(condition.Cond("active", condition.Eq, "true")), []search.DocID{2, 5}},
	{"and not", condition.And(
		condition.Cond("active", condition.Eq, "TRUE"),
		condition.Not(condition.Cond("title", condition.Contains, "crossing")),
	), []search.DocID{1, 4}},
	{"phrase", condition.Cond("body", condition.Phrase, "quick brown fox"), []search.DocID{2}},
	{"phrase out of order", condition.Cond("body", condition.Phrase, "brown quick"), nil},
	{"text eq is phrase", condition.Cond("title", condition.Eq, "old man"), []search.DocID{1}},
	{"prefix", condition.Cond("title", condition.Like, "Riv*"), []search.DocID{1, 3}},
	{"identifier wildcard", condition.Cond("code", condition.Like, "BK-00?"), []search.DocID{1, 2, 3, 5}},
	{"identifier eq", condition.Cond("code", condition.Eq, "BK-003"), []search.DocID{3}},
	{"fuzzy", condition.Cond("title", condition.Fuzzy, "rivr"), []search.DocID{1, 3}},
	{"text range", condition.Cond("title", condition.Range, "a c"), []search.DocID{2, 5}},
	{"integer gte", condition.Cond("year", condition.Gte, "2005"), []search.DocID{2, 4}},
	{"integer lt", condition.Cond("year", condition.Lt, "1987"), []search.DocID{5}},
	{"integer lte", condition.Cond("year", condition.Lte, "1987"), []search.DocID{3, 5}},
	{"decimal eq", condition.Cond("price", condition.Eq, "9.990"), []search.DocID{1}},
	{"decimal gt", condition.Cond("price", condition.Gt, "9.98"), []search.DocID{1, 2, 5}},
	{"decimal lt finer than scale", condition.Cond("price", condition.Lt, "9.98999"), []search.DocID{3, 4}},
	{"decimal gte finer than scale", condition.Cond("price", condition.Gte, "9.98001"), []search.DocID{1, 2, 5}},
	{"integer gt domain max", condition.And(
		condition.Cond("year", condition.Gte, "1990"),
		condition.Cond("year", condition.Gt, "9999999999"),
	), nil},
	{"integer lt domain min", condition.Cond("year", condition.Lt, "-10000000000"), nil},
	{"decimal gt domain max", condition.Or(
		condition.Cond("price", condition.Gt, "9999999999.9999"),
		condition.Cond("code", condition.Eq, "BK-003"),
	), []search.DocID{3}},
	{"date gte", condition.Cond("published", condition.Gte, "2000-01-01"), []search.DocID{2, 4}},
	{"date lt", condition.Cond("published", condition.Lt, "1987-02-14"), []search.DocID{5}},
	{"time lte", condition.Cond("opens", condition.Lte, "09:00"), []search.DocID{1, 3, 4}},
	{"timestamp gt", condition.Cond("updated", condition.Gt, "2021"), []search.DocID{2, 4}},
	{"raw", condition.Cond("title", condition.Raw, "river AND NOT crossing"), []search.DocID{1}},
	{"raw other field", condition.Cond("title", condition.Raw, "body:dawn OR body:city"), []search.DocID{3, 5}},
	{"degraded leaf is dropped", condition.And(
		condition.Cond("title", condition.Contains, "river"),
		condition.Cond("nosuch", condition.Eq, "x"),
	), []search.DocID{1, 3}},
	{"nothing contributes", condition.Cond("nosuch", condition.Eq, "x"), nil},
}

// LegacyCases run against the legacy dialect.
var LegacyCases = []Case{
	{"integer gt", condition.Cond("year", condition.Gt, "1990"), []search.DocID{1, 2, 4}},
	{"integer gte zero", condition.Cond("year", condition.Gte, "0"), []search.DocID{1, 2, 3, 4, 5}},
	{"integer lt zero", condition.Cond("year", condition.Lt, "0"), nil},
	{"integer eq", condition.Cond("year", condition.Eq, "1987"), []search.DocID{3}},
	{"decimal gte", condition.Cond("price", condition.Gte, "9.99"), []search.DocID{1, 2, 5}},
	{"decimal lt", condition.Cond("price", condition.Lt, "9.99"), []search.DocID{3, 4}},
	{"date before common era", condition.Cond("published", condition.Lt, "1000-01-01"), []search.DocID{5}},
	{"date lte", condition.Cond("published", condition.Lte, "1999-05-01"), []search.DocID{1, 3, 5}},
	{"timestamp uses date", condition.Cond("updated", condition.Gte, "2021-06-15T00:00:00Z"), []search.DocID{2, 4}},
	{"time is not indexed", condition.Cond("opens", condition.Eq, "09:00"), nil},
	{"text is dialect independent", condition.Cond("title", condition.Contains, "river"), []search.DocID{1, 3}},
}

// Run builds one engine per dialect over the fixture corpus and checks
// every case.
func Run(t *testing.T, build Factory) {
	t.Run("modern", func(t *testing.T) {
		runCases(t, build, compiler.DialectConfig{Name: compiler.DialectModern}, ModernCases)
	})
	t.Run("legacy", func(t *testing.T) {
		runCases(t, build, compiler.DialectConfig{Name: compiler.DialectLegacy}, LegacyCases)
	})
	t.Run("query shapes", func(t *testing.T) {
		runShapes(t, build)
	})
}

func newCompiler(t *testing.T, cfg compiler.DialectConfig) *compiler.Compiler {
	t.Helper()
	d, err := compiler.NewDialect(cfg)
	require.NoError(t, err)
	c, err := compiler.New(compiler.Options{
		Registry: testutil.Registry(),
		Dialect:  d,
		NewID:    testutil.FixedID(""),
	})
	require.NoError(t, err)
	return c
}

func runCases(t *testing.T, build Factory, cfg compiler.DialectConfig, cases []Case) {
	c := newCompiler(t, cfg)
	engine := build(t, search.NewIndexer(c), Documents())
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			q, err := c.Compile(tc.Node)
			require.NoError(t, err)
			got, err := engine.Execute(context.Background(), q)
			require.NoError(t, err)
			assertHits(t, tc.Want, got, query.String(q))
		})
	}
}

// runShapes executes hand-built queries whose semantics the compiler never
// produces on its own.
func runShapes(t *testing.T, build Factory) {
	c := newCompiler(t, compiler.DialectConfig{})
	engine := build(t, search.NewIndexer(c), Documents())
	river := query.Term{Field: "title", Value: "river"}
	old := query.Term{Field: "title", Value: "old"}

	tests := []struct {
		name string
		q    query.Query
		want []search.DocID
	}{
		{"nil matches all", nil, []search.DocID{1, 2, 3, 4, 5}},
		{"empty boolean matches nothing", query.Boolean{}, nil},
		{"should ignored beside must", query.Boolean{Clauses: []query.Clause{
			{Query: river, Occur: query.Must},
			{Query: query.Term{Field: "title", Value: "fox"}, Occur: query.Should},
		}}, []search.DocID{1, 3}},
		{"must not only", query.MustNone(river), []search.DocID{2, 4, 5}},
		{"should minus must not", query.Boolean{Clauses: []query.Clause{
			{Query: river, Occur: query.Should},
			{Query: old, Occur: query.MustNot},
		}}, []search.DocID{3}},
		{"pointer nodes", &query.Boolean{Clauses: []query.Clause{
			{Query: &river, Occur: query.Must},
		}}, []search.DocID{1, 3}},
		{"unknown field", query.Term{Field: "nosuch", Value: "x"}, nil},
		{"open lower range", query.Range{Field: "title", Upper: "b", IncludeUpper: true}, []search.DocID{5}},
		{"exclusive bounds", query.Range{Field: "title", Lower: "old", Upper: "river"}, []search.DocID{2}},
		{"wildcard star", query.Wildcard{Field: "title", Pattern: "*o*e*"}, []search.DocID{4, 5}},
		{"fuzzy max edits", query.Fuzzy{Field: "title", Value: "rivxx", MaxEdits: 1}, nil},
		{"single term phrase", query.Phrase{Field: "body", Terms: []string{"dawn"}}, []search.DocID{3}},
		{"raw passthrough", query.RawPassthrough{Text: "title:fox", Parsed: query.Term{Field: "title", Value: "fox"}}, []search.DocID{2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Execute(context.Background(), tt.q)
			require.NoError(t, err)
			assertHits(t, tt.want, got, tt.name)
		})
	}

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := engine.Execute(ctx, river)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func assertHits(t *testing.T, want, got []search.DocID, msg string) {
	t.Helper()
	if len(want) == 0 {
		assert.Empty(t, got, msg)
		return
	}
	assert.Equal(t, want, got, msg)
}
