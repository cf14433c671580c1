// Package search holds the contract between compiled queries and the
// indexes that execute them.
//
// An Engine executes a query.Query and returns matching document IDs in
// ascending order. The Indexer turns documents into postings using the same
// analyzer cache and dialect as the compiler, so a query compiled against a
// registry matches what was indexed against it. Two engines are bundled:
// memindex (roaring bitmaps, in memory) and sqlindex (SQLite).
//
// Every engine follows the same Boolean semantics:
//   - MUST clauses intersect;
//   - SHOULD clauses union, and only restrict the result when there is no
//     MUST clause;
//   - MUST_NOT clauses subtract;
//   - a Boolean with only MUST_NOT clauses matches every document minus the
//     prohibited ones;
//   - an empty Boolean matches nothing;
//   - a nil query matches every document.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/condex/internal/analysis"
	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/query"
)

// DocID identifies a document within one index.
type DocID = uint32

// DefaultMaxEdits is used for Fuzzy queries whose MaxEdits is zero.
const DefaultMaxEdits = 2

// Document is one record to index: raw field values keyed by field name.
type Document struct {
	ID     DocID
	Fields map[string]string
}

// Posting is one indexed term occurrence.
type Posting struct {
	Field    string
	Term     string
	Doc      DocID
	Position int
}

// Engine executes compiled queries.
type Engine interface {
	Execute(ctx context.Context, q query.Query) ([]DocID, error)
}

// Indexer turns documents into postings.
type Indexer struct {
	registry  *field.Registry
	analyzers *analysis.Cache
	dialect   compiler.Dialect
}

// NewIndexer builds an indexer that matches queries compiled by c.
func NewIndexer(c *compiler.Compiler) *Indexer {
	return &Indexer{
		registry:  c.Registry(),
		analyzers: c.Analyzers(),
		dialect:   c.Dialect(),
	}
}

// Dialect returns the dialect index terms are encoded with.
func (ix *Indexer) Dialect() compiler.Dialect { return ix.dialect }

// Postings analyzes every field of doc. Empty values are skipped, as are
// fields whose type has no index term in the dialect (legacy time). Field
// names must be registered.
func (ix *Indexer) Postings(doc Document) ([]Posting, error) {
	for name := range doc.Fields {
		if _, err := ix.registry.Resolve(name); err != nil {
			return nil, fmt.Errorf("index document %d: %w", doc.ID, err)
		}
	}
	var out []Posting
	for _, name := range ix.registry.Names() {
		value, ok := doc.Fields[name]
		if !ok || value == "" {
			continue
		}
		def, err := ix.registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		postings, err := ix.field(doc.ID, def, value)
		if err != nil {
			return nil, fmt.Errorf("index document %d field %q: %w", doc.ID, name, err)
		}
		out = append(out, postings...)
	}
	return out, nil
}

func (ix *Indexer) field(id DocID, def field.Def, value string) ([]Posting, error) {
	switch {
	case def.Type == field.Text || def.Type == field.Identifier:
		var out []Posting
		stream := ix.analyzers.Tokenize(def.Name, value)
		for {
			tok, ok := stream.Next()
			if !ok {
				return out, nil
			}
			out = append(out, Posting{Field: def.Name, Term: tok.Term, Doc: id, Position: tok.Position})
		}
	case def.Type == field.Boolean:
		return []Posting{{Field: def.Name, Term: compiler.BooleanTerm(value), Doc: id}}, nil
	default:
		term, err := ix.dialect.IndexTerm(def, value)
		if errors.Is(err, compiler.ErrUnsupported) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return []Posting{{Field: def.Name, Term: term, Doc: id}}, nil
	}
}
