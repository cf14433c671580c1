package sqlindex

import (
	"context"
	"fmt"

	"github.com/roach88/condex/internal/query"
	"github.com/roach88/condex/internal/search"
)

// Index is a search.Engine over a Store.
type Index struct {
	store    *Store
	indexer  *search.Indexer
	compiler *SQLCompiler
}

// New returns an index writing to and reading from store.
func New(store *Store, indexer *search.Indexer) *Index {
	return &Index{store: store, indexer: indexer, compiler: NewSQLCompiler()}
}

// Add indexes docs in one transaction.
func (x *Index) Add(ctx context.Context, docs ...search.Document) error {
	ids := make([]search.DocID, len(docs))
	var postings []search.Posting
	for i, doc := range docs {
		p, err := x.indexer.Postings(doc)
		if err != nil {
			return err
		}
		ids[i] = doc.ID
		postings = append(postings, p...)
	}
	return x.store.WritePostings(ctx, ids, postings)
}

// Len returns the number of indexed documents.
func (x *Index) Len(ctx context.Context) (int, error) {
	return x.store.CountDocuments(ctx)
}

// Execute implements search.Engine.
func (x *Index) Execute(ctx context.Context, q query.Query) ([]search.DocID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sql, params, err := x.compiler.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("compile query: %w", err)
	}

	rows, err := x.store.DB().QueryContext(ctx, sql, params...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	var out []search.DocID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan doc: %w", err)
		}
		out = append(out, search.DocID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate docs: %w", err)
	}
	return out, nil
}
