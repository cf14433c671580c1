// Package memindex is an in-memory search.Engine over roaring bitmap
// postings.
//
// Each field keeps a postings bitmap per term, per-document term positions
// for phrase matching, and a sorted term dictionary for prefix, wildcard,
// fuzzy and range expansion. The dictionary is re-sorted lazily on the
// first query after an Add.
package memindex

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/roach88/condex/internal/query"
	"github.com/roach88/condex/internal/search"
)

type fieldIndex struct {
	postings  map[string]*roaring.Bitmap
	positions map[string]map[search.DocID][]int
	terms     []string
	sorted    bool
}

func newFieldIndex() *fieldIndex {
	return &fieldIndex{
		postings:  make(map[string]*roaring.Bitmap),
		positions: make(map[string]map[search.DocID][]int),
		sorted:    true,
	}
}

func (f *fieldIndex) add(p search.Posting) {
	bm, ok := f.postings[p.Term]
	if !ok {
		bm = roaring.New()
		f.postings[p.Term] = bm
		f.positions[p.Term] = make(map[search.DocID][]int)
		f.terms = append(f.terms, p.Term)
		f.sorted = false
	}
	bm.Add(p.Doc)
	f.positions[p.Term][p.Doc] = append(f.positions[p.Term][p.Doc], p.Position)
}

func (f *fieldIndex) dictionary() []string {
	if !f.sorted {
		sort.Strings(f.terms)
		f.sorted = true
	}
	return f.terms
}

// Index is an in-memory index. It is safe for concurrent use.
type Index struct {
	indexer *search.Indexer

	mu     sync.RWMutex
	all    *roaring.Bitmap
	fields map[string]*fieldIndex
}

// New returns an empty index whose documents are analyzed by indexer.
func New(indexer *search.Indexer) *Index {
	return &Index{
		indexer: indexer,
		all:     roaring.New(),
		fields:  make(map[string]*fieldIndex),
	}
}

// Add indexes docs. A document ID already present is rejected; nothing from
// the failing call is indexed.
func (x *Index) Add(docs ...search.Document) error {
	var postings []search.Posting
	for _, doc := range docs {
		p, err := x.indexer.Postings(doc)
		if err != nil {
			return err
		}
		postings = append(postings, p...)
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	seen := roaring.New()
	for _, doc := range docs {
		if x.all.Contains(doc.ID) || seen.Contains(doc.ID) {
			return fmt.Errorf("memindex: document %d already indexed", doc.ID)
		}
		seen.Add(doc.ID)
	}
	x.all.Or(seen)
	for _, p := range postings {
		f, ok := x.fields[p.Field]
		if !ok {
			f = newFieldIndex()
			x.fields[p.Field] = f
		}
		f.add(p)
	}
	return nil
}

// Len returns the number of indexed documents.
func (x *Index) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return int(x.all.GetCardinality())
}

// Terms returns the sorted term dictionary of a field.
func (x *Index) Terms(field string) []string {
	x.mu.Lock()
	defer x.mu.Unlock()
	f, ok := x.fields[field]
	if !ok {
		return nil
	}
	return append([]string(nil), f.dictionary()...)
}

// Execute implements search.Engine.
func (x *Index) Execute(ctx context.Context, q query.Query) ([]search.DocID, error) {
	// evaluation may sort a field dictionary
	x.mu.Lock()
	defer x.mu.Unlock()
	bm, err := x.eval(ctx, q)
	if err != nil {
		return nil, err
	}
	return bm.ToArray(), nil
}

func (x *Index) eval(ctx context.Context, q query.Query) (*roaring.Bitmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch node := q.(type) {
	case nil:
		return x.all.Clone(), nil
	case query.Term:
		return x.term(node.Field, node.Value), nil
	case *query.Term:
		return x.term(node.Field, node.Value), nil
	case query.Phrase:
		return x.phrase(node), nil
	case *query.Phrase:
		return x.phrase(*node), nil
	case query.Prefix:
		return x.expand(node.Field, node.Value, func(t string) bool { return strings.HasPrefix(t, node.Value) }), nil
	case *query.Prefix:
		return x.eval(ctx, *node)
	case query.Wildcard:
		return x.expand(node.Field, search.LiteralPrefix(node.Pattern), func(t string) bool {
			return search.MatchWildcard(node.Pattern, t)
		}), nil
	case *query.Wildcard:
		return x.eval(ctx, *node)
	case query.Fuzzy:
		edits := search.MaxEdits(node.MaxEdits)
		return x.expand(node.Field, "", func(t string) bool {
			return search.Levenshtein(node.Value, t) <= edits
		}), nil
	case *query.Fuzzy:
		return x.eval(ctx, *node)
	case query.Range:
		return x.rangeQuery(node), nil
	case *query.Range:
		return x.rangeQuery(*node), nil
	case query.Boolean:
		return x.boolean(ctx, node)
	case *query.Boolean:
		return x.boolean(ctx, *node)
	case query.RawPassthrough:
		return x.eval(ctx, node.Parsed)
	case *query.RawPassthrough:
		return x.eval(ctx, node.Parsed)
	default:
		return nil, fmt.Errorf("memindex: unsupported query type %T", q)
	}
}

func (x *Index) term(field, value string) *roaring.Bitmap {
	if f, ok := x.fields[field]; ok {
		if bm, ok := f.postings[value]; ok {
			return bm.Clone()
		}
	}
	return roaring.New()
}

// expand unions the postings of every term starting with prefix that
// satisfies match.
func (x *Index) expand(field, prefix string, match func(string) bool) *roaring.Bitmap {
	out := roaring.New()
	f, ok := x.fields[field]
	if !ok {
		return out
	}
	terms := f.dictionary()
	for i := sort.SearchStrings(terms, prefix); i < len(terms) && strings.HasPrefix(terms[i], prefix); i++ {
		if match(terms[i]) {
			out.Or(f.postings[terms[i]])
		}
	}
	return out
}

func (x *Index) rangeQuery(r query.Range) *roaring.Bitmap {
	out := roaring.New()
	f, ok := x.fields[r.Field]
	if !ok {
		return out
	}
	terms := f.dictionary()
	for i := sort.SearchStrings(terms, r.Lower); i < len(terms); i++ {
		t := terms[i]
		if r.Upper != "" && t > r.Upper {
			break
		}
		if search.InRange(r.Lower, r.Upper, r.IncludeLower, r.IncludeUpper, t) {
			out.Or(f.postings[t])
		}
	}
	return out
}

func (x *Index) phrase(p query.Phrase) *roaring.Bitmap {
	if len(p.Terms) == 0 {
		return roaring.New()
	}
	f, ok := x.fields[p.Field]
	if !ok {
		return roaring.New()
	}
	candidates := x.term(p.Field, p.Terms[0])
	for _, t := range p.Terms[1:] {
		candidates.And(x.term(p.Field, t))
	}
	if len(p.Terms) == 1 {
		return candidates
	}

	out := roaring.New()
	it := candidates.Iterator()
	for it.HasNext() {
		doc := it.Next()
		if phraseAt(f, p.Terms, doc) {
			out.Add(doc)
		}
	}
	return out
}

// phraseAt reports whether terms occur at consecutive positions in doc.
func phraseAt(f *fieldIndex, terms []string, doc search.DocID) bool {
	for _, start := range f.positions[terms[0]][doc] {
		matched := true
		for k, t := range terms[1:] {
			if !containsInt(f.positions[t][doc], start+k+1) {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func (x *Index) boolean(ctx context.Context, b query.Boolean) (*roaring.Bitmap, error) {
	var must, should, mustNot []*roaring.Bitmap
	for _, c := range b.Clauses {
		bm, err := x.eval(ctx, c.Query)
		if err != nil {
			return nil, err
		}
		switch c.Occur {
		case query.Must:
			must = append(must, bm)
		case query.Should:
			should = append(should, bm)
		case query.MustNot:
			mustNot = append(mustNot, bm)
		default:
			return nil, fmt.Errorf("memindex: unknown occur %v", c.Occur)
		}
	}

	var out *roaring.Bitmap
	switch {
	case len(must) > 0:
		out = must[0]
		for _, bm := range must[1:] {
			out.And(bm)
		}
	case len(should) > 0:
		out = roaring.FastOr(should...)
	case len(mustNot) > 0:
		out = x.all.Clone()
	default:
		return roaring.New(), nil
	}
	for _, bm := range mustNot {
		out.AndNot(bm)
	}
	return out, nil
}
