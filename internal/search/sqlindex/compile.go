package sqlindex

import (
	"fmt"
	"strings"

	"github.com/roach88/condex/internal/query"
	"github.com/roach88/condex/internal/search"
)

// allDocs selects every stored document; noDocs selects none.
const (
	allDocs = "SELECT id AS doc FROM documents"
	noDocs  = "SELECT id AS doc FROM documents WHERE 0"
)

// SQLCompiler compiles query.Query to parameterized SQL for SQLite.
//
// CRITICAL: ALL statements end in ORDER BY doc for deterministic results.
// CRITICAL: All values are parameterized (never interpolated).
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts a query to a statement selecting distinct document IDs.
// Returns (sql, params, error) tuple. A nil query selects every document.
func (c *SQLCompiler) Compile(q query.Query) (string, []any, error) {
	set, params, err := c.compileSet(q)
	if err != nil {
		return "", nil, err
	}
	sql := fmt.Sprintf("SELECT DISTINCT doc FROM (%s) ORDER BY doc ASC", set)
	return sql, params, nil
}

// compileSet compiles q to a SELECT yielding one doc column.
func (c *SQLCompiler) compileSet(q query.Query) (string, []any, error) {
	switch node := q.(type) {
	case nil:
		return allDocs, nil, nil
	case query.Term:
		return c.compileTerm(node)
	case *query.Term:
		return c.compileTerm(*node)
	case query.Phrase:
		return c.compilePhrase(node)
	case *query.Phrase:
		return c.compilePhrase(*node)
	case query.Prefix:
		return c.compilePrefix(node)
	case *query.Prefix:
		return c.compilePrefix(*node)
	case query.Wildcard:
		return c.compileWildcard(node)
	case *query.Wildcard:
		return c.compileWildcard(*node)
	case query.Fuzzy:
		return c.compileFuzzy(node)
	case *query.Fuzzy:
		return c.compileFuzzy(*node)
	case query.Range:
		return c.compileRange(node)
	case *query.Range:
		return c.compileRange(*node)
	case query.Boolean:
		return c.compileBoolean(node)
	case *query.Boolean:
		return c.compileBoolean(*node)
	case query.RawPassthrough:
		return c.compileSet(node.Parsed)
	case *query.RawPassthrough:
		return c.compileSet(node.Parsed)
	default:
		return "", nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

// postingsWhere selects postings of field matching a term predicate.
func postingsWhere(predicate string, params ...any) (string, []any) {
	return "SELECT doc FROM postings WHERE field = ? AND " + predicate, params
}

func (c *SQLCompiler) compileTerm(t query.Term) (string, []any, error) {
	sql, params := postingsWhere("term = ?", t.Field, t.Value)
	return sql, params, nil
}

func (c *SQLCompiler) compilePrefix(p query.Prefix) (string, []any, error) {
	sql, params := postingsWhere("term GLOB ?", p.Field, globLiteral(p.Value)+"*")
	return sql, params, nil
}

func (c *SQLCompiler) compileWildcard(w query.Wildcard) (string, []any, error) {
	sql, params := postingsWhere("term GLOB ?", w.Field, globPattern(w.Pattern))
	return sql, params, nil
}

func (c *SQLCompiler) compileFuzzy(f query.Fuzzy) (string, []any, error) {
	sql, params := postingsWhere("levenshtein(?, term) <= ?", f.Field, f.Value, search.MaxEdits(f.MaxEdits))
	return sql, params, nil
}

// compileRange compares terms byte-wise. An empty bound is open.
func (c *SQLCompiler) compileRange(r query.Range) (string, []any, error) {
	preds := []string{}
	params := []any{r.Field}
	if r.Lower != "" {
		op := ">"
		if r.IncludeLower {
			op = ">="
		}
		preds = append(preds, "term COLLATE BINARY "+op+" ?")
		params = append(params, r.Lower)
	}
	if r.Upper != "" {
		op := "<"
		if r.IncludeUpper {
			op = "<="
		}
		preds = append(preds, "term COLLATE BINARY "+op+" ?")
		params = append(params, r.Upper)
	}
	if len(preds) == 0 {
		preds = append(preds, "1 = 1")
	}
	sql, _ := postingsWhere(strings.Join(preds, " AND "))
	return sql, params, nil
}

// compilePhrase self-joins postings once per term on consecutive
// positions.
func (c *SQLCompiler) compilePhrase(p query.Phrase) (string, []any, error) {
	if len(p.Terms) == 0 {
		return noDocs, nil, nil
	}
	var b strings.Builder
	b.WriteString("SELECT p0.doc AS doc FROM postings p0")
	for i := 1; i < len(p.Terms); i++ {
		fmt.Fprintf(&b, " JOIN postings p%d ON p%d.field = p0.field AND p%d.doc = p0.doc AND p%d.position = p0.position + %d",
			i, i, i, i, i)
	}
	b.WriteString(" WHERE p0.field = ?")
	params := []any{p.Field}
	for i, term := range p.Terms {
		fmt.Fprintf(&b, " AND p%d.term = ?", i)
		params = append(params, term)
	}
	return b.String(), params, nil
}

// compileBoolean builds (MUST intersected, or SHOULD unioned, or all
// documents when only MUST_NOT clauses exist) EXCEPT each MUST_NOT clause.
func (c *SQLCompiler) compileBoolean(bq query.Boolean) (string, []any, error) {
	if len(bq.Clauses) == 0 {
		return noDocs, nil, nil
	}

	var must, should, mustNot []string
	var mustParams, shouldParams, mustNotParams []any
	for _, clause := range bq.Clauses {
		sql, params, err := c.compileSet(clause.Query)
		if err != nil {
			return "", nil, err
		}
		operand := "SELECT doc FROM (" + sql + ")"
		switch clause.Occur {
		case query.Must:
			must = append(must, operand)
			mustParams = append(mustParams, params...)
		case query.Should:
			should = append(should, operand)
			shouldParams = append(shouldParams, params...)
		case query.MustNot:
			mustNot = append(mustNot, operand)
			mustNotParams = append(mustNotParams, params...)
		default:
			return "", nil, fmt.Errorf("unknown occur: %v", clause.Occur)
		}
	}

	var (
		base   string
		params []any
	)
	switch {
	case len(must) > 0:
		base, params = strings.Join(must, " INTERSECT "), mustParams
	case len(should) > 0:
		base, params = strings.Join(should, " UNION "), shouldParams
	default:
		base = allDocs
	}
	if len(mustNot) == 0 {
		return base, params, nil
	}

	sql := "SELECT doc FROM (" + base + ") EXCEPT " + strings.Join(mustNot, " EXCEPT ")
	return sql, append(params, mustNotParams...), nil
}

// globLiteral escapes GLOB metacharacters so s matches itself.
func globLiteral(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[':
			b.WriteByte('[')
			b.WriteRune(r)
			b.WriteByte(']')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// globPattern keeps '*' and '?' as wildcards and escapes '['.
func globPattern(s string) string {
	return strings.ReplaceAll(s, "[", "[[]")
}
