package rawquery

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/condex/internal/query"
)

// SyntaxError reports malformed native query text.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at offset %d: %s", e.Pos, e.Msg)
}

type conjunction int

const (
	conjNone conjunction = iota
	conjAnd
	conjOr
)

// parser is a recursive-descent reader over a two-token window.
type parser struct {
	lex  *lexer
	cur  token
	peek token
}

// Parse parses text in the native grammar. Clauses without an explicit
// field use defaultField; a clause with neither is an error.
//
// Juxtaposed clauses are optional (SHOULD) unless marked: + or a
// neighbouring AND makes a clause required, - / NOT / ! prohibits it. A
// single unmarked clause is returned unwrapped; "()" is the empty Boolean.
func Parse(text, defaultField string) (query.Query, error) {
	p := &parser{lex: newLexer(text)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty query"}
	}

	q, err := p.parseClauses(defaultField, false)
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, p.unexpected()
	}
	return q, nil
}

func (p *parser) advance() error {
	p.cur = p.peek
	next, err := p.lex.next()
	if err != nil {
		return err
	}
	p.peek = next
	return nil
}

func (p *parser) unexpected() error {
	return &SyntaxError{Pos: p.cur.pos, Msg: fmt.Sprintf("unexpected %s", p.cur.kind)}
}

func (p *parser) expect(kind tokenKind) error {
	if p.cur.kind != kind {
		return &SyntaxError{Pos: p.cur.pos, Msg: fmt.Sprintf("expected %s, got %s", kind, p.cur.kind)}
	}
	return p.advance()
}

// parseClauses reads clauses until end of input or, inside a group, the
// closing parenthesis (left as the current token).
func (p *parser) parseClauses(field string, inGroup bool) (query.Query, error) {
	var clauses []query.Clause
	for {
		if p.cur.kind == tokEOF || (inGroup && p.cur.kind == tokRParen) {
			break
		}

		conj := conjNone
		switch p.cur.kind {
		case tokAnd, tokOr:
			if len(clauses) == 0 {
				return nil, &SyntaxError{Pos: p.cur.pos, Msg: fmt.Sprintf("%s needs a left operand", p.cur.kind)}
			}
			conj = conjOr
			if p.cur.kind == tokAnd {
				conj = conjAnd
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.cur.kind == tokEOF || p.cur.kind == tokRParen {
				return nil, &SyntaxError{Pos: p.cur.pos, Msg: "operator needs a right operand"}
			}
		}

		occur := query.Should
		switch p.cur.kind {
		case tokPlus:
			occur = query.Must
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokMinus, tokNot:
			occur = query.MustNot
			if err := p.advance(); err != nil {
				return nil, err
			}
		}

		q, err := p.parseClause(field)
		if err != nil {
			return nil, err
		}

		if conj == conjAnd {
			last := &clauses[len(clauses)-1]
			if last.Occur == query.Should {
				last.Occur = query.Must
			}
			if occur == query.Should {
				occur = query.Must
			}
		}
		clauses = append(clauses, query.Clause{Query: q, Occur: occur})
	}

	if len(clauses) == 1 && clauses[0].Occur == query.Should {
		return clauses[0].Query, nil
	}
	return query.Boolean{Clauses: clauses}, nil
}

func (p *parser) parseClause(field string) (query.Query, error) {
	if p.cur.kind == tokWord && p.peek.kind == tokColon {
		field = p.cur.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	var (
		q   query.Query
		err error
	)
	switch p.cur.kind {
	case tokLParen:
		q, err = p.parseGroup(field)
	case tokWord:
		q, err = p.parseTerm(field)
	case tokPhrase:
		q, err = p.parsePhrase(field)
	case tokRangeOpen:
		q, err = p.parseRange(field)
	default:
		return nil, p.unexpected()
	}
	if err != nil {
		return nil, err
	}

	// boosts only affect scoring, which is not modelled
	if p.cur.kind == tokBoost {
		if _, err := strconv.ParseFloat(p.cur.text, 64); err != nil {
			return nil, &SyntaxError{Pos: p.cur.pos, Msg: fmt.Sprintf("bad boost %q", p.cur.text)}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return q, nil
}

func (p *parser) parseGroup(field string) (query.Query, error) {
	open := p.cur.pos
	if err := p.advance(); err != nil {
		return nil, err
	}
	q, err := p.parseClauses(field, true)
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokRParen {
		return nil, &SyntaxError{Pos: open, Msg: "unbalanced '('"}
	}
	return q, p.advance()
}

func (p *parser) requireField(field string, pos int) error {
	if field == "" {
		return &SyntaxError{Pos: pos, Msg: "clause has no field and no default field is set"}
	}
	return nil
}

func (p *parser) parseTerm(field string) (query.Query, error) {
	tok := p.cur
	if err := p.requireField(field, tok.pos); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	if p.cur.kind == tokFuzzy {
		if len(tok.wildcards) > 0 {
			return nil, &SyntaxError{Pos: p.cur.pos, Msg: "fuzzy term cannot contain wildcards"}
		}
		edits := 0
		if p.cur.text != "" {
			n, err := strconv.Atoi(p.cur.text)
			if err != nil {
				return nil, &SyntaxError{Pos: p.cur.pos, Msg: fmt.Sprintf("bad edit distance %q", p.cur.text)}
			}
			edits = n
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return query.Fuzzy{Field: field, Value: tok.text, MaxEdits: edits}, nil
	}

	switch {
	case len(tok.wildcards) == 0:
		return query.Term{Field: field, Value: tok.text}, nil
	case len(tok.wildcards) == 1 && tok.wildcards[0] == len(tok.text)-1 && tok.text[len(tok.text)-1] == '*':
		return query.Prefix{Field: field, Value: tok.text[:len(tok.text)-1]}, nil
	default:
		return query.Wildcard{Field: field, Pattern: tok.text}, nil
	}
}

func (p *parser) parsePhrase(field string) (query.Query, error) {
	tok := p.cur
	if err := p.requireField(field, tok.pos); err != nil {
		return nil, err
	}
	terms := strings.Fields(tok.text)
	if len(terms) == 0 {
		return nil, &SyntaxError{Pos: tok.pos, Msg: "empty phrase"}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.kind == tokFuzzy {
		return nil, &SyntaxError{Pos: p.cur.pos, Msg: "phrase proximity is not supported"}
	}
	return query.Phrase{Field: field, Terms: terms}, nil
}

func (p *parser) parseRange(field string) (query.Query, error) {
	open := p.cur
	if err := p.requireField(field, open.pos); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	lower, err := p.parseBound()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokTo); err != nil {
		return nil, err
	}
	upper, err := p.parseBound()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokRangeClose {
		return nil, &SyntaxError{Pos: open.pos, Msg: "unterminated range"}
	}
	closing := p.cur.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	return query.Range{
		Field:        field,
		Lower:        lower,
		Upper:        upper,
		IncludeLower: open.text == "[",
		IncludeUpper: closing == "]",
	}, nil
}

// parseBound reads one range endpoint. A bare * is an open bound.
func (p *parser) parseBound() (string, error) {
	tok := p.cur
	switch tok.kind {
	case tokWord:
		if tok.text == "*" && len(tok.wildcards) == 1 {
			return "", p.advance()
		}
		return tok.text, p.advance()
	case tokPhrase:
		return tok.text, p.advance()
	default:
		return "", &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("expected range bound, got %s", tok.kind)}
	}
}
