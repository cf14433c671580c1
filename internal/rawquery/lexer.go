package rawquery

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokWord
	tokPhrase
	tokColon
	tokLParen
	tokRParen
	tokRangeOpen  // [ or {
	tokRangeClose // ] or }
	tokPlus
	tokMinus
	tokFuzzy // ~ with optional edit distance
	tokBoost // ^ with weight
	tokAnd
	tokOr
	tokNot
	tokTo
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokWord:
		return "term"
	case tokPhrase:
		return "phrase"
	case tokColon:
		return "':'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokRangeOpen:
		return "range start"
	case tokRangeClose:
		return "range end"
	case tokPlus:
		return "'+'"
	case tokMinus:
		return "'-'"
	case tokFuzzy:
		return "'~'"
	case tokBoost:
		return "'^'"
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokNot:
		return "NOT"
	case tokTo:
		return "TO"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

type token struct {
	kind tokenKind
	// text is the unescaped literal: term text, phrase body, bracket
	// character, or the digits after ~ and ^.
	text string
	pos  int
	// wildcards holds byte offsets into text of unescaped * and ?.
	wildcards []int
}

// lexer splits native query text into tokens. It is single use.
type lexer struct {
	input string
	pos   int
}

func newLexer(input string) *lexer {
	return &lexer{input: input}
}

func (l *lexer) peekRune() (rune, int) {
	if l.pos >= len(l.input) {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(l.input[l.pos:])
}

// terminators end a bare word.
const terminators = `()[]{}:"~^`

func (l *lexer) next() (token, error) {
	for {
		r, size := l.peekRune()
		if size == 0 || !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}

	start := l.pos
	r, size := l.peekRune()
	if size == 0 {
		return token{kind: tokEOF, pos: start}, nil
	}

	single := func(kind tokenKind) (token, error) {
		l.pos += size
		return token{kind: kind, text: string(r), pos: start}, nil
	}
	switch r {
	case '(':
		return single(tokLParen)
	case ')':
		return single(tokRParen)
	case '[', '{':
		return single(tokRangeOpen)
	case ']', '}':
		return single(tokRangeClose)
	case ':':
		return single(tokColon)
	case '+':
		return single(tokPlus)
	case '-':
		return single(tokMinus)
	case '!':
		return single(tokNot)
	case '"':
		return l.phrase()
	case '~':
		l.pos += size
		return token{kind: tokFuzzy, text: l.digits(false), pos: start}, nil
	case '^':
		l.pos += size
		w := l.digits(true)
		if w == "" {
			return token{}, &SyntaxError{Pos: start, Msg: "boost needs a weight"}
		}
		return token{kind: tokBoost, text: w, pos: start}, nil
	}
	return l.word()
}

func (l *lexer) digits(allowDot bool) string {
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if (c < '0' || c > '9') && !(allowDot && c == '.') {
			break
		}
		l.pos++
	}
	return l.input[start:l.pos]
}

func (l *lexer) phrase() (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for {
		r, size := l.peekRune()
		if size == 0 {
			return token{}, &SyntaxError{Pos: start, Msg: "unterminated phrase"}
		}
		l.pos += size
		switch r {
		case '"':
			return token{kind: tokPhrase, text: b.String(), pos: start}, nil
		case '\\':
			esc, escSize := l.peekRune()
			if escSize == 0 {
				return token{}, &SyntaxError{Pos: l.pos - 1, Msg: "dangling escape"}
			}
			l.pos += escSize
			b.WriteRune(esc)
		default:
			b.WriteRune(r)
		}
	}
}

func (l *lexer) word() (token, error) {
	start := l.pos
	var (
		b       strings.Builder
		wild    []int
		escaped bool
	)
	for {
		r, size := l.peekRune()
		if size == 0 || unicode.IsSpace(r) || strings.ContainsRune(terminators, r) {
			break
		}
		l.pos += size
		switch r {
		case '\\':
			esc, escSize := l.peekRune()
			if escSize == 0 {
				return token{}, &SyntaxError{Pos: l.pos - 1, Msg: "dangling escape"}
			}
			l.pos += escSize
			b.WriteRune(esc)
			escaped = true
		case '*', '?':
			wild = append(wild, b.Len())
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}

	text := b.String()
	if !escaped {
		switch text {
		case "AND", "&&":
			return token{kind: tokAnd, text: text, pos: start}, nil
		case "OR", "||":
			return token{kind: tokOr, text: text, pos: start}, nil
		case "NOT":
			return token{kind: tokNot, text: text, pos: start}, nil
		case "TO":
			return token{kind: tokTo, text: text, pos: start}, nil
		}
	}
	return token{kind: tokWord, text: text, pos: start, wildcards: wild}, nil
}
