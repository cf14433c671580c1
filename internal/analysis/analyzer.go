// Package analysis turns raw field text into normalized index terms.
//
// The compiler only depends on the Analyzer contract: given a field name and
// raw text, produce a finite, ordered, consume-once sequence of terms. Empty
// input yields an empty sequence, never an error. The Standard and Keyword
// analyzers here are the reference implementations used by the bundled
// indexes; a deployment fronting an external engine plugs in an Analyzer
// that mirrors the engine's own.
package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Token is one analyzed term and its position in the source text.
type Token struct {
	Term     string
	Position int
}

// TokenStream yields tokens in order. A stream is consumed once; it cannot
// be rewound.
type TokenStream struct {
	next func() (Token, bool)
	done bool
}

// NewTokenStream wraps a generator function.
func NewTokenStream(next func() (Token, bool)) *TokenStream {
	return &TokenStream{next: next}
}

// Next returns the next token, or false once the stream is exhausted.
func (s *TokenStream) Next() (Token, bool) {
	if s == nil || s.done {
		return Token{}, false
	}
	tok, ok := s.next()
	if !ok {
		s.done = true
	}
	return tok, ok
}

// Terms drains the remaining tokens and returns their terms.
func (s *TokenStream) Terms() []string {
	var out []string
	for {
		tok, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, tok.Term)
	}
}

// Tokens drains the remaining tokens.
func (s *TokenStream) Tokens() []Token {
	var out []Token
	for {
		tok, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

// Analyzer produces the token stream for a field value.
type Analyzer interface {
	Analyze(field, text string) *TokenStream
}

// Standard folds accents, lower-cases, and splits on every rune that is
// neither a letter nor a digit.
type Standard struct{}

// Analyze implements Analyzer.
func (Standard) Analyze(_ string, text string) *TokenStream {
	rest := strings.ToLower(Fold(text))
	pos := 0
	return NewTokenStream(func() (Token, bool) {
		// skip separators
		start := strings.IndexFunc(rest, isTermRune)
		if start < 0 {
			rest = ""
			return Token{}, false
		}
		rest = rest[start:]
		end := strings.IndexFunc(rest, func(r rune) bool { return !isTermRune(r) })
		if end < 0 {
			end = len(rest)
		}
		tok := Token{Term: rest[:end], Position: pos}
		rest = rest[end:]
		pos++
		return tok, true
	})
}

func isTermRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Keyword emits the whole value as a single untouched token.
type Keyword struct{}

// Analyze implements Analyzer.
func (Keyword) Analyze(_ string, text string) *TokenStream {
	emitted := text == ""
	return NewTokenStream(func() (Token, bool) {
		if emitted {
			return Token{}, false
		}
		emitted = true
		return Token{Term: text, Position: 0}, true
	})
}

// Normalize folds and lower-cases a single term without splitting it.
// Used where the caller supplies one term (fuzzy matching).
func Normalize(s string) string {
	s = strings.ToLower(Fold(strings.TrimSpace(s)))
	if !utf8.ValidString(s) {
		return strings.ToValidUTF8(s, "")
	}
	return s
}
