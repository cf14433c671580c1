package query

import (
	"strconv"
	"strings"
)

// String renders q in the native query grammar understood by
// internal/rawquery:
//
//	Term       field:value
//	Phrase     field:"a b c"
//	Prefix     field:abc*
//	Wildcard   field:a?c*
//	Fuzzy      field:value~2
//	Range      field:[lo TO hi]   (braces for exclusive, * for open)
//	Boolean    +must should -mustnot   (parenthesized when nested)
//
// A nil query renders as the empty string; an empty Boolean as "()".
func String(q Query) string {
	var b strings.Builder
	render(&b, q, false)
	return b.String()
}

func render(b *strings.Builder, q Query, nested bool) {
	switch node := q.(type) {
	case nil:
	case Term:
		writeField(b, node.Field)
		b.WriteString(escapeTerm(node.Value, false))
	case Phrase:
		writeField(b, node.Field)
		b.WriteByte('"')
		b.WriteString(escapePhrase(strings.Join(node.Terms, " ")))
		b.WriteByte('"')
	case Prefix:
		writeField(b, node.Field)
		b.WriteString(escapeTerm(node.Value, false))
		b.WriteByte('*')
	case Wildcard:
		writeField(b, node.Field)
		b.WriteString(escapeTerm(node.Pattern, true))
	case Fuzzy:
		writeField(b, node.Field)
		b.WriteString(escapeTerm(node.Value, false))
		b.WriteByte('~')
		if node.MaxEdits > 0 {
			b.WriteString(strconv.Itoa(node.MaxEdits))
		}
	case Range:
		writeField(b, node.Field)
		if node.IncludeLower {
			b.WriteByte('[')
		} else {
			b.WriteByte('{')
		}
		writeBound(b, node.Lower)
		b.WriteString(" TO ")
		writeBound(b, node.Upper)
		if node.IncludeUpper {
			b.WriteByte(']')
		} else {
			b.WriteByte('}')
		}
	case Boolean:
		if nested || len(node.Clauses) == 0 {
			b.WriteByte('(')
		}
		for i, c := range node.Clauses {
			if i > 0 {
				b.WriteByte(' ')
			}
			switch c.Occur {
			case Must:
				b.WriteByte('+')
			case MustNot:
				b.WriteByte('-')
			}
			render(b, c.Query, true)
		}
		if nested || len(node.Clauses) == 0 {
			b.WriteByte(')')
		}
	case RawPassthrough:
		b.WriteByte('(')
		b.WriteString(node.Text)
		b.WriteByte(')')
	}
}

func writeField(b *strings.Builder, field string) {
	if field == "" {
		return
	}
	b.WriteString(escapeTerm(field, false))
	b.WriteByte(':')
}

func writeBound(b *strings.Builder, v string) {
	if v == "" {
		b.WriteByte('*')
		return
	}
	b.WriteString(escapeTerm(v, false))
}

// specialChars are the characters with meaning in the native grammar.
const specialChars = `\+-!():^[]{}"~*? `

// escapeTerm backslash-escapes grammar characters. With keepWildcards, * and
// ? stay unescaped so they keep their pattern meaning.
func escapeTerm(s string, keepWildcards bool) string {
	if !strings.ContainsAny(s, specialChars) && !isKeyword(s) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if keepWildcards && (r == '*' || r == '?') {
			b.WriteRune(r)
			continue
		}
		if strings.ContainsRune(specialChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if isKeyword(out) {
		// A bare AND/OR/NOT/TO would be read as an operator.
		return `\` + out
	}
	return out
}

func escapePhrase(s string) string {
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isKeyword(s string) bool {
	switch s {
	case "AND", "OR", "NOT", "TO":
		return true
	}
	return false
}
