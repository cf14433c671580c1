// Package rawquery handles backend-native query text supplied by advanced
// callers: FixQuery normalises it the way indexed text is normalised, and
// Parse reads the native grammar into a query.Query.
//
// The grammar is the one query.String renders:
//
//	field:value  field:"a phrase"  field:pre*  field:w?ld*  field:term~2
//	field:[lo TO hi]  field:{lo TO *}  +required  -prohibited  NOT x
//	a AND b  a OR b  (grouped clauses)  field:(grouped clauses)
//
// Grammar characters are escaped with a backslash.
package rawquery

import (
	"strings"

	"github.com/roach88/condex/internal/analysis"
)

// FixQuery lower-cases and accent-folds raw query text so that it matches
// terms produced by the Standard analyzer.
//
// The text is split on whitespace. Every token is lower-cased except the
// operators AND, OR, NOT and TO appearing outside a quoted span; quote
// balance is tracked across tokens so that "Cats AND Dogs" inside quotes is
// lower-cased as phrase text. Tokens are rejoined with single spaces.
func FixQuery(raw string) string {
	tokens := strings.Fields(raw)
	inQuote := false
	for i, tok := range tokens {
		if inQuote || !isOperator(tok) {
			tokens[i] = strings.ToLower(tok)
		}
		unescaped := strings.Count(tok, `"`) - strings.Count(tok, `\"`)
		if unescaped%2 != 0 {
			inQuote = !inQuote
		}
	}
	return analysis.Fold(strings.Join(tokens, " "))
}

func isOperator(tok string) bool {
	switch tok {
	case "AND", "OR", "NOT", "TO":
		return true
	}
	return false
}
