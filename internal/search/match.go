package search

// MatchWildcard reports whether term matches pattern, where '*' matches any
// run of characters (including none) and '?' exactly one character.
func MatchWildcard(pattern, term string) bool {
	p, t := []rune(pattern), []rune(term)
	// backtrack to the last '*': star is the pattern index after it, mark
	// the term index it currently absorbs up to.
	star, mark := -1, 0
	i, j := 0, 0
	for j < len(t) {
		switch {
		case i < len(p) && (p[i] == '?' || p[i] == t[j]):
			i++
			j++
		case i < len(p) && p[i] == '*':
			star, mark = i+1, j
			i++
		case star >= 0:
			mark++
			i, j = star, mark
		default:
			return false
		}
	}
	for i < len(p) && p[i] == '*' {
		i++
	}
	return i == len(p)
}

// LiteralPrefix returns the part of pattern before its first wildcard.
func LiteralPrefix(pattern string) string {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] == '*' || pattern[i] == '?' {
			return pattern[:i]
		}
	}
	return pattern
}

// Levenshtein returns the edit distance between a and b in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// MaxEdits returns the edit budget for a Fuzzy query.
func MaxEdits(n int) int {
	if n <= 0 {
		return DefaultMaxEdits
	}
	return n
}

// InRange reports whether term lies between lower and upper. An empty
// bound is open.
func InRange(lower, upper string, includeLower, includeUpper bool, term string) bool {
	if lower != "" {
		if term < lower || (term == lower && !includeLower) {
			return false
		}
	}
	if upper != "" {
		if term > upper || (term == upper && !includeUpper) {
			return false
		}
	}
	return true
}
