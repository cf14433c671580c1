package numenc

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultWildcard is the single-character wildcard of the legacy engine.
const DefaultWildcard = '?'

// Comparison is an inequality realised by EncodeForRange.
type Comparison int

const (
	Less Comparison = iota
	LessEq
	Greater
	GreaterEq
)

func (c Comparison) String() string {
	switch c {
	case Less:
		return "<"
	case LessEq:
		return "<="
	case Greater:
		return ">"
	case GreaterEq:
		return ">="
	default:
		return fmt.Sprintf("Comparison(%d)", int(c))
	}
}

// Bits renders unsigned values as fixed-length binary digit strings.
type Bits struct {
	length   int
	wildcard byte
}

// NewBits builds a bit encoder of the given length (1..63).
func NewBits(length int, wildcard byte) (Bits, error) {
	if length < 1 || length > 63 {
		return Bits{}, fmt.Errorf("bit length %d out of range [1, 63]", length)
	}
	if wildcard == '0' || wildcard == '1' || wildcard == 0 {
		return Bits{}, fmt.Errorf("wildcard %q collides with a bit digit", wildcard)
	}
	return Bits{length: length, wildcard: wildcard}, nil
}

// Length returns the configured bit length.
func (b Bits) Length() int { return b.length }

// Wildcard returns the wildcard character used in patterns.
func (b Bits) Wildcard() byte { return b.wildcard }

// Max returns the largest encodable value, 2^length - 1.
func (b Bits) Max() uint64 { return 1<<uint(b.length) - 1 }

// Encode returns v as a binary string left-padded with '0'.
func (b Bits) Encode(v uint64) (string, error) {
	if v > b.Max() {
		return "", &DomainError{
			Value:  strconv.FormatUint(v, 10),
			Reason: fmt.Sprintf("needs more than %d bits", b.length),
		}
	}
	s := strconv.FormatUint(v, 2)
	return strings.Repeat("0", b.length-len(s)) + s, nil
}

// Decode parses an exact-match term back into its value.
func (b Bits) Decode(s string) (uint64, error) {
	if len(s) != b.length {
		return 0, &DomainError{Value: s, Reason: fmt.Sprintf("expected %d bits", b.length)}
	}
	v, err := strconv.ParseUint(s, 2, 64)
	if err != nil {
		return 0, &DomainError{Value: s, Reason: "not a bit string"}
	}
	return v, nil
}

// RangeTerms is the decomposition of an inequality into index terms.
// A document matches the inequality iff its term equals Exact (when set)
// or matches exactly one of Patterns; the sets are pairwise disjoint.
type RangeTerms struct {
	Exact    string
	Patterns []string
}

// Empty reports whether no value satisfies the inequality.
func (r RangeTerms) Empty() bool {
	return r.Exact == "" && len(r.Patterns) == 0
}

// EncodeForRange decomposes "x <cmp> v" over the bit domain.
//
// Walking from the most significant bit, every position where v has a 0
// yields the pattern "prefix·1·?…?" (all values greater than v that first
// differ there); every 1 yields "prefix·0·?…?" (all values less than v).
// The non-strict comparisons add v itself as an exact term. The result has
// at most length+1 disjuncts and they never overlap.
func (b Bits) EncodeForRange(cmp Comparison, v uint64) (RangeTerms, error) {
	bits, err := b.Encode(v)
	if err != nil {
		return RangeTerms{}, err
	}

	var flip, keep byte
	switch cmp {
	case Greater, GreaterEq:
		flip, keep = '0', '1'
	case Less, LessEq:
		flip, keep = '1', '0'
	default:
		return RangeTerms{}, fmt.Errorf("unknown comparison %v", cmp)
	}

	var out RangeTerms
	if cmp == GreaterEq || cmp == LessEq {
		out.Exact = bits
	}

	pattern := make([]byte, b.length)
	for i := 0; i < b.length; i++ {
		if bits[i] != flip {
			continue
		}
		copy(pattern, bits[:i])
		pattern[i] = keep
		for j := i + 1; j < b.length; j++ {
			pattern[j] = b.wildcard
		}
		out.Patterns = append(out.Patterns, string(pattern))
	}
	return out, nil
}

// MatchPattern reports whether a bit term matches a pattern in which the
// wildcard stands for exactly one bit.
func (b Bits) MatchPattern(pattern, term string) bool {
	if len(pattern) != len(term) {
		return false
	}
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != b.wildcard && pattern[i] != term[i] {
			return false
		}
	}
	return true
}
