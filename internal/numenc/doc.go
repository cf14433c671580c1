// Package numenc encodes numbers and calendar dates as strings whose
// byte-wise order matches numeric or temporal order.
//
// A term index only compares strings. Storing 9 and 10 as "9" and "10"
// makes "10" < "9", so every range query over raw numbers silently returns
// the wrong documents. The encoders here fix the width and shift the domain
// so that string order and value order agree.
//
// OFFSET DECIMAL (modern backends):
//
//	Integer, width W:   zeroPad(v + 10^W, W+1)          -10^W <= v < 10^W
//	Decimal, I and F:   zeroPad(scaled + 10^(I+F), I+F+1)
//	                    scaled = (v * 10^(F+1)) div 10
//
// Range primitives on these backends are inclusive, so a strict bound is
// moved one encoded unit with Bias before building the range.
//
// BIT PATTERNS (legacy content-manager backend):
//
// The legacy text-search engine has no range primitive at all. Values are
// written as fixed-length binary digit strings and an inequality becomes an
// OR of wildcard terms, one per bit position (see Bits.EncodeForRange).
// Calendar dates map to the integer (4000±year)·10000 + month·100 + day
// before bit encoding.
package numenc
