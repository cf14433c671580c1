package numenc

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultIntegerWidth is the default number of magnitude digits.
const DefaultIntegerWidth = 10

// MaxIntegerWidth keeps 2·10^W inside uint64 with room to spare.
const MaxIntegerWidth = 17

// Integer encodes signed integers in [-10^Width, 10^Width) as Width+1
// digit strings.
type Integer struct {
	width  int
	offset int64
	fixed  fixedDigits
}

// NewInteger builds an encoder. Width must be in [1, MaxIntegerWidth].
func NewInteger(width int) (Integer, error) {
	if width < 1 || width > MaxIntegerWidth {
		return Integer{}, fmt.Errorf("integer width %d out of range [1, %d]", width, MaxIntegerWidth)
	}
	offset := pow10(width)
	return Integer{
		width:  width,
		offset: int64(offset),
		fixed:  fixedDigits{digits: width + 1, max: 2*offset - 1},
	}, nil
}

// Width returns the configured magnitude width.
func (c Integer) Width() int { return c.width }

// Encode returns zeroPad(v + 10^W, W+1).
func (c Integer) Encode(v int64) (string, error) {
	if v < -c.offset || v >= c.offset {
		return "", &DomainError{
			Value:  strconv.FormatInt(v, 10),
			Reason: fmt.Sprintf("outside [-10^%d, 10^%d)", c.width, c.width),
		}
	}
	return c.fixed.pad(uint64(v + c.offset)), nil
}

// EncodeString parses a decimal integer literal and encodes it.
func (c Integer) EncodeString(s string) (string, error) {
	v, err := ParseInteger(s)
	if err != nil {
		return "", err
	}
	return c.Encode(v)
}

// Decode reverses Encode.
func (c Integer) Decode(encoded string) (int64, error) {
	n, err := c.fixed.parse(encoded)
	if err != nil {
		return 0, err
	}
	return int64(n) - c.offset, nil
}

// Bias moves an encoded value by delta units (±1 for strict bounds).
func (c Integer) Bias(encoded string, delta int) (string, error) {
	return c.fixed.bias(encoded, delta)
}

// Min is the encoding of the smallest value in the domain.
func (c Integer) Min() string { return c.fixed.pad(0) }

// Max is the encoding of the largest value in the domain.
func (c Integer) Max() string { return c.fixed.pad(c.fixed.max) }

// ParseInteger parses a base-10 integer literal, tolerating surrounding
// whitespace and a leading '+'.
func ParseInteger(s string) (int64, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "+")
	v, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, &DomainError{Value: s, Reason: "not an integer"}
	}
	return v, nil
}
