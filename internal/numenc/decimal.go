package numenc

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Default decimal widths.
const (
	DefaultDecimalIntWidth  = 10
	DefaultDecimalFracWidth = 4
)

// Decimal encodes fixed-point decimals.
//
// The scaled integer is computed as (v·10^(F+1)) div 10, truncating toward
// zero. This is the historical rule and is kept bit-for-bit so encoded
// values match terms already present in existing indexes.
type Decimal struct {
	intWidth  int
	fracWidth int
	min       *apd.Decimal
	max       *apd.Decimal
	offset    uint64
	fixed     fixedDigits
}

// NewDecimal builds the signed encoder used by modern backends. The domain
// is [-10^intWidth, 10^intWidth).
func NewDecimal(intWidth, fracWidth int) (Decimal, error) {
	if intWidth < 1 || fracWidth < 0 || intWidth+fracWidth > MaxIntegerWidth {
		return Decimal{}, fmt.Errorf("decimal widths %d.%d out of range (sum must be <= %d)", intWidth, fracWidth, MaxIntegerWidth)
	}
	offset := pow10(intWidth + fracWidth)
	return Decimal{
		intWidth:  intWidth,
		fracWidth: fracWidth,
		min:       apd.New(-1, int32(intWidth)),
		max:       apd.New(1, int32(intWidth)),
		offset:    offset,
		fixed:     fixedDigits{digits: intWidth + fracWidth + 1, max: 2*offset - 1},
	}, nil
}

// NewUnsignedDecimal builds the scaler used by the legacy path, whose
// domain is [0, max] with max inclusive. Negative values are rejected.
func NewUnsignedDecimal(fracWidth int, max string) (Decimal, error) {
	maxDec, _, err := apd.NewFromString(max)
	if err != nil {
		return Decimal{}, fmt.Errorf("decimal max %q: %w", max, err)
	}
	d := Decimal{
		fracWidth: fracWidth,
		min:       apd.New(0, 0),
		max:       maxDec,
	}
	return d, nil
}

// FracWidth returns the configured fractional width.
func (c Decimal) FracWidth() int { return c.fracWidth }

// Scale parses s, checks the domain and returns (v·10^(F+1)) div 10.
func (c Decimal) Scale(s string) (int64, error) {
	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil || d.Form != apd.Finite {
		return 0, &DomainError{Value: s, Reason: "not a decimal number"}
	}
	if err := c.checkDomain(s, d); err != nil {
		return 0, err
	}

	shifted := new(apd.Decimal).Set(d)
	shifted.Exponent += int32(c.fracWidth + 1)

	ctx := apd.BaseContext.WithPrecision(40)
	ctx.Rounding = apd.RoundDown
	var whole apd.Decimal
	if _, err := ctx.RoundToIntegralValue(&whole, shifted); err != nil {
		return 0, &DomainError{Value: s, Reason: err.Error()}
	}
	n, err := whole.Int64()
	if err != nil {
		return 0, &DomainError{Value: s, Reason: "scaled value overflows"}
	}
	return n / 10, nil
}

func (c Decimal) checkDomain(s string, d *apd.Decimal) error {
	if c.offset == 0 {
		// unsigned: [min, max] inclusive
		if d.Negative && !d.IsZero() {
			return &DomainError{Value: s, Reason: "negative decimals are not encodable"}
		}
		if d.Cmp(c.max) > 0 {
			return &DomainError{Value: s, Reason: fmt.Sprintf("greater than %s", c.max.String())}
		}
		return nil
	}
	if d.Cmp(c.min) < 0 || d.Cmp(c.max) >= 0 {
		return &DomainError{
			Value:  s,
			Reason: fmt.Sprintf("outside [-10^%d, 10^%d)", c.intWidth, c.intWidth),
		}
	}
	return nil
}

// Encode returns zeroPad(scaled + 10^(I+F), I+F+1).
func (c Decimal) Encode(s string) (string, error) {
	if c.offset == 0 {
		return "", fmt.Errorf("unsigned decimal scaler has no string encoding")
	}
	scaled, err := c.Scale(s)
	if err != nil {
		return "", err
	}
	return c.fixed.pad(uint64(scaled + int64(c.offset))), nil
}

// Bound encodes s as a range bound: the largest encoded value not above s,
// and whether s lands exactly on it. Unlike Encode it rounds toward
// negative infinity, so a bound finer than 10^-F never admits a value on
// the wrong side of s.
func (c Decimal) Bound(s string) (string, bool, error) {
	if c.offset == 0 {
		return "", false, fmt.Errorf("unsigned decimal scaler has no string encoding")
	}
	d, _, err := apd.NewFromString(strings.TrimSpace(s))
	if err != nil || d.Form != apd.Finite {
		return "", false, &DomainError{Value: s, Reason: "not a decimal number"}
	}
	if err := c.checkDomain(s, d); err != nil {
		return "", false, err
	}

	shifted := new(apd.Decimal).Set(d)
	shifted.Exponent += int32(c.fracWidth)

	ctx := apd.BaseContext.WithPrecision(40)
	ctx.Rounding = apd.RoundFloor
	var whole apd.Decimal
	if _, err := ctx.RoundToIntegralValue(&whole, shifted); err != nil {
		return "", false, &DomainError{Value: s, Reason: err.Error()}
	}
	n, err := whole.Int64()
	if err != nil {
		return "", false, &DomainError{Value: s, Reason: "scaled value overflows"}
	}
	return c.fixed.pad(uint64(n + int64(c.offset))), whole.Cmp(shifted) == 0, nil
}

// Decode returns the scaled integer held by an encoded value.
func (c Decimal) Decode(encoded string) (int64, error) {
	n, err := c.fixed.parse(encoded)
	if err != nil {
		return 0, err
	}
	return int64(n) - int64(c.offset), nil
}

// Bias moves an encoded value by delta units of 10^-F.
func (c Decimal) Bias(encoded string, delta int) (string, error) {
	return c.fixed.bias(encoded, delta)
}

// Min is the encoding of the smallest value in the domain.
func (c Decimal) Min() string { return c.fixed.pad(0) }

// Max is the encoding of the largest value in the domain.
func (c Decimal) Max() string { return c.fixed.pad(c.fixed.max) }
