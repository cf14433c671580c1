package numenc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DomainError reports a value that cannot be encoded.
type DomainError struct {
	Value  string
	Reason string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("cannot encode %q: %s", e.Value, e.Reason)
}

// IsDomainError reports whether err is (or wraps) a DomainError.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// pow10 returns 10^n for 0 <= n <= 18.
func pow10(n int) uint64 {
	p := uint64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

// fixedDigits is a zero-padded unsigned decimal of a fixed digit count,
// holding values in [0, max].
type fixedDigits struct {
	digits int
	max    uint64
}

func (f fixedDigits) pad(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) >= f.digits {
		return s
	}
	return strings.Repeat("0", f.digits-len(s)) + s
}

func (f fixedDigits) parse(s string) (uint64, error) {
	if len(s) != f.digits {
		return 0, &DomainError{Value: s, Reason: fmt.Sprintf("expected %d digits", f.digits)}
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n > f.max {
		return 0, &DomainError{Value: s, Reason: "not an encoded value"}
	}
	return n, nil
}

// bias moves an encoded value by delta units.
func (f fixedDigits) bias(encoded string, delta int) (string, error) {
	n, err := f.parse(encoded)
	if err != nil {
		return "", err
	}
	switch {
	case delta < 0 && uint64(-delta) > n:
		return "", &DomainError{Value: encoded, Reason: "bias below domain minimum"}
	case delta > 0 && f.max-n < uint64(delta):
		return "", &DomainError{Value: encoded, Reason: "bias above domain maximum"}
	case delta < 0:
		n -= uint64(-delta)
	default:
		n += uint64(delta)
	}
	return f.pad(n), nil
}
