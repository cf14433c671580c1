package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/numenc"
	"github.com/roach88/condex/internal/query"
)

// orderedCodec is a numeric encoder whose output sorts like its input.
type orderedCodec struct {
	encode func(string) (string, error)
	// bound returns the largest encoding not above the value and whether
	// the value is exactly representable.
	bound func(string) (string, bool, error)
	bias  func(string, int) (string, error)
	min   string
	max   string
}

// Modern targets token indexes with a string range primitive.
type Modern struct {
	integer orderedCodec
	decimal orderedCodec
}

// NewModern builds the modern dialect with the given encoder widths.
func NewModern(integerWidth, decimalIntWidth, decimalFracWidth int) (*Modern, error) {
	ienc, err := numenc.NewInteger(integerWidth)
	if err != nil {
		return nil, err
	}
	denc, err := numenc.NewDecimal(decimalIntWidth, decimalFracWidth)
	if err != nil {
		return nil, err
	}
	return &Modern{
		integer: orderedCodec{
			encode: ienc.EncodeString,
			bound: func(s string) (string, bool, error) {
				encoded, err := ienc.EncodeString(s)
				return encoded, true, err
			},
			bias: ienc.Bias,
			min:  ienc.Min(),
			max:  ienc.Max(),
		},
		decimal: orderedCodec{encode: denc.Encode, bound: denc.Bound, bias: denc.Bias, min: denc.Min(), max: denc.Max()},
	}, nil
}

// Name implements Dialect.
func (*Modern) Name() string { return DialectModern }

func (m *Modern) codec(dt field.DataType) (orderedCodec, bool) {
	switch dt {
	case field.Integer:
		return m.integer, true
	case field.Decimal:
		return m.decimal, true
	}
	return orderedCodec{}, false
}

// Compare implements Dialect.
//
// Numeric bounds are floored to the encoder's precision and strict bounds
// are biased by one encoded unit, so both range ends stay inclusive and the
// open side is the domain sentinel. A strict bound past either end of the
// domain matches nothing. Temporal values are
// already sortable strings, so strict bounds become exclusive and the open
// side is left unbounded.
func (m *Modern) Compare(def field.Def, op condition.Operator, value string) (query.Query, error) {
	if codec, ok := m.codec(def.Type); ok {
		return compareNumeric(def.Name, codec, op, value)
	}
	if def.Type.IsTemporal() {
		return compareTemporal(def.Name, op, value)
	}
	return nil, fmt.Errorf("%w: %s comparison on %s", ErrUnsupported, op, def.Type)
}

func compareNumeric(name string, codec orderedCodec, op condition.Operator, value string) (query.Query, error) {
	if op == condition.Eq {
		encoded, err := codec.encode(value)
		if err != nil {
			return nil, err
		}
		return query.Term{Field: name, Value: encoded}, nil
	}
	bound, exact, err := codec.bound(value)
	if err != nil {
		return nil, err
	}
	r := query.Range{Field: name, Lower: codec.min, Upper: codec.max, IncludeLower: true, IncludeUpper: true}
	switch op {
	case condition.Gt, condition.Gte:
		r.Lower = bound
		if op == condition.Gt || !exact {
			if bound == codec.max {
				return query.Boolean{}, nil
			}
			if r.Lower, err = codec.bias(bound, 1); err != nil {
				return nil, err
			}
		}
	case condition.Lt, condition.Lte:
		r.Upper = bound
		if op == condition.Lt && exact {
			if bound == codec.min {
				return query.Boolean{}, nil
			}
			if r.Upper, err = codec.bias(bound, -1); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, op)
	}
	return r, nil
}

func compareTemporal(name string, op condition.Operator, value string) (query.Query, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return nil, invalidValue("empty %s value", op)
	}
	switch op {
	case condition.Eq:
		return query.Term{Field: name, Value: v}, nil
	case condition.Gt, condition.Gte:
		return query.Range{Field: name, Lower: v, IncludeLower: op == condition.Gte, IncludeUpper: true}, nil
	case condition.Lt, condition.Lte:
		return query.Range{Field: name, Upper: v, IncludeLower: true, IncludeUpper: op == condition.Lte}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, op)
	}
}

// IndexTerm implements Dialect.
func (m *Modern) IndexTerm(def field.Def, value string) (string, error) {
	if codec, ok := m.codec(def.Type); ok {
		return codec.encode(value)
	}
	if def.Type.IsTemporal() {
		v := strings.TrimSpace(value)
		if v == "" {
			return "", invalidValue("empty %s value", def.Type)
		}
		return v, nil
	}
	return "", fmt.Errorf("%w: %s values", ErrUnsupported, def.Type)
}
