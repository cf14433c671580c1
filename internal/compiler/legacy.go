package compiler

import (
	"fmt"

	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/numenc"
	"github.com/roach88/condex/internal/query"
)

// Legacy targets the content-manager text engine, which has exact terms
// and single-character wildcards but no range primitive. Values are
// stored as fixed-length bit strings and inequalities are decomposed into
// OR-combined wildcard patterns using '?' for a don't-care bit.
type Legacy struct {
	integer numenc.Bits
	decimal numenc.Bits
	date    numenc.Bits
	scaler  numenc.Decimal
}

// NewLegacy builds the legacy dialect. Zero sizes take defaults.
func NewLegacy(cfg DialectConfig) (*Legacy, error) {
	cfg = cfg.withDefaults()
	var (
		l   Legacy
		err error
	)
	if l.integer, err = numenc.NewBits(cfg.IntegerBits, numenc.DefaultWildcard); err != nil {
		return nil, fmt.Errorf("integer bits: %w", err)
	}
	if l.decimal, err = numenc.NewBits(cfg.DecimalBits, numenc.DefaultWildcard); err != nil {
		return nil, fmt.Errorf("decimal bits: %w", err)
	}
	if l.date, err = numenc.NewBits(cfg.DateBits, numenc.DefaultWildcard); err != nil {
		return nil, fmt.Errorf("date bits: %w", err)
	}
	if l.scaler, err = numenc.NewUnsignedDecimal(cfg.DecimalFracWidth, cfg.DecimalMax); err != nil {
		return nil, err
	}
	return &l, nil
}

// Name implements Dialect.
func (*Legacy) Name() string { return DialectLegacy }

// value maps a field value onto its bit encoder and unsigned integer.
func (l *Legacy) value(dt field.DataType, raw string) (numenc.Bits, uint64, error) {
	switch dt {
	case field.Integer:
		v, err := numenc.ParseInteger(raw)
		if err != nil {
			return numenc.Bits{}, 0, err
		}
		if v < 0 {
			return numenc.Bits{}, 0, &numenc.DomainError{Value: raw, Reason: "negative values are not encodable"}
		}
		return l.integer, uint64(v), nil
	case field.Decimal:
		scaled, err := l.scaler.Scale(raw)
		if err != nil {
			return numenc.Bits{}, 0, err
		}
		return l.decimal, uint64(scaled), nil
	case field.Date, field.Timestamp:
		d, err := numenc.ParseDate(raw)
		if err != nil {
			return numenc.Bits{}, 0, invalidValue("%v", err)
		}
		return l.date, d.Value(), nil
	default:
		return numenc.Bits{}, 0, fmt.Errorf("%w: %s values", ErrUnsupported, dt)
	}
}

// Compare implements Dialect.
func (l *Legacy) Compare(def field.Def, op condition.Operator, value string) (query.Query, error) {
	bits, v, err := l.value(def.Type, value)
	if err != nil {
		return nil, err
	}
	if op == condition.Eq {
		term, err := bits.Encode(v)
		if err != nil {
			return nil, err
		}
		return query.Term{Field: def.Name, Value: term}, nil
	}

	cmp, ok := comparison(op)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, op)
	}
	terms, err := bits.EncodeForRange(cmp, v)
	if err != nil {
		return nil, err
	}

	// An empty decomposition is an empty Boolean: nothing matches.
	out := query.Boolean{}
	if terms.Exact != "" {
		out = out.Add(query.Term{Field: def.Name, Value: terms.Exact}, query.Should)
	}
	for _, p := range terms.Patterns {
		out = out.Add(query.Wildcard{Field: def.Name, Pattern: p}, query.Should)
	}
	return out, nil
}

// IndexTerm implements Dialect.
func (l *Legacy) IndexTerm(def field.Def, value string) (string, error) {
	bits, v, err := l.value(def.Type, value)
	if err != nil {
		return "", err
	}
	return bits.Encode(v)
}
