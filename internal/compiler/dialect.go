package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/numenc"
	"github.com/roach88/condex/internal/query"
)

// Dialect encodes numeric and temporal values for one backend.
//
// Compare builds the query for eq, lt, lte, gt and gte on integer, decimal,
// date, time and timestamp fields. IndexTerm returns the term stored for a
// value at ingest; an index built with IndexTerm answers Compare queries.
type Dialect interface {
	Name() string
	Compare(def field.Def, op condition.Operator, value string) (query.Query, error)
	IndexTerm(def field.Def, value string) (string, error)
}

// Dialect names.
const (
	DialectModern = "modern"
	DialectLegacy = "legacy"
)

// DialectConfig selects and sizes a dialect. Zero values take defaults.
type DialectConfig struct {
	Name string

	// modern
	IntegerWidth     int
	DecimalIntWidth  int
	DecimalFracWidth int

	// legacy
	IntegerBits int
	DecimalBits int
	DateBits    int
	DecimalMax  string
}

// Default legacy sizes.
const (
	DefaultIntegerBits = 32
	DefaultDecimalBits = 34
	DefaultDecimalMax  = "1000000"
)

func (c DialectConfig) withDefaults() DialectConfig {
	if c.Name == "" {
		c.Name = DialectModern
	}
	if c.IntegerWidth == 0 {
		c.IntegerWidth = numenc.DefaultIntegerWidth
	}
	if c.DecimalIntWidth == 0 {
		c.DecimalIntWidth = numenc.DefaultDecimalIntWidth
	}
	if c.DecimalFracWidth == 0 {
		c.DecimalFracWidth = numenc.DefaultDecimalFracWidth
	}
	if c.IntegerBits == 0 {
		c.IntegerBits = DefaultIntegerBits
	}
	if c.DecimalBits == 0 {
		c.DecimalBits = DefaultDecimalBits
	}
	if c.DateBits == 0 {
		c.DateBits = numenc.DefaultDateBits
	}
	if c.DecimalMax == "" {
		c.DecimalMax = DefaultDecimalMax
	}
	return c
}

// NewDialect builds the dialect named by cfg.Name.
func NewDialect(cfg DialectConfig) (Dialect, error) {
	cfg = cfg.withDefaults()
	switch strings.ToLower(cfg.Name) {
	case DialectModern:
		m, err := NewModern(cfg.IntegerWidth, cfg.DecimalIntWidth, cfg.DecimalFracWidth)
		if err != nil {
			return nil, err
		}
		return m, nil
	case DialectLegacy:
		l, err := NewLegacy(cfg)
		if err != nil {
			return nil, err
		}
		return l, nil
	default:
		return nil, fmt.Errorf("unknown dialect %q", cfg.Name)
	}
}

// comparison maps an inequality operator onto the bit-range comparison.
func comparison(op condition.Operator) (numenc.Comparison, bool) {
	switch op {
	case condition.Lt:
		return numenc.Less, true
	case condition.Lte:
		return numenc.LessEq, true
	case condition.Gt:
		return numenc.Greater, true
	case condition.Gte:
		return numenc.GreaterEq, true
	}
	return 0, false
}
