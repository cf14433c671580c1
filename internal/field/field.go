// Package field defines the typed field registry consulted by the condition
// compiler.
//
// A Registry is built once at process start and never mutated afterward.
// All methods are safe for concurrent use because the registry holds no
// mutable state after construction.
package field

import (
	"fmt"
	"sort"
	"strings"
)

// DataType is the declared type of an indexed field.
type DataType string

const (
	Text       DataType = "text"
	Identifier DataType = "identifier"
	Boolean    DataType = "boolean"
	Date       DataType = "date"
	Time       DataType = "time"
	Timestamp  DataType = "timestamp"
	Integer    DataType = "integer"
	Decimal    DataType = "decimal"
)

// DataTypes lists every data type in declaration order.
var DataTypes = []DataType{Text, Identifier, Boolean, Date, Time, Timestamp, Integer, Decimal}

// ParseDataType maps a configuration string onto a DataType.
// Matching is case-insensitive.
func ParseDataType(s string) (DataType, error) {
	t := DataType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range DataTypes {
		if t == known {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown data type %q", s)
}

// IsTemporal reports whether values of the type are calendar or clock values.
func (t DataType) IsTemporal() bool {
	return t == Date || t == Time || t == Timestamp
}

// IsNumeric reports whether values of the type go through numeric encoding.
func (t DataType) IsNumeric() bool {
	return t == Integer || t == Decimal
}

// Def describes one field.
type Def struct {
	Name     string
	Type     DataType
	Sortable bool
}

// NotFoundError is returned by Resolve for names absent from the registry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("field %q is not registered", e.Name)
}

// Registry maps field names to their definitions.
type Registry struct {
	defs map[string]Def
}

// NewRegistry builds a registry from the given definitions.
// Returns an error on empty or duplicate names.
func NewRegistry(defs ...Def) (*Registry, error) {
	r := &Registry{defs: make(map[string]Def, len(defs))}
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("field definition with empty name")
		}
		if _, dup := r.defs[d.Name]; dup {
			return nil, fmt.Errorf("duplicate field %q", d.Name)
		}
		if _, err := ParseDataType(string(d.Type)); err != nil {
			return nil, fmt.Errorf("field %q: %w", d.Name, err)
		}
		r.defs[d.Name] = d
	}
	return r, nil
}

// MustRegistry is NewRegistry for static tables; it panics on error.
func MustRegistry(defs ...Def) *Registry {
	r, err := NewRegistry(defs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Resolve returns the definition for name.
func (r *Registry) Resolve(name string) (Def, error) {
	if r != nil {
		if d, ok := r.defs[name]; ok {
			return d, nil
		}
	}
	return Def{}, &NotFoundError{Name: name}
}

// Names returns all registered field names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.defs))
	for n := range r.defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Defs returns all definitions sorted by name.
func (r *Registry) Defs() []Def {
	names := r.Names()
	out := make([]Def, len(names))
	for i, n := range names {
		out[i] = r.defs[n]
	}
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.defs)
}
