package analysis

import "github.com/roach88/condex/internal/field"

// Cache holds one analyzer per registered field. It is built once from a
// registry and is read-only afterward, so lookups need no locking.
type Cache struct {
	byField  map[string]Analyzer
	fallback Analyzer
}

// NewCache assigns Standard to text fields and Keyword to every other type.
// Unregistered fields fall back to Standard.
func NewCache(reg *field.Registry) *Cache {
	c := &Cache{
		byField:  make(map[string]Analyzer, reg.Len()),
		fallback: Standard{},
	}
	for _, def := range reg.Defs() {
		if def.Type == field.Text {
			c.byField[def.Name] = Standard{}
		} else {
			c.byField[def.Name] = Keyword{}
		}
	}
	return c
}

// For returns the analyzer for a field.
func (c *Cache) For(name string) Analyzer {
	if c == nil {
		return Standard{}
	}
	if a, ok := c.byField[name]; ok {
		return a
	}
	return c.fallback
}

// Tokenize analyzes text with the field's analyzer.
func (c *Cache) Tokenize(name, text string) *TokenStream {
	return c.For(name).Analyze(name, text)
}
