package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces canonical JSON for a query tree.
//
// Used for golden files and for comparing compiled output across runs:
//  1. Object keys are sorted (all keys are ASCII, so byte order equals
//     UTF-16 code unit order)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No insignificant whitespace
//
// A nil query marshals as null.
func MarshalCanonical(q Query) ([]byte, error) {
	if q == nil {
		return []byte("null"), nil
	}
	m, err := toMap(q)
	if err != nil {
		return nil, err
	}
	return marshalCanonical(m)
}

// toMap converts a query node to a generic map tree.
func toMap(q Query) (map[string]any, error) {
	switch node := q.(type) {
	case Term:
		return map[string]any{"type": "term", "field": node.Field, "value": node.Value}, nil
	case Phrase:
		terms := make([]any, len(node.Terms))
		for i, t := range node.Terms {
			terms[i] = t
		}
		return map[string]any{"type": "phrase", "field": node.Field, "terms": terms}, nil
	case Prefix:
		return map[string]any{"type": "prefix", "field": node.Field, "value": node.Value}, nil
	case Wildcard:
		return map[string]any{"type": "wildcard", "field": node.Field, "pattern": node.Pattern}, nil
	case Fuzzy:
		return map[string]any{"type": "fuzzy", "field": node.Field, "value": node.Value, "max_edits": node.MaxEdits}, nil
	case Range:
		return map[string]any{
			"type":          "range",
			"field":         node.Field,
			"lower":         node.Lower,
			"upper":         node.Upper,
			"include_lower": node.IncludeLower,
			"include_upper": node.IncludeUpper,
		}, nil
	case Boolean:
		clauses := make([]any, len(node.Clauses))
		for i, c := range node.Clauses {
			if c.Query == nil {
				return nil, fmt.Errorf("clause[%d]: nil query", i)
			}
			child, err := toMap(c.Query)
			if err != nil {
				return nil, fmt.Errorf("clause[%d]: %w", i, err)
			}
			clauses[i] = map[string]any{"occur": c.Occur.String(), "query": child}
		}
		return map[string]any{"type": "boolean", "clauses": clauses}, nil
	case RawPassthrough:
		m := map[string]any{"type": "raw", "text": node.Text}
		if node.Parsed != nil {
			parsed, err := toMap(node.Parsed)
			if err != nil {
				return nil, fmt.Errorf("raw parsed: %w", err)
			}
			m["parsed"] = parsed
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported query type: %T", q)
	}
}

func marshalCanonical(v any) ([]byte, error) {
	switch val := v.(type) {
	case string:
		return marshalCanonicalString(val)
	case int:
		return []byte(fmt.Sprintf("%d", val)), nil
	case bool:
		if val {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case []any:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			elemBytes, err := marshalCanonical(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(elemBytes)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyBytes, err := marshalCanonicalString(k)
			if err != nil {
				return nil, err
			}
			buf.Write(keyBytes)
			buf.WriteByte(':')
			valBytes, err := marshalCanonical(val[k])
			if err != nil {
				return nil, fmt.Errorf("value for key %q: %w", k, err)
			}
			buf.Write(valBytes)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString produces a JSON string with NFC normalization and
// HTML escaping disabled.
func marshalCanonicalString(s string) ([]byte, error) {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return nil, err
	}

	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
