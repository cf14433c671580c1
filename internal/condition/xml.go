package condition

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseXML decodes a condition document.
//
// Elements named and, or, not become Groups; condition becomes a leaf read
// from the field, operator (or op) and value attributes. A missing value
// attribute falls back to the element's character data. Any other element
// (for example a <query> wrapper) is an implicit and over its children and
// collapses to its only child when it has exactly one.
//
// Unknown operator spellings are kept verbatim so the compiler can reject
// that single leaf instead of the whole document.
func ParseXML(r io.Reader) (Node, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil, &StructuralError{Path: "/", Message: "empty condition document"}
		}
		if err != nil {
			return nil, &StructuralError{Path: "/", Message: fmt.Sprintf("malformed document: %v", err)}
		}
		if start, ok := tok.(xml.StartElement); ok {
			return decodeElement(dec, start, "")
		}
	}
}

// ParseXMLString is ParseXML over a string.
func ParseXMLString(doc string) (Node, error) {
	return ParseXML(strings.NewReader(doc))
}

func decodeElement(dec *xml.Decoder, start xml.StartElement, path string) (Node, error) {
	name := strings.ToLower(start.Name.Local)
	if name == "condition" {
		return decodeCondition(dec, start, path)
	}

	var children []Node
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &StructuralError{Path: pathOrRoot(path), Message: fmt.Sprintf("malformed document: %v", err)}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeElement(dec, t, fmt.Sprintf("%s/%d", path, len(children)))
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		case xml.EndElement:
			switch Combinator(name) {
			case AndOp, OrOp, NotOp:
				return Group{Op: Combinator(name), Children: children}, nil
			}
			if len(children) == 1 {
				return children[0], nil
			}
			return Group{Op: AndOp, Children: children}, nil
		}
	}
}

func decodeCondition(dec *xml.Decoder, start xml.StartElement, path string) (Node, error) {
	var c Condition
	valueSet := false
	for _, attr := range start.Attr {
		switch strings.ToLower(attr.Name.Local) {
		case "field":
			c.Field = attr.Value
		case "operator", "op":
			c.Operator = operatorOrRaw(attr.Value)
		case "value":
			c.Value = attr.Value
			valueSet = true
		}
	}

	var text strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, &StructuralError{Path: pathOrRoot(path), Message: fmt.Sprintf("malformed document: %v", err)}
		}
		switch t := tok.(type) {
		case xml.CharData:
			text.Write(t)
		case xml.StartElement:
			return nil, &StructuralError{Path: pathOrRoot(path), Message: "condition element cannot have child elements"}
		case xml.EndElement:
			if !valueSet {
				c.Value = strings.TrimSpace(text.String())
			}
			return c, nil
		}
	}
}

// operatorOrRaw parses s, keeping the raw spelling when it is unknown.
func operatorOrRaw(s string) Operator {
	if op, err := ParseOperator(s); err == nil {
		return op
	}
	return Operator(s)
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
