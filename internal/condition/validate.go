package condition

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// StructuralError reports a condition tree whose shape cannot be compiled.
//
// Path locates the offending node as a slash-separated list of child
// indexes from the root ("/" is the root itself).
type StructuralError struct {
	Path    string
	Message string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error at %s: %s", e.Path, e.Message)
}

// IsStructural reports whether err is (or wraps) a StructuralError.
func IsStructural(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// Validate checks the tree shape.
//
// Rules:
//  1. The root must be non-nil.
//  2. A root group must have at least one child.
//  3. Every group must use and, or or not.
//  4. No child may be nil.
//
// Empty nested groups are allowed; they contribute nothing when compiled.
// Leaf contents are not inspected.
//
// Validate is a pure function with no side effects.
func Validate(root Node) error {
	if root == nil {
		return &StructuralError{Path: "/", Message: "empty condition tree"}
	}
	if g, ok := asGroup(root); ok && len(g.Children) == 0 {
		return &StructuralError{Path: "/", Message: fmt.Sprintf("root %s group has no children", g.Op)}
	}
	return validateNode(root, "")
}

// validateNode recursively validates a node at path.
func validateNode(n Node, path string) error {
	where := path
	if where == "" {
		where = "/"
	}

	switch node := n.(type) {
	case Condition:
		return nil
	case *Condition:
		if node == nil {
			return &StructuralError{Path: where, Message: "nil condition"}
		}
		return nil
	case Group:
		return validateGroup(node, path, where)
	case *Group:
		if node == nil {
			return &StructuralError{Path: where, Message: "nil group"}
		}
		return validateGroup(*node, path, where)
	default:
		return &StructuralError{Path: where, Message: fmt.Sprintf("unknown node type %T", n)}
	}
}

func validateGroup(g Group, path, where string) error {
	if !g.Op.Valid() {
		return &StructuralError{Path: where, Message: fmt.Sprintf("unknown combinator %q", g.Op)}
	}
	for i, child := range g.Children {
		childPath := path + "/" + strconv.Itoa(i)
		if child == nil {
			return &StructuralError{Path: childPath, Message: "nil child"}
		}
		if err := validateNode(child, childPath); err != nil {
			return err
		}
	}
	return nil
}

func asGroup(n Node) (Group, bool) {
	switch g := n.(type) {
	case Group:
		return g, true
	case *Group:
		if g != nil {
			return *g, true
		}
	}
	return Group{}, false
}

// Key returns a deterministic textual encoding of the tree, suitable as a
// cache key input. Two trees have the same key iff they are structurally
// identical (same node kinds, order, fields, operators and values).
func Key(n Node) string {
	var b strings.Builder
	writeKey(&b, n)
	return b.String()
}

func writeKey(b *strings.Builder, n Node) {
	switch node := n.(type) {
	case Condition:
		writeLeafKey(b, node)
	case *Condition:
		writeLeafKey(b, *node)
	case Group:
		writeGroupKey(b, node)
	case *Group:
		writeGroupKey(b, *node)
	default:
		b.WriteString("nil")
	}
}

func writeLeafKey(b *strings.Builder, c Condition) {
	b.WriteString("(cond ")
	b.WriteString(strconv.Quote(c.Field))
	b.WriteByte(' ')
	b.WriteString(strconv.Quote(string(c.Operator)))
	b.WriteByte(' ')
	b.WriteString(strconv.Quote(c.Value))
	b.WriteByte(')')
}

func writeGroupKey(b *strings.Builder, g Group) {
	b.WriteByte('(')
	b.WriteString(string(g.Op))
	for _, child := range g.Children {
		b.WriteByte(' ')
		writeKey(b, child)
	}
	b.WriteByte(')')
}
