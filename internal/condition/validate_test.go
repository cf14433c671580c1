package condition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidTree(t *testing.T) {
	tree := And(
		Cond("title", Contains, "river"),
		Not(Cond("status", Eq, "draft")),
	)
	assert.NoError(t, Validate(tree))
}

func TestValidate_SingleLeafRoot(t *testing.T) {
	assert.NoError(t, Validate(Cond("title", Contains, "river")))
}

func TestValidate_NilRoot(t *testing.T) {
	err := Validate(nil)
	require.Error(t, err)
	assert.True(t, IsStructural(err))

	var se *StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "/", se.Path)
}

func TestValidate_EmptyRootGroup(t *testing.T) {
	err := Validate(And())
	require.Error(t, err)
	assert.True(t, IsStructural(err))
	assert.Contains(t, err.Error(), "no children")
}

func TestValidate_EmptyNestedGroupAllowed(t *testing.T) {
	tree := And(Cond("a", Eq, "1"), Or())
	assert.NoError(t, Validate(tree))
}

func TestValidate_UnknownCombinator(t *testing.T) {
	tree := And(Group{Op: "xor", Children: []Node{Cond("a", Eq, "1")}})
	err := Validate(tree)
	require.Error(t, err)

	var se *StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "/0", se.Path)
	assert.Contains(t, se.Message, "xor")
}

func TestValidate_NilChild(t *testing.T) {
	tree := And(Cond("a", Eq, "1"), Or(Cond("b", Eq, "2"), nil))
	err := Validate(tree)
	require.Error(t, err)

	var se *StructuralError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "/1/1", se.Path)
}

func TestValidate_LeafContentsNotInspected(t *testing.T) {
	// Unknown fields and operators are leaf-level problems for the compiler
	tree := And(Cond("", Operator("bogus"), ""))
	assert.NoError(t, Validate(tree))
}

func TestKey_Deterministic(t *testing.T) {
	a := And(Cond("title", Contains, "river"), Not(Cond("year", Lt, "1999")))
	b := And(Cond("title", Contains, "river"), Not(Cond("year", Lt, "1999")))
	c := And(Cond("title", Contains, "river"), Not(Cond("year", Lte, "1999")))

	assert.Equal(t, Key(a), Key(b))
	assert.NotEqual(t, Key(a), Key(c))
	assert.Equal(t, `(and (cond "title" "contains" "river") (not (cond "year" "lt" "1999")))`, Key(a))
}

func TestKey_QuotesValues(t *testing.T) {
	// A value containing key syntax must not collide with a different tree
	a := Cond("f", Eq, `x") (cond "g`)
	b := And(Cond("f", Eq, "x"), Cond("g", Eq, ""))
	assert.NotEqual(t, Key(a), Key(b))
}
