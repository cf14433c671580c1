package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCondition_ImplementsNode(t *testing.T) {
	var n Node = Cond("title", Contains, "river")

	// Sealed interface - can type switch exhaustively
	switch n.(type) {
	case Condition:
		// Expected
	case Group:
		t.Fatal("unexpected type")
	}
}

func TestGroupConstructors(t *testing.T) {
	leaf := Cond("year", Eq, "1999")

	assert.Equal(t, AndOp, And(leaf).Op)
	assert.Equal(t, OrOp, Or(leaf).Op)
	assert.Equal(t, NotOp, Not(leaf).Op)
	assert.Len(t, And(leaf, leaf).Children, 2)
}

func TestParseOperator(t *testing.T) {
	testCases := []struct {
		in   string
		want Operator
	}{
		{"contains", Contains},
		{"CONTAINS", Contains},
		{"rawPassthrough", Raw},
		{"rawpassthrough", Raw},
		{"raw", Raw},
		{">=", Gte},
		{"<", Lt},
		{"=", Eq},
		{"<>", Neq},
		{" like ", Like},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseOperator(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ParseOperator("between")
	require.Error(t, err)
}

func TestOperator_IsComparison(t *testing.T) {
	assert.True(t, Lt.IsComparison())
	assert.True(t, Gte.IsComparison())
	assert.False(t, Eq.IsComparison())
	assert.False(t, Range.IsComparison())
}
