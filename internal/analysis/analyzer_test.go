package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condex/internal/field"
)

func TestStandard_Tokenize(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want []string
	}{
		{"two words", "fox jumps", []string{"fox", "jumps"}},
		{"case and punctuation", "The Quick, brown FOX!", []string{"the", "quick", "brown", "fox"}},
		{"accents folded", "Crème Brûlée", []string{"creme", "brulee"}},
		{"digits kept", "route 66", []string{"route", "66"}},
		{"decimal splits", "9.99", []string{"9", "99"}},
		{"empty", "", nil},
		{"only separators", "  -- ,, ", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Standard{}.Analyze("body", tc.in).Terms()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStandard_Positions(t *testing.T) {
	tokens := Standard{}.Analyze("body", "a b  c").Tokens()
	require.Len(t, tokens, 3)
	for i, tok := range tokens {
		assert.Equal(t, i, tok.Position)
	}
}

func TestTokenStream_ConsumeOnce(t *testing.T) {
	stream := Standard{}.Analyze("body", "one two")

	first := stream.Terms()
	assert.Equal(t, []string{"one", "two"}, first)

	// Not restartable: a drained stream stays empty
	assert.Empty(t, stream.Terms())
	_, ok := stream.Next()
	assert.False(t, ok)
}

func TestTokenStream_Nil(t *testing.T) {
	var s *TokenStream
	_, ok := s.Next()
	assert.False(t, ok)
}

func TestKeyword(t *testing.T) {
	assert.Equal(t, []string{"ABC-123 x"}, Keyword{}.Analyze("id", "ABC-123 x").Terms())
	assert.Empty(t, Keyword{}.Analyze("id", "").Terms())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "riviere", Normalize(" Rivière "))
	assert.Equal(t, "strasse", Normalize("Straße"))
}

func TestCache_PerFieldAnalyzers(t *testing.T) {
	reg := field.MustRegistry(
		field.Def{Name: "title", Type: field.Text},
		field.Def{Name: "sku", Type: field.Identifier},
	)
	c := NewCache(reg)

	assert.Equal(t, []string{"red", "shoe"}, c.Tokenize("title", "Red Shoe").Terms())
	assert.Equal(t, []string{"Red Shoe"}, c.Tokenize("sku", "Red Shoe").Terms())
	assert.Equal(t, []string{"red", "shoe"}, c.Tokenize("unknown", "Red Shoe").Terms())
}

func TestNilCache(t *testing.T) {
	var c *Cache
	assert.Equal(t, []string{"x"}, c.Tokenize("f", "X").Terms())
}
