package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseYAML_Tree(t *testing.T) {
	doc := `
and:
  - condition: {field: title, operator: contains, value: river}
  - not:
      - condition: {field: status, operator: eq, value: draft}
`
	node, err := ParseYAML([]byte(doc))
	require.NoError(t, err)

	want := And(
		Cond("title", Contains, "river"),
		Not(Cond("status", Eq, "draft")),
	)
	assert.Equal(t, want, node)
}

func TestParseYAML_Errors(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{"two keys", "and: []\nor: []\n"},
		{"unknown key", "xor:\n  - condition: {field: a, operator: eq, value: b}\n"},
		{"group not a list", "and: {field: a}\n"},
		{"scalar", "hello\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tc.doc))
			assert.Error(t, err)
		})
	}
}

func TestTree_YAMLRoundTrip(t *testing.T) {
	original := And(
		Cond("price", Gt, "9.99"),
		Or(Cond("title", Like, "riv*"), Cond("title", Fuzzy, "rivr")),
	)

	data, err := yaml.Marshal(Tree{Root: original})
	require.NoError(t, err)

	var decoded Tree
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded.Root)
}

func TestTree_EmbeddedInDocument(t *testing.T) {
	type wrapper struct {
		Name  string `yaml:"name"`
		Query Tree   `yaml:"query"`
	}

	doc := `
name: scenario
query:
  condition: {field: year, operator: ">=", value: "1999"}
`
	var w wrapper
	require.NoError(t, yaml.Unmarshal([]byte(doc), &w))
	assert.Equal(t, Cond("year", Gte, "1999"), w.Query.Root)
}
