package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldsText(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "condex.yaml", booksConfig)

	out, _, err := execute(t, "", "--config", cfg, "fields")
	require.NoError(t, err)
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "title")
	assert.Contains(t, out, "published")
}

func TestFieldsJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "condex.yaml", booksConfig)

	out, _, err := execute(t, "", "--config", cfg, "--format", "json", "fields")
	require.NoError(t, err)

	var result FieldsResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "modern", result.Dialect)

	names := make([]string, len(result.Fields))
	for i, f := range result.Fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"code", "published", "title", "year"}, names)

	title := result.Fields[2]
	assert.Equal(t, "text", title.Type)
	assert.Equal(t, "standard", title.Analyzer)
	assert.False(t, title.Sortable)
	assert.True(t, result.Fields[3].Sortable)
}

func TestFieldsNoneConfigured(t *testing.T) {
	out, _, err := execute(t, "", "fields")
	require.NoError(t, err)
	assert.Equal(t, "No fields configured.\n", out)
}
