package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacyConfig = `
dialect: legacy
fields:
  year: { type: integer }
`

func TestEncodeIndexTerms(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "condex.yaml", booksConfig)

	tests := []struct {
		name  string
		field string
		value string
		want  string
	}{
		{"integer", "year", "1999", "10000001999\n"},
		{"text tokens", "title", "Old Man River", "old\nman\nriver\n"},
		{"identifier kept whole", "code", "BK-002", "BK-002\n"},
		{"date", "published", "2000-01-01", "2000-01-01\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", "--config", cfg, "encode", tt.field, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestEncodeLegacyBits(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "legacy.yaml", legacyConfig)

	out, _, err := execute(t, "", "--config", cfg, "--format", "json", "encode", "year", "1987")
	require.NoError(t, err)

	var result EncodeResult
	resp := decodeResponse(t, out, &result)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "legacy", result.Dialect)
	assert.Equal(t, "integer", result.Type)
	assert.Equal(t, []string{"00000000000000000000011111000011"}, result.Terms)
}

func TestEncodeTypeOverride(t *testing.T) {
	out, _, err := execute(t, "", "encode", "--type", "boolean", "flag", "true")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, _, err = execute(t, "", "encode", "-t", "integer", "--op", "eq", "n", "1999")
	require.NoError(t, err)
	assert.Equal(t, "n:10000001999\n", out)
}

func TestEncodeCompare(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "condex.yaml", booksConfig)

	out, _, err := execute(t, "", "--config", cfg, "encode", "--op", "gte", "published", "2000-01-01")
	require.NoError(t, err)
	assert.Equal(t, "published:[2000\\-01\\-01 TO *]\n", out)

	// nothing encodable lies above the domain maximum
	out, _, err = execute(t, "", "--config", cfg, "encode", "--op", "gt", "year", "9999999999")
	require.NoError(t, err)
	assert.Equal(t, "()\n", out)
}

func TestEncodeErrors(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "condex.yaml", booksConfig)

	tests := []struct {
		name     string
		args     []string
		exitCode int
		code     string
	}{
		{"unknown field", []string{"encode", "author", "Twain"}, ExitFailure, ErrCodeUnknownField},
		{"bad operator", []string{"encode", "--op", "like", "year", "1999"}, ExitCommandError, ErrCodeUnsupportedOperator},
		{"contains is not a comparison", []string{"encode", "--op", "contains", "year", "1999"}, ExitCommandError, ErrCodeUnsupportedOperator},
		{"comparison on text", []string{"encode", "--op", "gt", "title", "river"}, ExitFailure, ErrCodeUnsupportedOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfg, "--format", "json"}, tt.args...)
			out, _, err := execute(t, "", args...)
			require.Error(t, err)
			assert.Equal(t, tt.exitCode, GetExitCode(err))

			resp := decodeResponse(t, out, nil)
			assert.Equal(t, "error", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}
