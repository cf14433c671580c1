package cli

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/search"
)

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, compiler.DialectModern, cfg.Dialect)
	assert.Empty(t, cfg.Fields)

	dir := t.TempDir()
	cfg, err = LoadConfig(writeFile(t, dir, "legacy.yaml", legacyConfig))
	require.NoError(t, err)
	assert.Equal(t, compiler.DialectLegacy, cfg.Dialect)
	assert.Contains(t, cfg.Fields, "year")

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, ErrCodeNotFound, loadErrorCode(err))

	_, err = LoadConfig(writeFile(t, dir, "bad.yaml", "fields:\n  year: { type: money }\n"))
	assert.Equal(t, ErrCodeConfigInvalid, loadErrorCode(err))
}

func TestLoadCondition(t *testing.T) {
	dir := t.TempDir()
	want := condition.And(
		condition.Cond("title", condition.Contains, "River"),
		condition.Cond("year", condition.Eq, "1999"),
	)

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "q.yaml", riverCondition},
		{"xml", "q.xml", `<and><condition field="title" operator="contains" value="River"/><condition field="year" operator="eq" value="1999"/></and>`},
		{"sniffed xml", "q.txt", `  <and><condition field="title" operator="contains" value="River"/><condition field="year" operator="eq" value="1999"/></and>`},
		{"sniffed yaml", "q.txt", riverCondition},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := LoadCondition(writeFile(t, dir, tt.file, tt.content), nil)
			require.NoError(t, err)
			assert.Equal(t, want, root)
		})
	}
}

func TestLoadConditionStdin(t *testing.T) {
	root, err := LoadCondition("-", strings.NewReader(`condition: { field: code, operator: eq, value: BK-002 }`))
	require.NoError(t, err)
	assert.Equal(t, condition.Cond("code", condition.Eq, "BK-002"), root)

	_, err = LoadCondition("-", nil)
	assert.Equal(t, ErrCodeReadFailed, loadErrorCode(err))
}

func TestLoadConditionErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadCondition(filepath.Join(dir, "missing.xml"), nil)
	assert.Equal(t, ErrCodeNotFound, loadErrorCode(err))

	_, err = LoadCondition(writeFile(t, dir, "bad.yaml", "sometimes: []\n"), nil)
	assert.Equal(t, ErrCodeParseFailed, loadErrorCode(err))

	// Structural errors stay reachable through the LoadError.
	_, err = LoadCondition(writeFile(t, dir, "empty.xml", ""), nil)
	assert.Equal(t, ErrCodeParseFailed, loadErrorCode(err))
	assert.True(t, condition.IsStructural(err))
}

func TestLoadDocuments(t *testing.T) {
	dir := t.TempDir()

	docs, err := LoadDocuments(writeFile(t, dir, "books.yaml", booksDocs))
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, search.Document{
		ID:     1,
		Fields: map[string]string{"title": "Old Man River", "year": "1999", "code": "BK-001"},
	}, docs[0])

	docs, err = LoadDocuments(writeFile(t, dir, "books.json", `[{"id": 4, "fields": {"title": "Fox"}}]`))
	require.NoError(t, err)
	assert.Equal(t, []search.Document{{ID: 4, Fields: map[string]string{"title": "Fox"}}}, docs)

	docs, err = LoadDocuments(writeFile(t, dir, "none.yaml", ""))
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestLoadError(t *testing.T) {
	inner := errors.New("boom")
	err := &LoadError{Code: ErrCodeReadFailed, Path: "q.xml", Message: "boom", Err: inner}
	assert.Equal(t, "q.xml: E003: boom", err.Error())
	assert.ErrorIs(t, err, inner)

	assert.Equal(t, "E001: oops", (&LoadError{Code: ErrCodeGeneric, Message: "oops"}).Error())
	assert.Equal(t, ErrCodeGeneric, loadErrorCode(inner))
}

func TestMapCompileErrorCode(t *testing.T) {
	tests := []struct {
		code compiler.ErrorCode
		want string
	}{
		{compiler.ErrCodeUnknownField, ErrCodeUnknownField},
		{compiler.ErrCodeUnsupportedOperator, ErrCodeUnsupportedOperator},
		{compiler.ErrCodeEncodingDomain, ErrCodeEncodingDomain},
		{compiler.ErrCodeMalformedRawQuery, ErrCodeMalformedRawQuery},
		{compiler.ErrCodeInvalidValue, ErrCodeInvalidValue},
		{compiler.ErrCodeStructural, ErrCodeStructural},
		{compiler.ErrorCode("OTHER"), ErrCodeGeneric},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, MapCompileErrorCode(tt.code))
		})
	}
}
