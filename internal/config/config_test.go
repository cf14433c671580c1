package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/field"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const cueConfig = `
dialect: "legacy"
strict:  true
fuzzy_max_edits: 1
legacy: {
	integer_bits: 16
	decimal_max:  "5000"
}
logging: level: "debug"
fields: {
	title: {type: "text", sortable: true}
	year:  type: "integer"
}
`

func TestLoad_CUE(t *testing.T) {
	cfg, err := Load(writeFile(t, "condex.cue", cueConfig))
	require.NoError(t, err)

	assert.Equal(t, compiler.DialectLegacy, cfg.Dialect)
	assert.True(t, cfg.Strict)
	assert.Equal(t, 1, cfg.FuzzyMaxEdits)
	assert.Equal(t, DefaultCacheSize, cfg.CacheSize)
	assert.Equal(t, 16, cfg.Legacy.IntegerBits)
	assert.Equal(t, "5000", cfg.Legacy.DecimalMax)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, FieldConfig{Type: "text", Sortable: true}, cfg.Fields["title"])

	reg, err := cfg.Registry()
	require.NoError(t, err)
	def, err := reg.Resolve("year")
	require.NoError(t, err)
	assert.Equal(t, field.Integer, def.Type)

	d, err := compiler.NewDialect(cfg.DialectConfig())
	require.NoError(t, err)
	assert.Equal(t, compiler.DialectLegacy, d.Name())
}

func TestLoad_JSON(t *testing.T) {
	cfg, err := Load(writeFile(t, "condex.json", `{"cache_size": 0, "fields": {"code": {"type": "identifier"}}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.CacheSize)
	assert.Equal(t, compiler.DialectModern, cfg.Dialect)
	assert.Equal(t, "identifier", cfg.Fields["code"].Type)
}

func TestLoad_CUESchemaErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"unknown dialect", "dialect: \"solr\"\nfields: {}\n", "dialect"},
		{"bad field type", "fields: {\n\ta: type: \"blob\"\n}\n", "type"},
		{"negative edits", "fuzzy_max_edits: -1\nfields: {}\n", "fuzzy_max_edits"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "condex.cue", tt.src))
			require.Error(t, err)
			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Contains(t, le.Error(), tt.want)
		})
	}
}

func TestLoad_CUEUnknownKeyHasPosition(t *testing.T) {
	_, err := Load(writeFile(t, "condex.cue", "fields: {}\ncolour: \"red\"\n"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Message, "colour")
	assert.Equal(t, 2, le.Line)
}

const yamlConfig = `
dialect: modern
encoding:
  integer_width: 6
  decimal_integer_width: 6
  decimal_fraction_width: 2
cache_size: 10
fields:
  title: {type: text}
  price: {type: decimal}
`

func TestLoad_YAML(t *testing.T) {
	cfg, err := Load(writeFile(t, "condex.yaml", yamlConfig))
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Encoding.IntegerWidth)
	assert.Equal(t, 2, cfg.Encoding.DecimalFractionWidth)
	assert.Equal(t, 10, cfg.CacheSize)
	assert.Equal(t, "warning", cfg.Logging.Level, "unset sections keep defaults")
	assert.Len(t, cfg.Fields, 2)
}

func TestLoad_YAMLErrors(t *testing.T) {
	_, err := Load(writeFile(t, "condex.yml", "colour: red\n"))
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Message, "colour")

	_, err = Load(writeFile(t, "condex.yaml", "fields:\n  a: {type: blob}\n"))
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Message, `field "a"`)

	_, err = Load(writeFile(t, "condex.yaml", "encoding:\n  integer_width: 40\n"))
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Message, "dialect")
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "condex.toml", "dialect = 'modern'"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate_CollectsEveryError(t *testing.T) {
	cfg := Default()
	cfg.FuzzyMaxEdits = -1
	cfg.CacheSize = -1
	cfg.Dialect = "solr"
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"fuzzy_max_edits", "cache_size", "solr", "loud"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NoError(t, Default().Validate())
}

func TestLoadError(t *testing.T) {
	assert.Equal(t, "c.cue:3:4: bad", (&LoadError{Path: "c.cue", Line: 3, Column: 4, Message: "bad"}).Error())
	assert.Equal(t, "c.yaml: bad", (&LoadError{Path: "c.yaml", Message: "bad"}).Error())
}
