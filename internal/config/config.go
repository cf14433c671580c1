// Package config loads the condex configuration: the dialect and its
// encoding widths, compile options, logging, metrics and the field
// registry.
//
// Files ending in .cue or .json are checked against an embedded CUE
// schema before decoding, so errors carry a file position. YAML files are
// decoded with gopkg.in/yaml.v3, rejecting unknown keys. Both paths finish
// with Validate.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/logging"
	"github.com/roach88/condex/internal/metrics"
)

//go:embed schema.cue
var schemaCUE string

// DefaultCacheSize is the compiled-query cache size when none is set.
const DefaultCacheSize = 256

// Config is the root configuration.
type Config struct {
	Dialect       string                 `yaml:"dialect" json:"dialect"`
	Strict        bool                   `yaml:"strict" json:"strict"`
	FuzzyMaxEdits int                    `yaml:"fuzzy_max_edits" json:"fuzzy_max_edits"`
	CacheSize     int                    `yaml:"cache_size" json:"cache_size"`
	Encoding      Encoding               `yaml:"encoding" json:"encoding"`
	Legacy        Legacy                 `yaml:"legacy" json:"legacy"`
	Logging       logging.Config         `yaml:"logging" json:"logging"`
	Metrics       metrics.Config         `yaml:"metrics" json:"metrics"`
	Fields        map[string]FieldConfig `yaml:"fields" json:"fields"`
}

// Encoding sizes the modern dialect's order-preserving encoders. Zero
// widths take defaults.
type Encoding struct {
	IntegerWidth         int `yaml:"integer_width" json:"integer_width"`
	DecimalIntegerWidth  int `yaml:"decimal_integer_width" json:"decimal_integer_width"`
	DecimalFractionWidth int `yaml:"decimal_fraction_width" json:"decimal_fraction_width"`
}

// Legacy sizes the legacy dialect's bit strings. Zero sizes take defaults.
type Legacy struct {
	IntegerBits int    `yaml:"integer_bits" json:"integer_bits"`
	DecimalBits int    `yaml:"decimal_bits" json:"decimal_bits"`
	DateBits    int    `yaml:"date_bits" json:"date_bits"`
	DecimalMax  string `yaml:"decimal_max" json:"decimal_max"`
}

// FieldConfig declares one field.
type FieldConfig struct {
	Type     string `yaml:"type" json:"type"`
	Sortable bool   `yaml:"sortable" json:"sortable"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Dialect:   compiler.DialectModern,
		CacheSize: DefaultCacheSize,
		Logging:   logging.DefaultConfig(),
		Metrics:   metrics.Config{ServiceName: "condex"},
		Fields:    map[string]FieldConfig{},
	}
}

// LoadError is a configuration error with the position it was found at,
// when known.
type LoadError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads, decodes and validates the file at path. Unset values keep
// their Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue", ".json":
		err = decodeCUE(path, data, cfg)
	case ".yaml", ".yml":
		err = decodeYAML(path, data, cfg)
	default:
		err = &LoadError{Path: path, Message: "unsupported config extension (want .cue, .json, .yaml or .yml)"}
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: err.Error()}
	}
	return cfg, nil
}

func decodeCUE(path string, data []byte, cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return formatCUEError(path, err)
	}
	v = schema.LookupPath(cue.ParsePath("#Config")).Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(path, err)
	}
	if err := v.Decode(cfg); err != nil {
		return formatCUEError(path, err)
	}
	return nil
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		var te *yaml.TypeError
		if errors.As(err, &te) {
			return &LoadError{Path: path, Message: strings.Join(te.Errors, "; ")}
		}
		return &LoadError{Path: path, Message: err.Error()}
	}
	return nil
}

// formatCUEError converts the first CUE error into a LoadError carrying its
// position.
func formatCUEError(path string, err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Path: path, Message: err.Error()}
	}

	first := errs[0]
	format, args := first.Msg()
	le := &LoadError{Path: path, Message: fmt.Sprintf(format, args...)}
	if p := first.Path(); len(p) > 0 {
		le.Message = strings.Join(p, ".") + ": " + le.Message
	}
	for _, pos := range cueerrors.Positions(first) {
		if pos.Filename() == path {
			le.Line, le.Column = pos.Line(), pos.Column()
			break
		}
	}
	return le
}

// Validate checks cross-field constraints the decoders cannot express.
func (c *Config) Validate() error {
	var errs []error
	if c.FuzzyMaxEdits < 0 {
		errs = append(errs, fmt.Errorf("fuzzy_max_edits must be >= 0, got %d", c.FuzzyMaxEdits))
	}
	if c.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("cache_size must be >= 0, got %d", c.CacheSize))
	}
	if _, err := compiler.NewDialect(c.DialectConfig()); err != nil {
		errs = append(errs, fmt.Errorf("dialect: %w", err))
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}
	if _, err := c.Registry(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// DialectConfig returns the dialect selection and sizes.
func (c *Config) DialectConfig() compiler.DialectConfig {
	return compiler.DialectConfig{
		Name:             c.Dialect,
		IntegerWidth:     c.Encoding.IntegerWidth,
		DecimalIntWidth:  c.Encoding.DecimalIntegerWidth,
		DecimalFracWidth: c.Encoding.DecimalFractionWidth,
		IntegerBits:      c.Legacy.IntegerBits,
		DecimalBits:      c.Legacy.DecimalBits,
		DateBits:         c.Legacy.DateBits,
		DecimalMax:       c.Legacy.DecimalMax,
	}
}

// Registry builds the field registry. Fields are registered in name order.
func (c *Config) Registry() (*field.Registry, error) {
	names := make([]string, 0, len(c.Fields))
	for name := range c.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	defs := make([]field.Def, 0, len(names))
	for _, name := range names {
		fc := c.Fields[name]
		dt, err := field.ParseDataType(fc.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		defs = append(defs, field.Def{Name: name, Type: dt, Sortable: fc.Sortable})
	}
	return field.NewRegistry(defs...)
}
