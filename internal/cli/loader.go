package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/condex/internal/app"
	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/config"
	"github.com/roach88/condex/internal/harness"
	"github.com/roach88/condex/internal/logging"
	"github.com/roach88/condex/internal/search"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric       = "E001"
	ErrCodeNotFound      = "E002" // input file missing
	ErrCodeReadFailed    = "E003" // input file unreadable
	ErrCodeParseFailed   = "E004" // condition or document file malformed
	ErrCodeConfigInvalid = "E005" // configuration rejected
	ErrCodeIndexFailed   = "E006" // documents could not be indexed or searched
	ErrCodeWriteFailed   = "E007" // output could not be written
	ErrCodeTestFailed    = "E008" // one or more scenarios failed
)

// Compile error codes (E1xx), one per compiler.ErrorCode.
const (
	ErrCodeUnknownField        = "E101"
	ErrCodeUnsupportedOperator = "E102"
	ErrCodeEncodingDomain      = "E103"
	ErrCodeMalformedRawQuery   = "E104"
	ErrCodeInvalidValue        = "E105"
	ErrCodeStructural          = "E106"
)

// MapCompileErrorCode maps a compiler error code to its CLI error code.
func MapCompileErrorCode(code compiler.ErrorCode) string {
	switch code {
	case compiler.ErrCodeUnknownField:
		return ErrCodeUnknownField
	case compiler.ErrCodeUnsupportedOperator:
		return ErrCodeUnsupportedOperator
	case compiler.ErrCodeEncodingDomain:
		return ErrCodeEncodingDomain
	case compiler.ErrCodeMalformedRawQuery:
		return ErrCodeMalformedRawQuery
	case compiler.ErrCodeInvalidValue:
		return ErrCodeInvalidValue
	case compiler.ErrCodeStructural:
		return ErrCodeStructural
	default:
		return ErrCodeGeneric
	}
}

// LoadError represents an error that occurred while loading an input.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadConfig loads the configuration at path, or the defaults when path is
// empty.
func LoadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "config file not found", Err: err}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfigInvalid, Path: path, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// LoadCondition reads one condition tree. The path "-" reads stdin.
// Files ending in .xml are decoded as XML documents and .yaml/.yml files as
// YAML trees; anything else is sniffed: input starting with '<' is XML.
func LoadCondition(path string, stdin io.Reader) (condition.Node, error) {
	data, err := readInput(path, stdin)
	if err != nil {
		return nil, err
	}

	var root condition.Node
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case ext == ".xml":
		root, err = condition.ParseXML(bytes.NewReader(data))
	case ext == ".yaml" || ext == ".yml":
		root, err = condition.ParseYAML(data)
	case bytes.HasPrefix(bytes.TrimSpace(data), []byte("<")):
		root, err = condition.ParseXML(bytes.NewReader(data))
	default:
		root, err = condition.ParseYAML(data)
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: err.Error(), Err: err}
	}
	return root, nil
}

// LoadDocuments reads a YAML (or JSON) list of documents:
//
//	- id: 1
//	  fields: { title: "Old Man River", year: "1999" }
func LoadDocuments(path string) ([]search.Document, error) {
	data, err := readInput(path, nil)
	if err != nil {
		return nil, err
	}

	var raw []harness.Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, &LoadError{Code: ErrCodeParseFailed, Path: path, Message: err.Error(), Err: err}
	}

	docs := make([]search.Document, len(raw))
	for i, d := range raw {
		docs[i] = search.Document{ID: d.ID, Fields: d.Fields}
	}
	return docs, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		if stdin == nil {
			return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: "stdin is not available"}
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: err.Error(), Err: err}
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "file not found", Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Path: path, Message: err.Error(), Err: err}
	}
	return data, nil
}

// buildComponents loads the configuration named by the global flags and
// starts the component graph. --verbose lowers the log level to debug.
func buildComponents(ctx context.Context, opts *RootOptions) (*app.Components, error) {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		cfg.Logging.Level = logging.Debug
	}
	c, err := app.Build(ctx, cfg)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfigInvalid, Path: opts.Config, Message: err.Error(), Err: err}
	}
	return c, nil
}

// loadErrorCode returns the CLI code carried by err, or ErrCodeGeneric.
func loadErrorCode(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code
	}
	return ErrCodeGeneric
}
