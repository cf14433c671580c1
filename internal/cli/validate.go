package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/config"
)

// ValidationError is one problem found by validate.
type ValidationError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool              `json:"valid"`
	Dialect    string            `json:"dialect,omitempty"`
	Fields     int               `json:"fields"`
	Conditions int               `json:"conditions"`
	Errors     []ValidationError `json:"errors,omitempty"`
}

// RenderText implements TextRenderer.
func (r ValidationResult) RenderText(w io.Writer) error {
	if r.Valid {
		_, err := fmt.Fprintf(w, "✓ valid: %s dialect, %d field(s), %d condition(s)\n", r.Dialect, r.Fields, r.Conditions)
		return err
	}
	for _, e := range r.Errors {
		loc := e.Path
		if e.Line > 0 {
			loc = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
		}
		fmt.Fprintf(w, "✗ %s: [%s] %s\n", loc, e.Code, e.Message)
	}
	return nil
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <config-file> [condition-file...]",
		Short: "Validate a configuration and condition trees without compiling",
		Long: `Validate a configuration file against the config schema, and check the
structure of condition trees (non-empty root, combinators with children,
leaves with a field) without compiling them.

Faster than compile for development feedback, and reports positions for
configuration errors.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, configPath string, conditionPaths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	result := ValidationResult{}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		if loadErrorCode(err) == ErrCodeNotFound {
			return failLoad(formatter, err)
		}
		result.Errors = append(result.Errors, configValidationError(configPath, err))
	} else {
		formatter.VerboseLog("Loaded %s", configPath)
		result.Dialect = cfg.Dialect
		result.Fields = len(cfg.Fields)
	}

	for _, path := range conditionPaths {
		root, err := LoadCondition(path, cmd.InOrStdin())
		if err == nil {
			err = condition.Validate(root)
		}
		if err != nil {
			code := loadErrorCode(err)
			if condition.IsStructural(err) {
				code = ErrCodeStructural
			}
			result.Errors = append(result.Errors, ValidationError{Path: path, Code: code, Message: err.Error()})
			continue
		}
		formatter.VerboseLog("Validated %s", path)
		result.Conditions++
	}

	result.Valid = len(result.Errors) == 0
	if err := formatter.Success(result); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("%d validation error(s)", len(result.Errors)))
	}
	return nil
}

func configValidationError(path string, err error) ValidationError {
	out := ValidationError{Path: path, Code: loadErrorCode(err), Message: err.Error()}
	var le *config.LoadError
	if errors.As(err, &le) {
		out.Message = le.Message
		out.Line = le.Line
		out.Column = le.Column
	}
	return out
}
