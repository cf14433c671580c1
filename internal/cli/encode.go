package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/condex/internal/analysis"
	"github.com/roach88/condex/internal/app"
	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/numenc"
	"github.com/roach88/condex/internal/query"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions
	Type string // data type override; the field need not be configured
	Op   string // comparison operator to compile instead of index terms
}

// EncodeResult is the encoding of one value.
type EncodeResult struct {
	Field   string   `json:"field"`
	Type    string   `json:"type"`
	Dialect string   `json:"dialect"`
	Value   string   `json:"value"`
	Terms   []string `json:"terms,omitempty"`
	Query   string   `json:"query,omitempty"`
}

// RenderText implements TextRenderer: the query, or one term per line.
func (r EncodeResult) RenderText(w io.Writer) error {
	if r.Query != "" {
		_, err := fmt.Fprintln(w, r.Query)
		return err
	}
	for _, t := range r.Terms {
		if _, err := fmt.Fprintln(w, t); err != nil {
			return err
		}
	}
	return nil
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode <field> <value>",
		Short: "Show the index terms or comparison query for a value",
		Long: `Show how a value is encoded for a field under the configured dialect.

Without --op, prints the terms the value is indexed under: analyzer tokens
for text and identifier fields, "1"/"0" for booleans, and the dialect's
order-preserving encoding for numbers and dates.

With --op (eq, lt, lte, gt, gte), prints the dialect's comparison query.

Examples:
  condc encode --config condex.yaml year 1999
  condc encode --type integer --op gt n 5
  condc encode --config legacy.cue --op lte published 2001-01-01`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", "", "data type of the field (overrides the configuration)")
	cmd.Flags().StringVar(&opts.Op, "op", "", "comparison operator to compile")

	return cmd
}

func runEncode(opts *EncodeOptions, name, value string, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts.RootOptions, cmd)

	c, err := buildComponents(ctx, opts.RootOptions)
	if err != nil {
		return failLoad(formatter, err)
	}
	defer c.Close(ctx)

	def, err := resolveField(c, name, opts.Type)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeUnknownField, err.Error(), nil)
	}

	dialect := c.Compiler.Dialect()
	result := EncodeResult{Field: def.Name, Type: string(def.Type), Dialect: dialect.Name(), Value: value}

	if opts.Op != "" {
		op, err := condition.ParseOperator(opts.Op)
		if err != nil || (op != condition.Eq && !op.IsComparison()) {
			return formatter.Fail(ExitCommandError, ErrCodeUnsupportedOperator,
				fmt.Sprintf("--op must be one of eq, lt, lte, gt, gte; got %q", opts.Op), nil)
		}
		q, err := dialect.Compare(def, op, value)
		if err != nil {
			return failEncode(formatter, err)
		}
		result.Query = query.String(q)
		return formatter.Success(result)
	}

	switch def.Type {
	case field.Text:
		result.Terms = analysis.Standard{}.Analyze(def.Name, value).Terms()
	case field.Identifier:
		result.Terms = analysis.Keyword{}.Analyze(def.Name, value).Terms()
	case field.Boolean:
		result.Terms = []string{compiler.BooleanTerm(value)}
	default:
		term, err := dialect.IndexTerm(def, value)
		if err != nil {
			return failEncode(formatter, err)
		}
		result.Terms = []string{term}
	}
	return formatter.Success(result)
}

// resolveField looks name up in the registry, or builds an ad hoc
// definition when typeName is set.
func resolveField(c *app.Components, name, typeName string) (field.Def, error) {
	if typeName == "" {
		return c.Compiler.Registry().Resolve(name)
	}
	dt, err := field.ParseDataType(strings.ToLower(typeName))
	if err != nil {
		return field.Def{}, err
	}
	return field.Def{Name: name, Type: dt}, nil
}

func failEncode(f *OutputFormatter, err error) error {
	code := ErrCodeInvalidValue
	switch {
	case errors.Is(err, compiler.ErrUnsupported):
		code = ErrCodeUnsupportedOperator
	case numenc.IsDomainError(err):
		code = ErrCodeEncodingDomain
	}
	return f.Fail(ExitFailure, code, err.Error(), nil)
}
