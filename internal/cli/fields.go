package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/condex/internal/analysis"
)

// FieldInfo describes one registered field.
type FieldInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Sortable bool   `json:"sortable"`
	Analyzer string `json:"analyzer"`
}

// FieldsResult lists the registry in name order.
type FieldsResult struct {
	Dialect string      `json:"dialect"`
	Fields  []FieldInfo `json:"fields"`
}

// RenderText implements TextRenderer.
func (r FieldsResult) RenderText(w io.Writer) error {
	if len(r.Fields) == 0 {
		_, err := fmt.Fprintln(w, "No fields configured.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tSORTABLE\tANALYZER")
	for _, f := range r.Fields {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", f.Name, f.Type, f.Sortable, f.Analyzer)
	}
	return tw.Flush()
}

// NewFieldsCommand creates the fields command.
func NewFieldsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "fields",
		Short:         "List the configured fields",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(rootOpts, cmd)
		},
	}
}

func runFields(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := newFormatter(opts, cmd)

	c, err := buildComponents(ctx, opts)
	if err != nil {
		return failLoad(formatter, err)
	}
	defer c.Close(ctx)

	result := FieldsResult{Dialect: c.Compiler.Dialect().Name(), Fields: []FieldInfo{}}
	analyzers := c.Compiler.Analyzers()
	for _, def := range c.Compiler.Registry().Defs() {
		result.Fields = append(result.Fields, FieldInfo{
			Name:     def.Name,
			Type:     string(def.Type),
			Sortable: def.Sortable,
			Analyzer: analyzerName(analyzers.For(def.Name)),
		})
	}

	if err := formatter.Success(result); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}

func analyzerName(a analysis.Analyzer) string {
	switch a.(type) {
	case analysis.Standard:
		return "standard"
	case analysis.Keyword:
		return "keyword"
	default:
		return fmt.Sprintf("%T", a)
	}
}
