package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/condex/internal/query"
	"github.com/roach88/condex/internal/rawquery"
)

// FixQueryOptions holds flags for the fixquery command.
type FixQueryOptions struct {
	*RootOptions
	Field string // default field; when set the fixed text is also parsed
}

// FixQueryResult is a normalized raw query.
type FixQueryResult struct {
	Input  string `json:"input"`
	Fixed  string `json:"fixed"`
	Parsed string `json:"parsed,omitempty"`
}

// RenderText implements TextRenderer.
func (r FixQueryResult) RenderText(w io.Writer) error {
	if _, err := fmt.Fprintln(w, r.Fixed); err != nil {
		return err
	}
	if r.Parsed != "" {
		_, err := fmt.Fprintf(w, "parsed: %s\n", r.Parsed)
		return err
	}
	return nil
}

// NewFixQueryCommand creates the fixquery command.
func NewFixQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FixQueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fixquery <text>...",
		Short: "Normalize raw query text",
		Long: `Normalize raw query text the way raw passthrough leaves are normalized:
every token is lowercased and accent-folded, except AND, OR, NOT and TO
outside quoted phrases.

With --field the fixed text is parsed in the native grammar, using the
given field for bare terms, and the parsed query is printed as well.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFixQuery(opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Field, "field", "", "default field; parse the fixed query")

	return cmd
}

func runFixQuery(opts *FixQueryOptions, text string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	result := FixQueryResult{Input: text, Fixed: rawquery.FixQuery(text)}
	if opts.Field != "" {
		q, err := rawquery.Parse(result.Fixed, opts.Field)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeMalformedRawQuery, err.Error(), map[string]string{"fixed": result.Fixed})
		}
		result.Parsed = query.String(q)
	}

	if err := formatter.Success(result); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}
