package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/condex/internal/query"
	"github.com/roach88/condex/internal/search"
	"github.com/roach88/condex/internal/search/memindex"
	"github.com/roach88/condex/internal/search/sqlindex"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Docs string // documents file to index before searching
	DB   string // SQLite database path; empty searches in memory
}

// SearchResult holds the documents matching a condition.
type SearchResult struct {
	Engine string         `json:"engine"`
	Query  string         `json:"query"`
	Hits   []search.DocID `json:"hits"`
}

// RenderText implements TextRenderer.
func (r SearchResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n%d hit(s): %v\n", r.Query, len(r.Hits), r.Hits)
	return err
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search [condition-file]",
		Short: "Compile a condition and run it against an index",
		Long: `Compile a condition tree and run it against a reference index.

Documents are read from --docs, a YAML or JSON list of {id, fields}
entries with raw field values, and indexed with the configured dialect.
Without --db the index lives in memory; with --db the postings are kept in
a SQLite database, and --docs may be omitted to search an existing one.

Examples:
  condc search --config condex.yaml --docs books.yaml query.xml
  condc search --config condex.yaml --db books.db --docs books.yaml query.yaml
  condc search --config condex.yaml --db books.db - < query.xml`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			return runSearch(cmd.Context(), opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Docs, "docs", "", "documents file to index")
	cmd.Flags().StringVar(&opts.DB, "db", "", "SQLite database path")

	return cmd
}

func runSearch(ctx context.Context, opts *SearchOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	if opts.Docs == "" && opts.DB == "" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "--docs is required without --db", nil)
	}

	c, err := buildComponents(ctx, opts.RootOptions)
	if err != nil {
		return failLoad(formatter, err)
	}
	defer c.Close(ctx)

	root, err := LoadCondition(path, cmd.InOrStdin())
	if err != nil {
		return failLoad(formatter, err)
	}
	q, err := c.Cache.Compile(root)
	if err != nil {
		cliErr := compileCLIError(err)
		return formatter.Fail(ExitFailure, cliErr.Code, cliErr.Message, cliErr.Details)
	}

	var docs []search.Document
	if opts.Docs != "" {
		if docs, err = LoadDocuments(opts.Docs); err != nil {
			return failLoad(formatter, err)
		}
	}

	indexer := search.NewIndexer(c.Compiler)
	result := SearchResult{Query: query.String(q)}
	if opts.DB == "" {
		result.Engine = "memory"
		result.Hits, err = searchMemory(ctx, indexer, docs, q)
	} else {
		result.Engine = "sqlite"
		result.Hits, err = searchSQLite(ctx, opts.DB, indexer, docs, q)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeIndexFailed, err.Error(), nil)
	}
	if result.Hits == nil {
		result.Hits = []search.DocID{}
	}

	formatter.VerboseLog("Searched %d new document(s) with the %s engine", len(docs), result.Engine)
	if err := formatter.Success(result); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	return nil
}

func searchMemory(ctx context.Context, indexer *search.Indexer, docs []search.Document, q query.Query) ([]search.DocID, error) {
	idx := memindex.New(indexer)
	if err := idx.Add(docs...); err != nil {
		return nil, err
	}
	return idx.Execute(ctx, q)
}

func searchSQLite(ctx context.Context, path string, indexer *search.Indexer, docs []search.Document, q query.Query) ([]search.DocID, error) {
	st, err := sqlindex.Open(path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	idx := sqlindex.New(st, indexer)
	if len(docs) > 0 {
		if err := idx.Add(ctx, docs...); err != nil {
			return nil, err
		}
	}
	return idx.Execute(ctx, q)
}
