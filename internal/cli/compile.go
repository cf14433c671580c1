package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/query"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Canonical bool // emit canonical JSON instead of the native rendering
	Jobs      int  // parallel compilations
	Metrics   bool // dump metrics to stderr when done
}

// DegradedLeaf describes a leaf that contributed nothing.
type DegradedLeaf struct {
	Code     string `json:"code"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Message  string `json:"message"`
}

// CompiledCondition is the outcome for one input.
type CompiledCondition struct {
	Source    string          `json:"source"`
	CompileID string          `json:"compile_id,omitempty"`
	Query     string          `json:"query,omitempty"`
	Canonical json.RawMessage `json:"canonical,omitempty"`
	Leaves    int             `json:"leaves"`
	Degraded  []DegradedLeaf  `json:"degraded,omitempty"`
	Error     *CLIError       `json:"error,omitempty"`
}

// CompileResult holds every compiled input in argument order.
type CompileResult struct {
	Results []CompiledCondition `json:"results"`
	Failed  int                 `json:"failed"`

	canonical bool
}

// RenderText implements TextRenderer. A single input prints without its
// source prefix.
func (r CompileResult) RenderText(w io.Writer) error {
	for _, c := range r.Results {
		prefix := ""
		if len(r.Results) > 1 {
			prefix = c.Source + ": "
		}
		switch {
		case c.Error != nil:
			fmt.Fprintf(w, "%serror [%s]: %s\n", prefix, c.Error.Code, c.Error.Message)
		case r.canonical:
			fmt.Fprintf(w, "%s%s\n", prefix, c.Canonical)
		default:
			fmt.Fprintf(w, "%s%s\n", prefix, c.Query)
		}
		for _, d := range c.Degraded {
			fmt.Fprintf(w, "  degraded %s %s %s %q: %s\n", d.Code, d.Field, d.Operator, d.Value, d.Message)
		}
	}
	return nil
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [condition-file...]",
		Short: "Compile condition trees to search queries",
		Long: `Compile condition trees to search queries.

Each file holds one tree, as an XML document (.xml) or a YAML tree
(.yaml, .yml). With no files, or "-", the tree is read from stdin.
Several files are compiled in parallel and reported in argument order.

Leaves that cannot be compiled are reported as degraded and contribute
nothing, unless the configuration sets strict: true.

Exit codes:
  0 - Every input compiled
  1 - One or more inputs failed to compile
  2 - Command error (unreadable input, bad config path, etc.)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"-"}
			}
			return runCompile(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Canonical, "canonical", false, "print canonical JSON instead of the native rendering")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.GOMAXPROCS(0), "parallel compilations")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "write compile metrics to stderr when done")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, paths []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd)

	c, err := buildComponents(ctx, opts.RootOptions)
	if err != nil {
		return failLoad(formatter, err)
	}
	defer c.Close(ctx)

	formatter.VerboseLog("Compiling %d input(s) with the %s dialect", len(paths), c.Compiler.Dialect().Name())

	result := CompileResult{Results: make([]CompiledCondition, len(paths)), canonical: opts.Canonical}
	g, gctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			root, err := LoadCondition(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			result.Results[i] = compileOne(c.Compiler, path, root)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return failLoad(formatter, err)
	}

	for _, r := range result.Results {
		if r.Error != nil {
			result.Failed++
		}
	}

	var failure *CLIError
	if result.Failed > 0 {
		failure = &CLIError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%d input(s) failed to compile", result.Failed)}
		if len(result.Results) == 1 {
			failure = result.Results[0].Error
		}
	}
	if err := formatter.Report(result, failure); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	if opts.Metrics {
		if err := c.Metrics.WriteText(formatter.GetErrWriter()); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
	}
	if failure != nil {
		return NewExitError(ExitFailure, failure.Message)
	}
	return nil
}

// compileOne compiles one tree, turning compile errors into a result
// entry.
func compileOne(c *compiler.Compiler, source string, root condition.Node) CompiledCondition {
	out := CompiledCondition{Source: source}

	report, err := c.CompileReport(root)
	if err != nil {
		out.Error = compileCLIError(err)
		return out
	}

	out.CompileID = report.ID
	out.Query = query.String(report.Query)
	out.Leaves = report.Leaves
	canonical, err := query.MarshalCanonical(report.Query)
	if err != nil {
		out.Error = &CLIError{Code: ErrCodeGeneric, Message: fmt.Sprintf("canonical encoding: %v", err)}
		return out
	}
	out.Canonical = canonical

	for _, d := range report.Degraded {
		out.Degraded = append(out.Degraded, DegradedLeaf{
			Code:     string(d.Code),
			Field:    d.Field,
			Operator: string(d.Operator),
			Value:    d.Value,
			Message:  d.Message,
		})
	}
	return out
}

func compileCLIError(err error) *CLIError {
	var ce *compiler.CompileError
	if errors.As(err, &ce) {
		return &CLIError{
			Code:    MapCompileErrorCode(ce.Code),
			Message: ce.Error(),
			Details: map[string]string{"code": string(ce.Code)},
		}
	}
	return &CLIError{Code: ErrCodeGeneric, Message: err.Error()}
}

// failLoad reports an input or configuration error. A rejected
// configuration is a failure; anything else is a command error.
func failLoad(f *OutputFormatter, err error) error {
	code := loadErrorCode(err)
	exit := ExitCommandError
	if code == ErrCodeConfigInvalid {
		exit = ExitFailure
	}
	return f.Fail(exit, code, err.Error(), nil)
}
