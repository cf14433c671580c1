package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/condex/internal/app"
	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/logging"
	"github.com/roach88/condex/internal/query"
	"github.com/roach88/condex/internal/search"
	"github.com/roach88/condex/internal/search/memindex"
	"github.com/roach88/condex/internal/search/sqlindex"
)

// Harness is the test execution engine for one scenario.
type Harness struct {
	components *app.Components
	indexer    *search.Indexer
}

// Run executes a test scenario and returns the result.
//
// Each scenario builds its own component graph and, when it has
// documents, a fresh in-memory index and in-memory SQLite database.
//
// Execution flow:
// 1. Build the components from the scenario config
// 2. Compile the condition tree
// 3. Index the documents and execute the query on every engine
// 4. Evaluate the assertions
//
// A compile error is a result, not a failure of Run; errors are returned
// only when the scenario cannot be executed at all.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg := scenario.Config
	// Degraded leaves are part of the result; keep their warnings quiet.
	cfg.Logging.Level = logging.Error

	components, err := app.Build(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build components: %w", err)
	}
	defer components.Close(ctx)

	h := &Harness{
		components: components,
		indexer:    search.NewIndexer(components.Compiler),
	}

	result := NewResult(scenario.Name, components.Compiler.Dialect().Name())
	q, err := h.compile(scenario, result)
	if err != nil {
		return nil, err
	}

	if q != nil && len(scenario.Documents) > 0 {
		if err := h.search(ctx, scenario, q, result); err != nil {
			return nil, err
		}
	}

	evaluateAssertions(scenario, result)
	return result, nil
}

// compile records the rendering and degraded leaves, or the compile error
// code. The returned query is nil when compilation failed.
func (h *Harness) compile(scenario *Scenario, result *Result) (query.Query, error) {
	report, err := h.components.Compiler.CompileReport(scenario.Condition.Root)
	if err != nil {
		var ce *compiler.CompileError
		if !errors.As(err, &ce) {
			return nil, fmt.Errorf("compile: %w", err)
		}
		result.Error = string(ce.Code)
		return nil, nil
	}

	result.Query = query.String(report.Query)
	for _, d := range report.Degraded {
		result.Degraded = append(result.Degraded, DegradedLeaf{
			Code:     string(d.Code),
			Field:    d.Field,
			Operator: string(d.Operator),
			Value:    d.Value,
		})
	}

	// The cache must agree with the direct compilation.
	cached, err := h.components.Cache.Compile(scenario.Condition.Root)
	if err != nil {
		return nil, fmt.Errorf("cached compile: %w", err)
	}
	if got := query.String(cached); got != result.Query {
		result.AddError(fmt.Sprintf("cached compile rendered %q, want %q", got, result.Query))
	}
	return report.Query, nil
}

// search indexes the scenario documents into every engine and records the
// hits of q.
func (h *Harness) search(ctx context.Context, scenario *Scenario, q query.Query, result *Result) error {
	docs := make([]search.Document, len(scenario.Documents))
	for i, d := range scenario.Documents {
		docs[i] = search.Document{ID: d.ID, Fields: d.Fields}
	}
	result.Hits = make(map[string][]search.DocID, len(Engines))

	mem := memindex.New(h.indexer)
	if err := mem.Add(docs...); err != nil {
		return fmt.Errorf("memory index: %w", err)
	}
	hits, err := mem.Execute(ctx, q)
	if err != nil {
		return fmt.Errorf("memory search: %w", err)
	}
	result.Hits[EngineMemory] = hits

	st, err := sqlindex.Open(":memory:")
	if err != nil {
		return fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	sx := sqlindex.New(st, h.indexer)
	if err := sx.Add(ctx, docs...); err != nil {
		return fmt.Errorf("sqlite index: %w", err)
	}
	hits, err = sx.Execute(ctx, q)
	if err != nil {
		return fmt.Errorf("sqlite search: %w", err)
	}
	result.Hits[EngineSQLite] = hits
	return nil
}
