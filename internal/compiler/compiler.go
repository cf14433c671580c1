package compiler

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/roach88/condex/internal/analysis"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/query"
)

// Observer receives compile outcomes. internal/metrics provides the
// Prometheus implementation.
type Observer interface {
	// CompileFinished is called once per Compile with the number of
	// degraded leaves and the returned error, if any.
	CompileFinished(dialect string, elapsed time.Duration, degraded int, err error)
	// LeafDegraded is called for every leaf that contributed nothing.
	LeafDegraded(dialect string, code ErrorCode)
}

type nopObserver struct{}

func (nopObserver) CompileFinished(string, time.Duration, int, error) {}
func (nopObserver) LeafDegraded(string, ErrorCode)                    {}

// Options configures a Compiler.
type Options struct {
	// Registry resolves field names. Required.
	Registry *field.Registry

	// Analyzers tokenizes text values. Defaults to analysis.NewCache(Registry).
	Analyzers *analysis.Cache

	// Dialect encodes numeric and temporal comparisons. Defaults to the
	// modern dialect with default widths.
	Dialect Dialect

	// Logger receives one warning per degraded leaf. Defaults to a no-op.
	Logger *zap.Logger

	// Observer receives compile metrics. Defaults to a no-op.
	Observer Observer

	// Strict returns the first leaf failure instead of degrading the leaf.
	Strict bool

	// FuzzyMaxEdits is copied into every Fuzzy query; zero leaves the
	// choice to the backend.
	FuzzyMaxEdits int

	// NewID generates compile IDs. Defaults to random UUIDs.
	NewID func() string
}

// Compiler translates condition trees into backend queries. It is
// immutable after New and safe for concurrent use.
type Compiler struct {
	registry      *field.Registry
	analyzers     *analysis.Cache
	dialect       Dialect
	log           *zap.Logger
	observer      Observer
	strict        bool
	fuzzyMaxEdits int
	newID         func() string
}

// New builds a Compiler.
func New(opts Options) (*Compiler, error) {
	if opts.Registry == nil {
		return nil, errors.New("compiler: registry is required")
	}
	if opts.FuzzyMaxEdits < 0 {
		return nil, fmt.Errorf("compiler: fuzzy max edits must be >= 0, got %d", opts.FuzzyMaxEdits)
	}
	c := &Compiler{
		registry:      opts.Registry,
		analyzers:     opts.Analyzers,
		dialect:       opts.Dialect,
		log:           opts.Logger,
		observer:      opts.Observer,
		strict:        opts.Strict,
		fuzzyMaxEdits: opts.FuzzyMaxEdits,
		newID:         opts.NewID,
	}
	if c.analyzers == nil {
		c.analyzers = analysis.NewCache(opts.Registry)
	}
	if c.dialect == nil {
		d, err := NewDialect(DialectConfig{})
		if err != nil {
			return nil, err
		}
		c.dialect = d
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.observer == nil {
		c.observer = nopObserver{}
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c, nil
}

// Dialect returns the dialect the compiler encodes with.
func (c *Compiler) Dialect() Dialect { return c.dialect }

// Registry returns the field registry.
func (c *Compiler) Registry() *field.Registry { return c.registry }

// Analyzers returns the analyzer cache.
func (c *Compiler) Analyzers() *analysis.Cache { return c.analyzers }

// Report is the full outcome of one compilation.
type Report struct {
	// ID correlates the log lines of one compilation.
	ID string

	// Query is the compiled query; never nil when err is nil.
	Query query.Query

	// Degraded lists the leaves that contributed nothing, in document
	// order.
	Degraded []*CompileError

	// Leaves is the number of leaves in the tree.
	Leaves int
}

// Compile translates root into a backend query.
func (c *Compiler) Compile(root condition.Node) (query.Query, error) {
	r, err := c.CompileReport(root)
	if err != nil {
		return nil, err
	}
	return r.Query, nil
}

// CompileReport is Compile with the degraded leaves and compile ID.
func (c *Compiler) CompileReport(root condition.Node) (*Report, error) {
	start := time.Now()
	run := &compilation{c: c, report: &Report{ID: c.newID()}}

	q, err := run.compile(root)
	elapsed := time.Since(start)
	c.observer.CompileFinished(c.dialect.Name(), elapsed, len(run.report.Degraded), err)
	if err != nil {
		c.log.Debug("compile failed",
			zap.String("compile_id", run.report.ID),
			zap.Error(err),
		)
		return nil, err
	}

	run.report.Query = q
	c.log.Debug("compiled condition tree",
		zap.String("compile_id", run.report.ID),
		zap.String("dialect", c.dialect.Name()),
		zap.Int("leaves", run.report.Leaves),
		zap.Int("degraded", len(run.report.Degraded)),
		zap.Duration("elapsed", elapsed),
	)
	return run.report, nil
}

// compilation is the per-call state of one Compile.
type compilation struct {
	c      *Compiler
	report *Report
}

func (r *compilation) compile(root condition.Node) (query.Query, error) {
	if err := condition.Validate(root); err != nil {
		return nil, structural(err)
	}
	q, err := r.node(root, true)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return query.Boolean{}, nil
	}
	return q, nil
}

// node compiles n. A nil query means n contributes nothing.
func (r *compilation) node(n condition.Node, required bool) (query.Query, error) {
	switch node := n.(type) {
	case condition.Condition:
		return r.leaf(node, required)
	case *condition.Condition:
		return r.leaf(*node, required)
	case condition.Group:
		return r.group(node)
	case *condition.Group:
		return r.group(*node)
	case nil:
		return nil, nil
	default:
		return nil, structural(fmt.Errorf("unknown node type %T", n))
	}
}

func (r *compilation) group(g condition.Group) (query.Query, error) {
	var (
		occur    query.Occur
		required bool
	)
	switch g.Op {
	case condition.AndOp:
		occur, required = query.Must, true
	case condition.OrOp:
		occur, required = query.Should, false
	case condition.NotOp:
		// never both required and prohibited
		occur, required = query.MustNot, false
	default:
		return nil, structural(fmt.Errorf("unknown combinator %q", g.Op))
	}

	var out query.Boolean
	for _, child := range g.Children {
		q, err := r.node(child, required)
		if err != nil {
			return nil, err
		}
		if q == nil {
			continue
		}
		out.Clauses = append(out.Clauses, query.Clause{Query: q, Occur: occur})
	}
	if len(out.Clauses) == 0 {
		return nil, nil
	}
	return out, nil
}

func (r *compilation) leaf(cond condition.Condition, required bool) (query.Query, error) {
	r.report.Leaves++
	q, err := r.c.compileLeaf(cond, required)
	if err == nil {
		return q, nil
	}

	ce := leafError(cond, err)
	if r.c.strict {
		return nil, ce
	}
	r.report.Degraded = append(r.report.Degraded, ce)
	r.c.leafDegraded(r.report.ID, ce, false)
	return nil, nil
}

// Replay logs and counts the degraded leaves of an earlier report again.
// Callers serving a cached compilation use it so every compile that drops
// a leaf is visible, not only the first.
func (c *Compiler) Replay(r *Report) {
	for _, ce := range r.Degraded {
		c.leafDegraded(r.ID, ce, true)
	}
}

func (c *Compiler) leafDegraded(id string, ce *CompileError, cached bool) {
	c.observer.LeafDegraded(c.dialect.Name(), ce.Code)
	c.log.Warn("condition contributes nothing",
		zap.String("compile_id", id),
		zap.String("field", ce.Field),
		zap.String("operator", string(ce.Operator)),
		zap.String("value", ce.Value),
		zap.String("code", string(ce.Code)),
		zap.String("reason", ce.Message),
		zap.Bool("cached", cached),
	)
}

func (c *Compiler) compileLeaf(cond condition.Condition, required bool) (query.Query, error) {
	def, err := c.registry.Resolve(cond.Field)
	if err != nil {
		return nil, err
	}
	apply, ok := rules[ruleKey{def.Type, cond.Operator}]
	if !ok {
		return nil, unsupported(def.Type, cond.Operator)
	}
	return apply(c, leaf{def: def, cond: cond, required: required})
}
