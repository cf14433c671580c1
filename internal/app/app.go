// Package app assembles the condex object graph with fx: configuration,
// logger, metrics, field registry, dialect, compiler and compiled-query
// cache.
//
// Usage:
//
//	c, err := app.Build(ctx, cfg)
//	if err != nil { ... }
//	defer c.Close(ctx)
//	q, err := c.Cache.Compile(tree)
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/roach88/condex/internal/analysis"
	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/config"
	"github.com/roach88/condex/internal/field"
	"github.com/roach88/condex/internal/logging"
	"github.com/roach88/condex/internal/metrics"
	"github.com/roach88/condex/internal/qcache"
)

// Module provides every condex component. A *config.Config must be
// supplied.
var Module = fx.Module("condex",
	fx.Provide(
		NewLogger,
		NewMetrics,
		NewRegistry,
		NewAnalyzers,
		NewDialect,
		NewCompiler,
		NewCachingCompiler,
	),
	fx.Invoke(RegisterLoggerLifecycle),
)

// NewLogger builds the logger from the logging section.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging)
}

// NewMetrics builds the metrics registry.
func NewMetrics(cfg *config.Config) *metrics.Metrics {
	return metrics.New(cfg.Metrics)
}

// NewRegistry builds the field registry.
func NewRegistry(cfg *config.Config) (*field.Registry, error) {
	return cfg.Registry()
}

// NewAnalyzers builds the analyzer cache for the registry.
func NewAnalyzers(reg *field.Registry) *analysis.Cache {
	return analysis.NewCache(reg)
}

// NewDialect builds the configured dialect.
func NewDialect(cfg *config.Config) (compiler.Dialect, error) {
	return compiler.NewDialect(cfg.DialectConfig())
}

// CompilerParams are the dependencies of NewCompiler.
type CompilerParams struct {
	fx.In

	Config    *config.Config
	Registry  *field.Registry
	Analyzers *analysis.Cache
	Dialect   compiler.Dialect
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

// NewCompiler builds the compiler.
func NewCompiler(p CompilerParams) (*compiler.Compiler, error) {
	return compiler.New(compiler.Options{
		Registry:      p.Registry,
		Analyzers:     p.Analyzers,
		Dialect:       p.Dialect,
		Logger:        p.Logger.Named("compiler"),
		Observer:      p.Metrics,
		Strict:        p.Config.Strict,
		FuzzyMaxEdits: p.Config.FuzzyMaxEdits,
	})
}

// NewCachingCompiler wraps the compiler with the compiled-query cache.
func NewCachingCompiler(cfg *config.Config, c *compiler.Compiler, m *metrics.Metrics) *qcache.CachingCompiler {
	return qcache.New(c, cfg.CacheSize, m)
}

// RegisterLoggerLifecycle flushes the logger on shutdown.
func RegisterLoggerLifecycle(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// stderr cannot be synced on every platform
			_ = log.Sync()
			return nil
		},
	})
}

// Components is the started object graph.
type Components struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Compiler *compiler.Compiler
	Cache    *qcache.CachingCompiler

	app *fx.App
}

// Build constructs and starts the graph for cfg.
func Build(ctx context.Context, cfg *config.Config) (*Components, error) {
	c := &Components{Config: cfg}
	c.app = fx.New(
		fx.NopLogger,
		fx.Supply(cfg),
		Module,
		fx.Populate(&c.Logger, &c.Metrics, &c.Compiler, &c.Cache),
	)
	if err := c.app.Err(); err != nil {
		return nil, err
	}
	if err := c.app.Start(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Close stops the graph.
func (c *Components) Close(ctx context.Context) error {
	return c.app.Stop(ctx)
}
