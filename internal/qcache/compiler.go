package qcache

import (
	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/query"
)

// Observer receives cache lookups. internal/metrics provides the
// Prometheus implementation.
type Observer interface {
	CacheLookup(hit bool)
}

type nopObserver struct{}

func (nopObserver) CacheLookup(bool) {}

// CachingCompiler fronts a compiler.Compiler with an LRU.
type CachingCompiler struct {
	compiler *compiler.Compiler
	cache    *LRU
	observer Observer
}

// New wraps c with a cache of size entries. observer may be nil.
func New(c *compiler.Compiler, size int, observer Observer) *CachingCompiler {
	if observer == nil {
		observer = nopObserver{}
	}
	return &CachingCompiler{compiler: c, cache: NewLRU(size), observer: observer}
}

// Compiler returns the wrapped compiler.
func (cc *CachingCompiler) Compiler() *compiler.Compiler { return cc.compiler }

// Cache returns the underlying LRU.
func (cc *CachingCompiler) Cache() *LRU { return cc.cache }

// Compile returns the cached query for root, compiling it on a miss.
// Structurally invalid trees are never cached.
func (cc *CachingCompiler) Compile(root condition.Node) (query.Query, error) {
	r, err := cc.CompileReport(root)
	if err != nil {
		return nil, err
	}
	return r.Query, nil
}

// CompileReport is Compile with the compile report. A hit returns the
// report of the compilation that filled the entry, after replaying its
// degraded leaves to the compiler's logger and observer.
func (cc *CachingCompiler) CompileReport(root condition.Node) (*compiler.Report, error) {
	if err := condition.Validate(root); err != nil {
		return cc.compiler.CompileReport(root)
	}

	key := KeyOf(cc.compiler.Dialect().Name(), root)
	if r, ok := cc.cache.Get(key); ok {
		cc.observer.CacheLookup(true)
		cc.compiler.Replay(r)
		return r, nil
	}
	cc.observer.CacheLookup(false)

	r, err := cc.compiler.CompileReport(root)
	if err != nil {
		return nil, err
	}
	cc.cache.Put(key, r)
	return r, nil
}
