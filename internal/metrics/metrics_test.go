package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condex/internal/compiler"
	"github.com/roach88/condex/internal/condition"
	"github.com/roach88/condex/internal/qcache"
	condextest "github.com/roach88/condex/internal/testutil"
)

var (
	_ compiler.Observer = (*Metrics)(nil)
	_ qcache.Observer   = (*Metrics)(nil)
)

func TestCompileFinished_Status(t *testing.T) {
	m := New(Config{})
	m.CompileFinished("modern", time.Millisecond, 0, nil)
	m.CompileFinished("modern", time.Millisecond, 2, nil)
	m.CompileFinished("legacy", time.Millisecond, 0, errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilesTotal.WithLabelValues("modern", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilesTotal.WithLabelValues("modern", "degraded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilesTotal.WithLabelValues("legacy", "error")))
}

func TestObserverWiredIntoCompiler(t *testing.T) {
	m := New(Config{ServiceName: "test"})
	c, err := compiler.New(compiler.Options{Registry: condextest.Registry(), Observer: m})
	require.NoError(t, err)

	_, err = c.Compile(condition.And(
		condition.Cond("title", condition.Contains, "river"),
		condition.Cond("nosuch", condition.Eq, "x"),
		condition.Cond("year", condition.Neq, "1"),
	))
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.compilesTotal.WithLabelValues("modern", "degraded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.degradedLeaves.WithLabelValues("modern", string(compiler.ErrCodeUnknownField))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.degradedLeaves.WithLabelValues("modern", string(compiler.ErrCodeUnsupportedOperator))))
}

func TestCacheLookup(t *testing.T) {
	m := New(Config{})
	m.CacheLookup(true)
	m.CacheLookup(false)
	m.CacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
}

func TestExposition(t *testing.T) {
	m := New(Config{ServiceName: "condex", EnableDefaultCollectors: true})
	m.CacheLookup(true)

	var b strings.Builder
	require.NoError(t, m.WriteText(&b))
	assert.Contains(t, b.String(), `condex_cache_lookups_total{result="hit",service="condex"} 1`)
	assert.Contains(t, b.String(), "go_goroutines")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "condex_cache_lookups_total")
}
