package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/condex/internal/search"
)

func compiledResult() *Result {
	r := NewResult("s", "modern")
	r.Query = "+title:river"
	r.Degraded = []DegradedLeaf{{Code: "UNKNOWN_FIELD"}, {Code: "INVALID_VALUE"}}
	r.Hits = map[string][]search.DocID{
		EngineMemory: {1, 2},
		EngineSQLite: {1, 2},
	}
	return r
}

func TestAssertQuery(t *testing.T) {
	r := compiledResult()
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertQuery, Value: "+title:river"}, r))

	err := evaluateAssertion(Assertion{Type: AssertQuery, Value: "title:river"}, r)
	assert.ErrorContains(t, err, `expected query "title:river"`)

	r.Error = "STRUCTURAL"
	err = evaluateAssertion(Assertion{Type: AssertQuery, Value: "+title:river"}, r)
	assert.ErrorContains(t, err, "compilation failed with STRUCTURAL")
}

func TestAssertDegraded_Ordered(t *testing.T) {
	r := compiledResult()
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertDegraded, Codes: []string{"UNKNOWN_FIELD", "INVALID_VALUE"}}, r))
	assert.Error(t, evaluateAssertion(Assertion{Type: AssertDegraded, Codes: []string{"INVALID_VALUE", "UNKNOWN_FIELD"}}, r))
	assert.Error(t, evaluateAssertion(Assertion{Type: AssertDegraded}, r))

	r.Degraded = nil
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertDegraded}, r))
}

func TestAssertError(t *testing.T) {
	r := compiledResult()
	assert.ErrorContains(t, evaluateAssertion(Assertion{Type: AssertError, Code: "STRUCTURAL"}, r), "compilation succeeded")

	r.Error = "UNKNOWN_FIELD"
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertError, Code: "UNKNOWN_FIELD"}, r))
	assert.ErrorContains(t, evaluateAssertion(Assertion{Type: AssertError, Code: "STRUCTURAL"}, r), "got UNKNOWN_FIELD")
}

func TestAssertHits(t *testing.T) {
	r := compiledResult()
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertHits, Hits: []uint32{1, 2}}, r))

	r.Hits[EngineSQLite] = []search.DocID{1}
	err := evaluateAssertion(Assertion{Type: AssertHits, Hits: []uint32{1, 2}}, r)
	assert.ErrorContains(t, err, "sqlite: expected hits [1 2], got [1]")

	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertHits, Engine: EngineMemory, Hits: []uint32{1, 2}}, r))
}

func TestAssertHits_NoneMatchedEqualsEmpty(t *testing.T) {
	r := compiledResult()
	r.Hits = map[string][]search.DocID{EngineMemory: nil, EngineSQLite: {}}
	assert.NoError(t, evaluateAssertion(Assertion{Type: AssertHits, Hits: []uint32{}}, r))
}

func TestAssertHits_NotRecorded(t *testing.T) {
	r := compiledResult()
	r.Hits = nil
	err := evaluateAssertion(Assertion{Type: AssertHits, Hits: []uint32{1}}, r)
	assert.ErrorContains(t, err, "no memory hits recorded")
}

func TestEvaluateAssertions_SomeFail(t *testing.T) {
	r := compiledResult()
	s := &Scenario{Assertions: []Assertion{
		{Type: AssertQuery, Value: "+title:river"},
		{Type: AssertError, Code: "STRUCTURAL"},
		{Type: "bogus"},
	}}

	evaluateAssertions(s, r)

	assert.False(t, r.Pass)
	assert.Len(t, r.Errors, 2)
	assert.Contains(t, r.Errors[0], "assertions[1] (error)")
	assert.Contains(t, r.Errors[1], `unknown assertion type "bogus"`)
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	r := compiledResult()
	s := &Scenario{Assertions: []Assertion{
		{Type: AssertQuery, Value: "+title:river"},
		{Type: AssertHits, Hits: []uint32{1, 2}},
	}}

	evaluateAssertions(s, r)

	assert.True(t, r.Pass)
	assert.Empty(t, r.Errors)
}
