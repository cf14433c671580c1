package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/condex/internal/search"
)

func TestRun_MinimalScenario(t *testing.T) {
	scenario, err := ParseScenario([]byte(validScenario))
	require.NoError(t, err)

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, "legacy", result.Dialect)
	assert.Equal(t, "title:river", result.Query)
	assert.Equal(t, []search.DocID{7}, result.Hits[EngineMemory])
	assert.Equal(t, []search.DocID{7}, result.Hits[EngineSQLite])
}

func TestRun_FailedAssertionsAreReported(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong
description: "every assertion is wrong"
config:
  fields:
    year: { type: integer }
condition:
  and:
    - condition: { field: year, operator: eq, value: "5" }
    - condition: { field: missing, operator: eq, value: "5" }
documents:
  - id: 1
    fields: { year: "5" }
assertions:
  - type: query
    value: "year:5"
  - type: degraded
  - type: error
    code: STRUCTURAL
  - type: hits
    hits: [2]
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "expected query")
	assert.Contains(t, result.Errors[1], "UNKNOWN_FIELD")
	assert.Contains(t, result.Errors[2], "compilation succeeded")
	assert.Contains(t, result.Errors[3], "expected hits [2]")
}

func TestRun_CompileErrorIsAResult(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: strict
description: "strict mode turns a degraded leaf into an error"
config:
  strict: true
  fields:
    year: { type: integer }
condition:
  condition: { field: missing, operator: eq, value: "5" }
documents:
  - id: 1
    fields: { year: "5" }
assertions:
  - type: error
    code: UNKNOWN_FIELD
`))
	require.NoError(t, err)

	result, err := Run(context.Background(), scenario)
	require.NoError(t, err)

	assert.Empty(t, result.Query)
	assert.Nil(t, result.Hits)
	assert.Equal(t, "UNKNOWN_FIELD", result.Error)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_UnindexableDocumentFails(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: bad_doc
description: "documents must encode"
config:
  fields:
    year: { type: integer }
condition:
  condition: { field: year, operator: eq, value: "5" }
documents:
  - id: 1
    fields: { year: "five" }
assertions:
  - type: degraded
`))
	require.NoError(t, err)

	_, err = Run(context.Background(), scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "memory index")
}
