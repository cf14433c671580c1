package harness

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/roach88/condex/internal/search"
)

// DegradedLeaf is a leaf that contributed nothing to the compiled query.
type DegradedLeaf struct {
	Code     string `json:"code"`
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if all assertions hold.
	Pass bool `json:"pass"`

	// Scenario and Dialect identify the run.
	Scenario string `json:"scenario"`
	Dialect  string `json:"dialect"`

	// Query is the rendered compiled query. Empty when compilation
	// failed.
	Query string `json:"query,omitempty"`

	// Error is the compile error code when compilation failed.
	Error string `json:"error,omitempty"`

	Degraded []DegradedLeaf `json:"degraded,omitempty"`

	// Hits holds the matching documents per engine. Nil when the scenario
	// has no documents or compilation failed.
	Hits map[string][]search.DocID `json:"hits,omitempty"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(scenario, dialect string) *Result {
	return &Result{
		Pass:     true,
		Scenario: scenario,
		Dialect:  dialect,
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// DegradedCodes returns the codes of the degraded leaves in order.
func (r *Result) DegradedCodes() []string {
	codes := make([]string, len(r.Degraded))
	for i, d := range r.Degraded {
		codes[i] = d.Code
	}
	return codes
}

// Snapshot renders the deterministic part of the result as text, one
// fact per line. Engines are listed in name order.
func (r *Result) Snapshot() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "scenario: %s\n", r.Scenario)
	fmt.Fprintf(&b, "dialect: %s\n", r.Dialect)
	if r.Error != "" {
		fmt.Fprintf(&b, "error: %s\n", r.Error)
	} else {
		fmt.Fprintf(&b, "query: %s\n", r.Query)
	}
	for _, d := range r.Degraded {
		fmt.Fprintf(&b, "degraded: %s %s %s %q\n", d.Code, d.Field, d.Operator, d.Value)
	}

	engines := make([]string, 0, len(r.Hits))
	for engine := range r.Hits {
		engines = append(engines, engine)
	}
	sort.Strings(engines)
	for _, engine := range engines {
		fmt.Fprintf(&b, "hits[%s]: %v\n", engine, r.Hits[engine])
	}
	return b.Bytes()
}
