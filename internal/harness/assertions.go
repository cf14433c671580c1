package harness

import (
	"fmt"
	"slices"
)

// evaluateAssertions checks every scenario assertion against the result,
// recording one error per failed assertion.
func evaluateAssertions(scenario *Scenario, result *Result) {
	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(a, result); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
}

func evaluateAssertion(a Assertion, result *Result) error {
	switch a.Type {
	case AssertQuery:
		return assertQuery(a, result)
	case AssertDegraded:
		return assertDegraded(a, result)
	case AssertError:
		return assertError(a, result)
	case AssertHits:
		return assertHits(a, result)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

func assertQuery(a Assertion, result *Result) error {
	if result.Error != "" {
		return fmt.Errorf("compilation failed with %s", result.Error)
	}
	if result.Query != a.Value {
		return fmt.Errorf("expected query %q, got %q", a.Value, result.Query)
	}
	return nil
}

func assertDegraded(a Assertion, result *Result) error {
	got := result.DegradedCodes()
	if !slices.Equal(got, a.Codes) {
		return fmt.Errorf("expected degraded codes %v, got %v", a.Codes, got)
	}
	return nil
}

func assertError(a Assertion, result *Result) error {
	if result.Error == "" {
		return fmt.Errorf("expected compile error %s, compilation succeeded", a.Code)
	}
	if result.Error != a.Code {
		return fmt.Errorf("expected compile error %s, got %s", a.Code, result.Error)
	}
	return nil
}

func assertHits(a Assertion, result *Result) error {
	engines := Engines
	if a.Engine != "" {
		engines = []string{a.Engine}
	}
	for _, engine := range engines {
		got, ok := result.Hits[engine]
		if !ok {
			return fmt.Errorf("no %s hits recorded", engine)
		}
		if !slices.Equal(got, a.Hits) {
			return fmt.Errorf("%s: expected hits %v, got %v", engine, a.Hits, got)
		}
	}
	return nil
}
